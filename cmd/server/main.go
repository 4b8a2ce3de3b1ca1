package main

import (
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/middleware"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/routes"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/config"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/actors"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/follows"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/posts"
	postgresRepo "github.com/ForYouPage-Org/saturn-api-sub000/internal/db/postgres"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/notify"
)

func main() {
	cfg, err := config.Load(os.Getenv("SATURN_CONFIG"))
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Connected to database")

	// Run migrations
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("Failed to set goose dialect:", err)
	}
	if err := goose.Up(db, "internal/db/migrations"); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	log.Println("Migrations completed successfully")

	// Bootstrap: the configured admin handle gets the admin flag if the
	// actor already exists. Registration order doesn't matter on redeploys.
	if cfg.AdminHandle != "" {
		if _, err := db.Exec(`UPDATE actors SET admin = TRUE WHERE handle = $1`, cfg.AdminHandle); err != nil {
			log.Fatal("Failed to flag admin actor:", err)
		}
	}

	// Repositories
	actorRepo := postgresRepo.NewActorRepository(db)
	postRepo := postgresRepo.NewPostRepository(db)
	followRepo := postgresRepo.NewFollowRepository(db)

	// Notification trigger is best-effort and never blocks a mutation
	notifier := notify.NewAsyncNotifier(notify.NewLogNotifier(logger), logger)

	// Services
	actorService := actors.NewService(actorRepo, cfg.BaseURL(), logger)
	postService := posts.NewService(postRepo, notifier, cfg.BaseURL(), logger)
	followManager := follows.NewManager(followRepo, logger)
	followService := follows.NewService(followManager, followRepo, actorService, notifier, logger)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Principal)

	routes.RegisterActorRoutes(r, actorService, followService, postService, cfg.BaseURL())
	routes.RegisterPostRoutes(r, postService)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	log.Printf("Saturn API starting on %s (domain %s)", cfg.ListenAddr, cfg.Domain)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, r))
}
