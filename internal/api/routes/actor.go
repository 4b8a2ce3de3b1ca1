package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/handlers/actor"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/handlers/feed"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/middleware"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/actors"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/follows"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/posts"
)

// RegisterActorRoutes registers actor, follow-graph, and feed endpoints
func RegisterActorRoutes(
	r chi.Router,
	actorService actors.Service,
	followService follows.Service,
	postService posts.Service,
	baseURL string,
) {
	getHandler := actor.NewGetHandler(actorService)
	manageHandler := actor.NewManageHandler(actorService)
	followHandler := actor.NewFollowHandler(followService)
	rssHandler := feed.NewRSSHandler(actorService, postService, baseURL)

	r.Route("/api/actors", func(r chi.Router) {
		r.Post("/", manageHandler.HandleRegister)
		r.Get("/search", getHandler.HandleSearch)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePrincipal)
			r.Post("/remote", manageHandler.HandleCreateRemote)
		})

		r.Route("/{ref}", func(r chi.Router) {
			r.Get("/", getHandler.HandleGet)
			r.Get("/followers", followHandler.HandleFollowers)
			r.Get("/following", followHandler.HandleFollowing)
			r.Get("/feed.rss", rssHandler.HandleRSS)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePrincipal)
				r.Patch("/", manageHandler.HandleUpdateProfile)
				r.Delete("/", manageHandler.HandleDelete)
				r.Post("/follow", followHandler.HandleFollow)
				r.Delete("/follow", followHandler.HandleUnfollow)
			})
		})
	})
}
