package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/handlers/post"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/middleware"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/posts"
)

// RegisterPostRoutes registers post and engagement endpoints
func RegisterPostRoutes(r chi.Router, postService posts.Service) {
	crudHandler := post.NewCrudHandler(postService)
	engageHandler := post.NewEngageHandler(postService)

	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/search", crudHandler.HandleSearch)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePrincipal)
			r.Post("/", crudHandler.HandleCreate)
		})

		r.Route("/{ref}", func(r chi.Router) {
			r.Get("/", crudHandler.HandleGet)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePrincipal)
				r.Patch("/", crudHandler.HandleUpdate)
				r.Delete("/", crudHandler.HandleDelete)
				r.Post("/like", engageHandler.HandleLike)
				r.Delete("/like", engageHandler.HandleUnlike)
				r.Post("/share", engageHandler.HandleShare)
				r.Delete("/share", engageHandler.HandleUnshare)
			})
		})
	})
}
