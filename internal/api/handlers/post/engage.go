package post

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/handlers"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/middleware"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/posts"
)

// EngageHandler serves the like/unlike/share/unshare toggles
type EngageHandler struct {
	service posts.Service
}

func NewEngageHandler(service posts.Service) *EngageHandler {
	return &EngageHandler{service: service}
}

// HandleLike handles POST /api/posts/{ref}/like
func (h *EngageHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.service.Like)
}

// HandleUnlike handles DELETE /api/posts/{ref}/like
func (h *EngageHandler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.service.Unlike)
}

// HandleShare handles POST /api/posts/{ref}/share
func (h *EngageHandler) HandleShare(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.service.Share)
}

// HandleUnshare handles DELETE /api/posts/{ref}/share
func (h *EngageHandler) HandleUnshare(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.service.Unshare)
}

func (h *EngageHandler) engage(w http.ResponseWriter, r *http.Request, op func(context.Context, string, uuid.UUID) (*posts.Post, error)) {
	principal, ok := middleware.PrincipalFrom(r)
	if !ok {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	post, err := op(r.Context(), chi.URLParam(r, "ref"), principal.ActorID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, post)
}
