package actor

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/handlers"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/middleware"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/follows"
)

// FollowHandler serves follow-graph operations
type FollowHandler struct {
	service follows.Service
}

func NewFollowHandler(service follows.Service) *FollowHandler {
	return &FollowHandler{service: service}
}

type followResponse struct {
	Changed bool `json:"changed"`
}

// HandleFollow creates a follow edge toward the referenced actor
// POST /api/actors/{ref}/follow
func (h *FollowHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r)
	if !ok {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	changed, err := h.service.Follow(r.Context(), principal, chi.URLParam(r, "ref"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, followResponse{Changed: changed})
}

// HandleUnfollow removes the follow edge. Removing an absent edge is a
// successful no-op.
// DELETE /api/actors/{ref}/follow
func (h *FollowHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r)
	if !ok {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	changed, err := h.service.Unfollow(r.Context(), principal, chi.URLParam(r, "ref"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, followResponse{Changed: changed})
}

// HandleFollowers lists the referenced actor's followers
// GET /api/actors/{ref}/followers?page=...&limit=...
func (h *FollowHandler) HandleFollowers(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	result, err := h.service.Followers(r.Context(), chi.URLParam(r, "ref"), page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}

// HandleFollowing lists who the referenced actor follows
// GET /api/actors/{ref}/following?page=...&limit=...
func (h *FollowHandler) HandleFollowing(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	result, err := h.service.Following(r.Context(), chi.URLParam(r, "ref"), page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}

func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}
