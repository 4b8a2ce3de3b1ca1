package actor

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/handlers"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/actors"
)

// GetHandler serves actor resolution and search
type GetHandler struct {
	service actors.Service
}

func NewGetHandler(service actors.Service) *GetHandler {
	return &GetHandler{service: service}
}

// HandleGet resolves an actor reference in any supported identifier space
// GET /api/actors/{ref}
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	actor, err := h.service.Resolve(r.Context(), ref)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, actor)
}

// HandleSearch finds actors by handle or display name
// GET /api/actors/search?q=...&limit=...&offset=...
func (h *GetHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	result, err := h.service.Search(r.Context(), q, limit, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}
