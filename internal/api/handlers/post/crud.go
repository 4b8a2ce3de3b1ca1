package post

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/handlers"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/middleware"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/posts"
)

// CrudHandler serves post creation, resolution, update, delete, and search
type CrudHandler struct {
	service posts.Service
}

func NewCrudHandler(service posts.Service) *CrudHandler {
	return &CrudHandler{service: service}
}

type createRequest struct {
	Content    string           `json:"content"`
	Visibility posts.Visibility `json:"visibility"`
	Sensitive  bool             `json:"sensitive"`
	InReplyTo  *string          `json:"inReplyTo,omitempty"`
}

// HandleCreate authors a post as the authenticated principal
// POST /api/posts
func (h *CrudHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r)
	if !ok {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	created, err := h.service.Create(r.Context(), posts.CreatePostRequest{
		AuthorID:   principal.ActorID,
		Content:    req.Content,
		Visibility: req.Visibility,
		Sensitive:  req.Sensitive,
		InReplyTo:  req.InReplyTo,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, created)
}

// HandleGet resolves a post reference in any supported identifier space
// GET /api/posts/{ref}
func (h *CrudHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Resolve(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, post)
}

// HandleUpdate applies a partial patch after the ownership check
// PATCH /api/posts/{ref}
func (h *CrudHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r)
	if !ok {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var input posts.UpdatePostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "ref"), principal, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, updated)
}

// HandleDelete removes a post after the ownership check
// DELETE /api/posts/{ref}
func (h *CrudHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r)
	if !ok {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "ref"), principal); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSearch finds public posts by content
// GET /api/posts/search?q=...&limit=...&offset=...
func (h *CrudHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
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
