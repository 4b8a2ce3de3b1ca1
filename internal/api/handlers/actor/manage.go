package actor

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/handlers"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/middleware"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/actors"
)

// ManageHandler serves actor registration, profile updates, and deletion
type ManageHandler struct {
	service actors.Service
}

func NewManageHandler(service actors.Service) *ManageHandler {
	return &ManageHandler{service: service}
}

type registerRequest struct {
	Handle         string `json:"handle"`
	DisplayName    string `json:"displayName"`
	Summary        string `json:"summary"`
	CredentialHash string `json:"credentialHash"`
}

// HandleRegister registers a local actor. The credential hash arrives
// precomputed from the authentication collaborator.
// POST /api/actors
func (h *ManageHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	actor, err := h.service.Register(r.Context(), actors.RegisterRequest{
		Handle:         req.Handle,
		DisplayName:    req.DisplayName,
		Summary:        req.Summary,
		CredentialHash: req.CredentialHash,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, actor)
}

// HandleCreateRemote imports a remote actor on first fetch
// POST /api/actors/remote
func (h *ManageHandler) HandleCreateRemote(w http.ResponseWriter, r *http.Request) {
	var req actors.CreateRemoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	actor, err := h.service.CreateRemote(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, actor)
}

// HandleUpdateProfile applies a partial profile patch
// PATCH /api/actors/{ref}
func (h *ManageHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r)
	if !ok {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	var input actors.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	actor, err := h.service.UpdateProfile(r.Context(), chi.URLParam(r, "ref"), principal, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, actor)
}

// HandleDelete detaches an actor
// DELETE /api/actors/{ref}
func (h *ManageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
