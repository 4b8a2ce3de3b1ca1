package actor

import (
	"errors"
	"log"
	"net/http"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/handlers"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/actors"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/authz"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/follows"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/identity"
)

// handleServiceError converts service errors to HTTP responses without
// leaking store details
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, actors.ErrNotFound):
		handlers.WriteError(w, http.StatusNotFound, "ActorNotFound", "No actor matches this reference")
	case errors.Is(err, follows.ErrFollowerNotFound):
		handlers.WriteError(w, http.StatusNotFound, "FollowerNotFound", "Follower does not exist")
	case errors.Is(err, follows.ErrFolloweeNotFound):
		handlers.WriteError(w, http.StatusNotFound, "FolloweeNotFound", "Followee does not exist")
	case errors.Is(err, follows.ErrSelfFollow):
		handlers.WriteError(w, http.StatusBadRequest, "SelfFollow", "An actor cannot follow itself")
	case errors.Is(err, actors.ErrHandleTaken):
		handlers.WriteError(w, http.StatusConflict, "HandleTaken", "Handle is already in use")
	case errors.Is(err, actors.ErrURITaken):
		handlers.WriteError(w, http.StatusConflict, "URITaken", "Actor URI already exists")
	case errors.Is(err, actors.ErrInvalidHandle):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidHandle", "Handle format is invalid")
	case errors.Is(err, actors.ErrInvalidURI):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidURI", "Actor URI must be scheme-prefixed")
	case errors.Is(err, actors.ErrCredentialRequired):
		handlers.WriteError(w, http.StatusBadRequest, "CredentialRequired", "Credential hash is required")
	case authz.IsForbidden(err):
		handlers.WriteError(w, http.StatusForbidden, "Forbidden", "Not allowed to modify this actor")
	case identity.IsBadReference(err):
		handlers.WriteError(w, http.StatusNotFound, "BadReference", "Reference is not usable")
	default:
		log.Printf("actor handler error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
