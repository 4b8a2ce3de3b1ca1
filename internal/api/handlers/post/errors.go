package post

import (
	"errors"
	"log"
	"net/http"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/handlers"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/authz"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/identity"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/posts"
)

// handleServiceError converts service errors to HTTP responses without
// leaking store details
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, posts.ErrNotFound):
		handlers.WriteError(w, http.StatusNotFound, "PostNotFound", "No post matches this reference")
	case errors.Is(err, posts.ErrActorNotFound):
		handlers.WriteError(w, http.StatusNotFound, "ActorNotFound", "Actor does not exist")
	case errors.Is(err, posts.ErrURITaken):
		handlers.WriteError(w, http.StatusConflict, "URITaken", "Post URI already exists")
	case posts.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	case authz.IsForbidden(err):
		handlers.WriteError(w, http.StatusForbidden, "Forbidden", "Not allowed to modify this post")
	case identity.IsBadReference(err):
		handlers.WriteError(w, http.StatusNotFound, "BadReference", "Reference is not usable")
	default:
		log.Printf("post handler error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
