package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/api/handlers"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/authz"
)

type contextKey string

const principalKey contextKey = "principal"

// Identity headers set by the authentication collaborator (the gateway in
// front of this service). Token verification happens there; this layer only
// reads the already-verified result.
const (
	headerActorID     = "X-Saturn-Actor-Id"
	headerActorHandle = "X-Saturn-Actor-Handle"
	headerActorAdmin  = "X-Saturn-Actor-Admin"
)

// Principal attaches the verified principal to the request context when the
// identity headers are present. Requests without them pass through
// unauthenticated.
func Principal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get(headerActorID)
		if rawID == "" {
			next.ServeHTTP(w, r)
			return
		}

		actorID, err := uuid.Parse(rawID)
		if err != nil {
			handlers.WriteError(w, http.StatusUnauthorized, "InvalidPrincipal", "Malformed actor identity")
			return
		}

		p := authz.Principal{
			ActorID: actorID,
			Handle:  r.Header.Get(headerActorHandle),
			Admin:   r.Header.Get(headerActorAdmin) == "true",
		}

		ctx := context.WithValue(r.Context(), principalKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePrincipal rejects requests without a verified principal
func RequirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFrom(r); !ok {
			handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PrincipalFrom extracts the principal injected by Principal
func PrincipalFrom(r *http.Request) (authz.Principal, bool) {
	p, ok := r.Context().Value(principalKey).(authz.Principal)
	return p, ok
}
