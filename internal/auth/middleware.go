package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// UserRecorder registers a resolved identity (first-login upsert)
type UserRecorder interface {
	Record(identity Identity) error
}

// Middleware returns a chi middleware that resolves the Authorization
// header to an owner id and injects it into the request context. Requests
// without a valid bearer token are rejected with 401 before any handler
// runs.
func Middleware(verifier Verifier, users UserRecorder, log zerolog.Logger) func(http.Handler) http.Handler {
	log = log.With().Str("component", "auth").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Missing or invalid Authorization header", http.StatusUnauthorized)
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, ErrUnauthorized) {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				log.Error().Err(err).Msg("Identity verification failed")
				http.Error(w, "Identity service unavailable", http.StatusBadGateway)
				return
			}

			if users != nil {
				// First-login bookkeeping must not block the request
				if err := users.Record(*identity); err != nil {
					log.Warn().Err(err).Str("uid", identity.UID).Msg("Failed to record user")
				}
			}

			next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), identity.UID)))
		})
	}
}
