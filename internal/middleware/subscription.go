package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/jerseyhub/backend/internal/contextkeys"
	"github.com/jerseyhub/backend/internal/domain"
	"github.com/jerseyhub/backend/internal/handler"
)

// UserLoader fetches the current account state for an authenticated
// principal. Returns nil without error when the account no longer exists.
type UserLoader interface {
	LoadUser(ctx context.Context, id string) (*domain.User, error)
}

// RequireActiveSubscription gates catalog and link routes behind the
// subscription check. Admin roles bypass the gate; the check reads current
// database state, not the token, so a webhook-driven cancellation takes
// effect on the next request.
// Must be used AFTER Auth.
func RequireActiveSubscription(users UserLoader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := r.Context().Value(contextkeys.UserID).(string)
			if !ok || userID == "" {
				handler.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}

			user, err := users.LoadUser(r.Context(), userID)
			if err != nil {
				handler.Error(w, err)
				return
			}
			if user == nil {
				handler.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}

			if !user.HasActiveSubscription(time.Now()) {
				handler.JSON(w, http.StatusForbidden, map[string]string{"error": "active subscription required"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
