package middleware

import (
	"net/http"

	"github.com/ayush/vexa-chat/internal/auth"
)

// RequireAuth is the session gate: requests without a valid session
// cookie are rejected before the handler runs, everything else proceeds
// with the session attached to the request context.
func RequireAuth(sessions auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}

			sess, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil || sess == nil {
				http.Error(w, `{"error":"session expired"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), sess)))
		})
	}
}
