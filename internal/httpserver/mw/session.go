package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/pnptools/internal/session"
)

// SessionCookie names the cookie carrying the session ID.
const SessionCookie = "pnp_session"

// Session attaches the visitor's session to the request context, creating
// one (and its cookie) when the request has none or it expired.
func Session(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = c.Value
			}

			s, created := sessions.GetOrCreate(id)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    s.ID,
					Path:     "/",
					MaxAge:   int(sessions.TTL().Seconds()),
					HttpOnly: true,
					Secure:   r.TLS != nil,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}
