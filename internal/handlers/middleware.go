package handlers

import (
	"net/http"
	"net/url"
	"time"

	"microblog/internal/auth"
)

const loginPath = "/auth/login/"

// WithUser resolves the session cookie into a user and stores it in the
// request context. Handlers never touch the session layer directly.
func (h *Handler) WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := h.sessions.CurrentUserID(r); ok {
			if user, err := h.users.ByID(r.Context(), uid); err == nil {
				r = r.WithContext(auth.WithUser(r.Context(), user))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth sends anonymous requests to the login page with a next
// parameter pointing back at the original path.
func (h *Handler) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserFromContext(r.Context()); !ok {
			http.Redirect(w, r, loginPath+"?next="+url.QueryEscape(r.URL.Path), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// WithRecover turns a handler panic into the 500 page instead of tearing
// down the connection.
func (h *Handler) WithRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.log.Error().Interface("panic", rec).
					Str("method", r.Method).Str("path", r.URL.Path).Msg("recovered")
				h.render(w, http.StatusInternalServerError, "servererror", map[string]any{
					"Title": "Server error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
