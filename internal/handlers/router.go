package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes builds the full route table. Static segments win over the
// {username} wildcards, so /new/, /follow/ and /auth/ stay reachable.
func (h *Handler) Routes(staticDir, mediaDir string) http.Handler {
	r := chi.NewRouter()

	r.Use(h.RequestLogger)
	r.Use(h.WithRecover)
	r.Use(h.WithUser)
	r.NotFound(h.NotFound)

	r.Get("/", h.Index)
	r.Get("/group/{slug}/", h.GroupPosts)
	r.Get("/new/", h.RequireAuth(h.PostCreate))
	r.Post("/new/", h.RequireAuth(h.PostCreate))
	r.Get("/follow/", h.RequireAuth(h.FollowIndex))

	r.Get("/auth/signup/", h.Signup)
	r.Post("/auth/signup/", h.Signup)
	r.Get("/auth/login/", h.Login)
	r.Post("/auth/login/", h.Login)
	r.Get("/auth/logout/", h.Logout)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(mediaDir))))

	r.Get("/{username}/", h.Profile)
	r.Get("/{username}/follow/", h.RequireAuth(h.ProfileFollow))
	r.Get("/{username}/unfollow/", h.RequireAuth(h.ProfileUnfollow))
	r.Get("/{username}/{postID}/", h.PostView)
	r.Get("/{username}/{postID}/edit/", h.RequireAuth(h.PostEdit))
	r.Post("/{username}/{postID}/edit/", h.RequireAuth(h.PostEdit))
	r.Get("/{username}/{postID}/comment/", h.RequireAuth(h.CommentCreate))
	r.Post("/{username}/{postID}/comment/", h.RequireAuth(h.CommentCreate))

	return r
}
