package handlers

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"microblog/internal/store"
)

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, http.StatusOK, "signup", map[string]any{
			"Title": "Sign up",
			"Email": "", "Username": "",
		})
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	username := strings.TrimSpace(r.FormValue("username"))
	pass := r.FormValue("password")

	if email == "" || username == "" || pass == "" {
		h.render(w, http.StatusOK, "signup", map[string]any{
			"Title": "Sign up",
			"Error": "All fields are required",
			"Email": email, "Username": username,
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	if _, err := h.users.Create(r.Context(), email, username, string(hash)); err != nil {
		// Unique constraint on email/username is the expected failure here.
		h.render(w, http.StatusOK, "signup", map[string]any{
			"Title": "Sign up",
			"Error": "Email or username already taken",
			"Email": email, "Username": username,
		})
		return
	}
	http.Redirect(w, r, loginPath+"?registered=1", http.StatusFound)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, http.StatusOK, "login", map[string]any{
			"Title":      "Log in",
			"Registered": r.URL.Query().Get("registered") == "1",
			"Next":       r.URL.Query().Get("next"),
		})
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	pass := r.FormValue("password")
	next := r.FormValue("next")

	user, err := h.users.ByEmail(r.Context(), email)
	if errors.Is(err, store.ErrNotFound) ||
		(err == nil && bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(pass)) != nil) {
		h.render(w, http.StatusOK, "login", map[string]any{
			"Title": "Log in",
			"Error": "Wrong email or password",
			"Next":  next,
		})
		return
	} else if err != nil {
		h.ServerError(w, r, err)
		return
	}

	h.sessions.DropAll(user.ID)
	if err := h.sessions.Create(w, user.ID); err != nil {
		h.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}

// safeNext only honors same-site paths, never absolute or scheme-relative
// URLs.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}
