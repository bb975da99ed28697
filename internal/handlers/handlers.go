package handlers

import (
	"bytes"
	"database/sql"
	"errors"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"microblog/internal/auth"
	"microblog/internal/cache"
	"microblog/internal/forms"
	"microblog/internal/store"
)

const maxUploadBytes = 10 << 20

type Handler struct {
	users    *store.UserStore
	groups   *store.GroupStore
	posts    *store.PostStore
	comments *store.CommentStore
	follows  *store.FollowStore
	sessions *auth.Manager
	cache    *cache.Fragment
	tpls     *template.Template
	log      zerolog.Logger
	mediaDir string
}

func New(db *sql.DB, sessions *auth.Manager, frag *cache.Fragment, log zerolog.Logger, templateDir, mediaDir string) *Handler {
	tpls := template.Must(template.ParseGlob(filepath.Join(templateDir, "*.html")))
	return &Handler{
		users:    store.NewUserStore(db),
		groups:   store.NewGroupStore(db),
		posts:    store.NewPostStore(db),
		comments: store.NewCommentStore(db),
		follows:  store.NewFollowStore(db),
		sessions: sessions,
		cache:    frag,
		tpls:     tpls,
		log:      log,
		mediaDir: mediaDir,
	}
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tpls.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error().Err(err).Str("template", name).Msg("render failed")
	}
}

// -------- Listings

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	count, err := h.posts.CountAll(ctx)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	page := newPage(pageNumber(r), count)

	// The rendered list fragment is cached per page; staleness is bounded
	// by the cache TTL, not by post writes.
	key := cache.IndexKey(page.Number)
	frag, ok := h.cache.Get(key)
	if !ok {
		posts, err := h.posts.Latest(ctx, pageSize, page.Offset())
		if err != nil {
			h.ServerError(w, r, err)
			return
		}
		var buf bytes.Buffer
		if err := h.tpls.ExecuteTemplate(&buf, "post_list", posts); err != nil {
			h.ServerError(w, r, err)
			return
		}
		frag = buf.Bytes()
		h.cache.Put(key, frag)
	}

	user, _ := auth.UserFromContext(ctx)
	h.render(w, http.StatusOK, "index", map[string]any{
		"Title":    "Latest posts",
		"User":     user,
		"Fragment": template.HTML(frag),
		"Page":     page,
	})
}

func (h *Handler) GroupPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	group, err := h.groups.BySlug(ctx, chi.URLParam(r, "slug"))
	if errors.Is(err, store.ErrNotFound) {
		h.NotFound(w, r)
		return
	} else if err != nil {
		h.ServerError(w, r, err)
		return
	}

	count, err := h.posts.CountByGroup(ctx, group.ID)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	page := newPage(pageNumber(r), count)
	posts, err := h.posts.ByGroup(ctx, group.ID, pageSize, page.Offset())
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	page.Posts = posts

	user, _ := auth.UserFromContext(ctx)
	h.render(w, http.StatusOK, "group", map[string]any{
		"Title": group.Title,
		"User":  user,
		"Group": group,
		"Page":  page,
	})
}

func (h *Handler) FollowIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	count, err := h.posts.CountFeed(ctx, user.ID)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	page := newPage(pageNumber(r), count)
	posts, err := h.posts.Feed(ctx, user.ID, pageSize, page.Offset())
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	page.Posts = posts

	h.render(w, http.StatusOK, "follow", map[string]any{
		"Title": "Your feed",
		"User":  user,
		"Page":  page,
	})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	author, err := h.users.ByUsername(ctx, chi.URLParam(r, "username"))
	if errors.Is(err, store.ErrNotFound) {
		h.NotFound(w, r)
		return
	} else if err != nil {
		h.ServerError(w, r, err)
		return
	}

	count, err := h.posts.CountByAuthor(ctx, author.ID)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	page := newPage(pageNumber(r), count)
	posts, err := h.posts.ByAuthor(ctx, author.ID, pageSize, page.Offset())
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	page.Posts = posts

	user, logged := auth.UserFromContext(ctx)
	following := false
	if logged {
		following, err = h.follows.IsFollowing(ctx, user.ID, author.ID)
		if err != nil {
			h.ServerError(w, r, err)
			return
		}
	}

	h.render(w, http.StatusOK, "profile", map[string]any{
		"Title":     author.Username,
		"User":      user,
		"Author":    author,
		"Following": following,
		"Count":     count,
		"Page":      page,
	})
}

// -------- Post create / edit

func (h *Handler) PostCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	groups, err := h.groups.All(ctx)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	data := map[string]any{
		"Title":  "New post",
		"User":   user,
		"Groups": groups,
		"IsNew":  true,
	}

	if r.Method == http.MethodGet {
		h.render(w, http.StatusOK, "new_post", data)
		return
	}

	form, errs := h.parsePostForm(r)
	image, imgErr := h.saveUpload(r)
	if imgErr != nil {
		errs["image"] = "Upload is not a valid image"
	}
	if !errs.Ok() {
		data["Form"] = form
		data["Errors"] = errs
		h.render(w, http.StatusOK, "new_post", data)
		return
	}

	if _, err := h.posts.Create(ctx, user.ID, form.GroupID, form.Text, image); err != nil {
		h.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) PostEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	username := chi.URLParam(r, "username")
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	post, err := h.posts.ByID(ctx, username, postID)
	if errors.Is(err, store.ErrNotFound) {
		h.NotFound(w, r)
		return
	} else if err != nil {
		h.ServerError(w, r, err)
		return
	}

	postURL := "/" + post.Author + "/" + strconv.FormatInt(post.ID, 10) + "/"

	// Only the author may edit; everyone else is sent back to the post.
	if user.ID != post.AuthorID {
		http.Redirect(w, r, postURL, http.StatusFound)
		return
	}

	groups, err := h.groups.All(ctx)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	data := map[string]any{
		"Title":  "Edit post",
		"User":   user,
		"Groups": groups,
		"IsNew":  false,
		"Post":   post,
	}

	if r.Method == http.MethodGet {
		data["Form"] = forms.PostForm{Text: post.Text, GroupID: post.GroupID}
		h.render(w, http.StatusOK, "new_post", data)
		return
	}

	form, errs := h.parsePostForm(r)
	image, imgErr := h.saveUpload(r)
	if imgErr != nil {
		errs["image"] = "Upload is not a valid image"
	}
	if !errs.Ok() {
		data["Form"] = form
		data["Errors"] = errs
		h.render(w, http.StatusOK, "new_post", data)
		return
	}
	if image == "" {
		image = post.Image
	}

	if err := h.posts.Update(ctx, post.ID, form.GroupID, form.Text, image); err != nil {
		h.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, postURL, http.StatusFound)
}

func (h *Handler) parsePostForm(r *http.Request) (forms.PostForm, forms.Errors) {
	// Multipart when an image is attached, urlencoded otherwise.
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		r.ParseForm()
	}
	form, errs := forms.ValidatePost(r.FormValue("text"))
	if g := r.FormValue("group"); g != "" {
		if id, err := strconv.ParseInt(g, 10, 64); err == nil {
			form.GroupID = &id
		}
	}
	return form, errs
}

// saveUpload validates an attached image and writes it to the media dir.
// Returns the stored filename, or "" when the form had no file.
func (h *Handler) saveUpload(r *http.Request) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return "", nil // no file attached
	}
	defer file.Close()

	format, err := forms.ValidateImage(file)
	if err != nil {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	name := uuid.New().String() + "." + format
	dst, err := os.Create(filepath.Join(h.mediaDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return name, nil
}

// -------- Post view & comments

func (h *Handler) PostView(w http.ResponseWriter, r *http.Request) {
	h.renderPost(w, r, "", nil)
}

func (h *Handler) renderPost(w http.ResponseWriter, r *http.Request, commentText string, commentErrs forms.Errors) {
	ctx := r.Context()
	username := chi.URLParam(r, "username")
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	post, err := h.posts.ByID(ctx, username, postID)
	if errors.Is(err, store.ErrNotFound) {
		h.NotFound(w, r)
		return
	} else if err != nil {
		h.ServerError(w, r, err)
		return
	}

	comments, err := h.comments.ByPost(ctx, post.ID)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}

	user, _ := auth.UserFromContext(ctx)
	h.render(w, http.StatusOK, "post", map[string]any{
		"Title":         "Post by " + post.Author,
		"User":          user,
		"Post":          post,
		"Comments":      comments,
		"CommentText":   commentText,
		"CommentErrors": commentErrs,
	})
}

func (h *Handler) CommentCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := chi.URLParam(r, "username")
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	postURL := "/" + username + "/" + strconv.FormatInt(postID, 10) + "/"

	// There is no comment page of its own; a GET lands on the post.
	if r.Method == http.MethodGet {
		http.Redirect(w, r, postURL, http.StatusFound)
		return
	}

	post, err := h.posts.ByID(ctx, username, postID)
	if errors.Is(err, store.ErrNotFound) {
		h.NotFound(w, r)
		return
	} else if err != nil {
		h.ServerError(w, r, err)
		return
	}

	text, errs := forms.ValidateComment(r.FormValue("text"))
	if !errs.Ok() {
		h.renderPost(w, r, text, errs)
		return
	}

	user, _ := auth.UserFromContext(ctx)
	if _, err := h.comments.Create(ctx, post.ID, user.ID, text); err != nil {
		h.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, postURL, http.StatusFound)
}

// -------- Follow / unfollow

func (h *Handler) ProfileFollow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	author, err := h.users.ByUsername(ctx, chi.URLParam(r, "username"))
	if errors.Is(err, store.ErrNotFound) {
		h.NotFound(w, r)
		return
	} else if err != nil {
		h.ServerError(w, r, err)
		return
	}

	// Self-follow is a silent no-op.
	if user.ID != author.ID {
		if err := h.follows.Follow(ctx, user.ID, author.ID); err != nil {
			h.ServerError(w, r, err)
			return
		}
	}
	http.Redirect(w, r, "/"+author.Username+"/", http.StatusFound)
}

func (h *Handler) ProfileUnfollow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	author, err := h.users.ByUsername(ctx, chi.URLParam(r, "username"))
	if errors.Is(err, store.ErrNotFound) {
		h.NotFound(w, r)
		return
	} else if err != nil {
		h.ServerError(w, r, err)
		return
	}

	err = h.follows.Unfollow(ctx, user.ID, author.ID)
	if errors.Is(err, store.ErrNotFound) {
		h.NotFound(w, r)
		return
	} else if err != nil {
		h.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, "/"+author.Username+"/", http.StatusFound)
}

// -------- Error pages

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	h.render(w, http.StatusNotFound, "notfound", map[string]any{
		"Title": "Not found",
		"User":  user,
		"Path":  r.URL.Path,
	})
}

func (h *Handler) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	user, _ := auth.UserFromContext(r.Context())
	h.render(w, http.StatusInternalServerError, "servererror", map[string]any{
		"Title": "Server error",
		"User":  user,
	})
}
