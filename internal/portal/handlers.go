package portal

import (
	"context"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vidfriends/webclient/internal/logging"
	"github.com/vidfriends/webclient/internal/models"
	"github.com/vidfriends/webclient/internal/render"
	"github.com/vidfriends/webclient/internal/ui"
)

// maxMemoryBytes is how much of a multipart upload is held in memory before
// spilling to temporary files.
const maxMemoryBytes = 32 << 20

// Query parameters carried across POST-redirect-GET.
const (
	paramFlash = "flash"
	paramShow  = "show"

	showAuth   = "auth"
	showUpload = "upload"
)

// Handler serves the portal pages and form posts over a ui.Controller.
type Handler struct {
	Controller *ui.Controller
}

type pageData struct {
	Title      string
	Nav        render.Navigation
	Flash      string
	ShowAuth   bool
	ShowUpload bool
	Feed       template.HTML

	Video      *models.VideoDetails
	ServiceURL string
}

// Index implements GET /. Each full page load re-runs startup: the session
// is restored, navigation re-projected and the feed fetched again.
func (h Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.Controller.Start(ctx)

	nav := h.Controller.Navigation()
	data := pageData{
		Title: "VidFriends",
		Nav:   nav,
		Flash: r.URL.Query().Get(paramFlash),
		Feed:  h.Controller.Renderer().Feed(),
	}

	switch r.URL.Query().Get(paramShow) {
	case showAuth:
		data.ShowAuth = true
	case showUpload:
		// The upload affordance re-checks the session like a click would.
		out := h.Controller.OpenUpload()
		if out.ShowAuth {
			data.ShowAuth = true
			data.Flash = out.Message
		} else {
			data.ShowUpload = true
		}
	}

	renderPage(ctx, w, http.StatusOK, indexTmpl, data)
}

// Login implements POST /login.
func (h Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirect(w, r, ui.Outcome{Message: "Error: invalid form", ShowAuth: true})
		return
	}
	out := h.Controller.SubmitLogin(r.Context(), models.Credentials{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Password: r.PostForm.Get("password"),
	})
	if !out.Success {
		out.ShowAuth = true
	}
	redirect(w, r, out)
}

// Register implements POST /register.
func (h Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirect(w, r, ui.Outcome{Message: "Error: invalid form", ShowAuth: true})
		return
	}
	out := h.Controller.SubmitRegister(r.Context(), models.RegistrationRequest{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
		Role:     r.PostForm.Get("role"),
	})
	// Registration never logs in, so the login form stays open either way.
	out.ShowAuth = true
	redirect(w, r, out)
}

// Upload implements POST /upload.
func (h Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if out := h.Controller.OpenUpload(); !out.Success {
		redirect(w, r, out)
		return
	}

	if err := r.ParseMultipartForm(maxMemoryBytes); err != nil {
		logging.FromContext(ctx).Warn("parse upload form", "error", err)
		redirect(w, r, ui.Outcome{Message: "Error: invalid upload form"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	req := models.UploadRequest{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: r.FormValue("description"),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Tags:        strings.TrimSpace(r.FormValue("tags")),
	}
	if file, header, err := r.FormFile("video"); err == nil {
		defer func() { _ = file.Close() }()
		req.File = models.VideoFile{Name: header.Filename, Content: file}
	}

	redirectUpload(w, r, h.Controller.SubmitUpload(ctx, req))
}

// Logout implements POST /logout.
func (h Handler) Logout(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, h.Controller.Logout(r.Context()))
}

// Watch implements GET /watch?id=.
func (h Handler) Watch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := pageData{Title: "Watch", Nav: h.Controller.Navigation()}

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		data.Flash = ui.MsgInvalidVideo
		renderPage(ctx, w, http.StatusBadRequest, watchTmpl, data)
		return
	}

	details, out := h.Controller.Watch(ctx, id)
	if !out.Success {
		data.Flash = out.Message
		renderPage(ctx, w, http.StatusNotFound, watchTmpl, data)
		return
	}

	data.Title = details.Title
	data.Video = &details
	data.ServiceURL = h.Controller.WatchURL(id)
	renderPage(ctx, w, http.StatusOK, watchTmpl, data)
}

func redirect(w http.ResponseWriter, r *http.Request, out ui.Outcome) {
	q := url.Values{}
	if out.Message != "" {
		q.Set(paramFlash, out.Message)
	}
	if out.ShowAuth {
		q.Set(paramShow, showAuth)
	}
	target := "/"
	if encoded := q.Encode(); encoded != "" {
		target += "?" + encoded
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// redirectUpload keeps the upload form open after a failure so the user can retry.
func redirectUpload(w http.ResponseWriter, r *http.Request, out ui.Outcome) {
	if out.ShowAuth || out.CloseUpload {
		redirect(w, r, out)
		return
	}
	q := url.Values{}
	q.Set(paramFlash, out.Message)
	q.Set(paramShow, showUpload)
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

func renderPage(ctx context.Context, w http.ResponseWriter, status int, tmpl *template.Template, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		logging.FromContext(ctx).Error("render page", "status", status, "error", err)
	}
}
