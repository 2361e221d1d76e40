package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/clipstash/pkg/core/ask"
	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
	"github.com/wadjakorntonsri/clipstash/pkg/ports"
)

// datetime-local inputs carry neither seconds nor a zone.
const formTimeLayout = "2006-01-02T15:04"

// WebHandler serves the HTML pages.
type WebHandler struct {
	service  ports.ClipService
	renderer *Renderer
	metrics  *Metrics
	log      *zap.Logger
}

func NewWebHandler(service ports.ClipService, renderer *Renderer, metrics *Metrics, log *zap.Logger) *WebHandler {
	return &WebHandler{
		service:  service,
		renderer: renderer,
		metrics:  metrics,
		log:      log,
	}
}

func (h *WebHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, Home{})
}

// NewClip handles the home page form and redirects to the stored clip.
func (h *WebHandler) NewClip(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	req, err := ask.ParseNewClip(ask.Fields{
		Content:  r.PostFormValue("content"),
		Title:    optionalForm(r.PostFormValue("title")),
		Expires:  formExpires(r.PostFormValue("expires")),
		Password: optionalForm(r.PostFormValue("password")),
	})
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	clip, err := h.service.NewClip(r.Context(), req)
	if err != nil {
		h.log.Error("store clip", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.metrics.observeCreated()
	http.Redirect(w, r, "/clip/"+clip.ShortCode().String(), http.StatusSeeOther)
}

// ViewClip shows a clip, or the password prompt for a protected one.
func (h *WebHandler) ViewClip(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, nil)
}

// SubmitPassword retries the view with a password from the prompt form.
func (h *WebHandler) SubmitPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	password := r.PostFormValue("password")
	h.show(w, r, &password)
}

func (h *WebHandler) show(w http.ResponseWriter, r *http.Request, password *string) {
	req, err := ask.ParseGetClip(r.PathValue("shortcode"), password)
	if err == nil {
		var clip *domain.Clip
		clip, err = h.service.GetClip(r.Context(), req)
		if err == nil {
			h.metrics.observeView(nil)
			h.render(w, http.StatusOK, ViewClip{Clip: clip})
			return
		}
	}
	h.metrics.observeView(err)

	switch {
	case errors.Is(err, domain.ErrPasswordRequired), errors.Is(err, domain.ErrWrongPassword):
		h.render(w, http.StatusUnauthorized, PasswordRequired{ShortCode: req.ShortCode})
	case statusFor(err) == http.StatusNotFound:
		http.NotFound(w, r)
	default:
		h.log.Error("view clip", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *WebHandler) render(w http.ResponseWriter, status int, page PageContext) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page); err != nil {
		h.log.Error("render page", zap.String("template", page.TemplatePath()), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func optionalForm(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

// formExpires normalises a datetime-local value to RFC 3339, read as UTC.
// Anything else is passed through for the domain parser to judge.
func formExpires(raw string) string {
	t, err := time.Parse(formTimeLayout, raw)
	if err != nil {
		return raw
	}
	return t.UTC().Format(time.RFC3339)
}
