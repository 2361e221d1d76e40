package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/clipstash/pkg/core/ask"
	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
	"github.com/wadjakorntonsri/clipstash/pkg/ports"
)

// PasswordHeader carries the clip password on raw and API reads.
const PasswordHeader = "X-Clip-Password"

type HTTPHandler struct {
	service  ports.ClipService
	validate *validator.Validate
	metrics  *Metrics
	baseURL  string
	log      *zap.Logger
}

func NewHTTPHandler(service ports.ClipService, metrics *Metrics, baseURL string, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  metrics,
		baseURL:  strings.TrimRight(baseURL, "/"),
		log:      log,
	}
}

// ClipRequest is the JSON body of create and update calls.
type ClipRequest struct {
	Content  string  `json:"content" validate:"required,max=65536"`
	Title    *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Expires  string  `json:"expires,omitempty" validate:"omitempty,max=64"`
	Password *string `json:"password,omitempty" validate:"omitempty,max=72"`
}

func (r ClipRequest) fields() ask.Fields {
	return ask.Fields{
		Content:  r.Content,
		Title:    r.Title,
		Expires:  r.Expires,
		Password: r.Password,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// Create stores a new clip from a JSON body.
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	newClip, err := ask.ParseNewClip(req.fields())
	if err != nil {
		h.writeError(w, err)
		return
	}
	clip, err := h.service.NewClip(r.Context(), newClip)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.metrics.observeCreated()
	w.Header().Set("Location", h.baseURL+"/clip/"+clip.ShortCode().String())
	writeJSON(w, http.StatusCreated, clip)
}

// Get returns a clip, counting the view.
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	clip, err := h.retrieve(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clip)
}

// Update replaces the mutable fields of an existing clip.
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	update, err := ask.ParseUpdateClip(r.PathValue("shortcode"), req.fields())
	if err != nil {
		h.writeError(w, err)
		return
	}
	clip, err := h.service.UpdateClip(r.Context(), update)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clip)
}

// Raw writes the clip content as plain text.
func (h *HTTPHandler) Raw(w http.ResponseWriter, r *http.Request) {
	clip, err := h.retrieve(r)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.log.Error("raw clip", zap.Error(err))
		}
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(clip.Content().IntoInner()))
}

func (h *HTTPHandler) retrieve(r *http.Request) (*domain.Clip, error) {
	var password *string
	if values := r.Header.Values(PasswordHeader); len(values) > 0 {
		password = &values[0]
	}
	req, err := ask.ParseGetClip(r.PathValue("shortcode"), password)
	if err != nil {
		h.metrics.observeView(err)
		return nil, err
	}
	clip, err := h.service.GetClip(r.Context(), req)
	h.metrics.observeView(err)
	return clip, err
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request) (ClipRequest, bool) {
	var req ClipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", zap.Error(err))
		writeJSONError(w, status, "internal server error")
		return
	}
	writeJSONError(w, status, err.Error())
}

// statusFor maps domain and storage errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrStorage):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrExpired),
		errors.Is(err, domain.ErrInvalidShortCode):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPasswordRequired):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrWrongPassword):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrTimeConversion),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
