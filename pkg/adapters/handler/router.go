package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/clipstash/pkg/config"
	"github.com/wadjakorntonsri/clipstash/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, service ports.ClipService, log *zap.Logger) (http.Handler, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	metrics := NewMetrics()

	h := NewHTTPHandler(service, metrics, cfg.BaseURL, log)
	web := NewWebHandler(service, renderer, metrics, log)
	mw := NewMiddleware(cfg, log)
	authHandler := NewAuthHandler(cfg, log)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /{$}", web.Home)
	mux.HandleFunc("POST /clip", web.NewClip)
	mux.HandleFunc("GET /clip/{shortcode}", web.ViewClip)
	mux.HandleFunc("POST /clip/{shortcode}", web.SubmitPassword)
	mux.HandleFunc("GET /clip/raw/{shortcode}", h.Raw)
	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Protected Routes
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("POST /api/v1/clips", h.Create)
	protectedMux.HandleFunc("GET /api/v1/clips/{shortcode}", h.Get)
	protectedMux.HandleFunc("PUT /api/v1/clips/{shortcode}", h.Update)

	mux.Handle("/api/v1/", mw.AuthMiddleware(protectedMux))

	return mw.RequestLogger(mux), nil
}
