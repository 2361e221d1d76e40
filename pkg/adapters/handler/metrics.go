package handler

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
)

// Metrics owns its registry so that several routers can coexist in one
// process.
type Metrics struct {
	registry     *prometheus.Registry
	clipsCreated prometheus.Counter
	clipViews    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		clipsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clipstash",
			Name:      "clips_created_total",
			Help:      "Number of clips stored.",
		}),
		clipViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clipstash",
			Name:      "clip_views_total",
			Help:      "Clip retrievals by outcome.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.clipsCreated,
		m.clipViews,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observeCreated() {
	m.clipsCreated.Inc()
}

func (m *Metrics) observeView(err error) {
	m.clipViews.WithLabelValues(viewResult(err)).Inc()
}

func viewResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrExpired):
		return "expired"
	case errors.Is(err, domain.ErrPasswordRequired), errors.Is(err, domain.ErrWrongPassword):
		return "denied"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidShortCode):
		return "not_found"
	default:
		return "error"
	}
}
