package http

import (
	"context"
	"time"

	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/internal/ratelimit"
	"github.com/MKhiriev/go-notes-keeper/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

// RateLimiter counts hits per key. *ratelimit.Limiter satisfies it.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

type Handler struct {
	services *service.Services

	// limiter guards the unauthenticated credential routes. Nil disables it.
	limiter RateLimiter

	// requestTimeout bounds every request. Zero disables the timeout.
	requestTimeout time.Duration

	metrics *httpMetrics

	logger *logger.Logger
}

// Option configures optional Handler dependencies.
type Option func(*Handler)

func WithRateLimiter(limiter RateLimiter) Option {
	return func(h *Handler) {
		h.limiter = limiter
	}
}

func WithRequestTimeout(timeout time.Duration) Option {
	return func(h *Handler) {
		h.requestTimeout = timeout
	}
}

// WithMetricsRegistry registers the HTTP metrics on registry instead of a
// private one. GET /metrics serves whatever registry is used.
func WithMetricsRegistry(registry *prometheus.Registry) Option {
	return func(h *Handler) {
		h.metrics = newHTTPMetrics(registry)
	}
}

func NewHandler(services *service.Services, logger *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		services: services,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.metrics == nil {
		h.metrics = newHTTPMetrics(prometheus.NewRegistry())
	}

	logger.Info().Msg("http handler created")
	return h
}
