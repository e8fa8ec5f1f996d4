package handler

import (
	"github.com/MKhiriev/go-notes-keeper/internal/config"
	"github.com/MKhiriev/go-notes-keeper/internal/handler/http"
	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers builds the transport handlers enabled by cfg. A nil limiter
// disables rate limiting.
func NewHandlers(services *service.Services, limiter http.RateLimiter, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	opts := []http.Option{http.WithRequestTimeout(cfg.RequestTimeout)}
	if limiter != nil {
		opts = append(opts, http.WithRateLimiter(limiter))
	}

	return &Handlers{
		HTTP: http.NewHandler(services, logger, opts...),
	}, nil
}
