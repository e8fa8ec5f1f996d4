package http

import (
	"net/http"

	"github.com/go-chi/cors"
)

// withCORS allows any origin to call the API with a bearer token.
func (h *Handler) withCORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{traceIDHeader, "Retry-After"},
		MaxAge:         300,
	})
}
