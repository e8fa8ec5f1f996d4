package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, h.withMetrics)
	router.Use(middleware.Recoverer)
	router.Use(h.withCORS())
	router.Use(middleware.Compress(5, "application/json"))
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	router.Handle("/metrics", h.metrics.handler())

	// routes without authorization
	router.Post("/register", h.register)
	router.Group(func(r chi.Router) {
		r.Use(h.withRateLimit)

		r.Post("/login", h.login)
		r.Post("/forgot-password", h.forgotPassword)
		r.Post("/reset-password", h.resetPassword)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/change-password", h.changePassword)
		r.Get("/profile", h.getProfile)
		r.Put("/profile", h.updateProfile)
		r.Delete("/delete-account", h.deleteAccount)

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", h.listNotes)
			r.Post("/", h.createNote)
			r.Get("/{id}", h.getNote)
			r.Put("/{id}", h.updateNote)
			r.Delete("/{id}", h.deleteNote)
			r.Put("/{id}/favorite", h.setFavorite)
		})

		r.Route("/recently-deleted", func(r chi.Router) {
			r.Get("/", h.listRecentlyDeleted)
			r.Delete("/{id}", h.purgeNote)
			r.Post("/{id}/restore", h.restoreNote)
		})
	})

	router.NotFound(notFound)
	router.MethodNotAllowed(notFound)

	return router
}
