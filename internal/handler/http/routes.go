package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/health", h.health)
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/notes", h.listNotes)
		r.Post("/notes", h.replaceNotes)
		r.Put("/notes/reorder", h.reorderNotes)
		r.Put("/notes/{id}/order", h.updateNoteOrder)
		r.Put("/notes/{id}/category", h.updateNoteCategory)

		r.Get("/categories", h.listCategories)
		r.Post("/categories", h.replaceCategories)
		r.Put("/categories/reorder", h.reorderCategories)

		r.Post("/upload", h.upload)
		r.Delete("/upload/{filename}", h.deleteUpload)
	})

	return router
}
