package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes builds the router. metrics, when non-nil, is mounted at /metrics.
func (h *Handlers) Routes(metrics http.Handler) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/", h.HelloFromPool)
	r.Post("/", h.WithConn(h.HelloFromConn))

	r.Get("/todos", h.ListTodos)
	r.Post("/todos", h.CreateTodo)
	r.Patch("/todos/{id}", h.WithConn(h.UpdateTodo))
	r.Delete("/todos/{id}", h.DeleteTodo)

	r.Get("/healthz", h.Healthz)
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	return r
}
