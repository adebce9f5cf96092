// internal/app/features/stories/routes.go
package stories

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleUpload)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
