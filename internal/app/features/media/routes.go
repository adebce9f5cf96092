// internal/app/features/media/routes.go
package media

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter mounted under /uploads.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{name}", h.Serve)
	r.Head("/{name}", h.Serve)
	return r
}
