// internal/app/features/media/handler.go
package media

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/storyhub/internal/app/system/mediastore"
	"github.com/dalemusser/storyhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves uploaded media. Local files are served directly; other
// backends are reached by redirect.
type Handler struct {
	Store storage.Store
	// PublicURLs redirects to the store's public URL instead of a presigned one.
	PublicURLs    bool
	PresignExpiry time.Duration
	Log           *zap.Logger
}

func NewHandler(store storage.Store, publicURLs bool, presignExpiry time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		Store:         store,
		PublicURLs:    publicURLs,
		PresignExpiry: presignExpiry,
		Log:           logger,
	}
}

// Serve handles GET /uploads/{name}. Media is embeddable from any origin.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cross-Origin-Resource-Policy", "cross-origin")
	w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")

	name := chi.URLParam(r, "name")
	if !mediastore.ValidName(name) {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ok, err := h.Store.Exists(ctx, name)
	if err != nil {
		h.Log.Error("media lookup failed", zap.String("name", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	if local, ok := h.Store.(*storage.Local); ok {
		fullPath, err := local.GetFullPath(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, fullPath)
		return
	}

	target := ""
	if h.PublicURLs {
		target = h.Store.URL(name)
	}
	if target == "" {
		target, err = h.Store.PresignedURL(ctx, name, &storage.PresignOptions{Expires: h.PresignExpiry})
		if err != nil {
			h.Log.Error("error generating signed URL", zap.String("name", name), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}
	http.Redirect(w, r, target, http.StatusFound)
}
