// internal/app/features/stories/delete.go
package stories

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/storyhub/internal/app/features/errors"
	"github.com/dalemusser/storyhub/internal/app/system/apierror"
	"github.com/dalemusser/storyhub/internal/app/system/mediastore"
	"github.com/dalemusser/storyhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /api/stories/{id}: removes the media file,
// then the record.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, apierror.NotFound("Story not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	st, err := h.Stories.GetByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Write(w, r, apierror.NotFound("Story not found"))
		return
	}
	if err != nil {
		h.ErrLog.Write(w, r, apierror.Server("Failed to delete story", err))
		return
	}

	// A missing file is not an error; a malformed URL has no file to remove.
	if name, ok := mediastore.NameFromURL(st.MediaURL); ok {
		if err := mediastore.Remove(ctx, h.Media, name); err != nil {
			h.ErrLog.Write(w, r, apierror.Server("Failed to delete story", err))
			return
		}
	} else {
		h.Log.Warn("story has unrecognized media url",
			zap.String("story_id", oid.Hex()),
			zap.String("media_url", st.MediaURL))
	}

	if err := h.Stories.Delete(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.Write(w, r, apierror.NotFound("Story not found"))
			return
		}
		h.ErrLog.Write(w, r, apierror.Server("Failed to delete story", err))
		return
	}

	h.Metrics.Deleted()
	h.Log.Info("story deleted", zap.String("story_id", oid.Hex()))

	apierrors.JSON(w, http.StatusOK, map[string]string{"message": "Story deleted successfully"})
}
