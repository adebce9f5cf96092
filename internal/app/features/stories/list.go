// internal/app/features/stories/list.go
package stories

import (
	"context"
	"net/http"

	apierrors "github.com/dalemusser/storyhub/internal/app/features/errors"
	"github.com/dalemusser/storyhub/internal/app/system/apierror"
	"github.com/dalemusser/storyhub/internal/app/system/timeouts"
)

// HandleList handles GET /api/stories. There are no server-side filters;
// clients search, filter and sort the full list.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	views, err := h.Stories.ListWithDirectors(ctx)
	if err != nil {
		h.ErrLog.Write(w, r, apierror.Server("Failed to fetch stories", err))
		return
	}
	apierrors.JSON(w, http.StatusOK, views)
}
