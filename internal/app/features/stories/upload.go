// internal/app/features/stories/upload.go
package stories

import (
	"context"
	"encoding/json"
	"net/http"

	apierrors "github.com/dalemusser/storyhub/internal/app/features/errors"
	"github.com/dalemusser/storyhub/internal/app/system/apierror"
	"github.com/dalemusser/storyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/storyhub/internal/app/system/metrics"
	"github.com/dalemusser/storyhub/internal/app/system/normalize"
	"github.com/dalemusser/storyhub/internal/app/system/timeouts"
	"github.com/dalemusser/storyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleUpload handles POST /api/stories (multipart).
//
// The media file is written by the intake before the form fields are
// checked. Any later failure removes the file again.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	res, err := h.Intake.Receive(ctx, r)
	mediaType := normalize.MediaType(res.Value("mediaType"))
	if err != nil {
		h.Metrics.Upload(mediaType, metrics.OutcomeFailure, 0)
		h.ErrLog.Write(w, r, err)
		return
	}

	fail := func(err error) {
		h.Intake.Discard(ctx, res.File)
		h.Metrics.Upload(mediaType, metrics.OutcomeFailure, 0)
		h.ErrLog.Write(w, r, err)
	}

	if res.File == nil {
		fail(apierror.Validation("No file uploaded"))
		return
	}

	title := htmlsanitize.PlainText(res.Value("title"))
	description := htmlsanitize.PlainText(res.Value("description"))
	genresRaw := res.Value("genres")
	directorHex := res.Value("directorId")
	if title == "" || description == "" || mediaType == "" || genresRaw == "" || directorHex == "" {
		fail(apierror.Validation("Missing required fields"))
		return
	}

	directorID, err := primitive.ObjectIDFromHex(directorHex)
	if err != nil {
		fail(apierror.Validation("Invalid directorId"))
		return
	}

	genres, ok := parseGenres(genresRaw)
	if !ok {
		fail(apierror.Validation("Invalid genres format"))
		return
	}

	st, err := h.Stories.Create(ctx, models.Story{
		Title:       title,
		Description: description,
		MediaType:   mediaType,
		MediaURL:    res.File.URL,
		Genres:      genres,
		DirectorID:  directorID,
	})
	if err != nil {
		fail(apierror.Server("Failed to upload story", err))
		return
	}

	h.Metrics.Upload(mediaType, metrics.OutcomeSuccess, res.File.Size)
	h.Log.Info("story uploaded",
		zap.String("story_id", st.ID.Hex()),
		zap.String("director_id", directorID.Hex()),
		zap.String("media_type", mediaType),
		zap.String("media_url", st.MediaURL),
		zap.Int64("size", res.File.Size))

	apierrors.JSON(w, http.StatusCreated, st)
}

// parseGenres decodes a JSON array of strings. Order and duplicates are kept.
func parseGenres(raw string) ([]string, bool) {
	var genres []string
	if err := json.Unmarshal([]byte(raw), &genres); err != nil {
		return nil, false
	}
	if genres == nil {
		// "null" decodes without error but is not an array.
		return nil, false
	}
	return genres, true
}

