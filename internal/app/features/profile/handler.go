// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/storyhub/internal/app/features/errors"
	userstore "github.com/dalemusser/storyhub/internal/app/store/users"
	"github.com/dalemusser/storyhub/internal/app/system/apierror"
	"github.com/dalemusser/storyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/storyhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users  *userstore.Store
	ErrLog *apierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  userstore.New(db),
		ErrLog: errLog,
		Log:    logger,
	}
}

type updateRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Bio   string `json:"bio"`
}

// HandleUpdate handles PUT /api/profile. Non-empty fields overwrite the
// stored value; empty or missing fields keep it. Email and role never change.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := apierrors.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	idStr := strings.TrimSpace(req.ID)
	if idStr == "" {
		h.ErrLog.Write(w, r, apierror.Validation("User ID is required"))
		return
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		h.ErrLog.Write(w, r, apierror.NotFound("User not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, id, userstore.ProfileUpdate{
		Name:  req.Name,
		Phone: req.Phone,
		Bio:   htmlsanitize.PlainText(req.Bio),
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Write(w, r, apierror.NotFound("User not found"))
		return
	}
	if err != nil {
		h.ErrLog.Write(w, r, apierror.Server("Failed to update profile", err))
		return
	}

	h.Log.Info("profile updated", zap.String("user_id", u.ID.Hex()))
	apierrors.JSON(w, http.StatusOK, u)
}
