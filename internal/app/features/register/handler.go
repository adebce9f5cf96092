// internal/app/features/register/handler.go
package register

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/storyhub/internal/app/features/errors"
	userstore "github.com/dalemusser/storyhub/internal/app/store/users"
	"github.com/dalemusser/storyhub/internal/app/system/apierror"
	"github.com/dalemusser/storyhub/internal/app/system/authutil"
	"github.com/dalemusser/storyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/storyhub/internal/app/system/inputval"
	"github.com/dalemusser/storyhub/internal/app/system/metrics"
	"github.com/dalemusser/storyhub/internal/app/system/normalize"
	"github.com/dalemusser/storyhub/internal/app/system/timeouts"
	"github.com/dalemusser/storyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users   *userstore.Store
	Metrics *metrics.Metrics
	ErrLog  *apierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, m *metrics.Metrics, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:   userstore.New(db),
		Metrics: m,
		ErrLog:  errLog,
		Log:     logger,
	}
}

const passwordTooLong = "Password must be at most 72 bytes"

type registerRequest struct {
	Name     string `json:"name" validate:"required" label:"Name"`
	Email    string `json:"email" validate:"required" label:"Email"`
	Phone    string `json:"phone" validate:"required" label:"Phone"`
	Role     string `json:"role" validate:"required,oneof=director producer" label:"Role"`
	Password string `json:"password" validate:"required" label:"Password"`
	Bio      string `json:"bio"`
}

func (req *registerRequest) normalize() {
	req.Name = normalize.Name(req.Name)
	req.Email = normalize.Email(req.Email)
	req.Phone = normalize.Phone(req.Phone)
	req.Role = normalize.Role(req.Role)
	req.Bio = htmlsanitize.PlainText(req.Bio)
}

// HandleRegister handles POST /api/register and returns 201 with the new user.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := apierrors.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	req.normalize()

	if res := inputval.Validate(req); res.HasErrors() {
		if res.HasTag("required") {
			h.ErrLog.Write(w, r, apierror.Validation("All fields are required"))
			return
		}
		h.ErrLog.Write(w, r, apierror.Validation(res.First()))
		return
	}
	if len(req.Password) > authutil.MaxPasswordBytes {
		h.ErrLog.Write(w, r, apierror.Validation(passwordTooLong))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		h.ErrLog.Write(w, r, apierror.Conflict("Email already registered"))
		return
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Write(w, r, apierror.Server("Registration failed", err))
		return
	}

	hash, err := authutil.HashPassword(req.Password)
	if errors.Is(err, authutil.ErrPasswordTooLong) {
		h.ErrLog.Write(w, r, apierror.Validation(passwordTooLong))
		return
	}
	if err != nil {
		h.ErrLog.Write(w, r, apierror.Server("Registration failed", err))
		return
	}

	u, err := h.Users.Create(ctx, models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         req.Role,
		PasswordHash: hash,
		Bio:          req.Bio,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		// Lost a race with a concurrent registration; the unique index decided.
		h.ErrLog.Write(w, r, apierror.Conflict("Email already registered"))
		return
	}
	if err != nil {
		h.ErrLog.Write(w, r, apierror.Server("Registration failed", err))
		return
	}

	h.Metrics.Registered(u.Role)
	h.Log.Info("user registered", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))

	apierrors.JSON(w, http.StatusCreated, u)
}
