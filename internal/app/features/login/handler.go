// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/storyhub/internal/app/features/errors"
	userstore "github.com/dalemusser/storyhub/internal/app/store/users"
	"github.com/dalemusser/storyhub/internal/app/system/apierror"
	"github.com/dalemusser/storyhub/internal/app/system/authutil"
	"github.com/dalemusser/storyhub/internal/app/system/metrics"
	"github.com/dalemusser/storyhub/internal/app/system/normalize"
	"github.com/dalemusser/storyhub/internal/app/system/ratelimit"
	"github.com/dalemusser/storyhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const msgInvalidCredentials = "Invalid credentials"

type Handler struct {
	Users   *userstore.Store
	Limiter *ratelimit.LoginLimiter
	Metrics *metrics.Metrics
	ErrLog  *apierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, limiter *ratelimit.LoginLimiter, m *metrics.Metrics, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:   userstore.New(db),
		Limiter: limiter,
		Metrics: m,
		ErrLog:  errLog,
		Log:     logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// Role is accepted for compatibility and ignored: the stored role wins.
	Role string `json:"role"`
}

// HandleLogin handles POST /api/login.
//
// Unknown email and wrong password produce the same error so the response
// does not reveal which one was wrong. No token is issued; the client keeps
// the returned user as its session.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := apierrors.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	email := normalize.Email(req.Email)
	if email == "" {
		h.ErrLog.Write(w, r, apierror.Validation("Email is required"))
		return
	}

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, email); !ok {
			h.Metrics.Login(metrics.OutcomeLimited)
			h.ErrLog.Write(w, r, apierror.RateLimited(msg))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.Metrics.Login(metrics.OutcomeFailure)
		h.ErrLog.Write(w, r, apierror.Auth(msgInvalidCredentials))
		return
	}
	if err != nil {
		h.ErrLog.Write(w, r, apierror.Server("Login failed", err))
		return
	}

	if !authutil.CheckPassword(req.Password, u.PasswordHash) {
		h.Metrics.Login(metrics.OutcomeFailure)
		h.ErrLog.Write(w, r, apierror.Auth(msgInvalidCredentials))
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}
	h.Metrics.Login(metrics.OutcomeSuccess)
	h.Log.Info("user logged in", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))

	apierrors.JSON(w, http.StatusOK, u)
}
