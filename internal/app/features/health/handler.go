package health

import (
	"context"
	"net/http"

	apierrors "github.com/dalemusser/storyhub/internal/app/features/errors"
	"github.com/dalemusser/storyhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is the subset of *mongo.Client the health check needs.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	DB  Pinger
	Log *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	h := &Handler{Log: logger}
	if client != nil {
		h.DB = client
	}
	return h
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Serve handles GET /api/health.
//
// Always 200 while the process is serving:
//
//	{ "status":"ok", "database":"connected" }
//
// The database field is informational; a failed ping reports "disconnected"
// without changing the status code.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "connected"}
	if h.DB == nil {
		resp.Database = "disconnected"
	} else if err := h.DB.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Warn("health-check: mongo ping failed", zap.Error(err))
		resp.Database = "disconnected"
	}

	apierrors.JSON(w, http.StatusOK, resp)
}
