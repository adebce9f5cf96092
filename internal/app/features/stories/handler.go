// internal/app/features/stories/handler.go
package stories

import (
	apierrors "github.com/dalemusser/storyhub/internal/app/features/errors"
	storystore "github.com/dalemusser/storyhub/internal/app/store/stories"
	"github.com/dalemusser/storyhub/internal/app/system/metrics"
	"github.com/dalemusser/storyhub/internal/app/system/uploads"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves story listing, upload and deletion.
type Handler struct {
	Stories *storystore.Store
	Media   storage.Store
	Intake  *uploads.Intake
	Metrics *metrics.Metrics
	ErrLog  *apierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, media storage.Store, intake *uploads.Intake, m *metrics.Metrics, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Stories: storystore.New(db),
		Media:   media,
		Intake:  intake,
		Metrics: m,
		ErrLog:  errLog,
		Log:     logger,
	}
}
