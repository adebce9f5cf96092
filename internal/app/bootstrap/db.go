// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	storystore "github.com/dalemusser/storyhub/internal/app/store/stories"
	"github.com/dalemusser/storyhub/internal/app/system/indexes"
	"github.com/dalemusser/storyhub/internal/app/system/metrics"
	"github.com/dalemusser/storyhub/internal/app/system/validators"
	"github.com/dalemusser/storyhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// ConnectDB connects to MongoDB and builds the media store, metrics
// registry and (when enabled) the orphan sweeper.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	cctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(appCfg.MongoURI))
	if err != nil {
		logger.Error("MongoDB connect failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("MongoDB ping failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	media, err := newMediaStore(ctx, appCfg)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, err
	}
	logger.Info("media store ready", zap.String("type", appCfg.StorageType))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Media:         media,
		Metrics:       metrics.New(),
	}
	if appCfg.SweepInterval > 0 {
		deps.Sweeper = workers.NewOrphanSweeper(
			media,
			storystore.New(deps.MongoDatabase),
			deps.Metrics,
			logger,
			appCfg.SweepInterval,
			appCfg.SweepGrace,
		)
	}
	return deps, nil
}

func newMediaStore(ctx context.Context, appCfg AppConfig) (storage.Store, error) {
	switch appCfg.StorageType {
	case storageS3:
		// S3-compatible services (MinIO, R2, Spaces) need path-style addressing.
		s, err := storage.NewS3(ctx, storage.S3Config{
			Bucket:          appCfg.StorageS3Bucket,
			Region:          appCfg.StorageS3Region,
			AccessKeyID:     appCfg.StorageS3AccessKey,
			SecretAccessKey: appCfg.StorageS3SecretKey,
			Endpoint:        appCfg.StorageS3Endpoint,
			UsePathStyle:    appCfg.StorageS3Endpoint != "",
			Prefix:          appCfg.StorageS3Prefix,
			BaseURL:         appCfg.StorageS3PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 media store: %w", err)
		}
		return s, nil
	default:
		l, err := storage.NewLocal(storage.LocalConfig{BasePath: appCfg.StorageLocalPath})
		if err != nil {
			return nil, fmt.Errorf("local media store: %w", err)
		}
		return l, nil
	}
}

// EnsureSchema applies collection validators, then reconciles indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	return nil
}
