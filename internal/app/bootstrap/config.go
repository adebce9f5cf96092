// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/storyhub/internal/app/system/timeouts"
	"github.com/dalemusser/storyhub/internal/app/system/uploads"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for storyhub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, storage_type, etc.
//   - Environment variables: STORYHUB_MONGO_URI, STORYHUB_STORAGE_TYPE, etc.
//   - Command-line flags: --mongo_uri, --storage_type, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "storyhub", Desc: "MongoDB database name"},

	// Media storage
	{Name: "storage_type", Default: "local", Desc: "Media storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Directory for uploaded media files"},

	// S3
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "stories/", Desc: "S3 key prefix"},
	{Name: "storage_s3_endpoint", Default: "", Desc: "Custom S3 endpoint (MinIO, R2); enables path-style addressing"},
	{Name: "storage_s3_access_key", Default: "", Desc: "S3 access key (blank uses the default AWS credential chain)"},
	{Name: "storage_s3_secret_key", Default: "", Desc: "S3 secret key"},
	{Name: "storage_s3_public_url", Default: "", Desc: "Public base URL for media objects (blank uses presigned links)"},
	{Name: "storage_s3_presign_expiry", Default: "1h", Desc: "Lifetime of presigned media links"},

	// Uploads
	{Name: "upload_max_bytes", Default: int(uploads.DefaultMaxBytes), Desc: "Maximum media file size in bytes (default: 100MB)"},

	// CORS
	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated origins allowed on /api (default: all)"},

	// Login throttling
	{Name: "login_rate_ip", Default: 10, Desc: "Login attempts per minute per client IP"},
	{Name: "login_rate_email", Default: 5, Desc: "Login attempts per 5 minutes per email"},

	// Orphan sweeper
	{Name: "sweep_interval", Default: "1h", Desc: "How often to remove unreferenced media files (0 disables)"},
	{Name: "sweep_grace", Default: "1h", Desc: "Minimum age before an unreferenced file is removed"},

	// Timeouts
	{Name: "timeout_ping", Default: "2s", Desc: "Health check ping timeout"},
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for story listing and deletes"},
	{Name: "timeout_upload", Default: "5m", Desc: "Timeout for storing an uploaded media file"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// STORYHUB_* environment variables and command-line flags with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STORYHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		StorageType:      strings.ToLower(strings.TrimSpace(appValues.String("storage_type"))),
		StorageLocalPath: appValues.String("storage_local_path"),

		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageS3Endpoint:  appValues.String("storage_s3_endpoint"),
		StorageS3AccessKey: appValues.String("storage_s3_access_key"),
		StorageS3SecretKey: appValues.String("storage_s3_secret_key"),
		StorageS3PublicURL: appValues.String("storage_s3_public_url"),
		StorageS3Presign:   appValues.Duration("storage_s3_presign_expiry", time.Hour),

		UploadMaxBytes: int64(appValues.Int("upload_max_bytes")),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		LoginRateIP:    appValues.Int("login_rate_ip"),
		LoginRateEmail: appValues.Int("login_rate_email"),

		SweepInterval: appValues.Duration("sweep_interval", time.Hour),
		SweepGrace:    appValues.Duration("sweep_grace", time.Hour),

		TimeoutPing:   appValues.Duration("timeout_ping", 0),
		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutUpload: appValues.Duration("timeout_upload", 0),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI format is checked before any connection attempt, and the
// storage backend must be one storyhub knows how to build.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if strings.TrimSpace(appCfg.MongoDatabase) == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}

	switch appCfg.StorageType {
	case storageLocal:
		if strings.TrimSpace(appCfg.StorageLocalPath) == "" {
			return fmt.Errorf("storage_local_path is required for local storage")
		}
	case storageS3:
		if appCfg.StorageS3Bucket == "" {
			return fmt.Errorf("storage_s3_bucket is required when storage_type is 's3'")
		}
		if (appCfg.StorageS3AccessKey == "") != (appCfg.StorageS3SecretKey == "") {
			return fmt.Errorf("storage_s3_access_key and storage_s3_secret_key must be set together")
		}
	default:
		return fmt.Errorf("unknown storage_type %q (want 'local' or 's3')", appCfg.StorageType)
	}

	if appCfg.UploadMaxBytes < 0 {
		return fmt.Errorf("upload_max_bytes must not be negative")
	}
	if appCfg.LoginRateIP <= 0 || appCfg.LoginRateEmail <= 0 {
		return fmt.Errorf("login_rate_ip and login_rate_email must be positive")
	}
	if appCfg.SweepInterval < 0 || appCfg.SweepGrace < 0 {
		return fmt.Errorf("sweep_interval and sweep_grace must not be negative")
	}
	if appCfg.SweepInterval > 0 {
		upload := appCfg.TimeoutUpload
		if upload <= 0 {
			upload = timeouts.DefaultUpload
		}
		// A file is stored before its story record; the grace covers that window.
		if appCfg.SweepGrace < upload {
			return fmt.Errorf("sweep_grace (%s) must be at least timeout_upload (%s) while the sweeper is enabled", appCfg.SweepGrace, upload)
		}
	}
	return nil
}

const (
	storageLocal = "local"
	storageS3    = "s3"
)

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
