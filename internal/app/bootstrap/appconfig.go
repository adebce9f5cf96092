// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for storyhub.
//
// Values come from environment variables (STORYHUB_*), configuration files,
// or command-line flags, loaded in LoadConfig. WAFFLE's CoreConfig covers
// the framework-level settings (ports, TLS, logging, request limits); this
// struct holds everything specific to the pitch marketplace.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Media storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Directory holding uploaded media (e.g., "./uploads")

	// S3 configuration (only used if StorageType is "s3")
	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Prefix    string // Key prefix (e.g., "stories/")
	StorageS3Endpoint  string // Custom endpoint for S3-compatible stores (MinIO, R2)
	StorageS3AccessKey string // Static credentials; blank uses the default AWS chain
	StorageS3SecretKey string
	StorageS3PublicURL string        // Public base URL; blank means presigned GETs
	StorageS3Presign   time.Duration // Lifetime of presigned media links

	// Uploads
	UploadMaxBytes int64 // Largest accepted media file

	// CORS for /api/*
	CORSAllowedOrigins []string

	// Login throttling
	LoginRateIP    int // attempts per minute per client IP
	LoginRateEmail int // attempts per five minutes per email

	// Orphan media sweeper; disabled when SweepInterval is 0.
	SweepInterval time.Duration
	SweepGrace    time.Duration

	// Handler timeouts; zero keeps the built-in default.
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutUpload time.Duration
}
