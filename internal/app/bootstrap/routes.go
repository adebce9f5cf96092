// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	errorsfeature "github.com/dalemusser/storyhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/storyhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/storyhub/internal/app/features/login"
	mediafeature "github.com/dalemusser/storyhub/internal/app/features/media"
	profilefeature "github.com/dalemusser/storyhub/internal/app/features/profile"
	registerfeature "github.com/dalemusser/storyhub/internal/app/features/register"
	storiesfeature "github.com/dalemusser/storyhub/internal/app/features/stories"
	"github.com/dalemusser/storyhub/internal/app/system/ratelimit"
	"github.com/dalemusser/storyhub/internal/app/system/uploads"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for storyhub.
//
// WAFFLE calls this after configuration, DB connections, schema setup and
// Startup have completed. The JSON API lives under /api with permissive
// CORS; stored media is served under /uploads and Prometheus metrics at
// /metrics.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	errLog := errorsfeature.NewErrorLogger(logger)
	limiter := ratelimit.NewLoginLimiter(appCfg.LoginRateIP, appCfg.LoginRateEmail)
	intake := uploads.New(deps.Media, appCfg.UploadMaxBytes, logger)

	r := chi.NewRouter()
	r.Use(deps.Metrics.Middleware)

	origins := appCfg.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
			MaxAge:         300,
		}))

		healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
		api.Mount("/health", healthfeature.Routes(healthHandler))

		// Accounts
		registerHandler := registerfeature.NewHandler(deps.MongoDatabase, deps.Metrics, errLog, logger)
		api.Mount("/register", registerfeature.Routes(registerHandler))

		loginHandler := loginfeature.NewHandler(deps.MongoDatabase, limiter, deps.Metrics, errLog, logger)
		api.Mount("/login", loginfeature.Routes(loginHandler))

		profileHandler := profilefeature.NewHandler(deps.MongoDatabase, errLog, logger)
		api.Mount("/profile", profilefeature.Routes(profileHandler))

		// Stories
		storiesHandler := storiesfeature.NewHandler(deps.MongoDatabase, deps.Media, intake, deps.Metrics, errLog, logger)
		api.Mount("/stories", storiesfeature.Routes(storiesHandler))
	})

	mediaHandler := mediafeature.NewHandler(deps.Media, appCfg.StorageS3PublicURL != "", appCfg.StorageS3Presign, logger)
	r.Mount("/uploads", mediafeature.Routes(mediaHandler))

	r.Handle("/metrics", deps.Metrics.Handler())

	return r, nil
}
