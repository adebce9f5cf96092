// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/storyhub/internal/app/system/metrics"
	"github.com/dalemusser/storyhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Media is the store uploaded story files are written to.
	Media storage.Store

	Metrics *metrics.Metrics

	// Sweeper is nil when the orphan sweeper is disabled.
	Sweeper *workers.OrphanSweeper
}
