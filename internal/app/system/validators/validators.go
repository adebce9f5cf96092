// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/storyhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and attaches JSON-Schema
// validators. Servers without collMod/validator support are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isUnsupported(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("stories", storiesSchema())

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	if exists, err := collectionExists(ctx, db, name); err == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if hasCode(err, 48) || containsAny(err, "already exists", "namespace exists") {
			zap.L().Info("collection exists", zap.String("collection", name))
			return nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func hasCode(err error, codes ...int32) bool {
	var ce mongo.CommandError
	if !errors.As(err, &ce) {
		return false
	}
	for _, c := range codes {
		if ce.Code == c {
			return true
		}
	}
	return false
}

func containsAny(err error, subs ...string) bool {
	s := strings.ToLower(err.Error())
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// isUnsupported matches CommandNotFound (59) and NotImplemented (115),
// as returned by DocumentDB and similar deployments.
func isUnsupported(err error) bool {
	return hasCode(err, 59, 115) || containsAny(err, "no such command", "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func toA(ss []string) bson.A {
	out := make(bson.A, 0, len(ss))
	for _, s := range ss {
		out = append(out, s)
	}
	return out
}

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "email", "phone", "role", "password_hash", "created_at"},
			"properties": bson.M{
				"name":          nonBlank,
				"name_ci":       bson.M{"bsonType": "string"},
				"email":         nonBlank,
				"phone":         nonBlank,
				"role":          bson.M{"enum": toA(models.Roles)},
				"password_hash": nonBlank,
				"bio":           bson.M{"bsonType": "string"},
				"created_at":    bson.M{"bsonType": "date"},
				"updated_at":    bson.M{"bsonType": "date"},
			},
		},
	}
}

func storiesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "description", "media_type", "media_url", "genres", "director_id", "created_at"},
			"properties": bson.M{
				"title":       nonBlank,
				"description": nonBlank,
				"media_type":  bson.M{"enum": toA(models.MediaTypes)},
				"media_url":   bson.M{"bsonType": "string", "pattern": "^/uploads/[^/]+$"},
				"genres": bson.M{
					"bsonType": "array",
					"items":    bson.M{"bsonType": "string"},
				},
				"director_id": bson.M{"bsonType": "objectId"},
				"created_at":  bson.M{"bsonType": "date"},
				"updated_at":  bson.M{"bsonType": "date"},
			},
		},
	}
}
