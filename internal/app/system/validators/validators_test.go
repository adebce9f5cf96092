package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/storyhub/internal/app/system/validators"
	"github.com/dalemusser/storyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := map[string]bool{}
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"users", "stories"} {
		if !have[want] {
			t.Errorf("expected collection %s to exist", want)
		}
	}
}

func TestUsersValidator_RejectsBadRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("users").InsertOne(ctx, bson.M{
		"name":          "Ann",
		"email":         "ann@example.com",
		"phone":         "555",
		"role":          "admin",
		"password_hash": "x",
		"created_at":    time.Now(),
	})
	if err == nil {
		t.Error("expected validator to reject unknown role")
	}
}

func TestStoriesValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	good := bson.M{
		"title":       "Pitch",
		"description": "A story",
		"media_type":  "video",
		"media_url":   "/uploads/abc.mp4",
		"genres":      bson.A{"Drama"},
		"director_id": primitive.NewObjectID(),
		"created_at":  time.Now(),
	}
	if _, err := db.Collection("stories").InsertOne(ctx, good); err != nil {
		t.Fatalf("valid story rejected: %v", err)
	}

	bad := bson.M{}
	for k, v := range good {
		bad[k] = v
	}
	bad["media_type"] = "image"
	if _, err := db.Collection("stories").InsertOne(ctx, bad); err == nil {
		t.Error("expected validator to reject media_type image")
	}
}
