package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/storyhub/internal/app/system/mediastore"
	"github.com/dalemusser/storyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// FixturePassword is the plain password of every fixture user.
const FixturePassword = "password123"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user whose password is FixturePassword.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash fixture password: %v", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		Phone:        "555-0100",
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create user %s: %v", email, err)
	}
	return u
}

// CreateDirector inserts a director fixture.
func (f *Fixtures) CreateDirector(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleDirector)
}

// CreateProducer inserts a producer fixture.
func (f *Fixtures) CreateProducer(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleProducer)
}

// CreateStory inserts a story created at the given time. The media URL
// points at a generated name; no file is written.
func (f *Fixtures) CreateStory(ctx context.Context, directorID primitive.ObjectID, title, mediaType string, createdAt time.Time, genres ...string) models.Story {
	f.t.Helper()

	if genres == nil {
		genres = []string{}
	}
	s := models.Story{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: title + " description",
		MediaType:   mediaType,
		MediaURL:    mediastore.MediaURL(primitive.NewObjectID().Hex() + ".bin"),
		Genres:      genres,
		DirectorID:  directorID,
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   createdAt.UTC(),
	}
	if _, err := f.db.Collection("stories").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create story %s: %v", title, err)
	}
	return s
}
