package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/storyhub/internal/app/store/users"
	"github.com/dalemusser/storyhub/internal/app/system/indexes"
	"github.com/dalemusser/storyhub/internal/domain/models"
	"github.com/dalemusser/storyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func director(email string) models.User {
	return models.User{
		Name:         "  Ada   Lovelace ",
		Email:        email,
		Phone:        " 555-0101 ",
		Role:         "director",
		PasswordHash: "hash",
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, director("Ada@Example.COM"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Email != "ada@example.com" {
		t.Errorf("Email = %q, want lowercased", created.Email)
	}
	if created.Name != "Ada Lovelace" {
		t.Errorf("Name = %q, want collapsed whitespace", created.Name)
	}
	if created.NameCI != "ada lovelace" {
		t.Errorf("NameCI = %q", created.NameCI)
	}
	if created.Phone != "555-0101" {
		t.Errorf("Phone = %q", created.Phone)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_BadRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := director("x@example.com")
	u.Role = "admin"
	if _, err := store.Create(ctx, u); err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestStore_Create_DuplicateEmailDiffersInCase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := userstore.New(db)

	if _, err := store.Create(ctx, director("a@x.com")); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, director("A@X.com"))
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, director("find@example.com"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByEmail(ctx, "  FIND@example.com ")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %v, want %v", got.ID, created.ID)
	}
	if got.PasswordHash != "hash" {
		t.Error("expected password hash to be loaded")
	}

	if _, err := store.GetByEmail(ctx, "missing@example.com"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_UpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, director("p@example.com"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.UpdateProfile(ctx, created.ID, userstore.ProfileUpdate{Bio: "Indie filmmaker"})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if got.Bio != "Indie filmmaker" {
		t.Errorf("Bio = %q", got.Bio)
	}
	if got.Name != created.Name || got.Phone != created.Phone {
		t.Error("empty fields must preserve stored values")
	}
	if !got.UpdatedAt.After(created.UpdatedAt) && !got.UpdatedAt.Equal(created.UpdatedAt) {
		t.Error("UpdatedAt should not go backwards")
	}

	got, err = store.UpdateProfile(ctx, created.ID, userstore.ProfileUpdate{Name: "Ada King"})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if got.Name != "Ada King" || got.NameCI != "ada king" || got.Bio != "Indie filmmaker" {
		t.Errorf("unexpected user after name update: %+v", got)
	}
}

func TestStore_UpdateProfile_NoFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, director("n@example.com"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got, err := store.UpdateProfile(ctx, created.ID, userstore.ProfileUpdate{})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if got.Name != created.Name {
		t.Errorf("Name = %q, want %q", got.Name, created.Name)
	}
}

func TestStore_UpdateProfile_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.UpdateProfile(ctx, primitive.NewObjectID(), userstore.ProfileUpdate{Name: "X"})
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}
