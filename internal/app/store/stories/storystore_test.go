package storystore_test

import (
	"errors"
	"testing"
	"time"

	storystore "github.com/dalemusser/storyhub/internal/app/store/stories"
	"github.com/dalemusser/storyhub/internal/domain/models"
	"github.com/dalemusser/storyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := storystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	directorID := primitive.NewObjectID()
	created, err := store.Create(ctx, models.Story{
		Title:       " Night Shift ",
		Description: "A nurse's story",
		MediaType:   models.MediaTypeVideo,
		MediaURL:    "/uploads/a.mp4",
		Genres:      []string{"Drama", "Drama"},
		DirectorID:  directorID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Title != "Night Shift" {
		t.Errorf("Title = %q", created.Title)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.DirectorID != directorID || len(got.Genres) != 2 {
		t.Errorf("unexpected story: %+v", got)
	}
}

func TestStore_Create_BadMediaType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := storystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Story{Title: "x", MediaType: "image"}); err == nil {
		t.Fatal("expected error for invalid media type")
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := storystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	st := fx.CreateStory(ctx, primitive.NewObjectID(), "Gone", models.MediaTypePDF, time.Now())

	if err := store.Delete(ctx, st.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, st.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments after delete, got %v", err)
	}
	if err := store.Delete(ctx, st.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("second Delete: expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_ListWithDirectors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := storystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dir := fx.CreateDirector(ctx, "Ann Director", "ann@x.com")
	base := time.Now().Add(-time.Hour)
	older := fx.CreateStory(ctx, dir.ID, "Older", models.MediaTypeAudio, base)
	newer := fx.CreateStory(ctx, dir.ID, "Newer", models.MediaTypeVideo, base.Add(time.Minute), "Drama")
	orphan := fx.CreateStory(ctx, primitive.NewObjectID(), "Orphan", models.MediaTypePDF, base.Add(-time.Minute))

	views, err := store.ListWithDirectors(ctx)
	if err != nil {
		t.Fatalf("ListWithDirectors failed: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("len = %d, want 3", len(views))
	}

	if views[0].ID != newer.ID || views[1].ID != older.ID || views[2].ID != orphan.ID {
		t.Errorf("unexpected order: %s, %s, %s", views[0].Title, views[1].Title, views[2].Title)
	}

	d := views[0].Director
	if d == nil {
		t.Fatal("expected director to be joined")
	}
	if d.ID != dir.ID || d.Name != "Ann Director" || d.Email != "ann@x.com" || d.Phone != dir.Phone {
		t.Errorf("unexpected director: %+v", d)
	}
	if views[2].Director != nil {
		t.Errorf("expected nil director for missing user, got %+v", views[2].Director)
	}
}

func TestStore_ListWithDirectors_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := storystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	views, err := store.ListWithDirectors(ctx)
	if err != nil {
		t.Fatalf("ListWithDirectors failed: %v", err)
	}
	if views == nil || len(views) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", views)
	}
}

func TestStore_ReferencedMediaURLs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := storystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateStory(ctx, primitive.NewObjectID(), "A", models.MediaTypeVideo, time.Now())
	b := fx.CreateStory(ctx, primitive.NewObjectID(), "B", models.MediaTypeAudio, time.Now())

	refs, err := store.ReferencedMediaURLs(ctx)
	if err != nil {
		t.Fatalf("ReferencedMediaURLs failed: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("len = %d, want 2", len(refs))
	}
	for _, u := range []string{a.MediaURL, b.MediaURL} {
		if _, ok := refs[u]; !ok {
			t.Errorf("expected %s in refs", u)
		}
	}
}
