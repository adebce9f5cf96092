package workers

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

type staticRefs map[string]struct{}

func (s staticRefs) ReferencedMediaURLs(context.Context) (map[string]struct{}, error) {
	return s, nil
}

type failingRefs struct{}

func (failingRefs) ReferencedMediaURLs(context.Context) (map[string]struct{}, error) {
	return nil, errors.New("db down")
}

type countSink struct{ n int }

func (c *countSink) Swept(n int) { c.n += n }

func newLocal(t *testing.T) *storage.Local {
	t.Helper()
	store, err := storage.NewLocal(storage.LocalConfig{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	return store
}

func putAged(t *testing.T, store *storage.Local, name string, age time.Duration) {
	t.Helper()
	if err := store.Put(context.Background(), name, strings.NewReader("x"), nil); err != nil {
		t.Fatalf("Put(%s): %v", name, err)
	}
	full, err := store.GetFullPath(name)
	if err != nil {
		t.Fatalf("GetFullPath(%s): %v", name, err)
	}
	ts := time.Now().Add(-age)
	if err := os.Chtimes(full, ts, ts); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
}

func exists(t *testing.T, store storage.Store, name string) bool {
	t.Helper()
	ok, err := store.Exists(context.Background(), name)
	if err != nil {
		t.Fatalf("Exists(%s): %v", name, err)
	}
	return ok
}

func TestOrphanSweeper_Sweep(t *testing.T) {
	store := newLocal(t)

	putAged(t, store, "kept.mp4", 48*time.Hour)
	putAged(t, store, "orphan.mp4", 48*time.Hour)
	putAged(t, store, "fresh.mp4", time.Minute)
	putAged(t, store, ".tmp-123", 48*time.Hour)

	refs := staticRefs{"/uploads/kept.mp4": {}}
	sink := &countSink{}
	w := NewOrphanSweeper(store, refs, sink, zap.NewNop(), time.Hour, 24*time.Hour)

	n, err := w.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 1 {
		t.Errorf("removed = %d, want 1", n)
	}
	if sink.n != 1 {
		t.Errorf("counter = %d, want 1", sink.n)
	}
	if exists(t, store, "orphan.mp4") {
		t.Error("orphan.mp4 should be removed")
	}
	if !exists(t, store, "kept.mp4") {
		t.Error("kept.mp4 is referenced and should remain")
	}
	if !exists(t, store, "fresh.mp4") {
		t.Error("fresh.mp4 is within grace and should remain")
	}
	if !exists(t, store, ".tmp-123") {
		t.Error("in-progress writes should be left alone")
	}
}

func TestOrphanSweeper_ReferenceError(t *testing.T) {
	store := newLocal(t)
	putAged(t, store, "a.mp4", 48*time.Hour)

	w := NewOrphanSweeper(store, failingRefs{}, nil, zap.NewNop(), time.Hour, time.Hour)
	if _, err := w.Sweep(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if !exists(t, store, "a.mp4") {
		t.Error("nothing should be removed when references cannot be loaded")
	}
}

func TestOrphanSweeper_StartStop(t *testing.T) {
	store := newLocal(t)
	w := NewOrphanSweeper(store, staticRefs{}, nil, zap.NewNop(), 10*time.Millisecond, time.Hour)
	w.Start()
	time.Sleep(30 * time.Millisecond)
	w.Stop()
	w.Stop()
}
