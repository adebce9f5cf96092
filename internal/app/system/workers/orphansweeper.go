// internal/app/system/workers/orphansweeper.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/storyhub/internal/app/system/mediastore"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// MediaReferences reports which media URLs are referenced by stories.
type MediaReferences interface {
	ReferencedMediaURLs(ctx context.Context) (map[string]struct{}, error)
}

// SweepCounter receives the number of files removed per sweep.
type SweepCounter interface {
	Swept(n int)
}

// OrphanSweeper is a background worker that deletes stored media no story
// references. Files newer than the grace period are kept so an upload in
// flight, whose record is not yet inserted, is never removed.
type OrphanSweeper struct {
	store    storage.Store
	refs     MediaReferences
	counter  SweepCounter
	log      *zap.Logger
	interval time.Duration
	grace    time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewOrphanSweeper creates a sweeper.
//
// Parameters:
//   - store: the media store to sweep
//   - refs: source of referenced media URLs (the story store)
//   - counter: optional metrics sink, may be nil
//   - interval: how often to sweep (e.g., 1 hour)
//   - grace: minimum file age before it can be removed (e.g., 24 hours)
func NewOrphanSweeper(store storage.Store, refs MediaReferences, counter SweepCounter, logger *zap.Logger, interval, grace time.Duration) *OrphanSweeper {
	return &OrphanSweeper{
		store:    store,
		refs:     refs,
		counter:  counter,
		log:      logger,
		interval: interval,
		grace:    grace,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *OrphanSweeper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("orphan sweeper started",
		zap.Duration("interval", w.interval),
		zap.Duration("grace", w.grace))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call twice.
func (w *OrphanSweeper) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("orphan sweeper stopped")
	})
}

func (w *OrphanSweeper) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			if _, err := w.Sweep(ctx); err != nil {
				w.log.Error("orphan sweep failed", zap.Error(err))
			}
			cancel()
		}
	}
}

// Sweep runs one pass and returns the number of files removed.
func (w *OrphanSweeper) Sweep(ctx context.Context) (int, error) {
	// List files before loading references: a story inserted in between
	// is then already in the reference set.
	objs, err := mediastore.ListAll(ctx, w.store)
	if err != nil {
		return 0, err
	}
	refs, err := w.refs.ReferencedMediaURLs(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := w.now().Add(-w.grace)
	removed := 0
	for _, o := range objs {
		if !mediastore.ValidName(o.Path) || o.LastModified.After(cutoff) {
			continue
		}
		if _, ok := refs[mediastore.MediaURL(o.Path)]; ok {
			continue
		}
		if err := mediastore.Remove(ctx, w.store, o.Path); err != nil {
			w.log.Warn("failed to remove orphan media", zap.String("name", o.Path), zap.Error(err))
			continue
		}
		removed++
		w.log.Info("removed orphan media", zap.String("name", o.Path))
	}

	if w.counter != nil {
		w.counter.Swept(removed)
	}
	return removed, nil
}
