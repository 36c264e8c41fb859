package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/spayd_api/internal/service"
	"github.com/GTDGit/spayd_api/internal/utils"
)

// DefaultSyncInterval is how often the sync queue is processed.
const DefaultSyncInterval = 30 * time.Second

// QueueProcessor processes the sync queue once.
type QueueProcessor interface {
	ProcessSyncQueue(ctx context.Context) (*service.SyncRunResult, error)
}

// SyncWorker periodically delivers pending and failed payment notifications.
type SyncWorker struct {
	processor QueueProcessor
	interval  time.Duration
}

// NewSyncWorker constructs a SyncWorker. An interval <= 0 uses DefaultSyncInterval.
func NewSyncWorker(processor QueueProcessor, interval time.Duration) *SyncWorker {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &SyncWorker{
		processor: processor,
		interval:  interval,
	}
}

// Start processes the queue immediately, then on every tick until ctx is done.
func (w *SyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting sync worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Sync worker stopped")
			return
		}
	}
}

// StartBackgroundSync runs Start on its own goroutine and returns a func that
// stops it and waits for the loop to exit. An attempt in flight when stop is
// called still completes.
func (w *SyncWorker) StartBackgroundSync(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Start(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

func (w *SyncWorker) run(ctx context.Context) {
	start := time.Now()
	res, err := w.processor.ProcessSyncQueue(ctx)
	switch {
	case errors.Is(err, utils.ErrSyncInProgress):
		log.Debug().Msg("Sync queue busy, skipping cycle")
		return
	case errors.Is(err, context.Canceled):
		return
	case err != nil:
		log.Error().Err(err).Msg("Failed to process sync queue")
		return
	}

	if res != nil && res.Attempted > 0 {
		log.Debug().Dur("duration", time.Since(start)).Int("attempted", res.Attempted).Msg("Sync cycle completed")
	}
}
