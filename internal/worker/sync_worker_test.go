package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/GTDGit/spayd_api/internal/service"
	"github.com/GTDGit/spayd_api/internal/utils"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

type countingProcessor struct {
	calls atomic.Int32
	err   error
}

func (p *countingProcessor) ProcessSyncQueue(context.Context) (*service.SyncRunResult, error) {
	p.calls.Add(1)
	return &service.SyncRunResult{}, p.err
}

func TestSyncWorker_RunsImmediatelyAndOnInterval(t *testing.T) {
	p := &countingProcessor{}
	stop := NewSyncWorker(p, 10*time.Millisecond).StartBackgroundSync(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for p.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	stop()

	if n := p.calls.Load(); n < 3 {
		t.Fatalf("expected at least 3 runs, got %d", n)
	}

	after := p.calls.Load()
	time.Sleep(50 * time.Millisecond)
	if p.calls.Load() != after {
		t.Error("expected no runs after stop")
	}
}

func TestSyncWorker_FirstRunBeforeFirstTick(t *testing.T) {
	p := &countingProcessor{}
	stop := NewSyncWorker(p, time.Hour).StartBackgroundSync(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for p.calls.Load() < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	stop()

	if n := p.calls.Load(); n != 1 {
		t.Errorf("expected exactly 1 run, got %d", n)
	}
}

func TestSyncWorker_SurvivesErrors(t *testing.T) {
	p := &countingProcessor{err: utils.ErrSyncInProgress}
	stop := NewSyncWorker(p, 10*time.Millisecond).StartBackgroundSync(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for p.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	stop()

	if p.calls.Load() < 2 {
		t.Error("expected the loop to keep running after errors")
	}
}

func TestNewSyncWorker_DefaultInterval(t *testing.T) {
	if w := NewSyncWorker(&countingProcessor{}, 0); w.interval != DefaultSyncInterval {
		t.Errorf("expected %s, got %s", DefaultSyncInterval, w.interval)
	}
}
