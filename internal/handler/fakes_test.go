package handler

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/GTDGit/spayd_api/internal/models"
)

type fakeAccounts struct{ items map[int64]models.Account }

func (f *fakeAccounts) List(context.Context) ([]models.Account, error) {
	out := []models.Account{}
	for _, a := range f.items {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id int64) (*models.Account, error) {
	if a, ok := f.items[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (f *fakeAccounts) Create(_ context.Context, a *models.Account) error {
	a.ID = int64(len(f.items) + 1)
	f.items[a.ID] = *a
	return nil
}

func (f *fakeAccounts) Update(_ context.Context, a *models.Account) error {
	f.items[a.ID] = *a
	return nil
}

func (f *fakeAccounts) Delete(_ context.Context, id int64) (bool, error) {
	_, ok := f.items[id]
	delete(f.items, id)
	return ok, nil
}

type fakeEvents struct{ items map[int64]models.Event }

func (f *fakeEvents) List(context.Context, *int64) ([]models.Event, error) {
	out := []models.Event{}
	for _, e := range f.items {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEvents) GetByID(_ context.Context, id int64) (*models.Event, error) {
	if e, ok := f.items[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (f *fakeEvents) Create(_ context.Context, e *models.Event) error {
	e.ID = int64(len(f.items) + 1)
	f.items[e.ID] = *e
	return nil
}

func (f *fakeEvents) Update(_ context.Context, e *models.Event) error {
	f.items[e.ID] = *e
	return nil
}

func (f *fakeEvents) Delete(_ context.Context, id int64) (bool, error) {
	_, ok := f.items[id]
	delete(f.items, id)
	return ok, nil
}

type fakePayments struct {
	items []models.Payment
	queue *fakeQueue
}

func (f *fakePayments) Create(ctx context.Context, p *models.Payment, notify *models.SyncQueueItem) error {
	p.ID = int64(len(f.items) + 1)
	p.CreatedAt = time.Now()
	if notify != nil {
		payload, err := json.Marshal(p.Notification())
		if err != nil {
			return err
		}
		notify.PaymentID = p.ID
		notify.Payload = payload
		if err := f.queue.Create(ctx, notify); err != nil {
			return err
		}
	}
	f.items = append(f.items, *p)
	return nil
}

func (f *fakePayments) GetByID(_ context.Context, id int64) (*models.Payment, error) {
	for _, p := range f.items {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakePayments) List(context.Context, models.PaymentFilter) ([]models.Payment, int, error) {
	return f.items, len(f.items), nil
}

type fakeSettings struct{ values map[string]json.RawMessage }

func (f *fakeSettings) List(context.Context) ([]models.Setting, error) {
	out := []models.Setting{}
	for k, v := range f.values {
		out = append(out, models.Setting{Key: k, Value: v})
	}
	return out, nil
}

func (f *fakeSettings) Set(_ context.Context, key string, value json.RawMessage) error {
	f.values[key] = value
	return nil
}

type fakeQueue struct {
	mu    sync.Mutex
	items []*models.SyncQueueItem
}

func (f *fakeQueue) find(id int64) *models.SyncQueueItem {
	for _, it := range f.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func (f *fakeQueue) Create(_ context.Context, item *models.SyncQueueItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = int64(len(f.items) + 1)
	item.Status = models.SyncPending
	item.CreatedAt = time.Now()
	cp := *item
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeQueue) List(_ context.Context, status *models.SyncStatus) ([]models.SyncQueueItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.SyncQueueItem{}
	for _, it := range f.items {
		if status == nil || it.Status == *status {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (f *fakeQueue) Get(_ context.Context, id int64) (*models.SyncQueueItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if it := f.find(id); it != nil {
		cp := *it
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeQueue) GetByPaymentID(_ context.Context, paymentID int64) (*models.SyncQueueItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].PaymentID == paymentID {
			cp := *f.items[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeQueue) RecordAttempt(_ context.Context, id int64, status models.SyncStatus, errMsg *string) (*models.SyncQueueItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it := f.find(id)
	if it == nil {
		return nil, nil
	}
	it.Status = status
	it.Attempts++
	it.Error = errMsg
	cp := *it
	return &cp, nil
}

func (f *fakeQueue) Acknowledge(_ context.Context, id int64) (*models.SyncQueueItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it := f.find(id)
	if it == nil {
		return nil, nil
	}
	now := time.Now()
	it.Status = models.SyncAcked
	it.AckedAt = &now
	it.Error = nil
	cp := *it
	return &cp, nil
}

func (f *fakeQueue) Reset(_ context.Context, opts models.SyncReset) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, it := range f.items {
		if opts.Global || (opts.FromPaymentID != nil && it.PaymentID >= *opts.FromPaymentID) {
			it.Status = models.SyncPending
			it.Attempts = 0
			it.Error = nil
			it.AckedAt = nil
			n++
		}
	}
	return n, nil
}
