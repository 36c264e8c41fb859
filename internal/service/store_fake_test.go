package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/GTDGit/spayd_api/internal/models"
)

// memSyncStore is an in-memory SyncQueueStore. A non-nil createErr fails
// every Create.
type memSyncStore struct {
	mu        sync.Mutex
	items     []*models.SyncQueueItem
	nextID    int64
	createErr error
}

func newMemSyncStore() *memSyncStore {
	return &memSyncStore{}
}

// seed inserts an item as-is, assigning an id when missing.
func (m *memSyncStore) seed(item models.SyncQueueItem) *models.SyncQueueItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if item.ID == 0 {
		item.ID = m.nextID
	}
	if item.Status == "" {
		item.Status = models.SyncPending
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	m.items = append(m.items, &item)
	cp := item
	return &cp
}

func (m *memSyncStore) find(id int64) *models.SyncQueueItem {
	for _, it := range m.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func (m *memSyncStore) Create(_ context.Context, item *models.SyncQueueItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	item.ID = m.nextID
	item.Status = models.SyncPending
	item.Attempts = 0
	item.CreatedAt = time.Now()
	cp := *item
	m.items = append(m.items, &cp)
	return nil
}

func (m *memSyncStore) List(_ context.Context, status *models.SyncStatus) ([]models.SyncQueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.SyncQueueItem{}
	for _, it := range m.items {
		if status == nil || it.Status == *status {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (m *memSyncStore) Get(_ context.Context, id int64) (*models.SyncQueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it := m.find(id); it != nil {
		cp := *it
		return &cp, nil
	}
	return nil, nil
}

func (m *memSyncStore) GetByPaymentID(_ context.Context, paymentID int64) (*models.SyncQueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].PaymentID == paymentID {
			cp := *m.items[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memSyncStore) RecordAttempt(_ context.Context, id int64, status models.SyncStatus, errMsg *string) (*models.SyncQueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := m.find(id)
	if it == nil {
		return nil, nil
	}
	now := time.Now()
	it.Status = status
	it.Attempts++
	it.LastAttempt = &now
	if status == models.SyncAcked {
		it.AckedAt = &now
	}
	it.Error = errMsg
	cp := *it
	return &cp, nil
}

func (m *memSyncStore) Acknowledge(_ context.Context, id int64) (*models.SyncQueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := m.find(id)
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

func (m *memSyncStore) Reset(_ context.Context, opts models.SyncReset) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, it := range m.items {
		if opts.Global || (opts.FromPaymentID != nil && it.PaymentID >= *opts.FromPaymentID) {
			it.Status = models.SyncPending
			it.Attempts = 0
			it.LastAttempt = nil
			it.AckedAt = nil
			it.Error = nil
			n++
		}
	}
	return n, nil
}

// memAccountStore is an in-memory AccountStore.
type memAccountStore struct {
	items  map[int64]*models.Account
	nextID int64
}

func newMemAccountStore(seed ...models.Account) *memAccountStore {
	m := &memAccountStore{items: map[int64]*models.Account{}}
	for _, a := range seed {
		a := a
		if a.ID > m.nextID {
			m.nextID = a.ID
		}
		m.items[a.ID] = &a
	}
	return m
}

func (m *memAccountStore) List(context.Context) ([]models.Account, error) {
	out := []models.Account{}
	for _, a := range m.items {
		out = append(out, *a)
	}
	return out, nil
}

func (m *memAccountStore) GetByID(_ context.Context, id int64) (*models.Account, error) {
	if a, ok := m.items[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (m *memAccountStore) Create(_ context.Context, a *models.Account) error {
	m.nextID++
	a.ID = m.nextID
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *memAccountStore) Update(_ context.Context, a *models.Account) error {
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *memAccountStore) Delete(_ context.Context, id int64) (bool, error) {
	_, ok := m.items[id]
	delete(m.items, id)
	return ok, nil
}

// memEventStore is an in-memory EventStore.
type memEventStore struct {
	items  map[int64]*models.Event
	nextID int64
}

func newMemEventStore(seed ...models.Event) *memEventStore {
	m := &memEventStore{items: map[int64]*models.Event{}}
	for _, e := range seed {
		e := e
		if e.ID > m.nextID {
			m.nextID = e.ID
		}
		m.items[e.ID] = &e
	}
	return m
}

func (m *memEventStore) List(_ context.Context, accountID *int64) ([]models.Event, error) {
	out := []models.Event{}
	for _, e := range m.items {
		if accountID == nil || e.AccountID == *accountID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memEventStore) GetByID(_ context.Context, id int64) (*models.Event, error) {
	if e, ok := m.items[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (m *memEventStore) Create(_ context.Context, e *models.Event) error {
	m.nextID++
	e.ID = m.nextID
	cp := *e
	m.items[e.ID] = &cp
	return nil
}

func (m *memEventStore) Update(_ context.Context, e *models.Event) error {
	cp := *e
	m.items[e.ID] = &cp
	return nil
}

func (m *memEventStore) Delete(_ context.Context, id int64) (bool, error) {
	_, ok := m.items[id]
	delete(m.items, id)
	return ok, nil
}

// memPaymentStore is an in-memory PaymentStore writing notifications to
// queue. A payment is kept only when its notification was stored.
type memPaymentStore struct {
	items []models.Payment
	queue *memSyncStore
}

func (m *memPaymentStore) Create(ctx context.Context, p *models.Payment, notify *models.SyncQueueItem) error {
	id := int64(len(m.items) + 1)
	createdAt := time.Now()
	if notify != nil {
		stored := *p
		stored.ID, stored.CreatedAt = id, createdAt
		payload, err := json.Marshal(stored.Notification())
		if err != nil {
			return err
		}
		notify.PaymentID = id
		notify.Payload = payload
		if err := m.queue.Create(ctx, notify); err != nil {
			return err
		}
	}
	p.ID, p.CreatedAt = id, createdAt
	m.items = append(m.items, *p)
	return nil
}

func (m *memPaymentStore) GetByID(_ context.Context, id int64) (*models.Payment, error) {
	for _, p := range m.items {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memPaymentStore) List(_ context.Context, f models.PaymentFilter) ([]models.Payment, int, error) {
	out := []models.Payment{}
	for _, p := range m.items {
		if f.EventID != nil && p.EventID != *f.EventID {
			continue
		}
		if f.AccountID != nil && p.AccountID != *f.AccountID {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

// memSettingStore is an in-memory SettingStore.
type memSettingStore struct {
	values map[string]json.RawMessage
}

func newMemSettingStore(webhookURL string, immediate bool) *memSettingStore {
	url, _ := json.Marshal(webhookURL)
	imm, _ := json.Marshal(immediate)
	return &memSettingStore{values: map[string]json.RawMessage{
		models.SettingWebhookURL:    url,
		models.SettingImmediateSync: imm,
	}}
}

func (m *memSettingStore) List(context.Context) ([]models.Setting, error) {
	out := []models.Setting{}
	for k, v := range m.values {
		out = append(out, models.Setting{Key: k, Value: v})
	}
	return out, nil
}

func (m *memSettingStore) Set(_ context.Context, key string, value json.RawMessage) error {
	m.values[key] = value
	return nil
}
