package service

import (
	"context"
	"encoding/json"

	"github.com/GTDGit/spayd_api/internal/models"
)

// Record stores consumed by the services. Getters return nil, nil when the
// record does not exist; the repository package provides the PostgreSQL
// implementations.

type AccountStore interface {
	List(ctx context.Context) ([]models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	Create(ctx context.Context, a *models.Account) error
	Update(ctx context.Context, a *models.Account) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type EventStore interface {
	List(ctx context.Context, accountID *int64) ([]models.Event, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	Create(ctx context.Context, e *models.Event) error
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type PaymentStore interface {
	// Create stores p and, when notify is non-nil, its pending sync item
	// atomically. notify's PaymentID and Payload are filled from p.
	Create(ctx context.Context, p *models.Payment, notify *models.SyncQueueItem) error
	GetByID(ctx context.Context, id int64) (*models.Payment, error)
	List(ctx context.Context, f models.PaymentFilter) ([]models.Payment, int, error)
}

type SettingStore interface {
	List(ctx context.Context) ([]models.Setting, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
}
