package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/spayd_api/internal/models"
)

// PaymentRepository provides access to generated payments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment. A non-nil notify is inserted into sync_queue in
// the same transaction, with its PaymentID and Payload taken from the stored
// payment, so a payment is never committed without its notification.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment, notify *models.SyncQueueItem) error {
	const q = `
		INSERT INTO payments (
			account_id, event_id, split_index, amount, currency,
			variable_symbol, specific_symbol, constant_symbol, message, spayd_string
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx, q,
		p.AccountID, p.EventID, p.SplitIndex, p.Amount, p.Currency,
		p.VariableSymbol, p.SpecificSymbol, p.ConstantSymbol, p.Message, p.SPAYDString,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return err
	}

	if notify != nil {
		payload, err := json.Marshal(p.Notification())
		if err != nil {
			return fmt.Errorf("marshal sync payload: %w", err)
		}
		notify.PaymentID = p.ID
		notify.Payload = payload
		err = tx.QueryRowxContext(ctx, insertSyncQueueQuery, notify.PaymentID, notify.WebhookURL, notify.Payload).
			Scan(&notify.ID, &notify.Status, &notify.Attempts, &notify.CreatedAt)
		if err != nil {
			return fmt.Errorf("queue payment notification: %w", err)
		}
	}

	return tx.Commit()
}

// GetByID returns a payment, or nil when it does not exist.
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	const q = `SELECT * FROM payments WHERE id = $1`
	var p models.Payment
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// List returns payments newest first together with the total matching count.
func (r *PaymentRepository) List(ctx context.Context, f models.PaymentFilter) ([]models.Payment, int, error) {
	const where = `
		WHERE ($1::bigint IS NULL OR account_id = $1)
		  AND ($2::bigint IS NULL OR event_id = $2)`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM payments`+where, f.AccountID, f.EventID); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	out := []models.Payment{}
	q := `SELECT * FROM payments` + where + ` ORDER BY id DESC LIMIT $3 OFFSET $4`
	if err := r.db.SelectContext(ctx, &out, q, f.AccountID, f.EventID, limit, offset); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
