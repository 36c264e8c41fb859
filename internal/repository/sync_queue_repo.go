package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/spayd_api/internal/models"
)

// SyncQueueRepository provides access to the sync_queue table. Every method
// is a single statement; no multi-item transaction is needed because each
// item's transition is self-contained.
type SyncQueueRepository struct {
	db *sqlx.DB
}

// NewSyncQueueRepository creates a new SyncQueueRepository.
func NewSyncQueueRepository(db *sqlx.DB) *SyncQueueRepository {
	return &SyncQueueRepository{db: db}
}

const insertSyncQueueQuery = `
	INSERT INTO sync_queue (payment_id, webhook_url, payload, status, attempts, created_at)
	VALUES ($1, $2, $3, 'pending', 0, NOW())
	RETURNING id, status, attempts, created_at`

// Create inserts a pending item and fills its generated columns.
func (r *SyncQueueRepository) Create(ctx context.Context, item *models.SyncQueueItem) error {
	stmt, err := r.db.PreparexContext(ctx, insertSyncQueueQuery)
	if err != nil {
		return err
	}
	defer stmt.Close()
	return stmt.QueryRowxContext(ctx, item.PaymentID, item.WebhookURL, item.Payload).
		Scan(&item.ID, &item.Status, &item.Attempts, &item.CreatedAt)
}

// List returns items in id order, optionally filtered by status.
func (r *SyncQueueRepository) List(ctx context.Context, status *models.SyncStatus) ([]models.SyncQueueItem, error) {
	const q = `
		SELECT * FROM sync_queue
		WHERE ($1::varchar IS NULL OR status = $1)
		ORDER BY id ASC`
	stmt, err := r.db.PreparexContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var arg *string
	if status != nil {
		s := string(*status)
		arg = &s
	}
	items := []models.SyncQueueItem{}
	if err := stmt.SelectContext(ctx, &items, arg); err != nil {
		return nil, err
	}
	return items, nil
}

// Get returns the item with id, or nil when it does not exist.
func (r *SyncQueueRepository) Get(ctx context.Context, id int64) (*models.SyncQueueItem, error) {
	return r.getOne(ctx, `SELECT * FROM sync_queue WHERE id = $1`, id)
}

// GetByPaymentID returns the most recent item for a payment, or nil.
func (r *SyncQueueRepository) GetByPaymentID(ctx context.Context, paymentID int64) (*models.SyncQueueItem, error) {
	return r.getOne(ctx, `SELECT * FROM sync_queue WHERE payment_id = $1 ORDER BY id DESC LIMIT 1`, paymentID)
}

// RecordAttempt stores the outcome of one delivery attempt: attempts is
// incremented, last_attempt set, acked_at set when status is acked, and
// error replaced by errMsg (nil clears it). It returns the updated item, or
// nil when id does not exist.
func (r *SyncQueueRepository) RecordAttempt(ctx context.Context, id int64, status models.SyncStatus, errMsg *string) (*models.SyncQueueItem, error) {
	const q = `
		UPDATE sync_queue SET
			status = $2,
			attempts = attempts + 1,
			last_attempt = NOW(),
			acked_at = CASE WHEN $2::varchar = 'acked' THEN NOW() ELSE acked_at END,
			error = $3
		WHERE id = $1
		RETURNING *`
	return r.getOne(ctx, q, id, string(status), errMsg)
}

// Acknowledge forces an item to acked without counting a delivery attempt.
func (r *SyncQueueRepository) Acknowledge(ctx context.Context, id int64) (*models.SyncQueueItem, error) {
	const q = `
		UPDATE sync_queue SET status = 'acked', acked_at = NOW(), error = NULL
		WHERE id = $1
		RETURNING *`
	return r.getOne(ctx, q, id)
}

// Reset returns items to pending with a clean delivery history. With
// opts.Global every item is reset; otherwise only items whose payment id is
// at or after opts.FromPaymentID. It returns the number of items reset.
func (r *SyncQueueRepository) Reset(ctx context.Context, opts models.SyncReset) (int64, error) {
	const q = `
		UPDATE sync_queue SET
			status = 'pending', attempts = 0, last_attempt = NULL, acked_at = NULL, error = NULL
		WHERE $1::boolean OR ($2::bigint IS NOT NULL AND payment_id >= $2)`
	stmt, err := r.db.PreparexContext(ctx, q)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	res, err := stmt.ExecContext(ctx, opts.Global, opts.FromPaymentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SyncQueueRepository) getOne(ctx context.Context, q string, args ...any) (*models.SyncQueueItem, error) {
	stmt, err := r.db.PreparexContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	var item models.SyncQueueItem
	if err := stmt.GetContext(ctx, &item, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}
