package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/spayd_api/internal/models"
)

// EventRepository provides access to events and their symbol configuration.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns events, optionally only those of one account.
func (r *EventRepository) List(ctx context.Context, accountID *int64) ([]models.Event, error) {
	const q = `
		SELECT * FROM events
		WHERE ($1::bigint IS NULL OR account_id = $1)
		ORDER BY is_default DESC, id ASC`
	out := []models.Event{}
	if err := r.db.SelectContext(ctx, &out, q, accountID); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns an event, or nil when it does not exist.
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	const q = `SELECT * FROM events WHERE id = $1`
	var e models.Event
	if err := r.db.GetContext(ctx, &e, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Create inserts an event.
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	const q = `
		INSERT INTO events (
			account_id, name, description,
			vs_prefix, vs_suffix_length, ss_prefix, ss_suffix_length, ks_prefix, ks_suffix_length,
			splits, email_template, is_default
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowxContext(ctx, q,
		e.AccountID, e.Name, e.Description,
		e.VSPrefix, e.VSSuffixLength, e.SSPrefix, e.SSSuffixLength, e.KSPrefix, e.KSSuffixLength,
		e.Splits, e.EmailTemplate, e.IsDefault,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// Update stores all mutable event fields. It returns sql.ErrNoRows when the
// event does not exist.
func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	const q = `
		UPDATE events SET
			account_id = $2, name = $3, description = $4,
			vs_prefix = $5, vs_suffix_length = $6,
			ss_prefix = $7, ss_suffix_length = $8,
			ks_prefix = $9, ks_suffix_length = $10,
			splits = $11, email_template = $12, is_default = $13,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.db.QueryRowxContext(ctx, q,
		e.ID, e.AccountID, e.Name, e.Description,
		e.VSPrefix, e.VSSuffixLength, e.SSPrefix, e.SSSuffixLength, e.KSPrefix, e.KSSuffixLength,
		e.Splits, e.EmailTemplate, e.IsDefault,
	).Scan(&e.UpdatedAt)
}

// Delete removes an event. It reports whether a row was deleted.
func (r *EventRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
