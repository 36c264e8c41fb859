package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/spayd_api/internal/models"
)

// AccountRepository provides access to receiving bank accounts.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// List returns all accounts, default account first.
func (r *AccountRepository) List(ctx context.Context) ([]models.Account, error) {
	const q = `SELECT * FROM accounts ORDER BY is_default DESC, id ASC`
	out := []models.Account{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns an account, or nil when it does not exist.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	const q = `SELECT * FROM accounts WHERE id = $1`
	var a models.Account
	if err := r.db.GetContext(ctx, &a, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts an account.
func (r *AccountRepository) Create(ctx context.Context, a *models.Account) error {
	const q = `
		INSERT INTO accounts (name, iban, currency, webhook_url, is_default)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowxContext(ctx, q, a.Name, a.IBAN, a.Currency, a.WebhookURL, a.IsDefault).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// Update stores all mutable account fields. It returns sql.ErrNoRows when
// the account does not exist.
func (r *AccountRepository) Update(ctx context.Context, a *models.Account) error {
	const q = `
		UPDATE accounts SET
			name = $2, iban = $3, currency = $4, webhook_url = $5, is_default = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.db.QueryRowxContext(ctx, q, a.ID, a.Name, a.IBAN, a.Currency, a.WebhookURL, a.IsDefault).
		Scan(&a.UpdatedAt)
}

// Delete removes an account and, by cascade, its events. It reports whether
// a row was deleted.
func (r *AccountRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
