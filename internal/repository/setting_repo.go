package repository

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/spayd_api/internal/models"
)

// SettingRepository stores global key/value settings.
type SettingRepository struct {
	db *sqlx.DB
}

// NewSettingRepository creates a new SettingRepository.
func NewSettingRepository(db *sqlx.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// List returns all settings ordered by key.
func (r *SettingRepository) List(ctx context.Context) ([]models.Setting, error) {
	out := []models.Setting{}
	if err := r.db.SelectContext(ctx, &out, `SELECT * FROM settings ORDER BY key`); err != nil {
		return nil, err
	}
	return out, nil
}

// Set upserts a setting value.
func (r *SettingRepository) Set(ctx context.Context, key string, value json.RawMessage) error {
	const q = `
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, q, key, []byte(value))
	return err
}
