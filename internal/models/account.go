package models

import "time"

// Account is a receiving bank account. Payments generated for an account
// are reported to its WebhookURL when one is configured.
type Account struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	IBAN       string    `db:"iban" json:"iban"`
	Currency   string    `db:"currency" json:"currency"`
	WebhookURL *string   `db:"webhook_url" json:"webhookUrl,omitempty"`
	IsDefault  bool      `db:"is_default" json:"isDefault"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// HasWebhook reports whether the account has a non-empty webhook URL.
func (a *Account) HasWebhook() bool {
	return a.WebhookURL != nil && *a.WebhookURL != ""
}
