package models

import (
	"encoding/json"
	"time"
)

// SyncStatus is the delivery state of a sync queue item.
//
//	pending -> sent | acked | failed
//	sent    -> sent | acked | failed   (on retry)
//	failed  -> sent | acked | failed   (on retry)
//	acked   terminal
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSent    SyncStatus = "sent"
	SyncAcked   SyncStatus = "acked"
	SyncFailed  SyncStatus = "failed"
)

// Valid reports whether s is a known status.
func (s SyncStatus) Valid() bool {
	switch s {
	case SyncPending, SyncSent, SyncAcked, SyncFailed:
		return true
	}
	return false
}

// SyncQueueItem is one outbound webhook notification for a generated payment.
// ID, PaymentID, WebhookURL, Payload and CreatedAt never change after creation.
type SyncQueueItem struct {
	ID          int64           `db:"id" json:"id"`
	PaymentID   int64           `db:"payment_id" json:"paymentId"`
	WebhookURL  string          `db:"webhook_url" json:"webhookUrl"`
	Payload     json.RawMessage `db:"payload" json:"payload"`
	Status      SyncStatus      `db:"status" json:"status"`
	Attempts    int             `db:"attempts" json:"attempts"`
	LastAttempt *time.Time      `db:"last_attempt" json:"lastAttempt,omitempty"`
	AckedAt     *time.Time      `db:"acked_at" json:"ackedAt,omitempty"`
	Error       *string         `db:"error" json:"error,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// SyncReset selects which items an operator reset returns to pending.
// With Global false and FromPaymentID set, only items created at or after
// that payment are reset.
type SyncReset struct {
	Global        bool   `json:"global"`
	FromPaymentID *int64 `json:"fromPaymentId,omitempty"`
}
