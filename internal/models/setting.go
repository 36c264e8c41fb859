package models

import (
	"encoding/json"
	"time"
)

// Well-known setting keys.
const (
	SettingWebhookURL    = "webhook_url"
	SettingImmediateSync = "immediate_sync"
)

// Setting is a global key/value configuration entry.
type Setting struct {
	Key       string          `db:"key" json:"key"`
	Value     json.RawMessage `db:"value" json:"value"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}
