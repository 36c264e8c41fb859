package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/GTDGit/spayd_api/internal/symbol"
)

// Split is one payment of an event. An event with several splits produces
// several payments (and QR codes) per person, e.g. a deposit and a balance.
type Split struct {
	Amount   float64 `json:"amount"`
	DueDate  *string `json:"dueDate,omitempty"` // YYYY-MM-DD
	VSPrefix *string `json:"vsPrefix,omitempty"`
	SSPrefix *string `json:"ssPrefix,omitempty"`
	KSPrefix *string `json:"ksPrefix,omitempty"`
}

// Override returns the split's symbol prefix overrides.
func (s Split) Override() symbol.Override {
	return symbol.Override{
		VSPrefix: s.VSPrefix,
		SSPrefix: s.SSPrefix,
		KSPrefix: s.KSPrefix,
	}
}

// DueTime parses DueDate. It returns the zero time when unset or malformed.
func (s Split) DueTime() time.Time {
	if s.DueDate == nil || *s.DueDate == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", *s.DueDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Splits is stored as a JSONB array.
type Splits []Split

// Value implements driver.Valuer.
func (s Splits) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *Splits) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("splits: unsupported scan type")
	}
}

// Event groups payments collected for one purpose (a course, a camp, a
// membership fee) and carries the symbol configuration used to compose
// their VS, SS and KS.
type Event struct {
	ID             int64     `db:"id" json:"id"`
	AccountID      int64     `db:"account_id" json:"accountId"`
	Name           string    `db:"name" json:"name"`
	Description    string    `db:"description" json:"description"`
	VSPrefix       *string   `db:"vs_prefix" json:"vsPrefix,omitempty"`
	VSSuffixLength *int      `db:"vs_suffix_length" json:"vsSuffixLength,omitempty"`
	SSPrefix       *string   `db:"ss_prefix" json:"ssPrefix,omitempty"`
	SSSuffixLength *int      `db:"ss_suffix_length" json:"ssSuffixLength,omitempty"`
	KSPrefix       *string   `db:"ks_prefix" json:"ksPrefix,omitempty"`
	KSSuffixLength *int      `db:"ks_suffix_length" json:"ksSuffixLength,omitempty"`
	Splits         Splits    `db:"splits" json:"splits"`
	EmailTemplate  string    `db:"email_template" json:"emailTemplate"`
	IsDefault      bool      `db:"is_default" json:"isDefault"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// SymbolConfig returns the event-level symbol configuration.
func (e *Event) SymbolConfig() symbol.EventConfig {
	return symbol.EventConfig{
		VS: symbol.FieldConfig{Prefix: e.VSPrefix, SuffixLength: e.VSSuffixLength},
		SS: symbol.FieldConfig{Prefix: e.SSPrefix, SuffixLength: e.SSSuffixLength},
		KS: symbol.FieldConfig{Prefix: e.KSPrefix, SuffixLength: e.KSSuffixLength},
	}
}

// ResolveSplit returns the effective symbol configuration of split i.
// An out of range index resolves with no split override.
func (e *Event) ResolveSplit(i int) symbol.Resolved {
	var override symbol.Override
	if i >= 0 && i < len(e.Splits) {
		override = e.Splits[i].Override()
	}
	return symbol.Resolve(e.SymbolConfig(), override)
}
