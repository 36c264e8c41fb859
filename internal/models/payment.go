package models

import "time"

// Payment is a generated payment request with its encoded SPAYD string.
type Payment struct {
	ID             int64     `db:"id" json:"id"`
	AccountID      int64     `db:"account_id" json:"accountId"`
	EventID        int64     `db:"event_id" json:"eventId"`
	SplitIndex     int       `db:"split_index" json:"splitIndex"`
	Amount         float64   `db:"amount" json:"amount"`
	Currency       string    `db:"currency" json:"currency"`
	VariableSymbol string    `db:"variable_symbol" json:"variableSymbol"`
	SpecificSymbol *string   `db:"specific_symbol" json:"specificSymbol,omitempty"`
	ConstantSymbol *string   `db:"constant_symbol" json:"constantSymbol,omitempty"`
	Message        *string   `db:"message" json:"message,omitempty"`
	SPAYDString    string    `db:"spayd_string" json:"spaydString"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// PaymentFilter narrows payment listings. Nil fields are ignored.
type PaymentFilter struct {
	AccountID *int64
	EventID   *int64
	Limit     int
	Offset    int
}

// PaymentNotification is the JSON body posted to a webhook for a generated payment.
type PaymentNotification struct {
	PaymentID      int64     `json:"paymentId"`
	AccountID      int64     `json:"accountId"`
	EventID        int64     `json:"eventId"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	VariableSymbol string    `json:"variableSymbol"`
	SpecificSymbol *string   `json:"specificSymbol,omitempty"`
	ConstantSymbol *string   `json:"constantSymbol,omitempty"`
	Message        *string   `json:"message,omitempty"`
	SPAYDString    string    `json:"spaydString"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Notification builds the webhook body for p.
func (p *Payment) Notification() PaymentNotification {
	return PaymentNotification{
		PaymentID:      p.ID,
		AccountID:      p.AccountID,
		EventID:        p.EventID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		VariableSymbol: p.VariableSymbol,
		SpecificSymbol: p.SpecificSymbol,
		ConstantSymbol: p.ConstantSymbol,
		Message:        p.Message,
		SPAYDString:    p.SPAYDString,
		CreatedAt:      p.CreatedAt,
	}
}
