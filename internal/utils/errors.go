package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrAccountNotFound    = errors.New("ACCOUNT_NOT_FOUND")
	ErrEventNotFound      = errors.New("EVENT_NOT_FOUND")
	ErrPaymentNotFound    = errors.New("PAYMENT_NOT_FOUND")
	ErrQueueItemNotFound  = errors.New("QUEUE_ITEM_NOT_FOUND")
	ErrMissingQueueItemID = errors.New("MISSING_QUEUE_ITEM_ID")
	ErrSyncInProgress     = errors.New("SYNC_IN_PROGRESS")
	ErrInvalidIBAN        = errors.New("INVALID_IBAN")
	ErrInvalidSymbol      = errors.New("INVALID_SYMBOL")
	ErrInvalidSplit       = errors.New("INVALID_SPLIT")
	ErrInvalidAmount      = errors.New("INVALID_AMOUNT")
	ErrInvalidReset       = errors.New("INVALID_RESET")
	ErrInvalidSetting     = errors.New("INVALID_SETTING")
	ErrInvalidStatus      = errors.New("INVALID_STATUS")
	ErrBatchTooLarge      = errors.New("BATCH_TOO_LARGE")
)
