package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/spayd_api/internal/models"
	"github.com/GTDGit/spayd_api/internal/sse"
	"github.com/GTDGit/spayd_api/internal/symbol"
	"github.com/GTDGit/spayd_api/internal/utils"
	"github.com/GTDGit/spayd_api/pkg/spayd"
)

// defaultMessage is used when neither the request nor the event has a description.
const defaultMessage = "Payment"

// GeneratePaymentRequest describes one payment for one record and split.
type GeneratePaymentRequest struct {
	EventID    int64           `json:"eventId" binding:"required"`
	AccountID  *int64          `json:"accountId"`
	SplitIndex int             `json:"splitIndex"`
	RowIndex   int             `json:"rowIndex"`
	Suffixes   symbol.Suffixes `json:"suffixes"`
	Amount     *float64        `json:"amount"`
	Message    *string         `json:"message"`
}

// GeneratePaymentResult is the stored payment with its sync queue entry.
// SyncItem is nil when no webhook is configured.
type GeneratePaymentResult struct {
	Payment  *models.Payment       `json:"payment"`
	SyncItem *models.SyncQueueItem `json:"syncItem,omitempty"`
	Warnings []string              `json:"-"`
}

// PaymentService generates, stores and renders payments.
type PaymentService struct {
	payments PaymentStore
	events   EventStore
	accounts AccountStore
	settings *SettingService
	sync     *SyncService
	composer *symbol.Composer
	notifier sse.SyncNotifier
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(
	payments PaymentStore,
	events EventStore,
	accounts AccountStore,
	settings *SettingService,
	syncService *SyncService,
	composer *symbol.Composer,
) *PaymentService {
	if composer == nil {
		composer = symbol.NewComposer(nil)
	}
	return &PaymentService{
		payments: payments,
		events:   events,
		accounts: accounts,
		settings: settings,
		sync:     syncService,
		composer: composer,
		notifier: sse.NopNotifier{},
	}
}

// SetNotifier sets the notifier for payment events.
func (s *PaymentService) SetNotifier(n sse.SyncNotifier) {
	if n != nil {
		s.notifier = n
	}
}

// GeneratePayment composes the symbols, encodes the SPAYD string and stores
// the payment together with its pending webhook notification. With immediate
// sync enabled the notification is attempted once right away; a failed
// attempt stays in the queue and does not fail the request.
func (s *PaymentService) GeneratePayment(ctx context.Context, req GeneratePaymentRequest) (*GeneratePaymentResult, error) {
	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, utils.ErrEventNotFound
	}

	accountID := event.AccountID
	if req.AccountID != nil {
		accountID = *req.AccountID
	}
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	split, err := pickSplit(event, req.SplitIndex, req.Amount)
	if err != nil {
		return nil, err
	}
	if req.Amount != nil {
		split.Amount = *req.Amount
	}
	if split.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", utils.ErrInvalidAmount)
	}

	rowIndex := req.RowIndex
	if rowIndex < 0 {
		rowIndex = 0
	}
	suffixes, warnings := numericSuffixes(req.Suffixes)
	collector := &symbol.Collector{}
	set := s.composer.With(collector).ComposeAll(event.ResolveSplit(req.SplitIndex), suffixes, rowIndex)
	warnings = append(warnings, warningMessages(collector.Warnings)...)

	message := paymentMessage(event, req.Message)
	p := &models.Payment{
		AccountID:      account.ID,
		EventID:        event.ID,
		SplitIndex:     req.SplitIndex,
		Amount:         split.Amount,
		Currency:       account.Currency,
		VariableSymbol: set.VS,
		Message:        &message,
	}
	if set.SS != "" {
		p.SpecificSymbol = &set.SS
	}
	if set.KS != "" {
		p.ConstantSymbol = &set.KS
	}

	p.SPAYDString, err = spayd.Encode(spayd.Payment{
		IBAN:           account.IBAN,
		Amount:         p.Amount,
		Currency:       p.Currency,
		VariableSymbol: p.VariableSymbol,
		SpecificSymbol: deref(p.SpecificSymbol),
		ConstantSymbol: deref(p.ConstantSymbol),
		Message:        message,
		RecipientName:  account.Name,
		DueDate:        split.DueTime(),
	})
	if err != nil {
		return nil, mapEncodeError(err)
	}

	webhookURL, settings, err := s.notificationTarget(ctx, account)
	if err != nil {
		return nil, err
	}
	var item *models.SyncQueueItem
	if webhookURL != "" {
		item = &models.SyncQueueItem{WebhookURL: webhookURL}
	}

	if err := s.payments.Create(ctx, p, item); err != nil {
		return nil, err
	}
	log.Info().
		Int64("payment_id", p.ID).
		Int64("event_id", p.EventID).
		Int("split_index", p.SplitIndex).
		Str("vs", p.VariableSymbol).
		Float64("amount", p.Amount).
		Msg("Payment generated")
	s.notifier.NotifyPaymentCreated(p)

	result := &GeneratePaymentResult{Payment: p, Warnings: warnings}
	if item == nil {
		return result, nil
	}
	s.sync.queued(item)
	result.SyncItem = item

	if settings != nil && settings.ImmediateSync {
		sent, err := s.sync.SendNow(ctx, item)
		if err != nil {
			log.Warn().Err(err).Int64("payment_id", p.ID).Int64("queue_item_id", item.ID).Msg("Immediate sync failed, item stays queued")
		} else {
			result.SyncItem = sent
		}
	}
	return result, nil
}

// notificationTarget returns the webhook for payments of account: its own,
// else the global setting. An empty URL means payments are not reported.
func (s *PaymentService) notificationTarget(ctx context.Context, account *models.Account) (string, *Settings, error) {
	if s.sync == nil {
		return "", nil, nil
	}

	var settings *Settings
	if s.settings != nil {
		var err error
		if settings, err = s.settings.Get(ctx); err != nil {
			return "", nil, err
		}
	}

	switch {
	case account.HasWebhook():
		return *account.WebhookURL, settings, nil
	case settings != nil:
		return settings.WebhookURL, settings, nil
	}
	return "", settings, nil
}

// GetPayment returns a stored payment.
func (s *PaymentService) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.ErrPaymentNotFound
	}
	return p, nil
}

// ListPayments returns a page of payments and the total count.
func (s *PaymentService) ListPayments(ctx context.Context, f models.PaymentFilter) ([]models.Payment, int, error) {
	return s.payments.List(ctx, f)
}

// QRCode renders the SPAYD string of a stored payment as a PNG.
func (s *PaymentService) QRCode(ctx context.Context, id int64, size int) ([]byte, error) {
	p, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	return spayd.QRPNG(p.SPAYDString, size)
}

// pickSplit returns split i of event. An event without splits has a single
// implicit split whose amount comes from the request.
func pickSplit(event *models.Event, i int, amount *float64) (models.Split, error) {
	if len(event.Splits) == 0 {
		if i != 0 {
			return models.Split{}, fmt.Errorf("%w: event has no splits", utils.ErrInvalidSplit)
		}
		if amount == nil {
			return models.Split{}, fmt.Errorf("%w: amount is required for events without splits", utils.ErrInvalidAmount)
		}
		return models.Split{Amount: *amount}, nil
	}
	if i < 0 || i >= len(event.Splits) {
		return models.Split{}, fmt.Errorf("%w: index %d out of range (event has %d)", utils.ErrInvalidSplit, i, len(event.Splits))
	}
	return event.Splits[i], nil
}

func paymentMessage(event *models.Event, override *string) string {
	if override != nil && *override != "" {
		return *override
	}
	if event.Description != "" {
		return event.Description
	}
	return defaultMessage
}

// mapEncodeError translates encoder errors into application errors.
func mapEncodeError(err error) error {
	switch {
	case errors.Is(err, spayd.ErrInvalidIBAN):
		return fmt.Errorf("%w: %v", utils.ErrInvalidIBAN, err)
	case errors.Is(err, spayd.ErrInvalidAmount):
		return fmt.Errorf("%w: %v", utils.ErrInvalidAmount, err)
	case errors.Is(err, spayd.ErrInvalidSymbol):
		return fmt.Errorf("%w: %v", utils.ErrInvalidSymbol, err)
	case errors.Is(err, spayd.ErrInvalidCurrency):
		return fmt.Errorf("%w: %v", utils.ErrInvalidSetting, err)
	default:
		return err
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
