package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/spayd_api/internal/metrics"
	"github.com/GTDGit/spayd_api/internal/models"
	"github.com/GTDGit/spayd_api/internal/sse"
	"github.com/GTDGit/spayd_api/internal/utils"
)

// Webhook request headers.
const (
	HeaderEvent     = "X-SPAYD-Event"
	HeaderTimestamp = "X-SPAYD-Timestamp"
	HeaderSignature = "X-SPAYD-Signature"
	HeaderQueueItem = "X-SPAYD-Queue-Item"

	EventPaymentCreated = "payment.created"

	// DefaultMaxAttempts bounds automatic retries of failed items.
	DefaultMaxAttempts = 3

	// maxResponseBody caps how much of a webhook response is read.
	maxResponseBody = 1 << 20
)

// SyncQueueStore is the persisted record store behind the sync queue.
// Getters return nil, nil when the item does not exist.
type SyncQueueStore interface {
	Create(ctx context.Context, item *models.SyncQueueItem) error
	List(ctx context.Context, status *models.SyncStatus) ([]models.SyncQueueItem, error)
	Get(ctx context.Context, id int64) (*models.SyncQueueItem, error)
	GetByPaymentID(ctx context.Context, paymentID int64) (*models.SyncQueueItem, error)
	RecordAttempt(ctx context.Context, id int64, status models.SyncStatus, errMsg *string) (*models.SyncQueueItem, error)
	Acknowledge(ctx context.Context, id int64) (*models.SyncQueueItem, error)
	Reset(ctx context.Context, opts models.SyncReset) (int64, error)
}

// SyncLocker excludes queue processing across processes.
type SyncLocker interface {
	TryLock(ctx context.Context) (release func(), ok bool, err error)
}

// SyncServiceConfig configures a SyncService.
type SyncServiceConfig struct {
	MaxAttempts   int
	Timeout       time.Duration
	SigningSecret string
}

// SyncRunResult summarizes one processing or retry run.
type SyncRunResult struct {
	Attempted int `json:"attempted"`
	Acked     int `json:"acked"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
	// Skipped counts failed items left alone because they reached the attempt limit.
	Skipped   int `json:"skipped"`
}

func (r *SyncRunResult) add(status models.SyncStatus) {
	r.Attempted++
	switch status {
	case models.SyncAcked:
		r.Acked++
	case models.SyncSent:
		r.Sent++
	case models.SyncFailed:
		r.Failed++
	}
}

// SyncService delivers payment notifications to webhooks with at-least-once
// semantics. Only one processing run (process, retry or reset) executes at a
// time per process; a SyncLocker extends that across replicas.
type SyncService struct {
	store         SyncQueueStore
	httpClient    *http.Client
	maxAttempts   int
	signingSecret string

	notifier sse.SyncNotifier
	observer metrics.SyncObserver
	locker   SyncLocker

	processing atomic.Bool
	now        func() time.Time
}

// NewSyncService constructs a SyncService with an HTTP client bounded by cfg.Timeout.
func NewSyncService(store SyncQueueStore, cfg SyncServiceConfig) *SyncService {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &SyncService{
		store:         store,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		maxAttempts:   cfg.MaxAttempts,
		signingSecret: cfg.SigningSecret,
		notifier:      sse.NopNotifier{},
		observer:      metrics.Nop{},
		now:           time.Now,
	}
}

// SetNotifier sets the SSE notifier for queue events.
func (s *SyncService) SetNotifier(n sse.SyncNotifier) {
	if n != nil {
		s.notifier = n
	}
}

// SetObserver sets the metrics observer.
func (s *SyncService) SetObserver(o metrics.SyncObserver) {
	if o != nil {
		s.observer = o
	}
}

// SetLocker enables cross-process exclusion of processing runs.
func (s *SyncService) SetLocker(l SyncLocker) {
	s.locker = l
}

// Enqueue records a pending notification of payload for paymentID.
func (s *SyncService) Enqueue(ctx context.Context, paymentID int64, webhookURL string, payload any) (*models.SyncQueueItem, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal sync payload: %w", err)
	}
	item := &models.SyncQueueItem{
		PaymentID:  paymentID,
		WebhookURL: webhookURL,
		Payload:    raw,
	}
	if err := s.store.Create(ctx, item); err != nil {
		return nil, err
	}
	s.queued(item)
	return item, nil
}

// queued announces an item that was stored as pending.
func (s *SyncService) queued(item *models.SyncQueueItem) {
	log.Info().
		Int64("queue_item_id", item.ID).
		Int64("payment_id", item.PaymentID).
		Str("webhook_url", item.WebhookURL).
		Msg("Payment notification queued")
	s.notifier.NotifySyncEnqueued(item)
}

// SendNow attempts item once under the processing guard, so it never
// overlaps a queue run. When a run is active the item is returned unchanged
// and stays pending for the queue. The attempt is not interrupted by
// cancellation of ctx.
func (s *SyncService) SendNow(ctx context.Context, item *models.SyncQueueItem) (*models.SyncQueueItem, error) {
	release, err := s.begin(ctx)
	if errors.Is(err, utils.ErrSyncInProgress) {
		log.Debug().Int64("queue_item_id", item.ID).Msg("Queue run active, leaving item pending")
		return item, nil
	}
	if err != nil {
		return nil, err
	}
	defer release()

	return s.SendPaymentNotification(context.WithoutCancel(ctx), item)
}

// SendPaymentNotification performs one delivery attempt of item and stores
// the outcome as a single status update:
//
//   - 2xx with a truthy "acknowledged" field, or exactly 200: acked
//   - any other 2xx: sent
//   - non-2xx or transport error: failed, with the reason in Error
//
// Delivery failures are recorded, not returned. The returned error is
// ErrMissingQueueItemID for an item without id, ErrQueueItemNotFound when
// the item vanished, or a store failure.
func (s *SyncService) SendPaymentNotification(ctx context.Context, item *models.SyncQueueItem) (*models.SyncQueueItem, error) {
	if item == nil || item.ID == 0 {
		return nil, utils.ErrMissingQueueItemID
	}

	start := time.Now()
	status, reason := s.deliver(ctx, item)
	s.observer.ObserveDeliveryLatency(time.Since(start).Seconds())

	var errMsg *string
	if status == models.SyncFailed {
		errMsg = &reason
	}

	updated, err := s.store.RecordAttempt(ctx, item.ID, status, errMsg)
	if err != nil {
		log.Error().Err(err).Int64("queue_item_id", item.ID).Str("status", string(status)).Msg("Failed to record delivery attempt")
		return nil, err
	}
	if updated == nil {
		return nil, utils.ErrQueueItemNotFound
	}

	s.observer.RecordDelivery(string(status))
	s.notifier.NotifySyncStatusChanged(updated)

	evt := log.Info()
	if status == models.SyncFailed {
		evt = log.Warn().Str("error", reason)
	}
	evt.Int64("queue_item_id", updated.ID).
		Int64("payment_id", updated.PaymentID).
		Str("status", string(updated.Status)).
		Int("attempts", updated.Attempts).
		Msg("Payment notification attempted")

	return updated, nil
}

// deliver posts the payload and classifies the response.
func (s *SyncService) deliver(ctx context.Context, item *models.SyncQueueItem) (models.SyncStatus, string) {
	payload := []byte(item.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, item.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return models.SyncFailed, err.Error()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderEvent, EventPaymentCreated)
	req.Header.Set(HeaderTimestamp, s.now().UTC().Format(time.RFC3339))
	req.Header.Set(HeaderQueueItem, strconv.FormatInt(item.ID, 10))
	if s.signingSecret != "" {
		req.Header.Set(HeaderSignature, utils.SignaturePrefix+utils.GenerateSignature(payload, s.signingSecret))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.SyncFailed, err.Error()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return models.SyncFailed, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	var ack struct {
		Acknowledged any `json:"acknowledged"`
	}
	// An unparsable body counts as an empty object.
	_ = json.Unmarshal(body, &ack)

	if truthy(ack.Acknowledged) || resp.StatusCode == http.StatusOK {
		return models.SyncAcked, ""
	}
	return models.SyncSent, ""
}

// truthy mirrors JSON truthiness: false, 0, "" and null are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}

// ProcessSyncQueue attempts delivery of every pending item, then retries
// failed items below the attempt limit. Both lists are read up front and
// processed sequentially in store order. It returns ErrSyncInProgress when
// another run is active.
//
// Cancelling ctx stops the run between items; an attempt already in flight
// runs to completion.
func (s *SyncService) ProcessSyncQueue(ctx context.Context) (*SyncRunResult, error) {
	release, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	pending, err := s.listStatus(ctx, models.SyncPending)
	if err != nil {
		return nil, err
	}
	failed, err := s.listStatus(ctx, models.SyncFailed)
	if err != nil {
		return nil, err
	}
	s.observer.SetQueueDepth(string(models.SyncPending), len(pending))
	s.observer.SetQueueDepth(string(models.SyncFailed), len(failed))

	result := &SyncRunResult{}
	if err := s.sendAll(ctx, pending, 0, result); err != nil {
		return result, err
	}
	if err := s.sendAll(ctx, failed, s.maxAttempts, result); err != nil {
		return result, err
	}

	if result.Attempted > 0 {
		log.Info().
			Int("attempted", result.Attempted).
			Int("acked", result.Acked).
			Int("sent", result.Sent).
			Int("failed", result.Failed).
			Int("skipped", result.Skipped).
			Msg("Sync queue processed")
	}
	return result, nil
}

// RetryFailedItems retries failed items with fewer than maxAttempts
// attempts. A maxAttempts <= 0 uses the configured limit.
func (s *SyncService) RetryFailedItems(ctx context.Context, maxAttempts int) (*SyncRunResult, error) {
	if maxAttempts <= 0 {
		maxAttempts = s.maxAttempts
	}

	release, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	failed, err := s.listStatus(ctx, models.SyncFailed)
	if err != nil {
		return nil, err
	}
	result := &SyncRunResult{}
	err = s.sendAll(ctx, failed, maxAttempts, result)
	return result, err
}

// sendAll attempts each item in order. A positive limit skips items whose
// attempts already reached it.
func (s *SyncService) sendAll(ctx context.Context, items []models.SyncQueueItem, limit int, result *SyncRunResult) error {
	// Attempts are not interrupted by cancellation of ctx.
	attemptCtx := context.WithoutCancel(ctx)

	for i := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		item := &items[i]
		if limit > 0 && item.Attempts >= limit {
			result.Skipped++
			continue
		}

		updated, err := s.SendPaymentNotification(attemptCtx, item)
		if err != nil {
			// The item keeps its previous state and is picked up next cycle.
			if errors.Is(err, utils.ErrQueueItemNotFound) {
				continue
			}
			log.Error().Err(err).Int64("queue_item_id", item.ID).Msg("Payment notification not recorded")
			continue
		}
		result.add(updated.Status)
	}
	return nil
}

// AcknowledgeQueueItem forces an item to acked regardless of its state.
// It does not count as a delivery attempt.
func (s *SyncService) AcknowledgeQueueItem(ctx context.Context, id int64) (*models.SyncQueueItem, error) {
	if id == 0 {
		return nil, utils.ErrMissingQueueItemID
	}
	item, err := s.store.Acknowledge(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, utils.ErrQueueItemNotFound
	}

	s.observer.RecordDelivery("manual_ack")
	s.notifier.NotifySyncStatusChanged(item)
	log.Info().Int64("queue_item_id", id).Int64("payment_id", item.PaymentID).Msg("Queue item acknowledged manually")
	return item, nil
}

// GetPaymentSyncStatus returns the most recent queue item of a payment.
func (s *SyncService) GetPaymentSyncStatus(ctx context.Context, paymentID int64) (*models.SyncQueueItem, error) {
	item, err := s.store.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, utils.ErrQueueItemNotFound
	}
	return item, nil
}

// GetQueueItem returns a queue item by id.
func (s *SyncService) GetQueueItem(ctx context.Context, id int64) (*models.SyncQueueItem, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, utils.ErrQueueItemNotFound
	}
	return item, nil
}

// ListQueue returns queue items, optionally filtered by status.
func (s *SyncService) ListQueue(ctx context.Context, status *models.SyncStatus) ([]models.SyncQueueItem, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrInvalidStatus, *status)
	}
	return s.store.List(ctx, status)
}

// ResetSyncItems returns items to pending with their delivery history
// cleared, either all of them or those from opts.FromPaymentID on.
func (s *SyncService) ResetSyncItems(ctx context.Context, opts models.SyncReset) (int64, error) {
	if !opts.Global && opts.FromPaymentID == nil {
		return 0, utils.ErrInvalidReset
	}

	release, err := s.begin(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	n, err := s.store.Reset(ctx, opts)
	if err != nil {
		return 0, err
	}

	evt := log.Info().Int64("count", n).Bool("global", opts.Global)
	if opts.FromPaymentID != nil {
		evt = evt.Int64("from_payment_id", *opts.FromPaymentID)
	}
	evt.Msg("Sync queue reset")
	s.notifier.NotifySyncReset(n)
	return n, nil
}

// begin claims the in-process guard and, when configured, the shared lock.
func (s *SyncService) begin(ctx context.Context) (func(), error) {
	if !s.processing.CompareAndSwap(false, true) {
		return nil, utils.ErrSyncInProgress
	}
	if s.locker == nil {
		return func() { s.processing.Store(false) }, nil
	}

	unlock, ok, err := s.locker.TryLock(ctx)
	if err != nil {
		s.processing.Store(false)
		return nil, fmt.Errorf("acquire sync lock: %w", err)
	}
	if !ok {
		s.processing.Store(false)
		return nil, utils.ErrSyncInProgress
	}
	return func() {
		unlock()
		s.processing.Store(false)
	}, nil
}

func (s *SyncService) listStatus(ctx context.Context, status models.SyncStatus) ([]models.SyncQueueItem, error) {
	items, err := s.store.List(ctx, &status)
	if err != nil {
		return nil, fmt.Errorf("list %s items: %w", status, err)
	}
	return items, nil
}
