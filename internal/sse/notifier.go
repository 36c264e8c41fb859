package sse

import (
	"time"

	"github.com/GTDGit/spayd_api/internal/models"
)

// SyncNotifier is the interface services use to emit payment and queue events.
type SyncNotifier interface {
	NotifyPaymentCreated(p *models.Payment)
	NotifySyncEnqueued(item *models.SyncQueueItem)
	NotifySyncStatusChanged(item *models.SyncQueueItem)
	NotifySyncReset(count int64)
}

// HubNotifier implements SyncNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyPaymentCreated(p *models.Payment) {
	if n.hub.ClientCount() == 0 {
		return
	}
	amount := p.Amount
	n.hub.Broadcast(&Event{
		Event:          EventPaymentCreated,
		PaymentID:      p.ID,
		VariableSymbol: p.VariableSymbol,
		Amount:         &amount,
		Timestamp:      time.Now(),
	})
}

func (n *HubNotifier) NotifySyncEnqueued(item *models.SyncQueueItem) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(queueItemToEvent(EventSyncEnqueued, item))
}

func (n *HubNotifier) NotifySyncStatusChanged(item *models.SyncQueueItem) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(queueItemToEvent(EventSyncStatusChanged, item))
}

func (n *HubNotifier) NotifySyncReset(count int64) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&Event{Event: EventSyncReset, Count: &count, Timestamp: time.Now()})
}

func queueItemToEvent(eventType EventType, item *models.SyncQueueItem) *Event {
	attempts := item.Attempts
	return &Event{
		Event:       eventType,
		PaymentID:   item.PaymentID,
		QueueItemID: item.ID,
		Status:      string(item.Status),
		Attempts:    &attempts,
		Error:       item.Error,
		Timestamp:   time.Now(),
	}
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (NopNotifier) NotifyPaymentCreated(*models.Payment)          {}
func (NopNotifier) NotifySyncEnqueued(*models.SyncQueueItem)      {}
func (NopNotifier) NotifySyncStatusChanged(*models.SyncQueueItem) {}
func (NopNotifier) NotifySyncReset(int64)                         {}
