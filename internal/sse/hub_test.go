package sse

import (
	"encoding/json"
	"testing"

	"github.com/GTDGit/spayd_api/internal/models"
)

func TestHubNotifier_BroadcastsStatusChange(t *testing.T) {
	hub := NewHub()
	c := hub.Register("admin-1")
	defer hub.Unregister("admin-1")

	msg := "HTTP 500: Internal Server Error"
	NewHubNotifier(hub).NotifySyncStatusChanged(&models.SyncQueueItem{
		ID:        9,
		PaymentID: 4,
		Status:    models.SyncFailed,
		Attempts:  2,
		Error:     &msg,
	})

	select {
	case data := <-c.Events:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("invalid event json: %v", err)
		}
		if ev.Event != EventSyncStatusChanged || ev.QueueItemID != 9 || ev.Status != "failed" {
			t.Errorf("unexpected event: %+v", ev)
		}
		if ev.Attempts == nil || *ev.Attempts != 2 {
			t.Errorf("expected attempts 2, got %v", ev.Attempts)
		}
	default:
		t.Fatal("expected a broadcast event")
	}
}

func TestHub_DropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	c := hub.Register("slow")

	for i := 0; i < cap(c.Events)+10; i++ {
		hub.Broadcast(&Event{Event: EventSyncReset})
	}
	if len(c.Events) != cap(c.Events) {
		t.Errorf("expected full buffer of %d, got %d", cap(c.Events), len(c.Events))
	}

	hub.Unregister("slow")
	if hub.ClientCount() != 0 {
		t.Errorf("expected no clients, got %d", hub.ClientCount())
	}
}
