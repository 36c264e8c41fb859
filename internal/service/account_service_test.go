package service

import (
	"context"
	"errors"
	"testing"

	"github.com/GTDGit/spayd_api/internal/models"
	"github.com/GTDGit/spayd_api/internal/utils"
)

func TestAccountService_Create(t *testing.T) {
	svc := NewAccountService(newMemAccountStore())

	a, err := svc.Create(context.Background(), AccountInput{
		Name:       " Scout Troop ",
		IBAN:       "cz65 0800 0000 1920 0014 5399",
		WebhookURL: ptr(""),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.IBAN != testIBAN {
		t.Errorf("expected normalized IBAN, got %s", a.IBAN)
	}
	if a.Currency != "CZK" {
		t.Errorf("expected default currency CZK, got %s", a.Currency)
	}
	if a.Name != "Scout Troop" {
		t.Errorf("expected trimmed name, got %q", a.Name)
	}
	if a.WebhookURL != nil {
		t.Errorf("expected empty webhook stored as nil, got %v", *a.WebhookURL)
	}
}

func TestAccountService_Validation(t *testing.T) {
	svc := NewAccountService(newMemAccountStore())

	tests := []struct {
		name string
		in   AccountInput
		err  error
	}{
		{"bad iban", AccountInput{Name: "x", IBAN: "CZ6508000000192000145398"}, utils.ErrInvalidIBAN},
		{"bad currency", AccountInput{Name: "x", IBAN: testIBAN, Currency: "CZKK"}, utils.ErrInvalidSetting},
		{"bad webhook", AccountInput{Name: "x", IBAN: testIBAN, WebhookURL: ptr("ftp://example.com")}, utils.ErrInvalidSetting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tt.in); !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestAccountService_UpdateDelete(t *testing.T) {
	svc := NewAccountService(newMemAccountStore(testAccount()))
	ctx := context.Background()

	a, err := svc.Update(ctx, 1, AccountInput{Name: "New", IBAN: testIBAN, Currency: "eur", WebhookURL: ptr("https://example.com/hook")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Currency != "EUR" || !a.HasWebhook() {
		t.Errorf("unexpected account %+v", a)
	}

	if _, err := svc.Update(ctx, 9, AccountInput{Name: "x", IBAN: testIBAN}); !errors.Is(err, utils.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(ctx, 1); !errors.Is(err, utils.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestEventService_Create(t *testing.T) {
	svc := NewEventService(newMemEventStore(), newMemAccountStore(testAccount()))

	e, err := svc.Create(context.Background(), EventInput{
		AccountID:      1,
		Name:           "Camp",
		VSPrefix:       ptr("2025"),
		VSSuffixLength: ptr(6),
		Splits:         models.Splits{{Amount: 100, DueDate: ptr("2025-06-30")}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID == 0 || len(e.Splits) != 1 {
		t.Errorf("unexpected event %+v", e)
	}

	e, err = svc.Create(context.Background(), EventInput{AccountID: 1, Name: "No splits"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Splits == nil {
		t.Error("expected empty splits, got nil")
	}
}

func TestEventService_Validation(t *testing.T) {
	svc := NewEventService(newMemEventStore(), newMemAccountStore(testAccount()))

	tests := []struct {
		name string
		in   EventInput
		err  error
	}{
		{"unknown account", EventInput{AccountID: 2, Name: "x"}, utils.ErrAccountNotFound},
		{"negative suffix length", EventInput{AccountID: 1, Name: "x", SSSuffixLength: ptr(-1)}, utils.ErrInvalidSymbol},
		{"long suffix length", EventInput{AccountID: 1, Name: "x", VSSuffixLength: ptr(11)}, utils.ErrInvalidSymbol},
		{"zero split amount", EventInput{AccountID: 1, Name: "x", Splits: models.Splits{{Amount: 0}}}, utils.ErrInvalidSplit},
		{"bad due date", EventInput{AccountID: 1, Name: "x", Splits: models.Splits{{Amount: 1, DueDate: ptr("30.6.2025")}}}, utils.ErrInvalidSplit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tt.in); !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestEventService_GetDelete(t *testing.T) {
	svc := NewEventService(newMemEventStore(testEvent()), newMemAccountStore(testAccount()))
	ctx := context.Background()

	if _, err := svc.Get(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(ctx, 1); !errors.Is(err, utils.ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}

func TestSettingService(t *testing.T) {
	store := newMemSettingStore("", true)
	svc := NewSettingService(store)
	ctx := context.Background()

	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.WebhookURL != "" || !got.ImmediateSync {
		t.Errorf("unexpected settings %+v", got)
	}

	if _, err := svc.Update(ctx, Settings{WebhookURL: " https://example.com/hook "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ = svc.Get(ctx)
	if got.WebhookURL != "https://example.com/hook" || got.ImmediateSync {
		t.Errorf("unexpected settings after update %+v", got)
	}

	if _, err := svc.Update(ctx, Settings{WebhookURL: "example.com"}); !errors.Is(err, utils.ErrInvalidSetting) {
		t.Errorf("expected ErrInvalidSetting, got %v", err)
	}
}
