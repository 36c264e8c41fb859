package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/spayd_api/internal/models"
	"github.com/GTDGit/spayd_api/internal/utils"
)

// Settings is the typed view of the global settings.
type Settings struct {
	// WebhookURL receives notifications for accounts without their own webhook.
	WebhookURL string `json:"webhookUrl"`
	// ImmediateSync delivers a notification right after the payment is generated
	// instead of waiting for the next background cycle.
	ImmediateSync bool `json:"immediateSync"`
}

// SettingService reads and validates global settings.
type SettingService struct {
	store SettingStore
}

// NewSettingService constructs a SettingService.
func NewSettingService(store SettingStore) *SettingService {
	return &SettingService{store: store}
}

// Get returns the current settings. Missing keys keep their zero value.
func (s *SettingService) Get(ctx context.Context) (*Settings, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &Settings{}
	for _, row := range rows {
		switch row.Key {
		case models.SettingWebhookURL:
			decode(row, &out.WebhookURL)
		case models.SettingImmediateSync:
			decode(row, &out.ImmediateSync)
		}
	}
	return out, nil
}

// Update validates and stores the settings.
func (s *SettingService) Update(ctx context.Context, in Settings) (*Settings, error) {
	in.WebhookURL = strings.TrimSpace(in.WebhookURL)
	if err := validateWebhookURL(in.WebhookURL); err != nil {
		return nil, err
	}

	if err := s.save(ctx, models.SettingWebhookURL, in.WebhookURL); err != nil {
		return nil, err
	}
	if err := s.save(ctx, models.SettingImmediateSync, in.ImmediateSync); err != nil {
		return nil, err
	}
	log.Info().Str("webhook_url", in.WebhookURL).Bool("immediate_sync", in.ImmediateSync).Msg("Settings updated")
	return &in, nil
}

func decode(row models.Setting, dst any) {
	if len(row.Value) == 0 {
		return
	}
	if err := json.Unmarshal(row.Value, dst); err != nil {
		log.Warn().Err(err).Str("key", row.Key).Msg("Ignoring malformed setting")
	}
}

func (s *SettingService) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, key, raw)
}

// validateWebhookURL accepts an empty string or an absolute http(s) URL.
func validateWebhookURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: webhook url must be an absolute http(s) URL", utils.ErrInvalidSetting)
	}
	return nil
}
