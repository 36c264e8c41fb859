package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/spayd_api/internal/models"
	"github.com/GTDGit/spayd_api/internal/utils"
	"github.com/GTDGit/spayd_api/pkg/spayd"
)

// AccountInput is the writable part of an account.
type AccountInput struct {
	Name       string  `json:"name" binding:"required"`
	IBAN       string  `json:"iban" binding:"required"`
	Currency   string  `json:"currency"`
	WebhookURL *string `json:"webhookUrl"`
	IsDefault  bool    `json:"isDefault"`
}

// AccountService manages receiving accounts.
type AccountService struct {
	store AccountStore
}

// NewAccountService constructs an AccountService.
func NewAccountService(store AccountStore) *AccountService {
	return &AccountService{store: store}
}

func (s *AccountService) List(ctx context.Context) ([]models.Account, error) {
	return s.store.List(ctx)
}

func (s *AccountService) Get(ctx context.Context, id int64) (*models.Account, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, utils.ErrAccountNotFound
	}
	return a, nil
}

func (s *AccountService) Create(ctx context.Context, in AccountInput) (*models.Account, error) {
	a := &models.Account{}
	if err := applyAccountInput(a, in); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, err
	}
	log.Info().Int64("account_id", a.ID).Str("name", a.Name).Msg("Account created")
	return a, nil
}

func (s *AccountService) Update(ctx context.Context, id int64, in AccountInput) (*models.Account, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyAccountInput(a, in); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrAccountNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *AccountService) Delete(ctx context.Context, id int64) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return utils.ErrAccountNotFound
	}
	log.Info().Int64("account_id", id).Msg("Account deleted")
	return nil
}

// applyAccountInput validates in and copies it onto a. The IBAN is stored in
// electronic format.
func applyAccountInput(a *models.Account, in AccountInput) error {
	if !spayd.ValidIBAN(in.IBAN) {
		return fmt.Errorf("%w: %q", utils.ErrInvalidIBAN, in.IBAN)
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "CZK"
	}
	if len(currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter ISO code", utils.ErrInvalidSetting)
	}

	var webhook *string
	if in.WebhookURL != nil {
		w := strings.TrimSpace(*in.WebhookURL)
		if err := validateWebhookURL(w); err != nil {
			return err
		}
		if w != "" {
			webhook = &w
		}
	}

	a.Name = strings.TrimSpace(in.Name)
	a.IBAN = spayd.ElectronicIBAN(in.IBAN)
	a.Currency = currency
	a.WebhookURL = webhook
	a.IsDefault = in.IsDefault
	return nil
}
