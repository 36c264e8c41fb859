package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/spayd_api/internal/models"
	"github.com/GTDGit/spayd_api/internal/symbol"
	"github.com/GTDGit/spayd_api/internal/utils"
)

// maxSuffixLength bounds configured suffix lengths; longer suffixes could
// never fit a 10-digit symbol.
const maxSuffixLength = symbol.MaxVSLength

// EventInput is the writable part of an event.
type EventInput struct {
	AccountID      int64         `json:"accountId" binding:"required"`
	Name           string        `json:"name" binding:"required"`
	Description    string        `json:"description"`
	VSPrefix       *string       `json:"vsPrefix"`
	VSSuffixLength *int          `json:"vsSuffixLength"`
	SSPrefix       *string       `json:"ssPrefix"`
	SSSuffixLength *int          `json:"ssSuffixLength"`
	KSPrefix       *string       `json:"ksPrefix"`
	KSSuffixLength *int          `json:"ksSuffixLength"`
	Splits         models.Splits `json:"splits"`
	EmailTemplate  string        `json:"emailTemplate"`
	IsDefault      bool          `json:"isDefault"`
}

// EventService manages events and their symbol configuration.
type EventService struct {
	store    EventStore
	accounts AccountStore
}

// NewEventService constructs an EventService.
func NewEventService(store EventStore, accounts AccountStore) *EventService {
	return &EventService{store: store, accounts: accounts}
}

func (s *EventService) List(ctx context.Context, accountID *int64) ([]models.Event, error) {
	return s.store.List(ctx, accountID)
}

func (s *EventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, utils.ErrEventNotFound
	}
	return e, nil
}

func (s *EventService) Create(ctx context.Context, in EventInput) (*models.Event, error) {
	e := &models.Event{}
	if err := s.apply(ctx, e, in); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, e); err != nil {
		return nil, err
	}
	log.Info().Int64("event_id", e.ID).Int64("account_id", e.AccountID).Int("splits", len(e.Splits)).Msg("Event created")
	return e, nil
}

func (s *EventService) Update(ctx context.Context, id int64, in EventInput) (*models.Event, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, e, in); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *EventService) Delete(ctx context.Context, id int64) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return utils.ErrEventNotFound
	}
	log.Info().Int64("event_id", id).Msg("Event deleted")
	return nil
}

func (s *EventService) apply(ctx context.Context, e *models.Event, in EventInput) error {
	a, err := s.accounts.GetByID(ctx, in.AccountID)
	if err != nil {
		return err
	}
	if a == nil {
		return utils.ErrAccountNotFound
	}

	for name, l := range map[string]*int{"vs": in.VSSuffixLength, "ss": in.SSSuffixLength, "ks": in.KSSuffixLength} {
		if l != nil && (*l < 0 || *l > maxSuffixLength) {
			return fmt.Errorf("%w: %s suffix length must be between 0 and %d", utils.ErrInvalidSymbol, name, maxSuffixLength)
		}
	}
	for i, sp := range in.Splits {
		if sp.Amount <= 0 {
			return fmt.Errorf("%w: split %d has no amount", utils.ErrInvalidSplit, i+1)
		}
		if sp.DueDate != nil && *sp.DueDate != "" && sp.DueTime().IsZero() {
			return fmt.Errorf("%w: split %d due date must be YYYY-MM-DD", utils.ErrInvalidSplit, i+1)
		}
	}

	e.AccountID = in.AccountID
	e.Name = strings.TrimSpace(in.Name)
	e.Description = in.Description
	e.VSPrefix, e.VSSuffixLength = in.VSPrefix, in.VSSuffixLength
	e.SSPrefix, e.SSSuffixLength = in.SSPrefix, in.SSSuffixLength
	e.KSPrefix, e.KSSuffixLength = in.KSPrefix, in.KSSuffixLength
	e.Splits = in.Splits
	if e.Splits == nil {
		e.Splits = models.Splits{}
	}
	e.EmailTemplate = in.EmailTemplate
	e.IsDefault = in.IsDefault
	return nil
}
