package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/spayd_api/internal/models"
	"github.com/GTDGit/spayd_api/internal/symbol"
	"github.com/GTDGit/spayd_api/internal/utils"
	"github.com/GTDGit/spayd_api/pkg/spayd"
)

// MaxBatchRows bounds the rows accepted by one batch preview.
const MaxBatchRows = 5000

// Row columns read by the batch preview. Lookup is case-insensitive.
const (
	ColumnVS     = "VS"
	ColumnSS     = "SS"
	ColumnKS     = "KS"
	ColumnAmount = "Amount"
)

var placeholderPattern = regexp.MustCompile(`{{(\w+)}}`)

// BatchPreviewRequest is an uploaded table of records for one event.
type BatchPreviewRequest struct {
	EventID int64               `json:"eventId" binding:"required"`
	Rows    []map[string]string `json:"rows" binding:"required"`
}

// BatchItem is the preview of one record and one split.
type BatchItem struct {
	Row         int        `json:"row"`
	Split       int        `json:"split"`
	Amount      float64    `json:"amount"`
	Symbols     symbol.Set `json:"symbols"`
	SPAYDString string     `json:"spaydString,omitempty"`
	Email       string     `json:"email,omitempty"`
	Warnings    []string   `json:"warnings,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// BatchPreview holds one item per record and split, rows first.
type BatchPreview struct {
	EventID  int64       `json:"eventId"`
	Rows     int         `json:"rows"`
	Items    []BatchItem `json:"items"`
	Warnings int         `json:"warnings"`
	Errors   int         `json:"errors"`
}

// BatchService previews payments for many records without storing them.
type BatchService struct {
	events   EventStore
	accounts AccountStore
	composer *symbol.Composer
}

// NewBatchService constructs a BatchService.
func NewBatchService(events EventStore, accounts AccountStore, composer *symbol.Composer) *BatchService {
	if composer == nil {
		composer = symbol.NewComposer(nil)
	}
	return &BatchService{events: events, accounts: accounts, composer: composer}
}

// Preview composes symbols, SPAYD strings and e-mail bodies for every row and
// split of the event. Problems with a single row are reported on its items
// and never fail the whole batch.
func (s *BatchService) Preview(ctx context.Context, req BatchPreviewRequest) (*BatchPreview, error) {
	if len(req.Rows) > MaxBatchRows {
		return nil, fmt.Errorf("%w: at most %d rows per batch", utils.ErrBatchTooLarge, MaxBatchRows)
	}

	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, utils.ErrEventNotFound
	}
	account, err := s.accounts.GetByID(ctx, event.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	out := &BatchPreview{EventID: event.ID, Rows: len(req.Rows), Items: []BatchItem{}}
	for i, row := range req.Rows {
		suffixes, dropped := numericSuffixes(symbol.Suffixes{
			VS: lookup(row, ColumnVS),
			SS: lookup(row, ColumnSS),
			KS: lookup(row, ColumnKS),
		})

		splits := event.Splits
		if len(splits) == 0 {
			splits = models.Splits{{}}
		}
		for j, split := range splits {
			item := s.previewItem(event, account, row, i, j, split, suffixes, dropped)
			if len(item.Warnings) > 0 {
				out.Warnings++
			}
			if item.Error != "" {
				out.Errors++
			}
			out.Items = append(out.Items, item)
		}
	}

	log.Info().
		Int64("event_id", event.ID).
		Int("rows", out.Rows).
		Int("items", len(out.Items)).
		Int("warnings", out.Warnings).
		Int("errors", out.Errors).
		Msg("Batch preview composed")
	return out, nil
}

func (s *BatchService) previewItem(
	event *models.Event,
	account *models.Account,
	row map[string]string,
	rowIndex, splitIndex int,
	split models.Split,
	suffixes symbol.Suffixes,
	dropped []string,
) BatchItem {
	item := BatchItem{Row: rowIndex, Split: splitIndex, Amount: split.Amount}

	collector := &symbol.Collector{}
	item.Symbols = s.composer.With(collector).ComposeAll(event.ResolveSplit(splitIndex), suffixes, rowIndex)
	item.Warnings = append(append([]string(nil), dropped...), warningMessages(collector.Warnings)...)

	if len(event.Splits) == 0 {
		raw := strings.ReplaceAll(strings.TrimSpace(lookup(row, ColumnAmount)), ",", ".")
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil || amount <= 0 {
			item.Error = fmt.Sprintf("row %d: missing or invalid %s column", rowIndex+1, ColumnAmount)
			return item
		}
		item.Amount = amount
	}

	message := paymentMessage(event, nil)
	spaydString, err := spayd.Encode(spayd.Payment{
		IBAN:           account.IBAN,
		Amount:         item.Amount,
		Currency:       account.Currency,
		VariableSymbol: item.Symbols.VS,
		SpecificSymbol: item.Symbols.SS,
		ConstantSymbol: item.Symbols.KS,
		Message:        message,
		RecipientName:  account.Name,
		DueDate:        split.DueTime(),
	})
	if err != nil {
		item.Error = mapEncodeError(err).Error()
		return item
	}
	item.SPAYDString = spaydString

	if event.EmailTemplate != "" {
		values := map[string]string{
			"vs":      item.Symbols.VS,
			"ss":      item.Symbols.SS,
			"ks":      item.Symbols.KS,
			"amount":  strconv.FormatFloat(item.Amount, 'f', 2, 64),
			"message": message,
			"event":   event.Name,
			"split":   strconv.Itoa(splitIndex + 1),
			"dueDate": deref(split.DueDate),
			"spayd":   spaydString,
		}
		item.Email = RenderTemplate(event.EmailTemplate, row, values)
	}
	return item
}

// RenderTemplate replaces {{name}} placeholders with the row's column of that
// name, then with computed values. Unknown placeholders render empty.
func RenderTemplate(tmpl string, row, computed map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := placeholderPattern.FindStringSubmatch(m)[1]
		if v, ok := row[key]; ok {
			return v
		}
		return computed[key]
	})
}

// lookup returns the row's value for column, matching the name exactly first
// and case-insensitively otherwise.
func lookup(row map[string]string, column string) string {
	if v, ok := row[column]; ok {
		return v
	}
	for k, v := range row {
		if strings.EqualFold(k, column) {
			return v
		}
	}
	return ""
}
