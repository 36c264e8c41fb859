package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/GTDGit/spayd_api/internal/models"
	"github.com/GTDGit/spayd_api/internal/symbol"
	"github.com/GTDGit/spayd_api/internal/utils"
)

func newTestBatchService(events ...models.Event) *BatchService {
	return NewBatchService(newMemEventStore(events...), newMemAccountStore(testAccount()), symbol.NewComposer(nil))
}

func TestBatchPreview_EndToEnd(t *testing.T) {
	svc := newTestBatchService(testEvent())

	out, err := svc.Preview(context.Background(), BatchPreviewRequest{
		EventID: 1,
		Rows:    []map[string]string{{"Name": "Jan"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Items) != 2 {
		t.Fatalf("expected one item per split, got %d", len(out.Items))
	}
	for i, item := range out.Items {
		if item.Symbols.VS != "2025000001" {
			t.Errorf("split %d: expected VS 2025000001, got %s", i, item.Symbols.VS)
		}
		if item.Symbols.SS != "" || item.Symbols.KS != "" {
			t.Errorf("split %d: expected SS and KS omitted, got %+v", i, item.Symbols)
		}
		if item.Error != "" {
			t.Errorf("split %d: unexpected error %s", i, item.Error)
		}
	}
	if out.Items[0].Amount != 100 || out.Items[1].Amount != 200 {
		t.Errorf("unexpected amounts %.2f, %.2f", out.Items[0].Amount, out.Items[1].Amount)
	}
	if !strings.HasSuffix(out.Items[1].SPAYDString, "*X-VS:2025000001") {
		t.Errorf("unexpected SPAYD string %s", out.Items[1].SPAYDString)
	}
}

func TestBatchPreview_RowColumns(t *testing.T) {
	ev := testEvent()
	ev.Splits = models.Splits{{Amount: 100, VSPrefix: ptr("2026")}}
	ev.KSPrefix = ptr("03")
	ev.KSSuffixLength = ptr(2)
	svc := newTestBatchService(ev)

	out, err := svc.Preview(context.Background(), BatchPreviewRequest{
		EventID: 1,
		Rows: []map[string]string{
			{"vs": "42", "ss": "7", "ks": "8"},
			{"VS": "1234567"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, second := out.Items[0], out.Items[1]
	if first.Symbols.VS != "2026000042" || first.Symbols.SS != "000007" || first.Symbols.KS != "0308" {
		t.Errorf("unexpected symbols %+v", first.Symbols)
	}
	if second.Symbols.VS != "2026234567" {
		t.Errorf("expected truncated VS suffix, got %s", second.Symbols.VS)
	}
	if len(second.Warnings) != 1 || out.Warnings != 1 {
		t.Errorf("expected one warning, got %v (total %d)", second.Warnings, out.Warnings)
	}
}

func TestBatchPreview_ImplicitSplitAmountColumn(t *testing.T) {
	ev := testEvent()
	ev.Splits = nil
	svc := newTestBatchService(ev)

	out, err := svc.Preview(context.Background(), BatchPreviewRequest{
		EventID: 1,
		Rows:    []map[string]string{{"Amount": "150,50"}, {"Amount": "abc"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Items[0].Amount != 150.5 || out.Items[0].Error != "" {
		t.Errorf("unexpected first item %+v", out.Items[0])
	}
	if out.Items[1].Error == "" || out.Errors != 1 {
		t.Errorf("expected an error on the second row, got %+v", out.Items[1])
	}
	if out.Items[1].Symbols.VS != "2025000002" {
		t.Errorf("expected symbols even on error rows, got %s", out.Items[1].Symbols.VS)
	}
}

func TestBatchPreview_Email(t *testing.T) {
	ev := testEvent()
	ev.EmailTemplate = "Hi {{Name}}, pay {{amount}} CZK with VS {{vs}} by {{dueDate}}.{{missing}}"
	svc := newTestBatchService(ev)

	out, err := svc.Preview(context.Background(), BatchPreviewRequest{
		EventID: 1,
		Rows:    []map[string]string{{"Name": "Jan"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Hi Jan, pay 100.00 CZK with VS 2025000001 by 2025-06-30."
	if out.Items[0].Email != want {
		t.Errorf("got  %q\nwant %q", out.Items[0].Email, want)
	}
}

func TestBatchPreview_Errors(t *testing.T) {
	svc := newTestBatchService(testEvent())

	if _, err := svc.Preview(context.Background(), BatchPreviewRequest{EventID: 9}); !errors.Is(err, utils.ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}

	rows := make([]map[string]string, MaxBatchRows+1)
	if _, err := svc.Preview(context.Background(), BatchPreviewRequest{EventID: 1, Rows: rows}); !errors.Is(err, utils.ErrBatchTooLarge) {
		t.Errorf("expected ErrBatchTooLarge, got %v", err)
	}
}

func TestRenderTemplate(t *testing.T) {
	got := RenderTemplate("{{vs}}/{{VS}}/{{x}}", map[string]string{"VS": "row"}, map[string]string{"vs": "computed"})
	if got != "computed/row/" {
		t.Errorf("unexpected render %q", got)
	}
}

func TestBatchPreview_NonNumericRecordSymbols(t *testing.T) {
	svc := newTestBatchService(testEvent())

	out, err := svc.Preview(context.Background(), BatchPreviewRequest{
		EventID: 1,
		Rows:    []map[string]string{{"SS": "n/a", "KS": "308"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, item := range out.Items {
		if item.Symbols.SS != "" {
			t.Errorf("split %d: expected SS dropped, got %s", i, item.Symbols.SS)
		}
		if item.Symbols.KS != "0308" {
			t.Errorf("split %d: expected KS 0308, got %s", i, item.Symbols.KS)
		}
		if len(item.Warnings) != 1 || !strings.Contains(item.Warnings[0], `SS value "n/a"`) {
			t.Errorf("split %d: unexpected warnings %v", i, item.Warnings)
		}
	}
	if out.Warnings != len(out.Items) {
		t.Errorf("expected every item counted with a warning, got %d", out.Warnings)
	}
}
