package service

import (
	"testing"

	"github.com/GTDGit/spayd_api/internal/symbol"
)

type countingSymbolObserver struct {
	byKey map[string]int
}

func (o *countingSymbolObserver) RecordSymbolWarning(field, kind string) {
	if o.byKey == nil {
		o.byKey = map[string]int{}
	}
	o.byKey[field+"/"+kind]++
}

func TestSymbolService_Preview(t *testing.T) {
	prefix := "2025"
	length := 6
	svc := NewSymbolService(nil)

	got := svc.Preview(SymbolPreviewRequest{
		Config:   symbol.EventConfig{VS: symbol.FieldConfig{Prefix: &prefix, SuffixLength: &length}},
		RowIndex: 0,
	})

	if got.Symbols.VS != "2025000001" {
		t.Errorf("expected VS 2025000001, got %s", got.Symbols.VS)
	}
	if got.Symbols.SS != "" || got.Symbols.KS != "" {
		t.Errorf("expected SS and KS omitted, got %+v", got.Symbols)
	}
	if got.Numbers.VS != 2025000001 || got.Numbers.SS != 0 {
		t.Errorf("unexpected numbers %+v", got.Numbers)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", got.Warnings)
	}
}

func TestSymbolService_PreviewReportsTruncation(t *testing.T) {
	prefix := "99"
	length := 4
	obs := &countingSymbolObserver{}
	svc := NewSymbolService(symbol.NewComposer(NewSymbolReporter(obs)))

	got := svc.Preview(SymbolPreviewRequest{
		Config:   symbol.EventConfig{VS: symbol.FieldConfig{Prefix: &prefix, SuffixLength: &length}},
		Suffixes: symbol.Suffixes{VS: "123456789"},
	})

	if got.Symbols.VS != "996789" {
		t.Errorf("expected VS 996789, got %s", got.Symbols.VS)
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Kind != symbol.SuffixOverflow {
		t.Fatalf("expected one suffix overflow warning, got %v", got.Warnings)
	}
	if obs.byKey["VS/suffix_overflow"] != 1 {
		t.Errorf("expected warning counted once, got %v", obs.byKey)
	}
	if msgs := warningMessages(got.Warnings); len(msgs) != 1 || msgs[0] == "" {
		t.Errorf("expected a rendered warning, got %v", msgs)
	}
}
