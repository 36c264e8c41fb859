package service

import (
	"fmt"
	"strings"

	"github.com/GTDGit/spayd_api/internal/metrics"
	"github.com/GTDGit/spayd_api/internal/symbol"
)

// NewSymbolReporter returns a Reporter that logs warnings and counts them in obs.
func NewSymbolReporter(obs metrics.SymbolObserver) symbol.Reporter {
	if obs == nil {
		return symbol.LogReporter{}
	}
	return symbol.Tee(symbol.LogReporter{}, symbol.ReporterFunc(func(w symbol.Warning) {
		obs.RecordSymbolWarning(string(w.Field), string(w.Kind))
	}))
}

// SymbolPreviewRequest describes one symbol composition.
type SymbolPreviewRequest struct {
	Config   symbol.EventConfig `json:"config"`
	Override symbol.Override    `json:"override"`
	Suffixes symbol.Suffixes    `json:"suffixes"`
	RowIndex int                `json:"rowIndex"`
}

// SymbolPreview is the composed result with the effective configuration
// and every warning raised while composing.
type SymbolPreview struct {
	Resolved symbol.Resolved  `json:"resolved"`
	Symbols  symbol.Set       `json:"symbols"`
	Numbers  SymbolNumbers    `json:"numbers"`
	Warnings []symbol.Warning `json:"warnings"`
}

// SymbolNumbers holds the numeric values of the composed symbols; 0 when absent.
type SymbolNumbers struct {
	VS int64 `json:"vs"`
	SS int64 `json:"ss"`
	KS int64 `json:"ks"`
}

// SymbolService composes symbols without persisting anything.
type SymbolService struct {
	composer *symbol.Composer
}

// NewSymbolService constructs a SymbolService.
func NewSymbolService(composer *symbol.Composer) *SymbolService {
	if composer == nil {
		composer = symbol.NewComposer(nil)
	}
	return &SymbolService{composer: composer}
}

// Preview composes VS, SS and KS for req. It never fails.
func (s *SymbolService) Preview(req SymbolPreviewRequest) *SymbolPreview {
	if req.RowIndex < 0 {
		req.RowIndex = 0
	}
	collector := &symbol.Collector{}
	resolved := symbol.Resolve(req.Config, req.Override)
	set := s.composer.With(collector).ComposeAll(resolved, req.Suffixes, req.RowIndex)

	warnings := collector.Warnings
	if warnings == nil {
		warnings = []symbol.Warning{}
	}
	return &SymbolPreview{
		Resolved: resolved,
		Symbols:  set,
		Numbers: SymbolNumbers{
			VS: symbol.ToNumber(set.VS),
			SS: symbol.ToNumber(set.SS),
			KS: symbol.ToNumber(set.KS),
		},
		Warnings: warnings,
	}
}

// numericSuffixes drops per-record SS and KS values that are not purely
// numeric and returns a message for each dropped value. Surrounding spaces
// are trimmed. VS values keep their digits-only composition.
func numericSuffixes(s symbol.Suffixes) (symbol.Suffixes, []string) {
	var dropped []string
	check := func(field symbol.Field, v *string) {
		t := strings.TrimSpace(*v)
		if t != "" && !symbol.IsValidNumeric(t) {
			dropped = append(dropped, fmt.Sprintf("%s value %q is not numeric and was ignored", field, *v))
			t = ""
		}
		*v = t
	}
	check(symbol.FieldSS, &s.SS)
	check(symbol.FieldKS, &s.KS)
	return s, dropped
}

// warningMessages renders warnings for an API response.
func warningMessages(ws []symbol.Warning) []string {
	if len(ws) == 0 {
		return nil
	}
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.String()
	}
	return out
}
