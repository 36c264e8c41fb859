package symbol

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Field identifies which payment symbol a warning belongs to.
type Field string

const (
	FieldNone Field = ""
	FieldVS   Field = "VS"
	FieldSS   Field = "SS"
	FieldKS   Field = "KS"
)

// WarningKind classifies a recoverable composition problem.
type WarningKind string

const (
	// SuffixOverflow means the suffix had more digits than the configured
	// suffix length and its leading digits were dropped.
	SuffixOverflow WarningKind = "suffix_overflow"
	// SymbolOverflow means the composed symbol exceeded the field's maximum
	// length and was cut to its first Limit characters.
	SymbolOverflow WarningKind = "symbol_overflow"
)

// Warning describes data loss during composition. Composition never fails;
// it truncates and reports a Warning instead.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Field  Field       `json:"field,omitempty"`
	Input  string      `json:"input"`
	Output string      `json:"output"`
	Limit  int         `json:"limit"`
}

// String returns a human-readable description suitable for showing to an operator.
func (w Warning) String() string {
	name := "symbol"
	if w.Field != FieldNone {
		name = string(w.Field)
	}
	switch w.Kind {
	case SuffixOverflow:
		return fmt.Sprintf("%s suffix %q (%d digits) is longer than the configured suffix length (%d digits), truncated to %q; increase the suffix length or use shorter values",
			name, w.Input, len(w.Input), w.Limit, w.Output)
	case SymbolOverflow:
		return fmt.Sprintf("%s too long (%d digits), truncated to %d: %q", name, len(w.Input), w.Limit, w.Output)
	default:
		return fmt.Sprintf("%s: %s", name, w.Kind)
	}
}

// Reporter receives composition warnings.
type Reporter interface {
	Report(w Warning)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(w Warning)

// Report calls f(w).
func (f ReporterFunc) Report(w Warning) { f(w) }

// LogReporter writes warnings to the global zerolog logger.
type LogReporter struct{}

// Report logs w at warn level.
func (LogReporter) Report(w Warning) {
	log.Warn().
		Str("field", string(w.Field)).
		Str("kind", string(w.Kind)).
		Str("input", w.Input).
		Str("output", w.Output).
		Int("limit", w.Limit).
		Msg(w.String())
}

// Collector records warnings in order. It is not safe for concurrent use.
type Collector struct {
	Warnings []Warning
}

// Report appends w.
func (c *Collector) Report(w Warning) {
	c.Warnings = append(c.Warnings, w)
}

type multiReporter []Reporter

func (m multiReporter) Report(w Warning) {
	for _, r := range m {
		r.Report(w)
	}
}

// Tee returns a Reporter that forwards every warning to all non-nil reporters.
func Tee(reporters ...Reporter) Reporter {
	out := make(multiReporter, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
