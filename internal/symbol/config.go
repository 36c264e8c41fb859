package symbol

import "strings"

// Field limits and default suffix lengths.
const (
	MaxVSLength = 10
	MaxSSLength = 10
	KSLength    = 4

	DefaultVSSuffixLength = 6
	DefaultSSSuffixLength = 6
	DefaultKSSuffixLength = 4
)

// FieldConfig is the event-level configuration of one symbol. A nil pointer
// means "not configured". A configured VS SuffixLength of 0 uses the suffix
// digits as-is, without padding; for SS and KS a length of 0 selects the
// default length.
type FieldConfig struct {
	Prefix       *string `json:"prefix,omitempty"`
	SuffixLength *int    `json:"suffixLength,omitempty"`
}

// EventConfig holds the symbol configuration shared by all splits of an event.
type EventConfig struct {
	VS FieldConfig `json:"vs"`
	SS FieldConfig `json:"ss"`
	KS FieldConfig `json:"ks"`
}

// Override holds per-split prefix overrides. Suffix length is never
// overridable per split.
type Override struct {
	VSPrefix *string `json:"vsPrefix,omitempty"`
	SSPrefix *string `json:"ssPrefix,omitempty"`
	KSPrefix *string `json:"ksPrefix,omitempty"`
}

// Resolution is the effective configuration of one symbol for one split.
type Resolution struct {
	Prefix       string `json:"prefix"`
	SuffixLength int    `json:"suffixLength"`
	// Configured reports whether a non-empty prefix is set at event or split level.
	Configured bool `json:"configured"`
}

// Resolved is the effective configuration of all three symbols for one split.
type Resolved struct {
	VS Resolution `json:"vs"`
	SS Resolution `json:"ss"`
	KS Resolution `json:"ks"`
}

// Resolve merges event configuration with a split override: the split's
// prefix wins when set (even when empty), the suffix length always comes
// from the event.
func Resolve(event EventConfig, split Override) Resolved {
	return Resolved{
		VS: resolveField(event.VS, split.VSPrefix, DefaultVSSuffixLength, false),
		SS: resolveField(event.SS, split.SSPrefix, DefaultSSSuffixLength, true),
		KS: resolveField(event.KS, split.KSPrefix, DefaultKSSuffixLength, true),
	}
}

// resolveField merges one symbol's configuration. When zeroIsDefault is set
// a configured length <= 0 falls back to defaultLength.
func resolveField(fc FieldConfig, override *string, defaultLength int, zeroIsDefault bool) Resolution {
	var prefix string
	switch {
	case override != nil:
		prefix = *override
	case fc.Prefix != nil:
		prefix = *fc.Prefix
	}

	length := defaultLength
	if fc.SuffixLength != nil && (*fc.SuffixLength > 0 || !zeroIsDefault) {
		length = *fc.SuffixLength
	}
	if length < 0 {
		length = 0
	}

	return Resolution{
		Prefix:       prefix,
		SuffixLength: length,
		Configured:   strings.TrimSpace(prefix) != "",
	}
}
