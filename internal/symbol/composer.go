// Package symbol composes the numeric payment symbols used by Czech and
// Slovak banks: the Variable Symbol (VS), Specific Symbol (SS) and Constant
// Symbol (KS).
//
// A symbol is built from a prefix and a suffix. The suffix is zero-padded to
// a configured length, or truncated to its last digits when it does not fit.
// Composition never fails: overflows are truncated and reported to a
// Reporter, and optional symbols that carry no information are omitted.
package symbol

import (
	"strconv"
	"strings"
)

// Composer composes payment symbols and reports truncation warnings.
// A Composer is safe for concurrent use when its Reporter is.
type Composer struct {
	reporter Reporter
}

// NewComposer returns a Composer reporting to r. A nil r logs warnings
// through zerolog.
func NewComposer(r Reporter) *Composer {
	if r == nil {
		r = LogReporter{}
	}
	return &Composer{reporter: r}
}

// With returns a Composer that reports to both c's reporter and r.
func (c *Composer) With(r Reporter) *Composer {
	return &Composer{reporter: Tee(c.reporter, r)}
}

// Compose joins the digits of prefix with the digits of suffix (or fallback
// when suffix is absent), padding the suffix with zeros on the left to
// exactly suffixLength digits. A suffixLength of 0 uses the suffix digits
// unpadded. A suffix longer than suffixLength keeps only its last
// suffixLength digits and reports a SuffixOverflow warning.
//
// The result contains only ASCII digits.
func (c *Composer) Compose(prefix, suffix string, suffixLength int, fallback string) string {
	return c.compose(FieldNone, prefix, suffix, suffixLength, fallback)
}

func (c *Composer) compose(field Field, prefix, suffix string, suffixLength int, fallback string) string {
	numericPrefix := Digits(prefix)

	effective := suffix
	if absent(suffix) {
		effective = fallback
	}
	numericSuffix := Digits(effective)

	if suffixLength <= 0 {
		return numericPrefix + numericSuffix
	}

	if len(numericSuffix) > suffixLength {
		truncated := numericSuffix[len(numericSuffix)-suffixLength:]
		c.reporter.Report(Warning{
			Kind:   SuffixOverflow,
			Field:  field,
			Input:  numericSuffix,
			Output: truncated,
			Limit:  suffixLength,
		})
		return numericPrefix + truncated
	}

	return numericPrefix + strings.Repeat("0", suffixLength-len(numericSuffix)) + numericSuffix
}

// VS composes the Variable Symbol. The fallback suffix is the 1-based row
// number, so every record gets a non-empty VS. Results longer than 10
// digits keep their first 10 digits.
func (c *Composer) VS(r Resolution, personSuffix string, rowIndex int) string {
	composed := c.compose(FieldVS, r.Prefix, personSuffix, r.SuffixLength, strconv.Itoa(rowIndex+1))
	return c.limit(FieldVS, composed, MaxVSLength)
}

// SS composes the optional Specific Symbol. It is omitted (ok == false) when
// no prefix is configured and the record has no SS value, and when the
// result is all zeros.
func (c *Composer) SS(r Resolution, personSuffix string) (string, bool) {
	if !r.Configured && absent(personSuffix) {
		return "", false
	}

	composed := c.compose(FieldSS, r.Prefix, personSuffix, r.SuffixLength, "")
	if allZero(composed) {
		return "", false
	}

	composed = c.limit(FieldSS, composed, MaxSSLength)
	if allZero(composed) {
		return "", false
	}
	return composed, true
}

// KS composes the optional Constant Symbol, which is always exactly four
// digits: shorter results are zero-padded on the left, longer ones keep
// their first four digits. It is omitted under the same rules as SS.
func (c *Composer) KS(r Resolution, personSuffix string) (string, bool) {
	if !r.Configured && absent(personSuffix) {
		return "", false
	}

	composed := c.compose(FieldKS, r.Prefix, personSuffix, r.SuffixLength, "")
	if allZero(composed) {
		return "", false
	}

	switch {
	case len(composed) < KSLength:
		composed = strings.Repeat("0", KSLength-len(composed)) + composed
	case len(composed) > KSLength:
		composed = c.limit(FieldKS, composed, KSLength)
	}

	if allZero(composed) {
		return "", false
	}
	return composed, true
}

// Suffixes are the per-record suffix values, typically the VS, SS and KS
// columns of an uploaded row. Empty means not provided.
type Suffixes struct {
	VS string `json:"vs,omitempty"`
	SS string `json:"ss,omitempty"`
	KS string `json:"ks,omitempty"`
}

// Set is a composed group of symbols for one payment. Empty SS or KS means
// the symbol is omitted.
type Set struct {
	VS string `json:"variableSymbol"`
	SS string `json:"specificSymbol,omitempty"`
	KS string `json:"constantSymbol,omitempty"`
}

// ComposeAll composes VS, SS and KS for one record and one split.
func (c *Composer) ComposeAll(r Resolved, s Suffixes, rowIndex int) Set {
	set := Set{VS: c.VS(r.VS, s.VS, rowIndex)}
	if ss, ok := c.SS(r.SS, s.SS); ok {
		set.SS = ss
	}
	if ks, ok := c.KS(r.KS, s.KS); ok {
		set.KS = ks
	}
	return set
}

func (c *Composer) limit(field Field, s string, max int) string {
	if len(s) <= max {
		return s
	}
	out := s[:max]
	c.reporter.Report(Warning{
		Kind:   SymbolOverflow,
		Field:  field,
		Input:  s,
		Output: out,
		Limit:  max,
	})
	return out
}

// Digits returns s with every character other than 0-9 removed.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// absent reports whether a suffix value counts as not provided. Only an
// empty or blank value is absent; "0" is a real suffix.
func absent(s string) bool {
	return strings.TrimSpace(s) == ""
}

func allZero(s string) bool {
	return strings.Trim(s, "0") == ""
}
