package repair

import (
	"regexp"
	"strings"

	"github.com/ridgeline-data/rtb-cli/internal/dataset"
)

// DefaultUnknownPatterns returns the canonical sentinel set: a full-value,
// case-insensitive match on "unknown" or "unknown_<digits>". Broader sets
// (n/a, none, null, ...) can be configured instead when the upstream feed
// degrades again.
func DefaultUnknownPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)^unknown$`),
		regexp.MustCompile(`(?i)^unknown_-?\d+$`),
	}
}

// Normalizer is the 0th-order repair: it trims surrounding whitespace from
// every text field and maps empty or sentinel "unknown" values to missing.
// Non-text columns pass through untouched. Row count and order are
// preserved, and normalizing twice equals normalizing once.
type Normalizer struct {
	patterns []*regexp.Regexp
}

// NewNormalizer builds a Normalizer with the given sentinel patterns,
// falling back to DefaultUnknownPatterns when none are given.
func NewNormalizer(patterns ...*regexp.Regexp) *Normalizer {
	if len(patterns) == 0 {
		patterns = DefaultUnknownPatterns()
	}
	return &Normalizer{patterns: patterns}
}

// Billionaires returns a normalized copy of the person-snapshot table.
func (n *Normalizer) Billionaires(rows []dataset.Billionaire) []dataset.Billionaire {
	out := make([]dataset.Billionaire, len(rows))
	copy(out, rows)
	for i := range out {
		out[i].EachText(n.clean)
	}
	return out
}

// Assets returns a normalized copy of the asset-snapshot table.
func (n *Normalizer) Assets(rows []dataset.Asset) []dataset.Asset {
	out := make([]dataset.Asset, len(rows))
	copy(out, rows)
	for i := range out {
		out[i].EachText(n.clean)
	}
	return out
}

func (n *Normalizer) clean(_ string, v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	for _, p := range n.patterns {
		if p.MatchString(trimmed) {
			return nil
		}
	}
	if trimmed == *v {
		return v
	}
	return &trimmed
}
