// Package repair implements the four-order repair pipeline for the
// billionaires archive: whitespace/sentinel normalization (0th order),
// identity-consistency resolution (1st), temporal gap filling (2nd) and
// priority-based deduplication (3rd).
//
// Every order is a pure function of its input table: the caller gets a new
// slice back and the input rows are never written through. Orders are
// idempotent and independently callable.
package repair

import (
	"regexp"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ridgeline-data/rtb-cli/internal/dataset"
)

// Stages toggles the individual repair orders.
type Stages struct {
	Normalize bool // 0th order
	Identity  bool // 1st order (billionaires only)
	Fill      bool // 2nd order (billionaires only)
	Dedup     bool // 3rd order
}

// AllStages enables every repair order.
func AllStages() Stages {
	return Stages{Normalize: true, Identity: true, Fill: true, Dedup: true}
}

// Options configures a repair run.
type Options struct {
	// UnknownPatterns are the sentinel spellings the normalizer maps to
	// missing. Defaults to DefaultUnknownPatterns when empty.
	UnknownPatterns []*regexp.Regexp

	// IdentityKey names the columns that define "the same person" for the
	// identity resolver. Defaults to personName.
	IdentityKey []string

	// PeopleFilter restricts 1st and 2nd order work to the named persons,
	// the incremental-update optimization. 0th and 3rd order always see the
	// whole table.
	PeopleFilter []string

	Stages Stages
}

// DefaultOptions returns the full pipeline with the canonical sentinel set.
func DefaultOptions() Options {
	return Options{Stages: AllStages()}
}

func (o Options) patterns() []*regexp.Regexp {
	if len(o.UnknownPatterns) == 0 {
		return DefaultUnknownPatterns()
	}
	return o.UnknownPatterns
}

// Billionaires runs the enabled repair orders over a person-snapshot table
// and returns the repaired table.
func Billionaires(rows []dataset.Billionaire, opts Options) ([]dataset.Billionaire, error) {
	log := zap.L().With(zap.String("dataset", string(dataset.Billionaires)))

	result := rows
	if opts.Stages.Normalize {
		result = NewNormalizer(opts.patterns()...).Billionaires(result)
		log.Debug("0th order applied", zap.Int("rows", len(result)))
	}
	if opts.Stages.Identity {
		fixed, err := ResolveIdentities(result, opts.IdentityKey, opts.PeopleFilter)
		if err != nil {
			return nil, eris.Wrap(err, "repair: identity resolution")
		}
		result = fixed
		log.Debug("1st order applied", zap.Int("rows", len(result)))
	}
	if opts.Stages.Fill {
		result = FillTimeline(result, opts.PeopleFilter)
		log.Debug("2nd order applied", zap.Int("rows", len(result)))
	}
	if opts.Stages.Dedup {
		before := len(result)
		result = DeduplicateBillionaires(result)
		log.Debug("3rd order applied", zap.Int("rows", len(result)), zap.Int("removed", before-len(result)))
	}
	return result, nil
}

// Assets runs the enabled repair orders over an asset-snapshot table. The
// 1st and 2nd orders do not apply to assets and are skipped regardless of
// the stage toggles.
func Assets(rows []dataset.Asset, opts Options) ([]dataset.Asset, error) {
	log := zap.L().With(zap.String("dataset", string(dataset.Assets)))

	result := rows
	if opts.Stages.Normalize {
		result = NewNormalizer(opts.patterns()...).Assets(result)
		log.Debug("0th order applied", zap.Int("rows", len(result)))
	}
	if opts.Stages.Dedup {
		before := len(result)
		result = DeduplicateAssets(result)
		log.Debug("3rd order applied", zap.Int("rows", len(result)), zap.Int("removed", before-len(result)))
	}
	return result, nil
}

// CompilePatterns compiles configured sentinel patterns, rejecting invalid
// expressions up front so a bad config cannot silently disable cleaning.
func CompilePatterns(exprs []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, eris.Wrapf(err, "repair: bad unknown-value pattern %q", expr)
		}
		patterns = append(patterns, re)
	}
	return patterns, nil
}
