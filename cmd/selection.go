package main

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ridgeline-data/rtb-cli/internal/dataset"
	"github.com/ridgeline-data/rtb-cli/internal/repair"
)

// patternSet is the compiled sentinel regex list handed to diagnostics.
type patternSet = []*regexp.Regexp

// datasetSelection says which of the two tables a command operates on.
type datasetSelection struct {
	billionaires bool
	assets       bool
}

// parseSelection accepts a dataset type name or "both".
func parseSelection(raw string) (datasetSelection, error) {
	if raw == "both" {
		return datasetSelection{billionaires: true, assets: true}, nil
	}
	t, err := dataset.ParseType(raw)
	if err != nil {
		return datasetSelection{}, eris.Wrap(err, "expected billionaires, assets or both")
	}
	return datasetSelection{
		billionaires: t == dataset.Billionaires,
		assets:       t == dataset.Assets,
	}, nil
}

// stagesFromSkips turns the command-line skip flags into stage toggles.
func stagesFromSkips(skipNormalize, skipIdentity, skipFill, skipDedup bool) repair.Stages {
	return repair.Stages{
		Normalize: !skipNormalize,
		Identity:  !skipIdentity,
		Fill:      !skipFill,
		Dedup:     !skipDedup,
	}
}

// outputPath inserts the suffix between the file stem and extension, so a
// repaired table can be written next to its source instead of over it.
func outputPath(path, suffix string) string {
	if suffix == "" {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}
