// Package selection validates the feature and target columns chosen for a fit.
package selection

import (
	"github.com/rpggio/trendify/internal/domain"
	"github.com/rpggio/trendify/internal/domain/dataset"
)

// Selection is an ordered set of feature columns plus one target column.
type Selection struct {
	Features []string `json:"features"`
	Target   string   `json:"target"`
}

// SelectFeatures starts a selection with the given features.
func SelectFeatures(t *dataset.Table, names []string) (Selection, error) {
	return Selection{}.WithFeatures(t, names)
}

// SelectTarget starts a selection with the given target.
func SelectTarget(t *dataset.Table, name string) (Selection, error) {
	return Selection{}.WithTarget(t, name)
}

// WithFeatures replaces the feature set. Names keep their given order;
// repeats are dropped.
func (s Selection) WithFeatures(t *dataset.Table, names []string) (Selection, error) {
	const op = "select features"

	if len(names) == 0 {
		return s, domain.Failure(op, domain.KindEmptySelection, "at least one feature column is required")
	}

	var unknown []string
	seen := make(map[string]bool, len(names))
	features := make([]string, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		if !t.Has(name) {
			unknown = append(unknown, name)
			continue
		}
		features = append(features, name)
	}
	if len(unknown) > 0 {
		return s, domain.ColumnError(op, domain.KindUnknownColumn, unknown...)
	}

	s.Features = features
	return s, nil
}

// WithTarget replaces the target column.
func (s Selection) WithTarget(t *dataset.Table, name string) (Selection, error) {
	const op = "select target"

	if name == "" {
		return s, domain.Failure(op, domain.KindEmptySelection, "a target column is required")
	}
	if !t.Has(name) {
		return s, domain.ColumnError(op, domain.KindUnknownColumn, name)
	}
	s.Target = name
	return s, nil
}

// Ready reports whether the selection can be used for fitting.
func (s Selection) Ready() bool {
	return len(s.Features) > 0 && s.Target != ""
}

// Overlap returns the target when it is also selected as a feature.
func (s Selection) Overlap() []string {
	for _, f := range s.Features {
		if f == s.Target {
			return []string{f}
		}
	}
	return nil
}

// MissingInFeatures re-censuses the selected features so the caller can warn
// about columns that still need remediation.
func (s Selection) MissingInFeatures(t *dataset.Table) dataset.NullCensus {
	return dataset.CensusOf(t, s.Features)
}
