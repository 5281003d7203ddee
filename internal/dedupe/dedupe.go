// Package dedupe removes duplicate businesses gathered from several sources.
package dedupe

import (
	"github.com/rotisserie/eris"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/normalize"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/similarity"
)

// DefaultThreshold is the name similarity above which two records are the
// same business.
const DefaultThreshold = 0.8

// Deduplicator drops records that match an earlier record by name or phone.
// The first record seen always wins; fields are never merged between
// duplicates. Matching is quadratic in the number of records.
type Deduplicator struct {
	threshold float64
}

// New creates a Deduplicator. A threshold outside (0, 1] falls back to
// DefaultThreshold.
func New(threshold float64) *Deduplicator {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Deduplicator{threshold: threshold}
}

// Threshold returns the configured name similarity threshold.
func (d *Deduplicator) Threshold() float64 {
	return d.threshold
}

type key struct {
	name  string
	phone string
}

// Merge returns records with duplicates removed, preserving input order.
// A record with an empty name never matches by name and one with an empty
// phone never matches by phone.
func (d *Deduplicator) Merge(records []model.BusinessRecord) []model.BusinessRecord {
	out := make([]model.BusinessRecord, 0, len(records))
	accepted := make([]key, 0, len(records))

	for _, rec := range records {
		k := key{
			name:  similarity.Fold(rec.Name),
			phone: normalize.PhoneKey(rec.Phone),
		}
		if d.matchesAny(k, accepted) {
			continue
		}
		accepted = append(accepted, k)
		out = append(out, rec)
	}
	return out
}

// Duplicate reports whether a and b describe the same business.
func (d *Deduplicator) Duplicate(a, b model.BusinessRecord) bool {
	ka := key{name: similarity.Fold(a.Name), phone: normalize.PhoneKey(a.Phone)}
	kb := key{name: similarity.Fold(b.Name), phone: normalize.PhoneKey(b.Phone)}
	return d.match(ka, kb)
}

func (d *Deduplicator) matchesAny(k key, accepted []key) bool {
	for _, a := range accepted {
		if d.match(k, a) {
			return true
		}
	}
	return false
}

func (d *Deduplicator) match(a, b key) bool {
	if a.name != "" && b.name != "" && similarity.Similarity(a.name, b.name) > d.threshold {
		return true
	}
	return a.phone != "" && a.phone == b.phone
}

// Validate returns ErrInvalidInput for the first record without a name.
func Validate(records []model.BusinessRecord) error {
	for i, rec := range records {
		if similarity.Fold(rec.Name) == "" {
			return eris.Wrapf(model.ErrInvalidInput, "dedupe: record %d has an empty name", i)
		}
	}
	return nil
}
