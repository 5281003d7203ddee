package source

import "github.com/renbran/dubai-sme-scraper-sub000/internal/model"

// Field weights of the ingest-time quality score.
const (
	weightPhone       = 20
	weightWebsite     = 15
	weightEmail       = 10
	weightHours       = 15
	weightRating      = 10
	weightDescription = 10
	weightCoordinates = 10
	weightAddress     = 10
)

// FieldQualityScore rates how complete a record is, from 0 to 100. It is
// computed once at ingest and is unrelated to the lead score.
func FieldQualityScore(r model.BusinessRecord, region model.Region) int {
	score := 0
	if r.Phone != "" {
		score += weightPhone
	}
	if r.Website != "" {
		score += weightWebsite
	}
	if r.Email != "" {
		score += weightEmail
	}
	if len(r.Hours) > 0 {
		score += weightHours
	}
	if r.HasRating() {
		score += weightRating
	}
	if r.Description != "" {
		score += weightDescription
	}
	if r.Coordinates != nil {
		score += weightCoordinates
	}
	if region.ValidAddress(r.Address) {
		score += weightAddress
	}
	return min(score, 100)
}

// finalize stamps provenance and the quality score onto records produced by
// a source, capped at limit when limit is positive.
func finalize(records []model.BusinessRecord, ds model.DataSource, confidence float64, region model.Region, limit int) []model.BusinessRecord {
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	for i := range records {
		records[i].DataSource = ds
		records[i].Confidence = confidence
		records[i].QualityScore = FieldQualityScore(records[i], region)
	}
	return records
}
