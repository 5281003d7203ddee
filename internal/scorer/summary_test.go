package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
)

func TestSummarize(t *testing.T) {
	leads := defaultScorer().ScoreAll([]model.BusinessRecord{accountingSME(), strongLead(), {Name: "Plain"}})
	s := Summarize(leads)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.ByPriority[PriorityHigh])
	assert.Equal(t, 1, s.ByPriority[PriorityMedium])
	assert.Equal(t, 1, s.ByPriority[PriorityMediumLow])
	assert.Equal(t, 0, s.ByPriority[PriorityLow])
	assert.Equal(t, 98, s.TopScore)
	// (64 + 98 + 37) / 3
	assert.InDelta(t, 66.3, s.AverageScore, 0.001)
	assert.InDelta(t, 66.7, s.AverageDimensions[DigitalMaturity], 0.001)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Total)
	assert.Zero(t, s.AverageScore)
	assert.Len(t, s.ByPriority, len(Priorities))
}
