package source

import (
	"testing"

	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
)

func TestFieldQualityScore(t *testing.T) {
	region := model.DubaiRegion()

	full := model.BusinessRecord{
		Name:        "Gulf Audit Partners",
		Phone:       "+97143685555",
		Website:     "https://gulfaudit.ae",
		Email:       "info@gulfaudit.ae",
		Hours:       []string{"Monday: 9-6"},
		Rating:      null.FloatFrom(4.6),
		Description: "Audit and advisory",
		Coordinates: &model.Coordinates{Lat: 25.18, Lng: 55.27},
		Address:     "Business Bay, Dubai",
	}

	tests := []struct {
		name   string
		modify func(r *model.BusinessRecord)
		want   int
	}{
		{"all fields", func(*model.BusinessRecord) {}, 100},
		{"no phone", func(r *model.BusinessRecord) { r.Phone = "" }, 80},
		{"no website", func(r *model.BusinessRecord) { r.Website = "" }, 85},
		{"no hours", func(r *model.BusinessRecord) { r.Hours = nil }, 85},
		{"zero rating", func(r *model.BusinessRecord) { r.Rating = null.FloatFrom(0) }, 90},
		{"absent rating", func(r *model.BusinessRecord) { r.Rating = null.Float{} }, 90},
		{"foreign address", func(r *model.BusinessRecord) { r.Address = "Baker Street, London" }, 90},
		{"no coordinates", func(r *model.BusinessRecord) { r.Coordinates = nil }, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := full
			tt.modify(&r)
			assert.Equal(t, tt.want, FieldQualityScore(r, region))
		})
	}

	assert.Zero(t, FieldQualityScore(model.BusinessRecord{Name: "Bare"}, region))
}

func TestFinalize(t *testing.T) {
	recs := []model.BusinessRecord{{Name: "A", Phone: "+97143685555"}, {Name: "B"}, {Name: "C"}}
	out := finalize(recs, model.SourceYelp, 0.85, model.DubaiRegion(), 2)

	assert.Len(t, out, 2)
	for _, r := range out {
		assert.Equal(t, model.SourceYelp, r.DataSource)
		assert.Equal(t, 0.85, r.Confidence)
	}
	assert.Equal(t, 20, out[0].QualityScore)
}
