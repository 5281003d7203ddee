package source

import (
	"context"
	"errors"
	"strings"

	"github.com/guregu/null/v5"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/normalize"
	"github.com/renbran/dubai-sme-scraper-sub000/pkg/yelp"
)

// YelpName is the registry name of the Yelp source.
const YelpName = "yelp"

// yelpConfidence reflects that Yelp listings lack websites and hours.
const yelpConfidence = 0.85

// Yelp is the review-site source. Its records focus on rating, review count
// and category.
type Yelp struct {
	client yelp.Client
	region model.Region
}

// NewYelp creates the Yelp source.
func NewYelp(client yelp.Client, region model.Region) *Yelp {
	return &Yelp{client: client, region: region}
}

// Name implements Client.
func (y *Yelp) Name() string { return YelpName }

// Search implements Client.
func (y *Yelp) Search(ctx context.Context, query, location string, limits Limits) ([]model.BusinessRecord, error) {
	if location == "" {
		location = y.region.Name
	}

	resp, err := y.client.Search(ctx, yelp.SearchParams{
		Term:     query,
		Location: location,
		Limit:    limits.MaxResults,
	})
	if err != nil {
		var apiErr *yelp.APIError
		status := 0
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return nil, Unavailable(YelpName, err, status)
	}

	records := make([]model.BusinessRecord, 0, len(resp.Businesses))
	for _, b := range resp.Businesses {
		if b.IsClosed {
			continue
		}
		records = append(records, y.toRecord(b))
	}
	return finalize(records, model.SourceYelp, yelpConfidence, y.region, limits.MaxResults), nil
}

func (y *Yelp) toRecord(b yelp.Business) model.BusinessRecord {
	rec := model.BusinessRecord{
		Name:        strings.TrimSpace(b.Name),
		Address:     normalize.Address(strings.Join(b.Location.DisplayAddress, ", ")),
		ReviewCount: b.ReviewCount,
		SourceURL:   b.URL,
	}
	if rec.Address == "" {
		rec.Address = normalize.Address(strings.TrimSpace(b.Location.Address1 + ", " + b.Location.City))
		rec.Address = strings.Trim(rec.Address, ", ")
	}
	rec.Phone, _ = normalize.Phone(b.Phone)
	if b.Rating > 0 {
		rec.Rating = null.FloatFrom(b.Rating)
	}
	if len(b.Categories) > 0 {
		rec.Category = b.Categories[0].Title
	}
	if b.Coordinates.Latitude != 0 || b.Coordinates.Longitude != 0 {
		rec.SetCoordinates(model.Coordinates{Lat: b.Coordinates.Latitude, Lng: b.Coordinates.Longitude}, y.region)
	}
	return rec
}
