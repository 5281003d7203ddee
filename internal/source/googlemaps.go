package source

import (
	"context"
	"errors"
	"strings"

	"github.com/guregu/null/v5"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/normalize"
	"github.com/renbran/dubai-sme-scraper-sub000/pkg/google"
)

// GoogleMapsName is the registry name of the Google Maps source.
const GoogleMapsName = "google_maps"

// GoogleMaps is the primary map source backed by the Places API. Its records
// carry the richest field set and full confidence.
type GoogleMaps struct {
	client google.Client
	region model.Region
}

// NewGoogleMaps creates the Google Maps source.
func NewGoogleMaps(client google.Client, region model.Region) *GoogleMaps {
	return &GoogleMaps{client: client, region: region}
}

// Name implements Client.
func (g *GoogleMaps) Name() string { return GoogleMapsName }

// Search implements Client.
func (g *GoogleMaps) Search(ctx context.Context, query, location string, limits Limits) ([]model.BusinessRecord, error) {
	req := google.TextSearchRequest{
		TextQuery:  withLocation(query, location),
		PageSize:   limits.MaxResults,
		RegionCode: "AE",
	}
	if minLat, minLng, maxLat, maxLng, ok := g.region.Box(); ok {
		req.LocationBias = &google.LocationBias{Rectangle: google.Rectangle{
			Low:  google.LatLng{Latitude: minLat, Longitude: minLng},
			High: google.LatLng{Latitude: maxLat, Longitude: maxLng},
		}}
	}

	resp, err := g.client.TextSearch(ctx, req)
	if err != nil {
		var apiErr *google.APIError
		status := 0
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return nil, Unavailable(GoogleMapsName, err, status)
	}

	records := make([]model.BusinessRecord, 0, len(resp.Places))
	for _, p := range resp.Places {
		if p.BusinessStatus == "CLOSED_PERMANENTLY" {
			continue
		}
		records = append(records, g.toRecord(p))
	}
	return finalize(records, model.SourceGoogleMaps, 1.0, g.region, limits.MaxResults), nil
}

func (g *GoogleMaps) toRecord(p google.Place) model.BusinessRecord {
	rec := model.BusinessRecord{
		Name:        strings.TrimSpace(p.DisplayName.Text),
		Address:     normalize.Address(p.FormattedAddress),
		Website:     normalize.Website(p.WebsiteURI),
		ReviewCount: p.UserRatingCount,
		Category:    p.PrimaryTypeDisplayName.Text,
		Description: p.EditorialSummary.Text,
		SourceURL:   p.GoogleMapsURI,
	}

	phone := p.InternationalPhoneNumber
	if phone == "" {
		phone = p.NationalPhoneNumber
	}
	rec.Phone, _ = normalize.Phone(phone)

	if p.Rating > 0 {
		rec.Rating = null.FloatFrom(p.Rating)
	}
	if rec.Category == "" && len(p.Types) > 0 {
		rec.Category = strings.ReplaceAll(p.Types[0], "_", " ")
	}
	if p.RegularOpeningHours != nil {
		rec.Hours = p.RegularOpeningHours.WeekdayDescriptions
	}

	if p.Location != nil {
		rec.SetCoordinates(model.Coordinates{Lat: p.Location.Latitude, Lng: p.Location.Longitude}, g.region)
	} else if c, ok := normalize.CoordinatesFromURL(p.GoogleMapsURI); ok {
		rec.SetCoordinates(c, g.region)
	}
	return rec
}

// withLocation appends location to query unless the query already names it.
func withLocation(query, location string) string {
	query = strings.TrimSpace(query)
	location = strings.TrimSpace(location)
	if location == "" || strings.Contains(strings.ToLower(query), strings.ToLower(location)) {
		return query
	}
	return query + " in " + location
}
