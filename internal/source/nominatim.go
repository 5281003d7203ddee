package source

import (
	"context"
	"errors"
	"strings"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/normalize"
	"github.com/renbran/dubai-sme-scraper-sub000/pkg/nominatim"
)

// NominatimName is the registry name of the OpenStreetMap geocoding source.
const NominatimName = "nominatim"

// nominatimConfidence is a placeholder weight, not a calibrated probability.
const nominatimConfidence = 0.6

// Nominatim is the geocoding source. It yields little more than a display
// name and coordinates.
type Nominatim struct {
	client       nominatim.Client
	region       model.Region
	countryCodes string
}

// NewNominatim creates the OpenStreetMap source restricted to countryCodes
// (e.g. "ae"); empty means unrestricted.
func NewNominatim(client nominatim.Client, region model.Region, countryCodes string) *Nominatim {
	return &Nominatim{client: client, region: region, countryCodes: countryCodes}
}

// Name implements Client.
func (n *Nominatim) Name() string { return NominatimName }

// Search implements Client.
func (n *Nominatim) Search(ctx context.Context, query, location string, limits Limits) ([]model.BusinessRecord, error) {
	params := nominatim.SearchParams{
		Query:        strings.TrimSpace(query + " " + location),
		Limit:        limits.MaxResults,
		CountryCodes: n.countryCodes,
	}
	if minLat, minLng, maxLat, maxLng, ok := n.region.Box(); ok {
		params.ViewBox = &nominatim.ViewBox{MinLng: minLng, MinLat: minLat, MaxLng: maxLng, MaxLat: maxLat, Bounded: true}
	}

	places, err := n.client.Search(ctx, params)
	if err != nil {
		var apiErr *nominatim.APIError
		status := 0
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return nil, Unavailable(NominatimName, err, status)
	}

	records := make([]model.BusinessRecord, 0, len(places))
	for _, p := range places {
		rec := n.toRecord(p)
		if rec.Name == "" {
			continue
		}
		records = append(records, rec)
	}
	return finalize(records, model.SourceNominatim, nominatimConfidence, n.region, limits.MaxResults), nil
}

func (n *Nominatim) toRecord(p nominatim.Place) model.BusinessRecord {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = strings.TrimSpace(strings.SplitN(p.DisplayName, ",", 2)[0])
	}
	rec := model.BusinessRecord{
		Name:     name,
		Address:  normalize.Address(p.DisplayName),
		Category: strings.ReplaceAll(p.Type, "_", " "),
	}
	if rec.Category == "" {
		rec.Category = "Business"
	}

	if phone := firstTag(p.ExtraTags, "phone", "contact:phone"); phone != "" {
		rec.Phone, _ = normalize.Phone(phone)
	}
	if site := firstTag(p.ExtraTags, "website", "contact:website"); site != "" {
		rec.Website = normalize.Website(site)
	}
	if email := firstTag(p.ExtraTags, "email", "contact:email"); email != "" {
		rec.Email = normalize.Email(email)
	}
	if hours := firstTag(p.ExtraTags, "opening_hours"); hours != "" {
		rec.Hours = []string{hours}
	}
	if lat, lng, ok := p.LatLng(); ok {
		rec.SetCoordinates(model.Coordinates{Lat: lat, Lng: lng}, n.region)
	}
	return rec
}

func firstTag(tags map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(tags[k]); v != "" {
			return v
		}
	}
	return ""
}
