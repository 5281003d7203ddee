// Package model defines the business records that flow through search,
// enrichment, and scoring.
package model

import (
	olc "github.com/google/open-location-code/go"
	"github.com/guregu/null/v5"
)

// Platform identifies a social media network.
type Platform string

// Supported social platforms.
const (
	Facebook  Platform = "facebook"
	Instagram Platform = "instagram"
	Twitter   Platform = "twitter"
	LinkedIn  Platform = "linkedin"
	YouTube   Platform = "youtube"
	WhatsApp  Platform = "whatsapp"
	Telegram  Platform = "telegram"
	TikTok    Platform = "tiktok"
	Snapchat  Platform = "snapchat"
)

// Platforms lists every supported platform in a stable order.
var Platforms = []Platform{
	Facebook, Instagram, Twitter, LinkedIn, YouTube,
	WhatsApp, Telegram, TikTok, Snapchat,
}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// DataSource identifies which source client produced a record.
type DataSource string

// Known data sources.
const (
	SourceGoogleMaps DataSource = "google_maps"
	SourceYelp       DataSource = "yelp"
	SourceNominatim  DataSource = "nominatim"
	SourceDirectory  DataSource = "directory"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlusCode returns the 10-digit Open Location Code for c.
func (c Coordinates) PlusCode() string {
	return olc.Encode(c.Lat, c.Lng, 10)
}

// BusinessRecord is a single discovered business. Only Name is required;
// every other field is empty (or absent for pointer and null types) when the
// source did not provide it.
type BusinessRecord struct {
	Name        string              `json:"name"`
	Address     string              `json:"address,omitempty"`
	Phone       string              `json:"phone,omitempty"`
	Website     string              `json:"website,omitempty"`
	Email       string              `json:"email,omitempty"`
	SocialLinks map[Platform]string `json:"social_links,omitempty"`
	Rating      null.Float          `json:"rating"`
	ReviewCount int                 `json:"review_count"`
	Coordinates *Coordinates        `json:"coordinates,omitempty"`
	PlusCode    string              `json:"plus_code,omitempty"`
	Category    string              `json:"category,omitempty"`
	Description string              `json:"description,omitempty"`
	Hours       []string            `json:"hours,omitempty"`
	SourceURL   string              `json:"source_url,omitempty"`

	DataSource   DataSource `json:"data_source"`
	Confidence   float64    `json:"confidence"`
	IsSynthetic  bool       `json:"is_synthetic"`
	QualityScore int        `json:"quality_score"`

	// SearchQuery is set when the record came from an alternative query.
	SearchQuery         string `json:"search_query,omitempty"`
	IsAlternativeSearch bool   `json:"is_alternative_search,omitempty"`

	Enrichment Enrichment `json:"enrichment"`
}

// HasRating reports whether the record carries a positive rating.
func (r *BusinessRecord) HasRating() bool {
	return r.Rating.Valid && r.Rating.Float64 > 0
}

// SetSocial records a link for platform p. Unknown platforms and empty URLs
// are ignored. An existing link for the same platform is kept.
func (r *BusinessRecord) SetSocial(p Platform, url string) {
	if url == "" || !p.Valid() {
		return
	}
	if r.SocialLinks == nil {
		r.SocialLinks = make(map[Platform]string)
	}
	if _, ok := r.SocialLinks[p]; ok {
		return
	}
	r.SocialLinks[p] = url
}

// SetCoordinates stores c and its plus code when c lies inside region.
// Points outside the region are discarded.
func (r *BusinessRecord) SetCoordinates(c Coordinates, region Region) {
	if !region.Contains(c) {
		return
	}
	r.Coordinates = &c
	r.PlusCode = c.PlusCode()
}
