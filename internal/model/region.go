package model

import (
	"strings"

	"github.com/twpayne/go-geom"
)

// DubaiAreas lists neighbourhoods accepted as proof that an address lies in
// the Dubai region.
var DubaiAreas = []string{
	"Downtown Dubai", "Business Bay", "DIFC", "Dubai Marina", "JLT",
	"Jumeirah Lakes Towers", "Deira", "Bur Dubai", "Karama", "Satwa",
	"Jumeirah", "Al Barsha", "Dubai Internet City", "Dubai Media City",
	"Dubai Silicon Oasis", "Al Quoz", "Motor City", "Sports City",
	"International City", "Discovery Gardens", "Dubai Investment Park",
	"Jebel Ali", "Mirdif", "Al Qusais", "Umm Suqeim", "Palm Jumeirah",
	"Dubai Healthcare City", "Trade Centre", "Sheikh Zayed Road", "Al Nahda",
}

var regionTerms = []string{"dubai", "uae", "united arab emirates"}

// Region is the geographic area a search is confined to.
type Region struct {
	Name   string
	Areas  []string
	bounds *geom.Bounds
}

// NewRegion builds a region from a latitude/longitude bounding box.
func NewRegion(name string, minLat, maxLat, minLng, maxLng float64, areas []string) Region {
	return Region{
		Name:   name,
		Areas:  areas,
		bounds: geom.NewBounds(geom.XY).Set(minLng, minLat, maxLng, maxLat),
	}
}

// DubaiRegion returns the default Dubai bounding box and area list.
func DubaiRegion() Region {
	return NewRegion("Dubai", 24.5, 26.0, 54.5, 56.0, DubaiAreas)
}

// Contains reports whether c lies inside the region's bounding box. A region
// without bounds contains every point.
func (r Region) Contains(c Coordinates) bool {
	if r.bounds == nil {
		return true
	}
	return r.bounds.OverlapsPoint(geom.XY, geom.Coord{c.Lng, c.Lat})
}

// Box returns the bounding box corners. ok is false for a region without
// bounds.
func (r Region) Box() (minLat, minLng, maxLat, maxLng float64, ok bool) {
	if r.bounds == nil {
		return 0, 0, 0, 0, false
	}
	return r.bounds.Min(1), r.bounds.Min(0), r.bounds.Max(1), r.bounds.Max(0), true
}

// Center returns the midpoint of the bounding box.
func (r Region) Center() Coordinates {
	if r.bounds == nil {
		return Coordinates{}
	}
	return Coordinates{
		Lat: (r.bounds.Min(1) + r.bounds.Max(1)) / 2,
		Lng: (r.bounds.Min(0) + r.bounds.Max(0)) / 2,
	}
}

// ValidAddress reports whether addr names the region or one of its areas.
func (r Region) ValidAddress(addr string) bool {
	if addr == "" {
		return false
	}
	lower := strings.ToLower(addr)
	for _, term := range regionTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	if r.Name != "" && strings.Contains(lower, strings.ToLower(r.Name)) {
		return true
	}
	for _, area := range r.Areas {
		if strings.Contains(lower, strings.ToLower(area)) {
			return true
		}
	}
	return false
}
