package model

import (
	"testing"

	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessRecord_SetSocial(t *testing.T) {
	var r BusinessRecord

	r.SetSocial(Facebook, "https://facebook.com/acme")
	r.SetSocial(Facebook, "https://facebook.com/other")
	r.SetSocial(Platform("myspace"), "https://myspace.com/acme")
	r.SetSocial(Instagram, "")

	require.Len(t, r.SocialLinks, 1)
	assert.Equal(t, "https://facebook.com/acme", r.SocialLinks[Facebook])
}

func TestBusinessRecord_SetCoordinates(t *testing.T) {
	region := DubaiRegion()

	var inside BusinessRecord
	inside.SetCoordinates(Coordinates{Lat: 25.1972, Lng: 55.2744}, region)
	require.NotNil(t, inside.Coordinates)
	assert.NotEmpty(t, inside.PlusCode)

	var outside BusinessRecord
	outside.SetCoordinates(Coordinates{Lat: 40.7, Lng: -74.0}, region)
	assert.Nil(t, outside.Coordinates)
	assert.Empty(t, outside.PlusCode)
}

func TestBusinessRecord_HasRating(t *testing.T) {
	assert.False(t, (&BusinessRecord{}).HasRating())
	assert.False(t, (&BusinessRecord{Rating: null.FloatFrom(0)}).HasRating())
	assert.True(t, (&BusinessRecord{Rating: null.FloatFrom(4.2)}).HasRating())
}

func TestCoordinates_PlusCode(t *testing.T) {
	code := Coordinates{Lat: 25.1972, Lng: 55.2744}.PlusCode()
	assert.Len(t, code, 11, "10 digits plus separator")
	assert.Contains(t, code, "+")
}

func TestPlatform_Valid(t *testing.T) {
	for _, p := range Platforms {
		assert.True(t, p.Valid(), p)
	}
	assert.False(t, Platform("friendster").Valid())
}
