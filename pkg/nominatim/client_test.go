package nominatim

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "law firm Dubai", r.URL.Query().Get("q"))
		assert.Equal(t, "ae", r.URL.Query().Get("countrycodes"))
		assert.Equal(t, "54.5,26,56,24.5", r.URL.Query().Get("viewbox"))
		assert.Equal(t, "1", r.URL.Query().Get("bounded"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

		_, _ = w.Write([]byte(`[
			{"place_id": 1, "display_name": "Al Tamimi & Co, DIFC, Dubai, United Arab Emirates",
			 "name": "Al Tamimi & Co", "lat": "25.2110", "lon": "55.2797", "category": "office", "type": "lawyer"}
		]`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithUserAgent("test-agent"), WithRateLimit(100))
	places, err := client.Search(context.Background(), SearchParams{
		Query:        "law firm Dubai",
		Limit:        5,
		CountryCodes: "ae",
		ViewBox:      &ViewBox{MinLng: 54.5, MinLat: 24.5, MaxLng: 56, MaxLat: 26, Bounded: true},
	})

	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Al Tamimi & Co", places[0].Name)
	lat, lng, ok := places[0].LatLng()
	require.True(t, ok)
	assert.InDelta(t, 25.211, lat, 1e-6)
	assert.InDelta(t, 55.2797, lng, 1e-6)
}

func TestSearch_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`)) //nolint:errcheck
	}))
	defer srv.Close()

	places, err := NewClient(WithBaseURL(srv.URL)).Search(context.Background(), SearchParams{Query: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestSearch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).Search(context.Background(), SearchParams{Query: "zzz"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestPlace_LatLngInvalid(t *testing.T) {
	_, _, ok := Place{Lat: "n/a", Lon: "55.1"}.LatLng()
	assert.False(t, ok)
}
