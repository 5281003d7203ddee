package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/resilience"
	"github.com/renbran/dubai-sme-scraper-sub000/pkg/nominatim"
)

func TestNominatim_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "law firm Dubai", r.URL.Query().Get("q"))
		assert.Equal(t, "ae", r.URL.Query().Get("countrycodes"))
		assert.Equal(t, "1", r.URL.Query().Get("bounded"))
		_, _ = w.Write([]byte(`[
			{"display_name": "Al Tamimi & Co, DIFC, Dubai, United Arab Emirates", "lat": "25.2110", "lon": "55.2797",
			 "type": "lawyer", "extratags": {"phone": "+971 4 364 1641", "website": "tamimi.com"}},
			{"display_name": "", "name": ""},
			{"display_name": "Unnamed Office, Deira, Dubai", "lat": "bad", "lon": "55.3"}
		]`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := nominatim.NewClient(nominatim.WithBaseURL(srv.URL), nominatim.WithRateLimit(100))
	out, err := NewNominatim(client, model.DubaiRegion(), "ae").Search(context.Background(), "law firm", "Dubai", Limits{MaxResults: 5})
	require.NoError(t, err)
	require.Len(t, out, 2)

	r := out[0]
	assert.Equal(t, "Al Tamimi & Co", r.Name)
	assert.Equal(t, "lawyer", r.Category)
	assert.Equal(t, "+97143641641", r.Phone)
	assert.Equal(t, "https://tamimi.com", r.Website)
	require.NotNil(t, r.Coordinates)
	assert.InDelta(t, 0.6, r.Confidence, 1e-9)
	assert.Equal(t, model.SourceNominatim, r.DataSource)

	assert.Equal(t, "Unnamed Office", out[1].Name)
	assert.Equal(t, "Business", out[1].Category)
	assert.Nil(t, out[1].Coordinates)
}

func TestNominatim_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := nominatim.NewClient(nominatim.WithBaseURL(srv.URL), nominatim.WithRateLimit(100))
	_, err := NewNominatim(client, model.DubaiRegion(), "").Search(context.Background(), "x", "", Limits{})
	assert.True(t, IsUnavailable(err))
	assert.True(t, resilience.IsTransient(err))
}
