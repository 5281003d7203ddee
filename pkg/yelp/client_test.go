package yelp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchFixture = `{
  "total": 2,
  "businesses": [
    {
      "id": "abc",
      "name": "Marina Smiles Dental",
      "url": "https://www.yelp.com/biz/marina-smiles-dental-dubai",
      "phone": "+97143685555",
      "display_phone": "+971 4 368 5555",
      "rating": 4.5,
      "review_count": 88,
      "categories": [{"alias": "dentists", "title": "Dentists"}],
      "coordinates": {"latitude": 25.08, "longitude": 55.14},
      "location": {"address1": "Marina Walk", "city": "Dubai", "display_address": ["Marina Walk", "Dubai Marina", "Dubai"]}
    },
    {"id": "def", "name": "Old Town Cafe", "rating": 4.0, "review_count": 12}
  ]
}`

func TestSearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/businesses/search", r.URL.Path)
		assert.Equal(t, "Bearer yelp-key", r.Header.Get("Authorization"))
		assert.Equal(t, "dentists", r.URL.Query().Get("term"))
		assert.Equal(t, "Dubai", r.URL.Query().Get("location"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchFixture)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("yelp-key", WithBaseURL(srv.URL))
	resp, err := client.Search(context.Background(), SearchParams{Term: "dentists", Location: "Dubai", Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Businesses, 2)
	b := resp.Businesses[0]
	assert.Equal(t, "Marina Smiles Dental", b.Name)
	assert.Equal(t, 88, b.ReviewCount)
	assert.Equal(t, "Dentists", b.Categories[0].Title)
	assert.Equal(t, []string{"Marina Walk", "Dubai Marina", "Dubai"}, b.Location.DisplayAddress)
}

func TestSearch_LimitCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"businesses": []}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL))
	resp, err := client.Search(context.Background(), SearchParams{Term: "x", Location: "Dubai", Limit: 500})
	require.NoError(t, err)
	assert.Empty(t, resp.Businesses)
}

func TestSearch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"code": "TOO_MANY_REQUESTS_PER_SECOND"}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), SearchParams{Term: "x", Location: "Dubai"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "429")
}

func TestSearch_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("k", WithBaseURL("http://127.0.0.1:1"), WithRateLimit(1))
	_, err := client.Search(ctx, SearchParams{Term: "x", Location: "Dubai"})
	assert.Error(t, err)
}
