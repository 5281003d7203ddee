package leadgen

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/config"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/enrich"
	enrichmocks "github.com/renbran/dubai-sme-scraper-sub000/internal/enrich/mocks"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/resilience"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/scorer"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/search"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/source"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/source/mocks"
)

func orchestrator(clients ...source.Client) *search.Orchestrator {
	p := resilience.DefaultPolicy()
	p.Sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return search.New(source.NewRegistry(clients...),
		search.WithPolicy(p),
		search.WithPrimarySource("maps"),
	)
}

func searchOpts() search.Options {
	return search.Options{MaxResults: 10, RequireMinResults: 1, SourceOrder: []string{"maps"}}
}

func accountingFirm() model.BusinessRecord {
	return model.BusinessRecord{
		Name:        "Al Noor Accounting",
		Email:       "info@alnoor.ae",
		Phone:       "+97143685555",
		Rating:      null.FloatFrom(4.6),
		ReviewCount: 120,
		Category:    "accounting",
	}
}

func TestRun_SearchOnly(t *testing.T) {
	maps := mocks.NewMockClient(t, "maps")
	maps.On("Search", mock.Anything, "accountants", "Dubai", mock.Anything).
		Return([]model.BusinessRecord{accountingFirm()}, nil).Once()

	res, err := New(orchestrator(maps)).Run(context.Background(), Request{
		Query: "accountants", Location: "Dubai", Options: searchOpts(),
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	require.NotNil(t, res.Session)
	assert.Equal(t, []string{"maps"}, res.Session.SourcesUsed)
	assert.Nil(t, res.Leads)
	assert.Nil(t, res.Summary)
}

func TestRun_EnrichAndScore(t *testing.T) {
	maps := mocks.NewMockClient(t, "maps")
	maps.On("Search", mock.Anything, "accountants", "Dubai", mock.Anything).
		Return([]model.BusinessRecord{
			{Name: "Plain Bakery", Category: "Bakery"},
			accountingFirm(),
		}, nil).Once()

	classifier := enrichmocks.NewMockTextClassifier(t)
	classifier.On("Classify", mock.Anything, mock.MatchedBy(func(r model.BusinessRecord) bool {
		return r.Name == "Al Noor Accounting"
	})).Return(&model.Classification{BusinessSize: model.SizeSME}, nil)
	classifier.On("Classify", mock.Anything, mock.MatchedBy(func(r model.BusinessRecord) bool {
		return r.Name == "Plain Bakery"
	})).Return(nil, errors.New("overloaded"))

	enricher := enrich.NewEnricher(config.EnrichConfig{Concurrency: 2}, enrich.WithClassifier(classifier))
	p := New(orchestrator(maps), WithEnricher(enricher), WithScorer(scorer.NewLeadScorer(scorer.DefaultScorerConfig())))
	require.True(t, p.CanEnrich())

	res, err := p.Run(context.Background(), Request{
		Query: "accountants", Location: "Dubai", Options: searchOpts(), Enrich: true, Score: true,
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	require.Len(t, res.Leads, 2)

	assert.Equal(t, "Al Noor Accounting", res.Leads[0].Record.Name)
	assert.Equal(t, 64, res.Leads[0].TotalScore)
	assert.Equal(t, scorer.PriorityMedium, res.Leads[0].Priority)
	assert.Equal(t, "Plain Bakery", res.Leads[1].Record.Name)
	assert.Equal(t, "Bakery", res.Leads[1].Record.Enrichment.Classification.IndustryCategory)

	require.NotNil(t, res.Summary)
	assert.Equal(t, 2, res.Summary.Total)
	assert.Equal(t, 64, res.Summary.TopScore)
}

func TestRun_NoResults(t *testing.T) {
	maps := mocks.NewMockClient(t, "maps")
	maps.On("Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	p := New(orchestrator(maps), WithEnricher(enrich.NewEnricher(config.EnrichConfig{})))
	res, err := p.Run(context.Background(), Request{Query: "zzz", Options: searchOpts(), Enrich: true, Score: true})
	require.NoError(t, err)
	assert.NotNil(t, res.Records)
	assert.Empty(t, res.Records)
	assert.True(t, res.Session.NoResults)
	require.NotNil(t, res.Summary)
	assert.Zero(t, res.Summary.Total)
}

func TestRun_InvalidRequests(t *testing.T) {
	p := New(orchestrator())

	_, err := p.Run(context.Background(), Request{Query: "  "})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = p.Run(context.Background(), Request{Query: "cafes", Enrich: true})
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
	assert.False(t, p.CanEnrich())

	_, err = p.Run(context.Background(), Request{Query: "cafes", Options: searchOpts()})
	assert.ErrorIs(t, err, model.ErrInvalidConfig, "unknown source")
}

func TestRun_Cancelled(t *testing.T) {
	maps := mocks.NewMockClient(t, "maps")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(orchestrator(maps)).Run(ctx, Request{Query: "cafes", Options: searchOpts(), Score: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.NotNil(t, res.Session)
	assert.Nil(t, res.Leads)
}
