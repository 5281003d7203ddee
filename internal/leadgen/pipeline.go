// Package leadgen chains search, enrichment and scoring into a single lead
// generation run.
package leadgen

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/config"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/scorer"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/search"
)

// Searcher finds business records across sources.
type Searcher interface {
	Search(ctx context.Context, query, location string, opts search.Options) ([]model.BusinessRecord, *search.Session, error)
}

// RecordEnricher enriches a batch of records.
type RecordEnricher interface {
	EnrichAll(ctx context.Context, records []model.BusinessRecord) ([]model.BusinessRecord, error)
}

// Request describes one run.
type Request struct {
	Query    string         `json:"query"`
	Location string         `json:"location"`
	Options  search.Options `json:"options"`
	Enrich   bool           `json:"enrich"`
	Score    bool           `json:"score"`
}

// Result is the outcome of a run. Leads and Summary are set only when
// scoring was requested.
type Result struct {
	Session *search.Session        `json:"session"`
	Records []model.BusinessRecord `json:"records"`
	Leads   []scorer.ScoredRecord  `json:"leads,omitempty"`
	Summary *scorer.Summary        `json:"summary,omitempty"`
}

// Pipeline runs search, then optional enrichment, then optional scoring.
type Pipeline struct {
	searcher Searcher
	enricher RecordEnricher
	scorer   *scorer.LeadScorer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithEnricher enables the enrichment phase.
func WithEnricher(e RecordEnricher) Option {
	return func(p *Pipeline) { p.enricher = e }
}

// WithScorer replaces the default lead scorer.
func WithScorer(s *scorer.LeadScorer) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.scorer = s
		}
	}
}

// New creates a Pipeline around s.
func New(s Searcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		searcher: s,
		scorer:   scorer.NewLeadScorer(config.ScorerConfig{}),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// CanEnrich reports whether an enricher is configured.
func (p *Pipeline) CanEnrich() bool {
	return p.enricher != nil
}

// Run executes req. On cancellation the partial result is returned with the
// error. Requesting enrichment from a pipeline without an enricher is a
// configuration error.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, eris.Wrap(model.ErrInvalidInput, "leadgen: empty query")
	}
	if req.Enrich && p.enricher == nil {
		return nil, eris.Wrap(model.ErrInvalidConfig, "leadgen: enrichment requested but not configured")
	}

	start := time.Now()
	log := zap.L().With(zap.String("query", req.Query), zap.String("location", req.Location))

	records, sess, err := p.searcher.Search(ctx, req.Query, req.Location, req.Options)
	res := &Result{Session: sess, Records: records}
	if err != nil {
		return res, eris.Wrap(err, "leadgen: search")
	}

	if req.Enrich && len(records) > 0 {
		enriched, err := p.enricher.EnrichAll(ctx, records)
		res.Records = enriched
		if err != nil {
			return res, eris.Wrap(err, "leadgen: enrich")
		}
	}

	if req.Score {
		res.Leads = p.scorer.ScoreAll(res.Records)
		summary := scorer.Summarize(res.Leads)
		res.Summary = &summary
	}

	if res.Records == nil {
		res.Records = []model.BusinessRecord{}
	}

	log.Info("leadgen: run complete",
		zap.Int("records", len(res.Records)),
		zap.Int("leads", len(res.Leads)),
		zap.Bool("enriched", req.Enrich),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}
