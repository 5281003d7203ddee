// Package enrich attaches AI classification, website analysis and contact
// data to discovered business records.
package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/config"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/normalize"
)

// TextClassifier derives a structured classification from a record's text
// fields.
type TextClassifier interface {
	Classify(ctx context.Context, rec model.BusinessRecord) (*model.Classification, error)
}

// ContactEnricher looks up decision makers for a company domain. A result
// with no executives is not an error.
type ContactEnricher interface {
	Enrich(ctx context.Context, domain string) (*model.ContactResult, error)
}

// WebsiteAnalyzer inspects a business website.
type WebsiteAnalyzer interface {
	Analyze(ctx context.Context, website string) (*model.WebsiteAnalysis, error)
}

var (
	// ErrClassificationUnavailable marks a failed classification. Callers
	// fall back to DefaultClassification.
	ErrClassificationUnavailable = eris.New("classification unavailable")

	// ErrEnrichmentUnavailable marks a failed contact lookup.
	ErrEnrichmentUnavailable = eris.New("enrichment unavailable")
)

// UnavailableError wraps the cause of a failed enrichment step. errors.Is
// matches both Kind and the cause.
type UnavailableError struct {
	Kind error
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *UnavailableError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func classificationUnavailable(err error) error {
	return &UnavailableError{Kind: ErrClassificationUnavailable, Err: err}
}

func enrichmentUnavailable(err error) error {
	return &UnavailableError{Kind: ErrEnrichmentUnavailable, Err: err}
}

const (
	defaultConcurrency = 4
	defaultCacheSize   = 256
	defaultCacheTTL    = time.Hour
)

// Enricher runs every configured enrichment step over a batch of records.
// Steps without a configured dependency are skipped.
type Enricher struct {
	classifier TextClassifier
	contacts   ContactEnricher
	websites   WebsiteAnalyzer

	maxEnrichments int
	concurrency    int
	dropSynthetic  bool

	cache  *expirable.LRU[string, *model.ContactResult]
	flight singleflight.Group
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithClassifier sets the text classifier.
func WithClassifier(c TextClassifier) Option {
	return func(e *Enricher) { e.classifier = c }
}

// WithContactEnricher sets the contact lookup.
func WithContactEnricher(c ContactEnricher) Option {
	return func(e *Enricher) { e.contacts = c }
}

// WithWebsiteAnalyzer sets the website analyzer.
func WithWebsiteAnalyzer(a WebsiteAnalyzer) Option {
	return func(e *Enricher) { e.websites = a }
}

// NewEnricher creates an Enricher from cfg. Non-positive concurrency and
// cache settings fall back to built-in defaults.
func NewEnricher(cfg config.EnrichConfig, opts ...Option) *Enricher {
	e := &Enricher{
		maxEnrichments: max(0, cfg.MaxEnrichments),
		concurrency:    cfg.Concurrency,
		dropSynthetic:  cfg.DropSynthetic,
	}
	if e.concurrency <= 0 {
		e.concurrency = defaultConcurrency
	}
	size, ttl := cfg.CacheSize, cfg.CacheTTL
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	e.cache = expirable.NewLRU[string, *model.ContactResult](size, nil, ttl)
	for _, o := range opts {
		o(e)
	}
	return e
}

// EnrichAll enriches records and returns them in input order. Failures of
// individual steps are logged and never fatal; the only error returned is
// cancellation, together with whatever was enriched so far.
//
// Contact lookups are limited to the first maxEnrichments distinct domains
// in input order. Synthetic records are never sent to external services and
// are removed entirely when drop_synthetic is set.
func (e *Enricher) EnrichAll(ctx context.Context, records []model.BusinessRecord) ([]model.BusinessRecord, error) {
	out := make([]model.BusinessRecord, 0, len(records))
	for _, r := range records {
		if e.dropSynthetic && r.IsSynthetic {
			continue
		}
		out = append(out, r)
	}

	domains := e.contactDomains(out)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i := range out {
		g.Go(func() error {
			e.enrichOne(gctx, &out[i], domains[i])
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return out, eris.Wrap(err, "enrich: cancelled")
	}
	return out, nil
}

// contactDomains assigns a lookup domain to each record that gets one.
func (e *Enricher) contactDomains(records []model.BusinessRecord) []string {
	domains := make([]string, len(records))
	if e.contacts == nil || e.maxEnrichments == 0 {
		return domains
	}
	seen := make(map[string]bool)
	for i, r := range records {
		if r.IsSynthetic || r.Website == "" {
			continue
		}
		d := normalize.Domain(r.Website)
		if d == "" {
			continue
		}
		if !seen[d] {
			if len(seen) == e.maxEnrichments {
				continue
			}
			seen[d] = true
		}
		domains[i] = d
	}
	return domains
}

func (e *Enricher) enrichOne(ctx context.Context, rec *model.BusinessRecord, domain string) {
	if ctx.Err() != nil {
		return
	}
	log := zap.L().With(zap.String("business", rec.Name))

	if e.websites != nil && rec.Website != "" && !rec.IsSynthetic {
		wa, err := e.websites.Analyze(ctx, rec.Website)
		if err != nil {
			log.Debug("enrich: website analysis failed", zap.String("website", rec.Website), zap.Error(err))
		} else {
			applyWebsite(rec, wa)
		}
	}
	if ctx.Err() != nil {
		return
	}

	rec.Enrichment.Classification = e.classify(ctx, *rec, log)
	if ctx.Err() != nil {
		return
	}

	if domain != "" {
		res, err := e.lookupContacts(ctx, domain)
		if err != nil {
			log.Warn("enrich: contact lookup failed", zap.String("domain", domain), zap.Error(err))
		} else {
			rec.Enrichment.Contacts = res
		}
	}

	switch {
	case rec.Enrichment.Contacts != nil && rec.Enrichment.Contacts.Headcount != "":
		rec.Enrichment.EmployeeEstimate = rec.Enrichment.Contacts.Headcount
	case rec.Enrichment.Classification.EstimatedEmployees != "":
		rec.Enrichment.EmployeeEstimate = rec.Enrichment.Classification.EstimatedEmployees
	}
}

func (e *Enricher) classify(ctx context.Context, rec model.BusinessRecord, log *zap.Logger) *model.Classification {
	if e.classifier == nil || rec.IsSynthetic {
		return DefaultClassification(rec)
	}
	cls, err := e.classifier.Classify(ctx, rec)
	if err != nil || cls == nil {
		log.Debug("enrich: classification failed, using default", zap.Error(err))
		return DefaultClassification(rec)
	}
	return cls
}

func (e *Enricher) lookupContacts(ctx context.Context, domain string) (*model.ContactResult, error) {
	v, err, _ := e.flight.Do(domain, func() (any, error) {
		if res, ok := e.cache.Get(domain); ok {
			return res, nil
		}
		res, err := e.contacts.Enrich(ctx, domain)
		if err != nil {
			return nil, err
		}
		e.cache.Add(domain, res)
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.ContactResult), nil
}

// applyWebsite stores the analysis and fills social links and email the
// record does not already have.
func applyWebsite(rec *model.BusinessRecord, wa *model.WebsiteAnalysis) {
	if wa == nil {
		return
	}
	rec.Enrichment.Website = wa
	for _, p := range model.Platforms {
		rec.SetSocial(p, wa.SocialLinks[p])
	}
	if rec.Email == "" && len(wa.Emails) > 0 {
		rec.Email = wa.Emails[0]
	}
}
