// Package search runs a business search across several sources in priority
// order, with bounded retries, an alternative-query fallback and
// deduplication of the combined results.
package search

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/dedupe"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/resilience"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/source"
)

// Defaults for Options and the orchestrator.
const (
	DefaultMaxResults         = 20
	DefaultRequireMinResults  = 3
	DefaultSourceTimeout      = 20 * time.Second
	DefaultFallbackMaxResults = 5
)

// Options control a single Search call.
type Options struct {
	// MaxResults stops the search once this many records are collected and
	// caps the returned list.
	MaxResults int `json:"max_results"`

	// RequireMinResults is the count at which no further sources are tried.
	RequireMinResults int `json:"require_min_results"`

	// SourceOrder lists source names in priority order.
	SourceOrder []string `json:"source_order"`
}

// DefaultOptions returns options that try every standard source in order.
func DefaultOptions() Options {
	return Options{
		MaxResults:        DefaultMaxResults,
		RequireMinResults: DefaultRequireMinResults,
		SourceOrder: []string{
			source.GoogleMapsName,
			source.YelpName,
			source.NominatimName,
			source.DirectoryName,
		},
	}
}

func (o Options) withDefaults() Options {
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	if o.RequireMinResults <= 0 {
		o.RequireMinResults = DefaultRequireMinResults
	}
	return o
}

// Orchestrator searches registered sources. It holds no per-search state
// and is safe for concurrent use.
type Orchestrator struct {
	sources     *source.Registry
	policy      resilience.Policy
	dedup       *dedupe.Deduplicator
	rewriters   []Rewriter
	primary     string
	timeout     time.Duration
	fallbackMax int
	metrics     *Metrics
	now         func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPolicy sets the retry policy used for each source.
func WithPolicy(p resilience.Policy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

// WithDeduplicator sets the deduplicator applied to combined results.
func WithDeduplicator(d *dedupe.Deduplicator) Option {
	return func(o *Orchestrator) {
		if d != nil {
			o.dedup = d
		}
	}
}

// WithRewriters replaces the alternative-query rewrite chain. An empty chain
// disables the fallback.
func WithRewriters(rw []Rewriter) Option {
	return func(o *Orchestrator) { o.rewriters = rw }
}

// WithPrimarySource names the source used for alternative queries. When the
// name is not in a call's source order the first listed source is used.
func WithPrimarySource(name string) Option {
	return func(o *Orchestrator) { o.primary = name }
}

// WithSourceTimeout bounds each individual source call.
func WithSourceTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithFallbackMaxResults caps results requested per alternative query.
func WithFallbackMaxResults(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.fallbackMax = n
		}
	}
}

// WithMetrics records source outcomes and search latency.
func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// New creates an Orchestrator over the sources in reg.
func New(reg *source.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sources:     reg,
		policy:      resilience.DefaultPolicy(),
		dedup:       dedupe.New(dedupe.DefaultThreshold),
		rewriters:   DefaultRewriters(),
		primary:     source.GoogleMapsName,
		timeout:     DefaultSourceTimeout,
		fallbackMax: DefaultFallbackMaxResults,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Search queries the sources in opts.SourceOrder and returns deduplicated
// records in source priority order. Finding nothing is not an error: the
// result is empty and the session has NoResults set. Errors are returned
// only for an empty query, an invalid source order, or cancellation.
func (o *Orchestrator) Search(ctx context.Context, query, location string, opts Options) ([]model.BusinessRecord, *Session, error) {
	query = strings.TrimSpace(query)
	location = strings.TrimSpace(location)
	if query == "" {
		return nil, nil, eris.Wrap(model.ErrInvalidInput, "search: empty query")
	}
	opts = opts.withDefaults()
	clients, err := o.resolve(opts.SourceOrder)
	if err != nil {
		return nil, nil, err
	}

	sess := newSession(query, location, o.now())
	defer func() {
		sess.Duration = o.now().Sub(sess.StartedAt)
		o.metrics.observeDuration(sess.Duration)
	}()

	var acc []model.BusinessRecord
	for _, c := range clients {
		if err := ctx.Err(); err != nil {
			return nil, sess, eris.Wrap(err, "search: cancelled")
		}
		name := c.Name()
		if len(acc) >= opts.MaxResults {
			sess.Attempts = append(sess.Attempts, Attempt{Source: name, Query: query, Skipped: true})
			o.metrics.observeRequest(name, OutcomeSkipped)
			continue
		}

		recs, att, err := o.trySource(ctx, c, query, location, opts.MaxResults-len(acc))
		if err != nil {
			if ctx.Err() != nil {
				sess.Attempts = append(sess.Attempts, att)
				return nil, sess, eris.Wrap(ctx.Err(), "search: cancelled")
			}
			outcome := OutcomeFailed
			if errors.Is(err, resilience.ErrRetryExhausted) {
				outcome = OutcomeExhausted
			}
			att.Error = err.Error()
			att.Transient = resilience.IsTransient(err)
			sess.Attempts = append(sess.Attempts, att)
			o.metrics.observeRequest(name, outcome)
			zap.L().Warn("search: source failed, trying next",
				zap.String("source", name),
				zap.Int("tries", att.Tries),
				zap.Bool("transient", att.Transient),
				zap.Error(err),
			)
			continue
		}

		accepted := o.ingest(sess, name, recs)
		att.Results = len(accepted)
		sess.Attempts = append(sess.Attempts, att)
		if len(accepted) == 0 {
			o.metrics.observeRequest(name, OutcomeEmpty)
			continue
		}
		o.metrics.observeRequest(name, OutcomeSuccess)
		sess.SourcesUsed = append(sess.SourcesUsed, name)
		acc = append(acc, accepted...)

		if len(acc) >= opts.RequireMinResults {
			zap.L().Debug("search: enough results, skipping remaining sources",
				zap.String("source", name),
				zap.Int("results", len(acc)),
			)
			break
		}
	}

	if len(acc) == 0 {
		recs, err := o.fallback(ctx, sess, o.primaryClient(clients), query, location, opts.MaxResults)
		if err != nil {
			return nil, sess, err
		}
		acc = recs
	}

	merged := o.dedup.Merge(acc)
	sess.Duplicates = len(acc) - len(merged)
	if len(merged) > opts.MaxResults {
		merged = merged[:opts.MaxResults]
	}
	sess.Returned = len(merged)
	sess.NoResults = len(merged) == 0
	if sess.NoResults {
		zap.L().Info("search: no results from any source or rewrite",
			zap.String("query", query),
			zap.String("location", location),
		)
	}
	return merged, sess, nil
}

// trySource calls one source under the retry policy.
func (o *Orchestrator) trySource(ctx context.Context, c source.Client, query, location string, limit int) ([]model.BusinessRecord, Attempt, error) {
	name := c.Name()
	att := Attempt{Source: name, Query: query}
	start := o.now()

	p := o.policy
	logRetry := resilience.RetryLogger(name, "search")
	onRetry := p.OnRetry
	p.OnRetry = func(attempt int, err error, delay time.Duration) {
		logRetry(attempt, err, delay)
		if onRetry != nil {
			onRetry(attempt, err, delay)
		}
	}

	recs, err := resilience.Execute(ctx, p, func(ctx context.Context) ([]model.BusinessRecord, error) {
		att.Tries++
		return o.call(ctx, c, query, location, limit)
	})
	att.Duration = o.now().Sub(start)
	return recs, att, err
}

// call runs a single source request under the per-call timeout. A timeout
// becomes a transient source failure so the retry policy counts it.
func (o *Orchestrator) call(ctx context.Context, c source.Client, query, location string, limit int) ([]model.BusinessRecord, error) {
	cctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	recs, err := c.Search(cctx, query, location, source.Limits{MaxResults: limit})
	if err == nil {
		return recs, nil
	}
	if ctx.Err() == nil && errors.Is(cctx.Err(), context.DeadlineExceeded) {
		return nil, resilience.NewTransientError(source.Unavailable(c.Name(), eris.Wrap(err, "search: source timeout"), 0), 0)
	}
	if !source.IsUnavailable(err) && !resilience.IsPermanent(err) {
		err = source.Unavailable(c.Name(), err, 0)
	}
	return nil, err
}

// fallback tries each alternative query once against the primary source.
// The first alternative that yields records wins.
func (o *Orchestrator) fallback(ctx context.Context, sess *Session, primary source.Client, query, location string, maxResults int) ([]model.BusinessRecord, error) {
	if primary == nil || len(o.rewriters) == 0 {
		return nil, nil
	}
	name := primary.Name()
	limit := min(o.fallbackMax, maxResults)

	for _, alt := range Alternatives(Query{Text: query, Location: location}, o.rewriters) {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "search: cancelled")
		}
		sess.Rewrites = append(sess.Rewrites, alt.Text)
		zap.L().Info("search: trying alternative query",
			zap.String("source", name),
			zap.String("query", alt.Text),
			zap.String("location", alt.Location),
		)

		start := o.now()
		recs, err := o.call(ctx, primary, alt.Text, alt.Location, limit)
		att := Attempt{Source: name, Query: alt.Text, Tries: 1, Rewrite: true, Duration: o.now().Sub(start)}
		if err != nil {
			if ctx.Err() != nil {
				sess.Attempts = append(sess.Attempts, att)
				return nil, eris.Wrap(ctx.Err(), "search: cancelled")
			}
			att.Error = err.Error()
			att.Transient = resilience.IsTransient(err)
			sess.Attempts = append(sess.Attempts, att)
			o.metrics.observeRequest(name, OutcomeFailed)
			zap.L().Warn("search: alternative query failed",
				zap.String("source", name),
				zap.String("query", alt.Text),
				zap.Error(err),
			)
			continue
		}

		accepted := o.ingest(sess, name, recs)
		att.Results = len(accepted)
		sess.Attempts = append(sess.Attempts, att)
		if len(accepted) == 0 {
			o.metrics.observeRequest(name, OutcomeEmpty)
			continue
		}
		o.metrics.observeRequest(name, OutcomeSuccess)

		for i := range accepted {
			accepted[i].SearchQuery = alt.Text
			accepted[i].IsAlternativeSearch = true
		}
		sess.UsedFallback = true
		if !slices.Contains(sess.SourcesUsed, name) {
			sess.SourcesUsed = append(sess.SourcesUsed, name)
		}
		return accepted, nil
	}
	return nil, nil
}

// ingest drops records without a name and counts what remains.
func (o *Orchestrator) ingest(sess *Session, name string, recs []model.BusinessRecord) []model.BusinessRecord {
	out := make([]model.BusinessRecord, 0, len(recs))
	for _, r := range recs {
		if strings.TrimSpace(r.Name) == "" {
			sess.Rejected++
			zap.L().Debug("search: rejected record without name",
				zap.String("source", name),
				zap.String("phone", r.Phone),
			)
			continue
		}
		out = append(out, r)
	}
	sess.Fetched += len(out)
	o.metrics.observeRecords(name, len(out))
	return out
}

func (o *Orchestrator) resolve(order []string) ([]source.Client, error) {
	if len(order) == 0 {
		return nil, eris.Wrap(model.ErrInvalidConfig, "search: empty source order")
	}
	if o.sources == nil {
		return nil, eris.Wrap(model.ErrInvalidConfig, "search: no source registry")
	}
	clients := make([]source.Client, 0, len(order))
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if seen[name] {
			continue
		}
		seen[name] = true
		c := o.sources.Get(name)
		if c == nil {
			return nil, eris.Wrapf(model.ErrInvalidConfig, "search: unknown source %q", name)
		}
		clients = append(clients, c)
	}
	return clients, nil
}

func (o *Orchestrator) primaryClient(clients []source.Client) source.Client {
	for _, c := range clients {
		if c.Name() == o.primary {
			return c
		}
	}
	if len(clients) > 0 {
		return clients[0]
	}
	return nil
}
