package main

import (
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/config"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/dedupe"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/enrich"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/leadgen"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/resilience"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/scorer"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/search"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/source"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/webtech"
	"github.com/renbran/dubai-sme-scraper-sub000/pkg/anthropic"
	"github.com/renbran/dubai-sme-scraper-sub000/pkg/google"
	"github.com/renbran/dubai-sme-scraper-sub000/pkg/hunter"
	"github.com/renbran/dubai-sme-scraper-sub000/pkg/nominatim"
	"github.com/renbran/dubai-sme-scraper-sub000/pkg/yelp"
)

// nominatimCountries restricts geocoding results to the UAE.
const nominatimCountries = "ae"

// env holds the components built from configuration.
type env struct {
	Sources      *source.Registry
	Orchestrator *search.Orchestrator
	Enricher     *enrich.Enricher
	Pipeline     *leadgen.Pipeline

	// Options are the default search options, restricted to the sources
	// that could be built.
	Options search.Options
}

// initEnv validates cfg for mode and builds every component. A nil reg
// leaves metrics unregistered.
func initEnv(cfg *config.Config, mode string, reg prometheus.Registerer) (*env, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, eris.Wrap(err, "invalid config")
	}
	if err := scorer.ValidateConfig(cfg.Scorer); err != nil {
		return nil, eris.Wrap(err, "invalid config")
	}

	region := regionFrom(cfg.Region)
	sources := buildSources(cfg, region)

	order := availableOrder(cfg.Search.SourceOrder, sources)
	if len(order) == 0 {
		return nil, eris.Wrapf(model.ErrInvalidConfig,
			"none of the configured sources [%s] are available", strings.Join(cfg.Search.SourceOrder, ", "))
	}

	rewriters := search.DefaultRewriters()
	if cfg.Search.RewriteRules != "" {
		rules, err := search.LoadRewriteRules(cfg.Search.RewriteRules)
		if err != nil {
			return nil, eris.Wrap(err, "load rewrite rules")
		}
		rewriters = rules.Rewriters()
	}

	orch := search.New(sources,
		search.WithPolicy(resilience.PolicyFrom(cfg.Retry.MaxAttempts, cfg.Retry.BaseDelay, cfg.Retry.MaxDelay, cfg.Retry.Jitter)),
		search.WithDeduplicator(dedupe.New(cfg.Dedupe.NameThreshold)),
		search.WithRewriters(rewriters),
		search.WithPrimarySource(cfg.Search.PrimarySource),
		search.WithSourceTimeout(cfg.Search.SourceTimeout),
		search.WithFallbackMaxResults(cfg.Search.FallbackMaxResults),
		search.WithMetrics(search.NewMetrics(reg)),
	)

	e := &env{
		Sources:      sources,
		Orchestrator: orch,
		Options: search.Options{
			MaxResults:        cfg.Search.MaxResults,
			RequireMinResults: cfg.Search.RequireMinResults,
			SourceOrder:       order,
		},
	}

	opts := []leadgen.Option{leadgen.WithScorer(scorer.NewLeadScorer(cfg.Scorer))}
	if cfg.Enrich.Enabled {
		e.Enricher = buildEnricher(cfg)
		opts = append(opts, leadgen.WithEnricher(e.Enricher))
	}
	e.Pipeline = leadgen.New(orch, opts...)

	zap.L().Debug("environment ready",
		zap.Strings("sources", order),
		zap.Bool("enrich", cfg.Enrich.Enabled),
		zap.String("region", region.Name),
	)
	return e, nil
}

func regionFrom(rc config.RegionConfig) model.Region {
	var areas []string
	if strings.EqualFold(rc.Name, "dubai") {
		areas = model.DubaiAreas
	}
	return model.NewRegion(rc.Name, rc.MinLat, rc.MaxLat, rc.MinLng, rc.MaxLng, areas)
}

// buildSources registers every source whose credentials are configured.
// Nominatim needs no key and is always available.
func buildSources(cfg *config.Config, region model.Region) *source.Registry {
	reg := source.NewRegistry()

	if cfg.Google.Key != "" {
		var opts []google.Option
		if cfg.Google.BaseURL != "" {
			opts = append(opts, google.WithBaseURL(cfg.Google.BaseURL))
		}
		reg.Register(source.NewGoogleMaps(google.NewClient(cfg.Google.Key, opts...), region))
	}

	if cfg.Yelp.Key != "" {
		var opts []yelp.Option
		if cfg.Yelp.BaseURL != "" {
			opts = append(opts, yelp.WithBaseURL(cfg.Yelp.BaseURL))
		}
		reg.Register(source.NewYelp(yelp.NewClient(cfg.Yelp.Key, opts...), region))
	}

	var nomOpts []nominatim.Option
	if cfg.Nominatim.BaseURL != "" {
		nomOpts = append(nomOpts, nominatim.WithBaseURL(cfg.Nominatim.BaseURL))
	}
	if cfg.Nominatim.UserAgent != "" {
		nomOpts = append(nomOpts, nominatim.WithUserAgent(cfg.Nominatim.UserAgent))
	}
	if cfg.Nominatim.RateLimit > 0 {
		nomOpts = append(nomOpts, nominatim.WithRateLimit(cfg.Nominatim.RateLimit))
	}
	reg.Register(source.NewNominatim(nominatim.NewClient(nomOpts...), region, nominatimCountries))

	if cfg.Directory.Enabled {
		reg.Register(source.NewDirectory(region))
	}
	return reg
}

// availableOrder drops configured source names that are not registered.
func availableOrder(order []string, reg *source.Registry) []string {
	out := make([]string, 0, len(order))
	for _, name := range order {
		if reg.Get(name) == nil {
			zap.L().Warn("source not available, check its API key", zap.String("source", name))
			continue
		}
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

// buildEnricher wires website analysis always, and classification and
// contact lookup when their API keys are set.
func buildEnricher(cfg *config.Config) *enrich.Enricher {
	opts := []enrich.Option{
		enrich.WithWebsiteAnalyzer(webtech.NewAnalyzer(webtech.WithTimeout(cfg.Enrich.WebsiteTimeout))),
	}
	if cfg.Anthropic.Key != "" {
		opts = append(opts, enrich.WithClassifier(
			enrich.NewClaudeClassifier(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model)))
	}
	if cfg.Hunter.Key != "" {
		var hopts []hunter.Option
		if cfg.Hunter.BaseURL != "" {
			hopts = append(hopts, hunter.WithBaseURL(cfg.Hunter.BaseURL))
		}
		if cfg.Hunter.RateLimit > 0 {
			hopts = append(hopts, hunter.WithRateLimit(cfg.Hunter.RateLimit))
		}
		opts = append(opts, enrich.WithContactEnricher(
			enrich.NewHunterEnricher(hunter.NewClient(cfg.Hunter.Key, hopts...), 0)))
	}
	return enrich.NewEnricher(cfg.Enrich, opts...)
}
