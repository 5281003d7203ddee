// Package webtech inspects a business website for its technology stack,
// security headers, performance and contact links.
package webtech

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/normalize"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; LeadResearchBot/1.0)"
	maxBodyBytes     = 1 << 20
)

// Analyzer fetches a website and grades it.
type Analyzer struct {
	client    *http.Client
	userAgent string
	now       func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Analyzer) { a.client = c }
}

// WithTimeout sets the whole-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		if d > 0 {
			a.client.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(a *Analyzer) { a.userAgent = ua }
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		client: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		userAgent: defaultUserAgent,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze fetches website and returns its analysis. Unreachable, blocked
// and error pages return an error.
func (a *Analyzer) Analyze(ctx context.Context, website string) (*model.WebsiteAnalysis, error) {
	target := normalize.Website(website)
	if target == "" {
		return nil, eris.Errorf("webtech: invalid website %q", website)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, eris.Wrap(err, "webtech: create request")
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := a.now()
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "webtech: fetch")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "webtech: read body")
	}
	loadTime := a.now().Sub(start)

	if blocked, kind := DetectBlock(resp, body); blocked {
		return nil, eris.Errorf("webtech: blocked (%s)", kind)
	}
	if resp.StatusCode >= 400 {
		return nil, eris.Errorf("webtech: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "webtech: parse html")
	}

	final := target
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	analysis := Grade(final, resp.StatusCode, loadTime, resp.Header, doc, body)

	zap.L().Debug("webtech: analysed website",
		zap.String("url", final),
		zap.Duration("load_time", loadTime),
		zap.Strings("technologies", analysis.Technologies),
		zap.String("maturity", string(analysis.MaturityLevel)),
	)
	return analysis, nil
}

// Grade builds the analysis of an already fetched page.
func Grade(pageURL string, status int, loadTime time.Duration, header http.Header, doc *goquery.Document, body []byte) *model.WebsiteAnalysis {
	techs, techScore := DetectTechnologies(string(body), header)
	secScore := SecurityScore(strings.HasPrefix(strings.ToLower(pageURL), "https://"), header)
	perfScore := PerformanceScore(loadTime, ResourceCount(doc))
	maturity := MaturityScore(techScore, secScore, perfScore)

	return &model.WebsiteAnalysis{
		URL:              pageURL,
		StatusCode:       status,
		LoadTime:         loadTime,
		Technologies:     techs,
		TechnologyScore:  techScore,
		SecurityScore:    secScore,
		SecurityLevel:    SecurityLevelFor(secScore),
		PerformanceScore: perfScore,
		MaturityScore:    maturity,
		MaturityLevel:    MaturityLevelFor(maturity),
		SocialLinks:      SocialLinks(doc),
		Emails:           Emails(doc, body),
	}
}
