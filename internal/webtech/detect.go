package webtech

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
)

type technology struct {
	name     string
	category string
	score    int
	patterns []string
}

// technologies are matched case-sensitively against the raw page source.
var technologies = []technology{
	{"wordpress", "CMS", 30, []string{"/wp-content/", "/wp-includes/", "wp-json", "WordPress"}},
	{"react", "Framework", 80, []string{"react", "__REACT_DEVTOOLS", "ReactDOM", "data-reactroot"}},
	{"angular", "Framework", 80, []string{"ng-version", "angular", "@angular"}},
	{"vue", "Framework", 80, []string{"vue.js", "__VUE__", "data-v-"}},
	{"shopify", "E-commerce", 70, []string{"shopifycdn.com", "cdn.shopify.com", "myshopify.com", "Shopify"}},
	{"magento", "E-commerce", 50, []string{"/skin/frontend/", "Mage.", "magento"}},
	{"woocommerce", "E-commerce", 40, []string{"/wp-content/plugins/woocommerce/", "woocommerce", "WooCommerce"}},
	{"google_analytics", "Analytics", 60, []string{"google-analytics.com", "googletagmanager.com", "gtag("}},
	{"facebook_pixel", "Marketing", 60, []string{"connect.facebook.net", "fbq("}},
	{"cloudflare", "Infrastructure", 70, []string{"cloudflare", "__cfduid", "cf-ray"}},
}

// Category returns the category of a detected technology name, or "Other".
func Category(name string) string {
	for _, t := range technologies {
		if t.name == name {
			return t.category
		}
	}
	return "Other"
}

// DetectTechnologies returns the technologies found in page, in a fixed
// order, and the technology score. Cloudflare is also recognised from
// response headers.
func DetectTechnologies(page string, header http.Header) ([]string, int) {
	var found []string
	score := 0
	for _, t := range technologies {
		if matchesAny(page, t.patterns) || (t.name == "cloudflare" && cloudflareHeader(header)) {
			found = append(found, t.name)
			score += t.score
		}
	}
	if len(found) == 0 {
		// Having a website at all.
		return nil, 20
	}
	if len(found) >= 3 {
		score += 10
	}
	if len(found) >= 5 {
		score += 10
	}
	return found, min(score, 100)
}

func matchesAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func cloudflareHeader(h http.Header) bool {
	return h.Get("Cf-Ray") != "" || strings.EqualFold(h.Get("Server"), "cloudflare")
}

// Security header weights.
const (
	securityHTTPS  = 20
	securityCSP    = 15
	securityHSTS   = 15
	securityXFrame = 10
	securityXSS    = 10
	securityCDN    = 10
)

// SecurityScore rates the transport and response headers of a page.
func SecurityScore(https bool, h http.Header) int {
	score := 0
	if https {
		score += securityHTTPS
	}
	if h.Get("Content-Security-Policy") != "" {
		score += securityCSP
	}
	if h.Get("Strict-Transport-Security") != "" {
		score += securityHSTS
	}
	if h.Get("X-Frame-Options") != "" {
		score += securityXFrame
	}
	if h.Get("X-Xss-Protection") != "" {
		score += securityXSS
	}
	if h.Get("Cf-Ray") != "" || h.Get("X-Served-By") != "" || h.Get("X-Cache") != "" {
		score += securityCDN
	}
	return score
}

// SecurityLevelFor maps a security score to a level.
func SecurityLevelFor(score int) model.SecurityLevel {
	switch {
	case score >= 80:
		return model.SecurityHigh
	case score >= 60:
		return model.SecurityMedium
	case score >= 40:
		return model.SecurityBasic
	default:
		return model.SecurityLow
	}
}

// PerformanceScore rates page load time and the number of referenced
// resources. A zero load time or negative resource count is treated as
// unmeasured.
func PerformanceScore(load time.Duration, resources int) int {
	score := 50
	if load > 0 {
		switch {
		case load < 2*time.Second:
			score += 30
		case load < 4*time.Second:
			score += 20
		case load < 6*time.Second:
			score += 10
		default:
			score -= 10
		}
	}
	switch {
	case resources < 0:
		// unmeasured
	case resources < 50:
		score += 10
	case resources > 100:
		score -= 10
	}
	return clamp(score)
}

// MaturityScore combines the three component scores.
func MaturityScore(tech, security, performance int) int {
	return clamp(int(math.Round(float64(tech)*0.4 + float64(security)*0.35 + float64(performance)*0.25)))
}

// MaturityLevelFor maps a maturity score to a level.
func MaturityLevelFor(score int) model.MaturityLevel {
	switch {
	case score >= 85:
		return model.MaturityAdvanced
	case score >= 70:
		return model.MaturityMature
	case score >= 55:
		return model.MaturityDeveloping
	case score >= 40:
		return model.MaturityBasic
	default:
		return model.MaturityOutdated
	}
}

func clamp(v int) int {
	return max(0, min(100, v))
}
