// Package scorer ranks business records as sales leads for security and
// modernisation services.
package scorer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/config"
)

// Dimension weights. They sum to 1.
const (
	WeightDigitalMaturity  = 0.30
	WeightBusinessSize     = 0.25
	WeightDataCompleteness = 0.20
	WeightIndustryFit      = 0.15
	WeightGrowthIndicators = 0.10
)

// DefaultScorerConfig returns the built-in industry keyword lists.
func DefaultScorerConfig() config.ScorerConfig {
	return config.ScorerConfig{
		HighRiskIndustries: []string{
			"finance", "healthcare", "legal", "accounting", "real estate",
			"consulting", "technology", "e-commerce", "retail",
		},
		MediumRiskIndustries: []string{
			"manufacturing", "construction", "education", "hospitality",
			"media", "transportation",
		},
	}
}

// WeightSum returns the sum of all dimension weights.
func WeightSum() float64 {
	return WeightDigitalMaturity + WeightBusinessSize + WeightDataCompleteness +
		WeightIndustryFit + WeightGrowthIndicators
}

// ValidateConfig checks that a ScorerConfig is internally consistent.
func ValidateConfig(c config.ScorerConfig) error {
	var errs []string

	if len(c.HighRiskIndustries) == 0 && len(c.MediumRiskIndustries) == 0 {
		errs = append(errs, "at least one industry keyword list must be set")
	}

	high := make(map[string]bool, len(c.HighRiskIndustries))
	for _, kw := range c.HighRiskIndustries {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			errs = append(errs, "high_risk_industries must not contain empty keywords")
			continue
		}
		high[kw] = true
	}
	for _, kw := range c.MediumRiskIndustries {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			errs = append(errs, "medium_risk_industries must not contain empty keywords")
			continue
		}
		if high[kw] {
			errs = append(errs, fmt.Sprintf("industry %q is listed as both high and medium risk", kw))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// withDefaults fills empty keyword lists from DefaultScorerConfig and
// lower-cases every keyword.
func withDefaults(c config.ScorerConfig) config.ScorerConfig {
	def := DefaultScorerConfig()
	if len(c.HighRiskIndustries) == 0 {
		c.HighRiskIndustries = def.HighRiskIndustries
	}
	if len(c.MediumRiskIndustries) == 0 {
		c.MediumRiskIndustries = def.MediumRiskIndustries
	}
	c.HighRiskIndustries = lowerAll(c.HighRiskIndustries)
	c.MediumRiskIndustries = lowerAll(c.MediumRiskIndustries)
	return c
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
