package scorer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/config"
	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
)

// Priority is the outreach priority derived from a total score.
type Priority string

// Priorities, highest first.
const (
	PriorityHigh       Priority = "High"
	PriorityMediumHigh Priority = "Medium-High"
	PriorityMedium     Priority = "Medium"
	PriorityMediumLow  Priority = "Medium-Low"
	PriorityLow        Priority = "Low"
)

// Priorities lists every priority, highest first.
var Priorities = []Priority{PriorityHigh, PriorityMediumHigh, PriorityMedium, PriorityMediumLow, PriorityLow}

// PriorityFor maps a total score to a priority.
func PriorityFor(total int) Priority {
	switch {
	case total >= 80:
		return PriorityHigh
	case total >= 65:
		return PriorityMediumHigh
	case total >= 50:
		return PriorityMedium
	case total >= 35:
		return PriorityMediumLow
	default:
		return PriorityLow
	}
}

// Dimension names one component of the lead score.
type Dimension string

// Scored dimensions.
const (
	DigitalMaturity  Dimension = "digitalMaturity"
	BusinessSize     Dimension = "businessSize"
	DataCompleteness Dimension = "dataCompleteness"
	IndustryFit      Dimension = "industryFit"
	GrowthIndicators Dimension = "growthIndicators"
)

// Dimensions lists the dimensions in reporting order.
var Dimensions = []Dimension{DigitalMaturity, BusinessSize, DataCompleteness, IndustryFit, GrowthIndicators}

// Weight returns the dimension's share of the total score.
func (d Dimension) Weight() float64 {
	switch d {
	case DigitalMaturity:
		return WeightDigitalMaturity
	case BusinessSize:
		return WeightBusinessSize
	case DataCompleteness:
		return WeightDataCompleteness
	case IndustryFit:
		return WeightIndustryFit
	case GrowthIndicators:
		return WeightGrowthIndicators
	}
	return 0
}

// DimensionScore is one dimension's score, from 0 to 100, with the
// observations that produced it. Label carries the detected maturity level,
// business size or industry where relevant.
type DimensionScore struct {
	Score    int      `json:"score"`
	Insights []string `json:"insights"`
	Label    string   `json:"label,omitempty"`
}

// ScoredRecord is a record with its lead score.
type ScoredRecord struct {
	Record          model.BusinessRecord         `json:"record"`
	TotalScore      int                          `json:"total_score"`
	Priority        Priority                     `json:"priority"`
	Breakdown       map[Dimension]DimensionScore `json:"breakdown"`
	Recommendations []string                     `json:"recommendations"`
	Reasoning       []string                     `json:"reasoning"`
}

// LeadScorer computes lead scores. It is stateless apart from its keyword
// configuration, and scoring the same record twice gives identical results.
type LeadScorer struct {
	cfg config.ScorerConfig
}

// NewLeadScorer creates a LeadScorer. Empty keyword lists fall back to
// DefaultScorerConfig.
func NewLeadScorer(cfg config.ScorerConfig) *LeadScorer {
	return &LeadScorer{cfg: withDefaults(cfg)}
}

// Score computes the lead score of one record.
func (s *LeadScorer) Score(rec model.BusinessRecord) ScoredRecord {
	breakdown := map[Dimension]DimensionScore{
		DigitalMaturity:  scoreDigitalMaturity(rec),
		BusinessSize:     scoreBusinessSize(rec),
		DataCompleteness: scoreDataCompleteness(rec),
		IndustryFit:      s.scoreIndustryFit(rec),
		GrowthIndicators: scoreGrowthIndicators(rec),
	}

	var sum float64
	for _, d := range Dimensions {
		sum += float64(breakdown[d].Score) * d.Weight()
	}
	total := clamp(int(math.Round(sum)))

	out := ScoredRecord{
		Record:     rec,
		TotalScore: total,
		Priority:   PriorityFor(total),
		Breakdown:  breakdown,
	}
	out.Recommendations = recommendations(rec, out)
	out.Reasoning = reasoning(out)
	return out
}

// ScoreAll scores every record and returns them ranked by total score,
// highest first. Ties keep input order.
func (s *LeadScorer) ScoreAll(records []model.BusinessRecord) []ScoredRecord {
	out := make([]ScoredRecord, len(records))
	for i, r := range records {
		out[i] = s.Score(r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalScore > out[j].TotalScore
	})
	return out
}

func scoreDigitalMaturity(rec model.BusinessRecord) DimensionScore {
	w := rec.Enrichment.Website
	if w == nil {
		return DimensionScore{Score: 50, Insights: []string{"No website analysis available"}, Label: "Unknown"}
	}

	var ds DimensionScore
	ds.Label = string(w.MaturityLevel)
	switch w.MaturityLevel {
	case "":
		ds.Score = 50
		ds.Label = "Unknown"
		ds.Insights = append(ds.Insights, "Website maturity not assessed")
	case model.MaturityOutdated:
		ds.Score = 95
		ds.Insights = append(ds.Insights, "Outdated technology stack presents high opportunity")
	case model.MaturityBasic:
		ds.Score = 80
		ds.Insights = append(ds.Insights, "Basic digital presence with improvement potential")
	case model.MaturityDeveloping:
		ds.Score = 60
		ds.Insights = append(ds.Insights, "Developing digital capabilities")
	case model.MaturityMature:
		ds.Score = 30
		ds.Insights = append(ds.Insights, "Mature digital presence - lower conversion potential")
	case model.MaturityAdvanced:
		ds.Score = 15
		ds.Insights = append(ds.Insights, "Advanced technology - likely satisfied with current setup")
	default:
		ds.Score = 50
		ds.Insights = append(ds.Insights, "Unrecognised website maturity level")
	}

	switch w.SecurityLevel {
	case model.SecurityLow:
		ds.Score += 15
		ds.Insights = append(ds.Insights, "Low security measures - high cybersecurity need")
	case model.SecurityBasic:
		ds.Score += 10
		ds.Insights = append(ds.Insights, "Basic security - room for improvement")
	}
	ds.Score = clamp(ds.Score)
	return ds
}

func scoreBusinessSize(rec model.BusinessRecord) DimensionScore {
	ds := DimensionScore{Score: 50, Label: "Unknown"}
	if c := rec.Enrichment.Classification; c != nil {
		switch c.BusinessSize {
		case model.SizeSME:
			ds.Score = 85
			ds.Insights = append(ds.Insights, "SME business - ideal target size")
		case model.SizeEnterprise:
			ds.Score = 25
			ds.Insights = append(ds.Insights, "Enterprise business - may have established IT")
		case model.SizeStartup:
			ds.Score = 70
			ds.Insights = append(ds.Insights, "Startup - good growth potential")
		}
		if c.BusinessSize != "" {
			ds.Label = c.BusinessSize
		}
	}

	// Employee bands only ever raise the score.
	switch est := employeeEstimate(rec); {
	case est == "":
	case strings.Contains(est, "1-10"):
		ds.Score = max(ds.Score, 80)
		ds.Insights = append(ds.Insights, "Small team size - personal service opportunity")
	case strings.Contains(est, "11-50"):
		ds.Score = max(ds.Score, 90)
		ds.Insights = append(ds.Insights, "Perfect SME size for our services")
	case strings.Contains(est, "51-200"):
		ds.Score = max(ds.Score, 60)
		ds.Insights = append(ds.Insights, "Medium business - good potential")
	}
	ds.Score = clamp(ds.Score)
	return ds
}

func employeeEstimate(rec model.BusinessRecord) string {
	if rec.Enrichment.EmployeeEstimate != "" {
		return rec.Enrichment.EmployeeEstimate
	}
	if c := rec.Enrichment.Classification; c != nil {
		return c.EstimatedEmployees
	}
	return ""
}

func scoreDataCompleteness(rec model.BusinessRecord) DimensionScore {
	var ds DimensionScore
	if rec.Email != "" {
		ds.Score += 25
		ds.Insights = append(ds.Insights, "Email contact available")
	} else {
		ds.Insights = append(ds.Insights, "No email - need to find contact info")
	}
	if rec.Phone != "" {
		ds.Score += 20
		ds.Insights = append(ds.Insights, "Phone contact available")
	}
	if rec.Website != "" {
		ds.Score += 20
		ds.Insights = append(ds.Insights, "Website available for analysis")
	}
	if n := len(rec.SocialLinks); n > 0 {
		ds.Score += min(n*5, 15)
		ds.Insights = append(ds.Insights, fmt.Sprintf("%d social media channels found", n))
	}
	if rec.Address != "" {
		ds.Score += 10
	}
	if len(rec.Hours) > 0 {
		ds.Score += 10
	}
	ds.Score = clamp(ds.Score)
	return ds
}

func (s *LeadScorer) scoreIndustryFit(rec model.BusinessRecord) DimensionScore {
	var industry, targetMarket string
	if c := rec.Enrichment.Classification; c != nil {
		industry = c.IndustryCategory
		targetMarket = c.TargetMarket
	}
	ds := DimensionScore{Label: industry}
	if ds.Label == "" {
		ds.Label = "Unknown"
	}

	haystacks := []string{strings.ToLower(industry), strings.ToLower(rec.Category)}
	switch {
	case containsKeyword(haystacks, s.cfg.HighRiskIndustries):
		ds.Score = 90
		ds.Insights = append(ds.Insights, "High-risk industry - strong cybersecurity need")
	case containsKeyword(haystacks, s.cfg.MediumRiskIndustries):
		ds.Score = 70
		ds.Insights = append(ds.Insights, "Medium-risk industry - moderate cybersecurity need")
	default:
		ds.Score = 40
		ds.Insights = append(ds.Insights, "General industry - basic cybersecurity need")
	}

	if strings.EqualFold(targetMarket, "B2B") {
		ds.Score += 10
		ds.Insights = append(ds.Insights, "B2B business - higher compliance requirements")
	}
	ds.Score = clamp(ds.Score)
	return ds
}

func containsKeyword(haystacks, keywords []string) bool {
	for _, h := range haystacks {
		if h == "" {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(h, kw) {
				return true
			}
		}
	}
	return false
}

func scoreGrowthIndicators(rec model.BusinessRecord) DimensionScore {
	ds := DimensionScore{Score: 30}
	if w := rec.Enrichment.Website; w != nil && w.PerformanceScore > 70 {
		ds.Score += 20
		ds.Insights = append(ds.Insights, "Good website performance - active maintenance")
	}
	if len(rec.SocialLinks) >= 3 {
		ds.Score += 15
		ds.Insights = append(ds.Insights, "Active social media presence")
	}
	if len(rec.Hours) > 0 {
		ds.Score += 10
		ds.Insights = append(ds.Insights, "Clear business hours - professional operation")
	}
	if rec.HasRating() && rec.Rating.Float64 >= 4.5 {
		ds.Score += 15
		ds.Insights = append(ds.Insights, "High customer rating - growing reputation")
	}
	if rec.ReviewCount > 50 {
		ds.Score += 10
		ds.Insights = append(ds.Insights, "High review count - active customer base")
	}
	ds.Score = clamp(ds.Score)
	return ds
}

func recommendations(rec model.BusinessRecord, sr ScoredRecord) []string {
	var out []string
	if sr.Breakdown[DigitalMaturity].Score >= 70 {
		out = append(out,
			"High priority: Outdated technology stack - immediate cybersecurity assessment recommended",
			"Focus on security consultation and modernization services",
		)
	}
	if sr.Breakdown[DataCompleteness].Score < 60 {
		out = append(out,
			"Research additional contact information before outreach",
			"Use LinkedIn or company website to find decision makers",
		)
	}
	if rec.Email == "" {
		out = append(out, "Priority: Find email contact through website or social media")
	}
	if sr.Breakdown[IndustryFit].Score >= 80 {
		out = append(out, "Industry-specific cybersecurity approach recommended")
	}
	switch {
	case sr.TotalScore >= 80:
		out = append(out, "Schedule immediate consultation - high conversion potential")
	case sr.TotalScore >= 50:
		out = append(out, "Add to nurture campaign for future follow-up")
	}
	return out
}

func reasoning(sr ScoredRecord) []string {
	out := []string{fmt.Sprintf("Total Score: %d/100 (%s Priority)", sr.TotalScore, sr.Priority)}
	for _, d := range Dimensions {
		ds := sr.Breakdown[d]
		if len(ds.Insights) == 0 {
			continue
		}
		out = append(out, fmt.Sprintf("%s: %d/100 - %s", d, ds.Score, ds.Insights[0]))
	}
	return out
}

func clamp(v int) int {
	return max(0, min(100, v))
}
