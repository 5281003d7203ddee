package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/pkg/anthropic"
)

// DefaultClassifyModel is used when no model is configured.
const DefaultClassifyModel = "claude-haiku-4-5-20251001"

const (
	classifyMaxTokens   = 400
	classifyTemperature = 0.3

	// defaultLeadQuality is the neutral score given to unclassified records.
	defaultLeadQuality = 60
)

const classifySystemPrompt = `You classify businesses operating in the UAE for B2B lead qualification.
Respond with a single JSON object and nothing else.`

// ClaudeClassifier classifies records with the Anthropic Messages API.
type ClaudeClassifier struct {
	client anthropic.Client
	model  string
}

// NewClaudeClassifier creates a classifier. An empty model selects
// DefaultClassifyModel.
func NewClaudeClassifier(client anthropic.Client, model string) *ClaudeClassifier {
	if model == "" {
		model = DefaultClassifyModel
	}
	return &ClaudeClassifier{client: client, model: model}
}

type classificationResponse struct {
	BusinessSize       string   `json:"businessSize"`
	IndustryCategory   string   `json:"industryCategory"`
	BusinessType       string   `json:"businessType"`
	TargetMarket       string   `json:"targetMarket"`
	CompanyStage       string   `json:"companyStage"`
	EstimatedEmployees string   `json:"estimatedEmployees"`
	LeadQualityScore   float64  `json:"leadQualityScore"`
	KeyInsights        string   `json:"keyInsights"`
	Confidence         *float64 `json:"confidence"`
	AIConfidence       *float64 `json:"aiConfidence"`
}

// Classify sends the record to Claude and parses the JSON classification.
// Request and parse failures are reported as ErrClassificationUnavailable.
func (c *ClaudeClassifier) Classify(ctx context.Context, rec model.BusinessRecord) (*model.Classification, error) {
	if strings.TrimSpace(rec.Name) == "" {
		return nil, eris.Wrap(model.ErrInvalidInput, "enrich: classify record without name")
	}

	temp := classifyTemperature
	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       c.model,
		MaxTokens:   classifyMaxTokens,
		System:      []anthropic.SystemBlock{{Text: classifySystemPrompt, Cache: true}},
		Messages:    []anthropic.Message{{Role: "user", Content: classifyPrompt(rec)}},
		Temperature: &temp,
	})
	if err != nil {
		return nil, classificationUnavailable(eris.Wrap(err, "enrich: classify request"))
	}
	resp.Usage.LogCost(c.model, "classify")

	cls, err := parseClassification(resp.Text())
	if err != nil {
		return nil, classificationUnavailable(err)
	}
	return cls, nil
}

func classifyPrompt(rec model.BusinessRecord) string {
	orUnknown := func(s, fallback string) string {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}
	var rating float64
	if rec.HasRating() {
		rating = rec.Rating.Float64
	}

	var b strings.Builder
	b.WriteString("Analyze this business and provide classification and insights:\n\n")
	fmt.Fprintf(&b, "Business Name: %s\n", rec.Name)
	fmt.Fprintf(&b, "Category: %s\n", orUnknown(rec.Category, "Unknown"))
	fmt.Fprintf(&b, "Description: %s\n", orUnknown(rec.Description, "No description"))
	fmt.Fprintf(&b, "Address: %s\n", orUnknown(rec.Address, "No address"))
	fmt.Fprintf(&b, "Website: %s\n", orUnknown(rec.Website, "No website"))
	fmt.Fprintf(&b, "Reviews: %d reviews, %.1f rating\n\n", rec.ReviewCount, rating)
	b.WriteString(`Classify and analyze:
1. Business Size: SME, Enterprise or Startup
2. Industry Category: main business industry
3. Business Type: Service/Product/Trading/Manufacturing
4. Target Market: B2B/B2C/Both
5. Company Stage: Startup/Established/Mature
6. Estimated Employees: one of 1-10, 11-50, 51-200, 201-500, 500+
7. Lead Quality Score: 1-100 (higher = better lead)
8. Key Insights: brief analysis of business potential

Respond in JSON format:
{
  "businessSize": "SME|Enterprise|Startup",
  "industryCategory": "string",
  "businessType": "string",
  "targetMarket": "string",
  "companyStage": "string",
  "estimatedEmployees": "string",
  "leadQualityScore": number,
  "keyInsights": "string",
  "confidence": number between 0 and 1
}`)
	return b.String()
}

// parseClassification extracts the JSON object between the first "{" and
// the last "}" of text.
func parseClassification(text string) (*model.Classification, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, eris.Errorf("enrich: no JSON in classification response: %q", text)
	}

	var r classificationResponse
	if err := json.Unmarshal([]byte(text[start:end+1]), &r); err != nil {
		return nil, eris.Wrap(err, "enrich: parse classification JSON")
	}

	conf := 0.0
	switch {
	case r.Confidence != nil:
		conf = *r.Confidence
	case r.AIConfidence != nil:
		conf = *r.AIConfidence
	}

	return &model.Classification{
		BusinessSize:       normalizeSize(r.BusinessSize),
		IndustryCategory:   strings.TrimSpace(r.IndustryCategory),
		BusinessType:       strings.TrimSpace(r.BusinessType),
		TargetMarket:       strings.TrimSpace(r.TargetMarket),
		CompanyStage:       strings.TrimSpace(r.CompanyStage),
		EstimatedEmployees: strings.TrimSpace(r.EstimatedEmployees),
		LeadQualityScore:   max(1, min(100, int(math.Round(r.LeadQualityScore)))),
		KeyInsights:        strings.TrimSpace(r.KeyInsights),
		Confidence:         max(0, min(1, conf)),
	}, nil
}

// normalizeSize maps free-form size labels onto SME, Enterprise or Startup.
// Anything else becomes empty, which scores as unknown.
func normalizeSize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return ""
	case strings.Contains(s, "startup"), strings.Contains(s, "start-up"):
		return model.SizeStartup
	case strings.Contains(s, "sme"), strings.Contains(s, "small"), strings.Contains(s, "medium"):
		return model.SizeSME
	case strings.Contains(s, "enterprise"), strings.Contains(s, "large"), strings.Contains(s, "corporat"):
		return model.SizeEnterprise
	}
	return ""
}

// DefaultClassification is the neutral classification used when no
// classifier is configured or classification fails. Size stays empty so the
// business-size dimension scores as unknown.
func DefaultClassification(rec model.BusinessRecord) *model.Classification {
	return &model.Classification{
		IndustryCategory: rec.Category,
		LeadQualityScore: defaultLeadQuality,
	}
}
