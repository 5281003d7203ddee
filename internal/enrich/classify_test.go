package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	"github.com/renbran/dubai-sme-scraper-sub000/pkg/anthropic"
	anthropicmocks "github.com/renbran/dubai-sme-scraper-sub000/pkg/anthropic/mocks"
)

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: 300, OutputTokens: 80},
	}
}

func TestClaudeClassifier_Classify(t *testing.T) {
	ai := anthropicmocks.NewMockClient(t)
	rec := model.BusinessRecord{
		Name:        "Al Noor Accounting",
		Category:    "Accounting",
		Rating:      null.FloatFrom(4.6),
		ReviewCount: 120,
	}

	ai.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == DefaultClassifyModel &&
			req.MaxTokens == 400 &&
			len(req.Messages) == 1 &&
			assert.Contains(t, req.Messages[0].Content, "Business Name: Al Noor Accounting") &&
			assert.Contains(t, req.Messages[0].Content, "Reviews: 120 reviews, 4.6 rating") &&
			assert.Contains(t, req.Messages[0].Content, "Website: No website")
	})).Return(textResponse(`Here you go:
{"businessSize":"SME","industryCategory":"Accounting","businessType":"Service","targetMarket":"B2B",
 "companyStage":"Established","estimatedEmployees":"11-50","leadQualityScore":78,
 "keyInsights":"Growing practice","confidence":0.82}
Thanks`), nil)

	got, err := NewClaudeClassifier(ai, "").Classify(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, &model.Classification{
		BusinessSize:       model.SizeSME,
		IndustryCategory:   "Accounting",
		BusinessType:       "Service",
		TargetMarket:       "B2B",
		CompanyStage:       "Established",
		EstimatedEmployees: "11-50",
		LeadQualityScore:   78,
		KeyInsights:        "Growing practice",
		Confidence:         0.82,
	}, got)
}

func TestClaudeClassifier_RequestFailure(t *testing.T) {
	ai := anthropicmocks.NewMockClient(t)
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("overloaded"))

	_, err := NewClaudeClassifier(ai, "claude-sonnet-4-5-20250929").Classify(context.Background(), model.BusinessRecord{Name: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClassificationUnavailable)
	assert.Contains(t, err.Error(), "overloaded")
}

func TestClaudeClassifier_UnparsableResponse(t *testing.T) {
	ai := anthropicmocks.NewMockClient(t)
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse("I cannot classify this."), nil)

	_, err := NewClaudeClassifier(ai, "").Classify(context.Background(), model.BusinessRecord{Name: "x"})
	assert.ErrorIs(t, err, ErrClassificationUnavailable)
}

func TestClaudeClassifier_EmptyName(t *testing.T) {
	ai := anthropicmocks.NewMockClient(t)
	_, err := NewClaudeClassifier(ai, "").Classify(context.Background(), model.BusinessRecord{Name: "  "})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	ai.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestParseClassification_Clamps(t *testing.T) {
	got, err := parseClassification(`{"businessSize":"ENTERPRISE","leadQualityScore":250,"confidence":3}`)
	require.NoError(t, err)
	assert.Equal(t, model.SizeEnterprise, got.BusinessSize)
	assert.Equal(t, 100, got.LeadQualityScore)
	assert.InDelta(t, 1.0, got.Confidence, 1e-9)

	got, err = parseClassification(`{"leadQualityScore":-5,"aiConfidence":0.4}`)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LeadQualityScore)
	assert.InDelta(t, 0.4, got.Confidence, 1e-9)
	assert.Empty(t, got.BusinessSize)
}

func TestParseClassification_Invalid(t *testing.T) {
	for _, text := range []string{"", "no json", "} backwards {", `{"leadQualityScore": "high"}`} {
		_, err := parseClassification(text)
		assert.Error(t, err, text)
	}
}

func TestNormalizeSize(t *testing.T) {
	tests := map[string]string{
		"SME":                     model.SizeSME,
		"Small/Medium Enterprise": model.SizeSME,
		"small business":          model.SizeSME,
		"ENTERPRISE":              model.SizeEnterprise,
		"Large Corporation":       model.SizeEnterprise,
		"Startup":                 model.SizeStartup,
		"start-up":                model.SizeStartup,
		"":                        "",
		"family owned":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeSize(in), in)
	}
}

func TestDefaultClassification(t *testing.T) {
	got := DefaultClassification(model.BusinessRecord{Name: "x", Category: "Bakery"})
	assert.Equal(t, "Bakery", got.IndustryCategory)
	assert.Equal(t, 60, got.LeadQualityScore)
	assert.Zero(t, got.Confidence)
	assert.Empty(t, got.BusinessSize)
}
