package model

import "time"

// Business size labels produced by classification.
const (
	SizeSME        = "SME"
	SizeEnterprise = "Enterprise"
	SizeStartup    = "Startup"
)

// Classification is the structured output of a text classifier.
type Classification struct {
	BusinessSize       string  `json:"business_size,omitempty"`
	IndustryCategory   string  `json:"industry_category,omitempty"`
	BusinessType       string  `json:"business_type,omitempty"`
	TargetMarket       string  `json:"target_market,omitempty"`
	CompanyStage       string  `json:"company_stage,omitempty"`
	EstimatedEmployees string  `json:"estimated_employees,omitempty"`
	LeadQualityScore   int     `json:"lead_quality_score"`
	KeyInsights        string  `json:"key_insights,omitempty"`
	Confidence         float64 `json:"confidence"`
}

// MaturityLevel grades a website's technology stack.
type MaturityLevel string

// Maturity levels, from least to most mature.
const (
	MaturityOutdated   MaturityLevel = "Outdated"
	MaturityBasic      MaturityLevel = "Basic"
	MaturityDeveloping MaturityLevel = "Developing"
	MaturityMature     MaturityLevel = "Mature"
	MaturityAdvanced   MaturityLevel = "Advanced"
)

// SecurityLevel grades a website's security posture.
type SecurityLevel string

// Security levels.
const (
	SecurityLow    SecurityLevel = "Low"
	SecurityBasic  SecurityLevel = "Basic"
	SecurityMedium SecurityLevel = "Medium"
	SecurityHigh   SecurityLevel = "High"
)

// WebsiteAnalysis is the result of inspecting a business website.
type WebsiteAnalysis struct {
	URL              string              `json:"url"`
	StatusCode       int                 `json:"status_code"`
	LoadTime         time.Duration       `json:"load_time"`
	Technologies     []string            `json:"technologies,omitempty"`
	TechnologyScore  int                 `json:"technology_score"`
	SecurityScore    int                 `json:"security_score"`
	SecurityLevel    SecurityLevel       `json:"security_level"`
	PerformanceScore int                 `json:"performance_score"`
	MaturityScore    int                 `json:"maturity_score"`
	MaturityLevel    MaturityLevel       `json:"maturity_level"`
	SocialLinks      map[Platform]string `json:"social_links,omitempty"`
	Emails           []string            `json:"emails,omitempty"`
}

// Contact is a person found by contact enrichment.
type Contact struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Position   string `json:"position,omitempty"`
	Seniority  string `json:"seniority,omitempty"`
	Department string `json:"department,omitempty"`
	LinkedIn   string `json:"linkedin,omitempty"`
	Confidence int    `json:"confidence"`
}

// ContactResult is the outcome of one enrichment lookup. A result with no
// executives is valid.
type ContactResult struct {
	Domain       string    `json:"domain"`
	Organization string    `json:"organization,omitempty"`
	Headcount    string    `json:"headcount,omitempty"`
	Executives   []Contact `json:"executives,omitempty"`
}

// Enrichment holds everything attached to a record after discovery. A nil
// member means that step did not run or failed.
type Enrichment struct {
	Classification   *Classification  `json:"classification,omitempty"`
	Website          *WebsiteAnalysis `json:"website,omitempty"`
	Contacts         *ContactResult   `json:"contacts,omitempty"`
	EmployeeEstimate string           `json:"employee_estimate,omitempty"`
}
