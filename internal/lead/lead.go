// Package lead defines the records flowing through the generation and
// enrichment pipelines.
package lead

import (
	"strings"
)

// Lead is one candidate contact produced by a generation search.
// JSON tags match the schema the model is instructed to return.
type Lead struct {
	Name        string `json:"name"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	LinkedIn    string `json:"linkedin"`
	Source      string `json:"source"`
	MatchReason string `json:"match_reason"`

	// Search metadata attached after a successful query.
	SearchCategory string `json:"search_category,omitempty"`
	SearchCity     string `json:"search_city,omitempty"`
	GeneratedAt    string `json:"generated_at,omitempty"`
}

// Status tags the terminal outcome of one enrichment work item.
type Status string

const (
	StatusSuccess    Status = "success"
	StatusParseError Status = "parse_error"
	StatusAPIError   Status = "api_error"
)

// Enrichment is the verification record produced for one input row.
type Enrichment struct {
	VerifiedAtCompany string `json:"verified_at_company,omitempty"`
	CurrentCompany    string `json:"current_company,omitempty"`
	CurrentRole       string `json:"current_role,omitempty"`
	VerifiedPhone     string `json:"verified_phone,omitempty"`
	VerifiedEmail     string `json:"verified_email,omitempty"`
	LinkedInURL       string `json:"linkedin_url,omitempty"`
	Confidence        string `json:"confidence,omitempty"`
	Notes             string `json:"notes,omitempty"`

	Status       Status `json:"enrichment_status"`
	Error        string `json:"enrichment_error,omitempty"`
	RawResponse  string `json:"raw_response,omitempty"`
	LastEnriched string `json:"last_enriched"`
}

// Contact is the record produced when filling in missing contact details.
type Contact struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	LinkedIn string `json:"linkedin"`
	Source   string `json:"source"`
}

// placeholders are cell values that mean "no data". Models frequently echo
// these back verbatim instead of omitting the field.
var placeholders = map[string]bool{
	"":                 true,
	"null":             true,
	"none":             true,
	"nan":              true,
	"n/a":              true,
	"if found or null": true,
}

// IsPlaceholder reports whether a cell value carries no real data.
func IsPlaceholder(s string) bool {
	return placeholders[strings.ToLower(strings.TrimSpace(s))]
}
