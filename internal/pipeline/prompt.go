package pipeline

import (
	"fmt"
	"strings"

	"github.com/sells-group/leadgen-cli/internal/plan"
	"github.com/sells-group/leadgen-cli/internal/sheet"
)

// generatePrompt wraps a search-plan query with the JSON-array output
// instructions the generation pipeline expects.
func generatePrompt(task plan.Task) string {
	return fmt.Sprintf(`%s

Return JSON array only:
[{"name":"","company":"","role":"","city":"","phone":null,"email":null,"linkedin":null,"source":"","match_reason":""}]

Find 5-10 agents. No markdown, just JSON array.`, task.Query)
}

// verifyPrompt builds the enrichment prompt for one input row. Absent
// columns render as Unknown so partial datasets still produce usable
// prompts.
func verifyPrompt(t *sheet.Table, row int) string {
	name := t.Get(row, "Contact Name")
	company := t.Get(row, "Agency Name")
	mobile := orUnknown(t.Get(row, "Mobile"))
	phone := orUnknown(t.Get(row, "Phone"))
	email := orUnknown(t.Get(row, "Email Address"))

	location := strings.TrimSpace(t.Get(row, "Suburb") + " " + t.Get(row, "State"))
	if location == "" {
		location = "Australia"
	}

	return fmt.Sprintf(`Search the web to verify and enrich information about this real estate agent:

Name: %s
Company: %s
Location: %s
Current Mobile: %s
Current Phone: %s
Current Email: %s

Please search for this person and provide:
1. VERIFIED: Is this person currently working at %s? (Yes/No/Unknown)
2. CURRENT_COMPANY: Their current company name (if different from above)
3. CURRENT_ROLE: Their current job title/position
4. VERIFIED_PHONE: Any phone number found for them
5. VERIFIED_EMAIL: Any email found for them
6. LINKEDIN_URL: Their LinkedIn profile URL if found
7. CONFIDENCE: How confident are you in this data? (High/Medium/Low)
8. NOTES: Any other relevant info (awards, specializations, years experience)

Respond in this exact JSON format:
{
    "verified_at_company": "Yes/No/Unknown",
    "current_company": "company name or null",
    "current_role": "role or null",
    "verified_phone": "phone or null",
    "verified_email": "email or null",
    "linkedin_url": "url or null",
    "confidence": "High/Medium/Low",
    "notes": "additional info or null"
}

Only return the JSON, no other text.`, name, company, location, mobile, phone, email, company)
}

// contactPrompt builds the missing-contact-details prompt for one lead row.
func contactPrompt(name, company, city, role string) string {
	return fmt.Sprintf(`Search for the contact details of this real estate agent:

Name: %s
Company: %s
City: %s, Australia
Role: %s

Search their agency website, LinkedIn, RateMyAgent, Domain, RealEstate.com.au, and any other sources.

Find their:
1. Mobile phone number (Australian format starting with 04xx)
2. Office phone number
3. Email address
4. LinkedIn URL

Return ONLY a JSON object:
{"phone": "mobile or office number", "email": "email address", "linkedin": "linkedin url", "source": "where you found it"}

If you cannot find a piece of information, use null for that field.
Return ONLY the JSON, no other text.`, name, company, city, role)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
