package pipeline

import (
	"strings"

	"github.com/sells-group/leadgen-cli/internal/lead"
	"github.com/sells-group/leadgen-cli/internal/sheet"
)

// Applied reports which fields a contact merge actually changed.
type Applied struct {
	Phone    bool
	Email    bool
	LinkedIn bool
}

// ApplyContact merges a found contact record onto row idx. Field rules:
//
//   - phone: overwrite whenever the candidate carries real data
//   - email: fill only when the row has none and the candidate contains "@"
//   - linkedin: fill when the row value is empty or not a LinkedIn URL,
//     and the candidate is one
//   - contact_source: set whenever the candidate names a source
func ApplyContact(t *sheet.Table, idx int, c lead.Contact) Applied {
	var applied Applied

	if !lead.IsPlaceholder(c.Phone) {
		t.Set(idx, "phone", c.Phone)
		applied.Phone = true
	}

	if strings.Contains(c.Email, "@") && lead.IsPlaceholder(t.Get(idx, "email")) {
		t.Set(idx, "email", c.Email)
		applied.Email = true
	}

	current := strings.ToLower(t.Get(idx, "linkedin"))
	if strings.Contains(strings.ToLower(c.LinkedIn), "linkedin") &&
		(lead.IsPlaceholder(current) || !strings.Contains(current, "linkedin")) {
		t.Set(idx, "linkedin", c.LinkedIn)
		applied.LinkedIn = true
	}

	if c.Source != "" {
		t.Set(idx, "contact_source", c.Source)
	}

	return applied
}
