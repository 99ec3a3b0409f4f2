package lead

import (
	"strings"

	"golang.org/x/text/cases"
)

var keyFolder = cases.Fold()

// disqualifying marks names that are front-desk entries, not people.
var disqualifying = []string{"admin", "reception"}

// Key returns the identity key used for deduplication: the case-folded,
// trimmed (name, company) pair.
func (l Lead) Key() string {
	name := keyFolder.String(strings.TrimSpace(l.Name))
	company := keyFolder.String(strings.TrimSpace(l.Company))
	return name + "\x00" + company
}

// Disqualified reports whether the lead should be dropped outright:
// empty or administrative names are never real contacts.
func (l Lead) Disqualified() bool {
	name := strings.ToLower(strings.TrimSpace(l.Name))
	if name == "" || name == "nan" {
		return true
	}
	for _, term := range disqualifying {
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}

// Dedupe drops disqualified leads and collapses duplicates by identity key,
// keeping the first occurrence and preserving input order.
func Dedupe(leads []Lead) []Lead {
	seen := make(map[string]bool, len(leads))
	unique := make([]Lead, 0, len(leads))

	for _, l := range leads {
		if l.Disqualified() {
			continue
		}
		key := l.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, l)
	}

	return unique
}
