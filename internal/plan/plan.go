// Package plan loads the search plan: which cities to cover, which query
// templates to run per city, and which boutique agencies to target by name.
package plan

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Template is one reusable search query with a category label. The query
// contains a {city} placeholder.
type Template struct {
	Query    string `yaml:"query" json:"query"`
	Category string `yaml:"category" json:"category"`
}

// Plan is the full search plan document.
type Plan struct {
	Cities           []string            `yaml:"cities" json:"cities"`
	SearchTemplates  []Template          `yaml:"search_templates" json:"search_templates"`
	BoutiqueAgencies map[string][]string `yaml:"boutique_agencies" json:"boutique_agencies"`
}

// Load parses and validates a plan file. The document may be YAML or JSON.
// A missing file or missing required key is a startup error; the pipeline
// never runs against a partial plan.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "plan: read %s", path)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, eris.Wrapf(err, "plan: parse %s", path)
	}

	var missing []string
	if len(p.Cities) == 0 {
		missing = append(missing, "cities")
	}
	if len(p.SearchTemplates) == 0 {
		missing = append(missing, "search_templates")
	}
	if len(p.BoutiqueAgencies) == 0 {
		missing = append(missing, "boutique_agencies")
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("plan: %s missing required keys: %s", path, strings.Join(missing, ", "))
	}

	for i, tmpl := range p.SearchTemplates {
		if tmpl.Query == "" || tmpl.Category == "" {
			return nil, eris.Errorf("plan: search_templates[%d] needs both query and category", i)
		}
	}

	return &p, nil
}

// Task is one immutable search work item.
type Task struct {
	Query    string
	Category string
	City     string
}

// agencyCategoryLen caps the agency name used in the category label.
const agencyCategoryLen = 20

// Tasks expands the plan into the ordered work item set: every
// city×template pairing first, then every targeted agency per city.
func (p *Plan) Tasks() []Task {
	var tasks []Task

	for _, city := range p.Cities {
		for _, tmpl := range p.SearchTemplates {
			tasks = append(tasks, Task{
				Query:    strings.ReplaceAll(tmpl.Query, "{city}", city),
				Category: tmpl.Category,
				City:     city,
			})
		}
	}

	// Agency searches cover every city in the mapping, not just the
	// template cities; iterate in sorted order for a stable task set.
	cities := make([]string, 0, len(p.BoutiqueAgencies))
	for city := range p.BoutiqueAgencies {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	for _, city := range cities {
		for _, agency := range p.BoutiqueAgencies[city] {
			tasks = append(tasks, agencyTask(agency, city))
		}
	}

	return tasks
}

func agencyTask(agency, city string) Task {
	label := agency
	if len(label) > agencyCategoryLen {
		label = label[:agencyCategoryLen]
	}
	return Task{
		Query: fmt.Sprintf(
			"Find real estate agents at %s in %s, Australia. Include principals/directors AND sales associates, BDMs, and junior agents who do prospecting. Look for agents who handle high volumes of calls and inquiries.",
			agency, city),
		Category: "Agency: " + label,
		City:     city,
	}
}
