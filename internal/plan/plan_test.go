package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
cities:
  - Sydney
  - Melbourne
search_templates:
  - query: "Find top real estate agents in {city}"
    category: "Top Agents"
  - query: "Find new real estate agents in {city} hired this year"
    category: "New Agents"
boutique_agencies:
  Sydney:
    - BresicWhitney
  Brisbane:
    - Place Estate Agents Bulimba
`

func TestLoad_YAML(t *testing.T) {
	p, err := Load(writePlan(t, validYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sydney", "Melbourne"}, p.Cities)
	assert.Len(t, p.SearchTemplates, 2)
	assert.Len(t, p.BoutiqueAgencies, 2)
}

func TestLoad_JSONDocument(t *testing.T) {
	p, err := Load(writePlan(t, `{
		"cities": ["Sydney"],
		"search_templates": [{"query": "agents in {city}", "category": "Cat"}],
		"boutique_agencies": {"Sydney": ["BresicWhitney"]}
	}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sydney"}, p.Cities)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_MissingRequiredKeys(t *testing.T) {
	_, err := Load(writePlan(t, `
cities:
  - Sydney
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required keys")
	assert.Contains(t, err.Error(), "search_templates")
	assert.Contains(t, err.Error(), "boutique_agencies")
}

func TestLoad_TemplateWithoutCategory(t *testing.T) {
	_, err := Load(writePlan(t, `
cities: [Sydney]
search_templates:
  - query: "agents in {city}"
boutique_agencies:
  Sydney: [BresicWhitney]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search_templates[0]")
}

func TestTasks_Expansion(t *testing.T) {
	p, err := Load(writePlan(t, validYAML))
	require.NoError(t, err)

	tasks := p.Tasks()
	// 2 cities × 2 templates + 2 agency searches.
	require.Len(t, tasks, 6)

	assert.Equal(t, "Find top real estate agents in Sydney", tasks[0].Query)
	assert.Equal(t, "Top Agents", tasks[0].Category)
	assert.Equal(t, "Sydney", tasks[0].City)
	assert.Equal(t, "Find new real estate agents in Melbourne hired this year", tasks[3].Query)

	// Agency tasks follow, sorted by city; long names truncated in label.
	assert.Equal(t, "Brisbane", tasks[4].City)
	assert.Equal(t, "Agency: Place Estate Agents ", tasks[4].Category)
	assert.Contains(t, tasks[4].Query, "Place Estate Agents Bulimba")
	assert.Equal(t, "Agency: BresicWhitney", tasks[5].Category)
}
