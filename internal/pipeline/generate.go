package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/dispatch"
	"github.com/sells-group/leadgen-cli/internal/lead"
	"github.com/sells-group/leadgen-cli/internal/plan"
	"github.com/sells-group/leadgen-cli/internal/search"
	"github.com/sells-group/leadgen-cli/internal/sheet"
	"github.com/sells-group/leadgen-cli/internal/store"
)

// generatedColumns is the output column order for generated lead files.
var generatedColumns = []string{
	"name", "company", "role", "city", "phone", "email", "linkedin",
	"match_reason", "search_category", "source", "search_city", "generated_at",
}

// GenerateStats summarizes one generation run.
type GenerateStats struct {
	Tasks   int    `json:"tasks"`
	Queries int    `json:"queries"`
	Leads   int    `json:"leads"`
	Unique  int    `json:"unique"`
	Errors  int    `json:"errors"`
	Output  string `json:"output"`
}

// Generator runs search-plan queries and writes a deduplicated lead file.
type Generator struct {
	cfg    *config.Config
	client *search.Client
	runs   store.Store

	now func() time.Time
}

// NewGenerator creates a Generator. runs may be nil.
func NewGenerator(cfg *config.Config, client *search.Client, runs store.Store) *Generator {
	return &Generator{cfg: cfg, client: client, runs: runs, now: time.Now}
}

// Run loads the search plan, executes every task across the worker pool,
// deduplicates the results, and writes the dated output file.
func (g *Generator) Run(ctx context.Context) (*GenerateStats, error) {
	p, err := plan.Load(g.cfg.Paths.Plan)
	if err != nil {
		return nil, err
	}
	tasks := p.Tasks()

	zap.L().Info("generate: starting",
		zap.Int("cities", len(p.Cities)),
		zap.Int("templates", len(p.SearchTemplates)),
		zap.Int("tasks", len(tasks)),
		zap.Int("workers", g.cfg.Generate.Workers),
	)

	finish := recordRun(ctx, g.runs, store.RunKindGenerate)
	stats := &GenerateStats{Tasks: len(tasks)}

	var all []lead.Lead
	progress := dispatch.NewProgress(len(tasks))

	handler := func(ctx context.Context, task plan.Task) ([]lead.Lead, error) {
		leads, oc := search.Array[lead.Lead](ctx, g.client, generatePrompt(task))
		if oc.Status != lead.StatusSuccess {
			return nil, oc.Err
		}
		stamp := g.now().Format(time.RFC3339)
		for i := range leads {
			leads[i].SearchCategory = task.Category
			leads[i].SearchCity = task.City
			leads[i].GeneratedAt = stamp
		}
		return leads, nil
	}

	sink := func(task plan.Task, leads []lead.Lead, err error) {
		n := progress.Record(err == nil)
		stats.Queries++
		if err != nil {
			stats.Errors++
			zap.L().Warn("generate: query failed",
				zap.Int("query", n),
				zap.String("city", task.City),
				zap.String("category", task.Category),
				zap.String("error", truncate(err.Error(), 80)),
			)
			return
		}
		stats.Leads += len(leads)
		all = append(all, leads...)
		zap.L().Info("generate: query done",
			zap.Int("query", n),
			zap.String("city", task.City),
			zap.String("category", task.Category),
			zap.Int("leads", len(leads)),
		)
	}

	if err := dispatch.Run(ctx, g.cfg.Generate.Workers, tasks, handler, sink); err != nil {
		finish(err, stats)
		return stats, eris.Wrap(err, "generate: dispatch")
	}

	unique := lead.Dedupe(all)
	stats.Unique = len(unique)
	zap.L().Info("generate: deduplicated", zap.Int("raw", len(all)), zap.Int("unique", len(unique)))

	out := sheet.DatedPath(g.cfg.Paths.OutputDir, "generated_leads", g.now())
	if err := sheet.Write(leadTable(unique), out); err != nil {
		finish(err, stats)
		return stats, err
	}
	stats.Output = out

	zap.L().Info("generate: complete",
		zap.Int("queries", stats.Queries),
		zap.Int("errors", stats.Errors),
		zap.Int("unique_leads", stats.Unique),
		zap.String("output", out),
	)
	finish(nil, stats)
	return stats, nil
}

// leadTable renders leads in the fixed output column order.
func leadTable(leads []lead.Lead) *sheet.Table {
	t := sheet.NewTable(generatedColumns)
	for _, l := range leads {
		t.Append([]string{
			l.Name, l.Company, l.Role, l.City, l.Phone, l.Email, l.LinkedIn,
			l.MatchReason, l.SearchCategory, l.Source, l.SearchCity, l.GeneratedAt,
		})
	}
	return t
}
