package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/checkpoint"
	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/dispatch"
	"github.com/sells-group/leadgen-cli/internal/lead"
	"github.com/sells-group/leadgen-cli/internal/search"
	"github.com/sells-group/leadgen-cli/internal/sheet"
	"github.com/sells-group/leadgen-cli/internal/store"
)

// enrichmentColumns are appended to the input dataset in this order.
var enrichmentColumns = []string{
	"verified_at_company", "current_company", "current_role",
	"verified_phone", "verified_email", "linkedin_url",
	"confidence", "notes", "last_enriched", "enrichment_status",
	"enrichment_error", "raw_response",
}

const rawResponseLimit = 500

// EnrichStats summarizes one enrichment run.
type EnrichStats struct {
	Total     int    `json:"total"`
	Skipped   int    `json:"skipped"`
	Resumed   int    `json:"resumed"`
	Processed int    `json:"processed"`
	Succeeded int    `json:"succeeded"`
	Errors    int    `json:"errors"`
	Output    string `json:"output"`
}

// Enricher verifies leads from the input dataset against live web search
// and writes an enriched copy, checkpointing as it goes.
type Enricher struct {
	cfg    *config.Config
	client *search.Client
	ckpt   *checkpoint.Store
	runs   store.Store

	now func() time.Time
}

// NewEnricher creates an Enricher. runs may be nil.
func NewEnricher(cfg *config.Config, client *search.Client, ckpt *checkpoint.Store, runs store.Store) *Enricher {
	return &Enricher{cfg: cfg, client: client, ckpt: ckpt, runs: runs, now: time.Now}
}

type enrichItem struct {
	idx  int
	name string
}

// Run enriches every unprocessed row of the input dataset. Rows already in
// the checkpoint are skipped, so an interrupted run resumes where the last
// saved checkpoint left off.
func (e *Enricher) Run(ctx context.Context) (*EnrichStats, error) {
	table, err := sheet.Read(e.cfg.Paths.Input)
	if err != nil {
		return nil, err
	}

	state, err := e.ckpt.Load()
	if err != nil {
		return nil, err
	}

	stats := &EnrichStats{Total: table.Len(), Resumed: state.Len()}

	var items []enrichItem
	for i := 0; i < table.Len(); i++ {
		if state.Done(i) {
			continue
		}
		name := strings.TrimSpace(table.Get(i, "Contact Name"))
		if name == "" || strings.EqualFold(name, "nan") {
			stats.Skipped++
			continue
		}
		items = append(items, enrichItem{idx: i, name: name})
	}

	zap.L().Info("enrich: starting",
		zap.Int("total", stats.Total),
		zap.Int("resumed", stats.Resumed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("remaining", len(items)),
		zap.Int("workers", e.cfg.Enrich.Workers),
	)

	finish := recordRun(ctx, e.runs, store.RunKindEnrich)

	if len(items) > 0 {
		if err := e.enrich(ctx, table, state, items, stats); err != nil {
			finish(err, stats)
			return stats, err
		}
	} else {
		zap.L().Info("enrich: all rows already processed")
	}

	applyEnrichments(table, state)

	out := sheet.DatedPath(e.cfg.Paths.OutputDir, "enriched_leads", e.now())
	if err := sheet.Write(table, out); err != nil {
		finish(err, stats)
		return stats, err
	}
	stats.Output = out

	zap.L().Info("enrich: complete",
		zap.Int("processed", stats.Processed),
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("errors", stats.Errors),
		zap.String("output", out),
	)
	finish(nil, stats)
	return stats, nil
}

func (e *Enricher) enrich(ctx context.Context, table *sheet.Table, state *checkpoint.State, items []enrichItem, stats *EnrichStats) error {
	progress := dispatch.NewProgress(len(items))
	sinceSave := 0

	handler := func(ctx context.Context, item enrichItem) (lead.Enrichment, error) {
		rec, oc := search.Object[lead.Enrichment](ctx, e.client, verifyPrompt(table, item.idx))
		rec.Status = oc.Status
		rec.LastEnriched = e.now().Format(time.RFC3339)
		if oc.Status != lead.StatusSuccess {
			rec.Error = oc.Err.Error()
			rec.RawResponse = truncate(oc.Text, rawResponseLimit)
		}
		return rec, nil
	}

	sink := func(item enrichItem, rec lead.Enrichment, err error) {
		if err != nil {
			// Handler panic: record a terminal api_error so the row is not
			// retried forever on every resume.
			rec = lead.Enrichment{
				Status:       lead.StatusAPIError,
				Error:        err.Error(),
				LastEnriched: e.now().Format(time.RFC3339),
			}
		}

		if merr := state.Mark(item.idx, rec); merr != nil {
			zap.L().Error("enrich: checkpoint mark failed", zap.Int("row", item.idx), zap.Error(merr))
		}

		ok := rec.Status == lead.StatusSuccess
		n := progress.Record(ok)
		stats.Processed++
		if ok {
			stats.Succeeded++
			zap.L().Info("enrich: row done",
				zap.Int("completed", n),
				zap.Int("total", len(items)),
				zap.String("name", truncate(item.name, 30)),
				zap.String("confidence", rec.Confidence),
			)
		} else {
			stats.Errors++
			zap.L().Warn("enrich: row failed",
				zap.Int("completed", n),
				zap.Int("total", len(items)),
				zap.String("name", truncate(item.name, 30)),
				zap.String("status", string(rec.Status)),
				zap.String("error", truncate(rec.Error, 50)),
			)
		}

		sinceSave++
		if sinceSave >= e.cfg.Checkpoint.Interval {
			if serr := e.ckpt.Save(state); serr != nil {
				zap.L().Error("enrich: checkpoint save failed", zap.Error(serr))
			}
			sinceSave = 0
		}
	}

	if err := dispatch.Run(ctx, e.cfg.Enrich.Workers, items, handler, sink); err != nil {
		// Persist whatever completed before cancellation.
		if serr := e.ckpt.Save(state); serr != nil {
			zap.L().Error("enrich: checkpoint save failed", zap.Error(serr))
		}
		return eris.Wrap(err, "enrich: dispatch")
	}

	return e.ckpt.Save(state)
}

// applyEnrichments copies every checkpointed record onto its row.
func applyEnrichments(table *sheet.Table, state *checkpoint.State) {
	table.EnsureColumns(enrichmentColumns...)

	for _, idx := range state.Indices() {
		var rec lead.Enrichment
		ok, err := state.Record(idx, &rec)
		if err != nil {
			zap.L().Warn("enrich: bad checkpoint record", zap.Int("row", idx), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		table.Set(idx, "verified_at_company", rec.VerifiedAtCompany)
		table.Set(idx, "current_company", rec.CurrentCompany)
		table.Set(idx, "current_role", rec.CurrentRole)
		table.Set(idx, "verified_phone", rec.VerifiedPhone)
		table.Set(idx, "verified_email", rec.VerifiedEmail)
		table.Set(idx, "linkedin_url", rec.LinkedInURL)
		table.Set(idx, "confidence", rec.Confidence)
		table.Set(idx, "notes", rec.Notes)
		table.Set(idx, "last_enriched", rec.LastEnriched)
		table.Set(idx, "enrichment_status", string(rec.Status))
		table.Set(idx, "enrichment_error", rec.Error)
		table.Set(idx, "raw_response", rec.RawResponse)
	}
}
