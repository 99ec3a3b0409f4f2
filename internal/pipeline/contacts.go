package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/dispatch"
	"github.com/sells-group/leadgen-cli/internal/lead"
	"github.com/sells-group/leadgen-cli/internal/search"
	"github.com/sells-group/leadgen-cli/internal/sheet"
	"github.com/sells-group/leadgen-cli/internal/store"
)

// ContactStats summarizes one contact fill-in run.
type ContactStats struct {
	Total      int    `json:"total"`
	Missing    int    `json:"missing_phone"`
	Processed  int    `json:"processed"`
	FoundPhone int    `json:"found_phone"`
	FoundEmail int    `json:"found_email"`
	Errors     int    `json:"errors"`
	Input      string `json:"input"`
	Output     string `json:"output"`
}

// ContactFiller finds phone numbers and emails for generated leads that
// are missing them, reading the newest generated file and writing an
// enriched copy.
type ContactFiller struct {
	cfg    *config.Config
	client *search.Client
	runs   store.Store

	// InputFile overrides latest-generated-file discovery when set.
	InputFile string

	now func() time.Time
}

// NewContactFiller creates a ContactFiller. runs may be nil.
func NewContactFiller(cfg *config.Config, client *search.Client, runs store.Store) *ContactFiller {
	return &ContactFiller{cfg: cfg, client: client, runs: runs, now: time.Now}
}

// contactItem carries everything a worker needs, copied out of the table
// before dispatch so workers and the merging sink never share it.
type contactItem struct {
	idx     int
	name    string
	company string
	city    string
	role    string
}

// Run fills in missing contact details on the latest generated lead file.
func (c *ContactFiller) Run(ctx context.Context) (*ContactStats, error) {
	input := c.InputFile
	if input == "" {
		latest, err := sheet.LatestGenerated(c.cfg.Paths.OutputDir)
		if err != nil {
			return nil, err
		}
		input = latest
	}

	table, err := sheet.Read(input)
	if err != nil {
		return nil, err
	}

	stats := &ContactStats{Total: table.Len(), Input: input}

	// Snapshot every prompt field up front: workers never touch the shared
	// table, so the sink can mutate it freely.
	var missing []contactItem
	for i := 0; i < table.Len(); i++ {
		if !lead.IsPlaceholder(table.Get(i, "phone")) {
			continue
		}
		city := table.Get(i, "search_city")
		if city == "" {
			city = table.Get(i, "city")
		}
		missing = append(missing, contactItem{
			idx:     i,
			name:    table.Get(i, "name"),
			company: table.Get(i, "company"),
			city:    city,
			role:    table.Get(i, "role"),
		})
	}
	stats.Missing = len(missing)

	zap.L().Info("contacts: starting",
		zap.String("input", input),
		zap.Int("total", stats.Total),
		zap.Int("missing_phone", stats.Missing),
		zap.Int("workers", c.cfg.Contacts.Workers),
	)

	finish := recordRun(ctx, c.runs, store.RunKindContacts)
	progress := dispatch.NewProgress(len(missing))

	handler := func(ctx context.Context, item contactItem) (lead.Contact, error) {
		prompt := contactPrompt(item.name, item.company, item.city, item.role)
		contact, oc := search.Object[lead.Contact](ctx, c.client, prompt)
		if oc.Status != lead.StatusSuccess {
			return lead.Contact{}, oc.Err
		}
		return contact, nil
	}

	sink := func(item contactItem, contact lead.Contact, err error) {
		n := progress.Record(err == nil)
		stats.Processed++
		name := truncate(item.name, 28)
		if err != nil {
			stats.Errors++
			zap.L().Warn("contacts: row failed",
				zap.Int("completed", n),
				zap.Int("total", len(missing)),
				zap.String("name", name),
				zap.String("error", truncate(err.Error(), 30)),
			)
			return
		}

		applied := ApplyContact(table, item.idx, contact)
		if applied.Phone {
			stats.FoundPhone++
		}
		if applied.Email {
			stats.FoundEmail++
		}
		zap.L().Info("contacts: row done",
			zap.Int("completed", n),
			zap.Int("total", len(missing)),
			zap.String("name", name),
			zap.Bool("found_phone", applied.Phone),
			zap.Int("phones_found", stats.FoundPhone),
		)
	}

	if err := dispatch.Run(ctx, c.cfg.Contacts.Workers, missing, handler, sink); err != nil {
		finish(err, stats)
		return stats, eris.Wrap(err, "contacts: dispatch")
	}

	out := sheet.DatedPath(c.cfg.Paths.OutputDir, "generated_leads_enriched", c.now())
	if err := sheet.Write(table, out); err != nil {
		finish(err, stats)
		return stats, err
	}
	stats.Output = out

	hasPhone, hasEmail := contactCoverage(table)
	zap.L().Info("contacts: complete",
		zap.Int("processed", stats.Processed),
		zap.Int("errors", stats.Errors),
		zap.Int("new_phones", stats.FoundPhone),
		zap.Int("new_emails", stats.FoundEmail),
		zap.Int("total_phones", hasPhone),
		zap.Int("total_emails", hasEmail),
		zap.String("output", out),
	)
	finish(nil, stats)
	return stats, nil
}

// contactCoverage counts rows with a real phone and a real email.
func contactCoverage(t *sheet.Table) (phones, emails int) {
	for i := 0; i < t.Len(); i++ {
		if !lead.IsPlaceholder(t.Get(i, "phone")) {
			phones++
		}
		if strings.Contains(t.Get(i, "email"), "@") {
			emails++
		}
	}
	return phones, emails
}
