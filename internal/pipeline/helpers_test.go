package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/search"
)

// fakeProvider answers prompts via fn and counts calls.
type fakeProvider struct {
	mu    sync.Mutex
	calls int
	fn    func(prompt string) (string, error)
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.fn(prompt)
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// newTestClient builds a search client with test-friendly timings.
func newTestClient(p search.Provider, attempts int) *search.Client {
	return search.New(p, search.Options{
		Attempts:   attempts,
		RetryDelay: time.Millisecond,
	})
}

// newTestConfig points all paths at a per-test temp directory.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Search:   config.SearchConfig{RetryDelay: time.Millisecond},
		Generate: config.RunConfig{Workers: 2, RetryAttempts: 2},
		Enrich:   config.RunConfig{Workers: 2, RetryAttempts: 2},
		Contacts: config.RunConfig{Workers: 2, RetryAttempts: 2},
		Checkpoint: config.CheckpointConfig{
			Path:     dir + "/checkpoint.json",
			Interval: 2,
		},
		Paths: config.PathsConfig{
			Plan:      dir + "/plan.yaml",
			Input:     dir + "/input_leads.xlsx",
			OutputDir: dir,
		},
	}
}
