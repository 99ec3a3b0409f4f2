package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadgen-cli/internal/store"
)

func TestFormatRunsList(t *testing.T) {
	started := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	finished := started.Add(90 * time.Second)

	runs := []store.Run{
		{
			ID:         "run-1",
			Kind:       store.RunKindGenerate,
			Status:     store.RunStatusCompleted,
			Stats:      json.RawMessage(`{"unique":42}`),
			StartedAt:  started,
			FinishedAt: &finished,
		},
		{
			ID:        "run-2",
			Kind:      store.RunKindEnrich,
			Status:    store.RunStatusRunning,
			StartedAt: started,
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)
	out := buf.String()

	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "generate")
	assert.Contains(t, out, "1m30s")
	assert.Contains(t, out, `{"unique":42}`)
	assert.Contains(t, out, "run-2")
	assert.Contains(t, out, "running")
}
