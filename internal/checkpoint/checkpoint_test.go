package checkpoint

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/lead"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "out", "enrichment_checkpoint.json"))
}

func TestLoad_MissingFileReturnsEmptyState(t *testing.T) {
	st := tempStore(t)
	state, err := st.Load()
	require.NoError(t, err)
	assert.Zero(t, state.Len())
	assert.False(t, state.Done(0))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	st := tempStore(t)

	state := NewState()
	require.NoError(t, state.Mark(0, lead.Enrichment{
		VerifiedAtCompany: "Yes",
		VerifiedPhone:     "0412345678",
		Status:            lead.StatusSuccess,
		LastEnriched:      "2026-08-31T10:00:00Z",
	}))
	require.NoError(t, state.Mark(7, lead.Enrichment{
		Status: lead.StatusParseError,
		Error:  "invalid character 'x'",
	}))
	require.NoError(t, st.Save(state))

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 7}, loaded.Indices())
	assert.True(t, loaded.Done(7))
	assert.False(t, loaded.Done(3))

	var rec lead.Enrichment
	ok, err := loaded.Record(0, &rec)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0412345678", rec.VerifiedPhone)
	assert.Equal(t, lead.StatusSuccess, rec.Status)

	ok, err = loaded.Record(3, &rec)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSave_WireFormatStable(t *testing.T) {
	st := tempStore(t)

	state := NewState()
	require.NoError(t, state.Mark(3, map[string]string{"enrichment_status": "success"}))
	require.NoError(t, st.Save(state))

	data, err := os.ReadFile(st.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"processed_indices":[3]`)
	assert.Contains(t, string(data), `"enrichments":{"3":`)
}

func TestSave_OverwritesWholeState(t *testing.T) {
	st := tempStore(t)

	first := NewState()
	require.NoError(t, first.Mark(1, map[string]string{"a": "1"}))
	require.NoError(t, first.Mark(2, map[string]string{"a": "2"}))
	require.NoError(t, st.Save(first))

	second := NewState()
	require.NoError(t, second.Mark(9, map[string]string{"a": "9"}))
	require.NoError(t, st.Save(second))

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, []int{9}, loaded.Indices())
}

func TestSave_ConcurrentSavesDoNotCorrupt(t *testing.T) {
	st := tempStore(t)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state := NewState()
			_ = state.Mark(i, map[string]int{"n": i})
			assert.NoError(t, st.Save(state))
		}()
	}
	wg.Wait()

	// Whichever writer won, the file must decode as one full state.
	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
}

func TestReset(t *testing.T) {
	st := tempStore(t)
	require.NoError(t, st.Reset()) // no file yet

	state := NewState()
	require.NoError(t, state.Mark(0, map[string]string{}))
	require.NoError(t, st.Save(state))
	require.NoError(t, st.Reset())

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Zero(t, loaded.Len())
}
