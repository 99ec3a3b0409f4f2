// Package checkpoint persists which work items a run has completed so a
// re-run can skip them. The whole state is one small JSON document,
// rewritten wholesale on every save; a crash between saves loses at most
// the un-checkpointed tail, which is redone idempotently on the next run.
package checkpoint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/rotisserie/eris"
)

// State is a snapshot of processed row indices and their result records.
// Marking an index processed always stores its record in the same call, so
// every persisted index has a corresponding entry.
type State struct {
	processed map[int]bool
	records   map[int]json.RawMessage
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		processed: make(map[int]bool),
		records:   make(map[int]json.RawMessage),
	}
}

// Done reports whether idx has already been processed.
func (s *State) Done(idx int) bool {
	return s.processed[idx]
}

// Mark records the result for idx and adds it to the processed set.
func (s *State) Mark(idx int, record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return eris.Wrap(err, "checkpoint: marshal record")
	}
	s.records[idx] = raw
	s.processed[idx] = true
	return nil
}

// Len returns the number of processed indices.
func (s *State) Len() int {
	return len(s.processed)
}

// Record decodes the stored record for idx into out; ok is false when idx
// has no record.
func (s *State) Record(idx int, out any) (bool, error) {
	raw, ok := s.records[idx]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, eris.Wrapf(err, "checkpoint: decode record %d", idx)
	}
	return true, nil
}

// Indices returns the processed indices in ascending order.
func (s *State) Indices() []int {
	out := make([]int, 0, len(s.processed))
	for idx := range s.processed {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// stateDoc is the wire format, unchanged from earlier generations of the
// pipeline so existing checkpoint files keep working.
type stateDoc struct {
	ProcessedIndices []int                      `json:"processed_indices"`
	Enrichments      map[string]json.RawMessage `json:"enrichments"`
}

func (s *State) MarshalJSON() ([]byte, error) {
	doc := stateDoc{
		ProcessedIndices: s.Indices(),
		Enrichments:      make(map[string]json.RawMessage, len(s.records)),
	}
	for idx, raw := range s.records {
		doc.Enrichments[strconv.Itoa(idx)] = raw
	}
	return json.Marshal(doc)
}

func (s *State) UnmarshalJSON(data []byte) error {
	var doc stateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	s.processed = make(map[int]bool, len(doc.ProcessedIndices))
	s.records = make(map[int]json.RawMessage, len(doc.Enrichments))
	for _, idx := range doc.ProcessedIndices {
		s.processed[idx] = true
	}
	for key, raw := range doc.Enrichments {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return eris.Wrapf(err, "checkpoint: bad enrichment key %q", key)
		}
		s.records[idx] = raw
	}
	return nil
}

// Store reads and writes the durable checkpoint file. Saves are serialized
// by an internal mutex and replace the file atomically, so concurrent
// triggers cannot interleave partial writes; last writer wins whole-state.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store over the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the checkpoint file path.
func (st *Store) Path() string {
	return st.path
}

// Load returns the last saved state, or an empty state when no checkpoint
// file exists yet.
func (st *Store) Load() (*State, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	data, err := os.ReadFile(st.path)
	if os.IsNotExist(err) {
		return NewState(), nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "checkpoint: read file")
	}

	state := NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, eris.Wrap(err, "checkpoint: decode file")
	}
	return state, nil
}

// Save atomically overwrites the checkpoint file with the full state.
func (st *Store) Save(state *State) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	data, err := json.Marshal(state)
	if err != nil {
		return eris.Wrap(err, "checkpoint: encode state")
	}

	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrap(err, "checkpoint: create dir")
	}

	tmp, err := os.CreateTemp(dir, ".checkpoint-*")
	if err != nil {
		return eris.Wrap(err, "checkpoint: create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrap(err, "checkpoint: write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "checkpoint: close temp file")
	}
	if err := os.Rename(tmpName, st.path); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "checkpoint: replace file")
	}
	return nil
}

// Reset removes the checkpoint file if present.
func (st *Store) Reset() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	err := os.Remove(st.path)
	if err != nil && !os.IsNotExist(err) {
		return eris.Wrap(err, "checkpoint: remove file")
	}
	return nil
}
