package dispatch

import "sync"

// Progress tallies work-item completions for reporting. All counters sit
// behind one mutex; nothing reads them for control flow.
type Progress struct {
	mu        sync.Mutex
	total     int
	completed int
	succeeded int
	errored   int
}

// NewProgress creates a tally over total expected items.
func NewProgress(total int) *Progress {
	return &Progress{total: total}
}

// Record counts one completion and returns the completion ordinal (1-based).
func (p *Progress) Record(ok bool) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed++
	if ok {
		p.succeeded++
	} else {
		p.errored++
	}
	return p.completed
}

// Snapshot returns the current counter values.
func (p *Progress) Snapshot() (total, completed, succeeded, errored int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total, p.completed, p.succeeded, p.errored
}
