package verify

import "sync"

// Log is the append-only history of a session. Readers get copies.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append adds e to the end of the log.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
}

// Entries returns a snapshot in append order.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Counts tallies entries per status.
func (l *Log) Counts() map[Status]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := map[Status]int{StatusSuccess: 0, StatusNotFound: 0, StatusDuplicate: 0}
	for _, e := range l.entries {
		out[e.Status]++
	}
	return out
}

func (l *Log) reset() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}
