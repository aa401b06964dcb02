package eventlog

import "sync"

// DefaultCapacity is how many recent decisions the process keeps.
const DefaultCapacity = 50

// Log is a fixed-capacity, insertion-ordered store of recent classification
// decisions. Once full, the oldest entry is evicted before each insert.
// One instance exists per process, constructed in main and handed to the
// components that need it; it is never persisted and is lost on restart.
//
// Append and List are safe for concurrent use. A List racing an Append
// observes either the pre- or post-append snapshot, never a torn entry.
type Log struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
}

// New creates an empty Log. capacity values below 1 fall back to
// DefaultCapacity.
func New(capacity int) *Log {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Log{
		capacity: capacity,
		entries:  make([]Entry, 0, capacity),
	}
}

// Append inserts an entry, evicting the oldest first when at capacity.
func (l *Log) Append(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) >= l.capacity {
		overflow := len(l.entries) - l.capacity + 1
		l.entries = append(l.entries[:0], l.entries[overflow:]...)
	}
	l.entries = append(l.entries, entry)
}

// List returns a snapshot of all entries in insertion order (oldest first).
// The returned slice is a copy; callers may hold it without racing
// subsequent appends.
func (l *Log) List() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports the current number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
