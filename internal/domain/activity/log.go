package activity

import (
	"github.com/educrm/educrm-hub/pkg/idgen"
	"github.com/educrm/educrm-hub/pkg/timeutil"
)

// Log is an append-only feed kept newest-first. It has no size cap.
//
// Log is not safe for concurrent use; the owning store serialises access.
// Slices returned by Entries and Recent are never written to afterwards, so
// they can be handed out as part of immutable snapshots.
type Log struct {
	ids     idgen.Generator
	clock   timeutil.Clock
	entries []Record
	issued  map[string]struct{}
}

// NewLog creates a Log seeded with entries, which must already be
// newest-first.
func NewLog(ids idgen.Generator, clock timeutil.Clock, seed ...Record) *Log {
	if clock == nil {
		clock = timeutil.SystemClock
	}
	entries := make([]Record, len(seed))
	copy(entries, seed)
	issued := make(map[string]struct{}, len(seed))
	for _, rec := range seed {
		issued[rec.ID] = struct{}{}
	}
	return &Log{ids: ids, clock: clock, entries: entries, issued: issued}
}

// Record prepends a new entry and returns it.
func (l *Log) Record(kind Kind, message string) Record {
	rec := Record{
		ID:         l.nextID(),
		Kind:       kind,
		Message:    message,
		Timestamp:  timeutil.JustNow,
		RecordedAt: l.clock(),
	}

	next := make([]Record, len(l.entries)+1)
	next[0] = rec
	copy(next[1:], l.entries)
	l.entries = next
	return rec
}

// Entries returns every entry, newest first.
func (l *Log) Entries() []Record {
	return l.entries[:len(l.entries):len(l.entries)]
}

// Recent returns at most n entries, newest first.
func (l *Log) Recent(n int) []Record {
	if n < 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	return l.entries[:n:n]
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// nextID skips ids already used by seeded entries.
func (l *Log) nextID() string {
	for {
		id := l.ids.Next()
		if _, taken := l.issued[id]; !taken {
			l.issued[id] = struct{}{}
			return id
		}
	}
}
