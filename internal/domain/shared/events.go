package shared

import "time"

// Change describes the mutation that produced a published snapshot.
// Version increases by one for every committed mutation of a store.
type Change struct {
	Store    string    `json:"store"`
	Op       string    `json:"op"`
	RecordID string    `json:"record_id,omitempty"`
	Version  uint64    `json:"version"`
	At       time.Time `json:"at"`
}

// IsInitial reports whether the change describes the seeded initial state.
func (c Change) IsInitial() bool {
	return c.Version == 0
}
