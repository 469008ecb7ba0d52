// Package browser implements the directory browser navigation state machine
// and the single file resolver view.
package browser

import (
	"github.com/HaiFongPan/pubdrop/internal/remote"
)

// User facing failure messages. Error details are logged, never shown.
const (
	ListFailedMessage = "Failed to load files. Please check the storage ID."
	FileFailedMessage = "File not found or access denied."
)

// Status of a directory listing.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of the navigation state.
type State struct {
	StorageID string
	Path      string
	Entries   []remote.Entry
	Status    Status
	Error     string
	// Seq is the sequence number of the most recent load.
	Seq uint64
}

func (s State) clone() State {
	if s.Entries != nil {
		entries := make([]remote.Entry, len(s.Entries))
		copy(entries, s.Entries)
		s.Entries = entries
	}
	return s
}
