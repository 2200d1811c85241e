package watcher

import "time"

// EventType is the kind of change observed on the watched file.
type EventType int

const (
	// EventModified is emitted when the file was written or replaced and
	// has settled.
	EventModified EventType = iota
	// EventRemoved is emitted when the file no longer exists.
	EventRemoved
)

func (t EventType) String() string {
	switch t {
	case EventModified:
		return "modified"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is one settled change.
type Event struct {
	Type    EventType
	Path    string
	Size    int64
	ModTime time.Time
}
