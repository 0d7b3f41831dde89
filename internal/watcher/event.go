package watcher

import (
	"log/slog"
	"time"
)

// EventType says what happened to a file.
type EventType string

// A file is announced once it has settled: unchanged for the settle delay.
const (
	EventAdded    EventType = "added"
	EventModified EventType = "modified"
	EventRemoved  EventType = "removed"
)

func (t EventType) String() string { return string(t) }

// Event is a settled change to a file under the library root.
// Size and ModTime are zero for EventRemoved.
type Event struct {
	Type    EventType
	Path    string
	Size    int64
	ModTime time.Time
}

// LogValue groups the event under one log attribute.
func (e Event) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", string(e.Type)),
		slog.String("path", e.Path),
		slog.Int64("size", e.Size),
	)
}
