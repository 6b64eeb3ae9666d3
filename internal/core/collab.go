package core

import (
	"context"
	"time"
)

// TranscriptEntry is one chat line handed to the transcript sink.
type TranscriptEntry struct {
	Room      string
	Author    string
	Text      string
	CreatedAt time.Time
}

// TranscriptSink persists chat lines outside the hub loop. Append errors are
// the sink's own concern; the hub only logs them.
type TranscriptSink interface {
	Append(ctx context.Context, entry TranscriptEntry) error
}

// Participation describes a room join the backend wants to hear about.
type Participation struct {
	Room     string
	UserID   string
	Username string
	Email    string
}

// ParticipantNotifier pushes join notifications to an external backend.
// Best-effort: the hub never blocks on it and discards its outcome.
type ParticipantNotifier interface {
	NotifyJoin(ctx context.Context, p Participation) error
}

// JobRunner executes fire-and-forget work outside the hub loop. Submit
// returns false when the job was rejected (queue full or shut down).
type JobRunner interface {
	Submit(fn func()) bool
}

// Stats receives hub state changes for instrumentation.
type Stats interface {
	ConnectionsActive(n int)
	RoomsActive(n int)
	MessageRelayed()
	SideJobDropped()
}

type noopStats struct{}

func (noopStats) ConnectionsActive(int) {}
func (noopStats) RoomsActive(int)       {}
func (noopStats) MessageRelayed()       {}
func (noopStats) SideJobDropped()       {}
