package core

import (
	"context"
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// expectNoEvent asserts that nothing arrives on the channel within the window.
func expectNoEvent(t *testing.T, ch <-chan *Event, window time.Duration) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("expected no event, got kind %v: %+v", ev.Kind, ev)
	case <-time.After(window):
	}
}

// recordingSink captures transcript entries for assertions.
type recordingSink struct {
	entries chan TranscriptEntry
}

func newRecordingSink() *recordingSink {
	return &recordingSink{entries: make(chan TranscriptEntry, 16)}
}

func (s *recordingSink) Append(_ context.Context, entry TranscriptEntry) error {
	s.entries <- entry
	return nil
}

// recordingNotifier captures backend notifications for assertions.
type recordingNotifier struct {
	joins chan Participation
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{joins: make(chan Participation, 16)}
}

func (n *recordingNotifier) NotifyJoin(_ context.Context, p Participation) error {
	n.joins <- p
	return nil
}
