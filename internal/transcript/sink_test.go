package transcript

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmarkin/roomcast-server/internal/core"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"room-1", "room-1"},
		{"room_1", "room_1"},
		{"room 1", "room_1"},
		{"a/b\\c", "a_b_c"},
		{"Алиса", "_____"},
		{"", "unknown"},
	}

	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAppendCreatesDirAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "transcripts")
	sink := NewSink(dir, nil)

	ts := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	entry := core.TranscriptEntry{Room: "r1", Author: "Alice", Text: "hi", CreatedAt: ts}
	if err := sink.Append(context.Background(), entry); err != nil {
		t.Fatalf("append: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "r1__Alice.log"))
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	want := "[2026-08-31T12:00:00Z] (chat) Alice: hi\n"
	if string(data) != want {
		t.Fatalf("line mismatch:\n got %q\nwant %q", string(data), want)
	}
}

func TestAppendIsAppendOnly(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(dir, nil)

	ts := time.Now()
	for _, text := range []string{"one", "two"} {
		entry := core.TranscriptEntry{Room: "r", Author: "a", Text: text, CreatedAt: ts}
		if err := sink.Append(context.Background(), entry); err != nil {
			t.Fatalf("append %q: %v", text, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "r__a.log"))
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[0], "one") || !strings.HasSuffix(lines[1], "two") {
		t.Fatalf("unexpected transcript contents: %q", string(data))
	}
}

func TestResolveDirEnvFallback(t *testing.T) {
	want := t.TempDir()
	t.Setenv(envTranscriptDir, want)

	sink := NewSink("", nil)
	if sink.Dir() != want {
		t.Fatalf("dir = %q, want %q", sink.Dir(), want)
	}
}
