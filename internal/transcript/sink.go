package transcript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmarkin/roomcast-server/internal/core"
)

const envTranscriptDir = "ROOMCAST_TRANSCRIPT_DIR"

// Sink appends chat lines to flat per-(room, author) text files. Files are
// append-only, never rotated, and created together with the directory on
// first use.
type Sink struct {
	dir string
	log zerolog.Logger
}

// NewSink builds a sink writing under dir. An empty dir falls back to the
// ROOMCAST_TRANSCRIPT_DIR environment variable, then to ./transcripts.
func NewSink(dir string, logger *zerolog.Logger) *Sink {
	lg := zerolog.Nop()
	if logger != nil {
		lg = *logger
	}
	return &Sink{dir: resolveDir(dir), log: lg}
}

// Dir returns the resolved transcript directory.
func (s *Sink) Dir() string {
	return s.dir
}

// Append writes one line of the form
//
//	[<RFC3339 timestamp>] (chat) <author>: <text>
//
// to the file for the entry's room/author pair.
func (s *Sink) Append(ctx context.Context, entry core.TranscriptEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create transcript dir: %w", err)
	}

	path := filepath.Join(s.dir, FileName(entry.Room, entry.Author))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] (chat) %s: %s\n",
		entry.CreatedAt.Format(time.RFC3339), entry.Author, entry.Text)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}

	s.log.Debug().Str("path", path).Msg("transcript line appended")
	return nil
}

// FileName derives the flat file name for a room/author pair.
func FileName(room, author string) string {
	return Sanitize(room) + "__" + Sanitize(author) + ".log"
}

// Sanitize replaces every rune outside [A-Za-z0-9_-] with an underscore.
// An empty input maps to "unknown" so a file name always exists.
func Sanitize(s string) string {
	if s == "" {
		return "unknown"
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

func resolveDir(dir string) string {
	if dir != "" {
		return dir
	}
	if env := os.Getenv(envTranscriptDir); env != "" {
		return env
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "transcripts"
	}
	return filepath.Join(cwd, "transcripts")
}
