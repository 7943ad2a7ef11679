// Package logging provides leveled logging and sample tracing for obsim.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A TraceLogger for per-λ JSONL sample traces (<results>/trace.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nvandessel/obsim/internal/constants"
)

// LevelTrace is a custom slog level below Debug. At this level every
// estimated point is also logged to stderr.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing text records to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TraceEvent is one line of the sample trace.
type TraceEvent struct {
	RunID       string  `json:"run_id"`
	Model       string  `json:"model"`
	Index       int     `json:"index"`
	Lambda      float64 `json:"lambda"`
	Probability float64 `json:"probability"`
	Successes   int     `json:"successes"`
	Steps       int     `json:"steps"`
	PHat        float64 `json:"p_hat"`
	Entropy     float64 `json:"entropy"`
}

// TraceLogger appends TraceEvents to a JSONL file.
// It is safe for concurrent use. A nil TraceLogger is safe to use;
// all methods are no-ops on nil receiver.
type TraceLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewTraceLogger opens dir/trace.jsonl for append.
// At "info" level returns nil and creates nothing. Also returns nil if the
// file cannot be opened.
func NewTraceLogger(dir string, level string) *TraceLogger {
	if ParseLevel(level) == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil
	}

	path := filepath.Join(dir, constants.TraceFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil
	}

	return &TraceLogger{file: f}
}

// Log writes ev as a single JSONL line with a "time" field added.
// Safe to call on nil receiver.
func (tl *TraceLogger) Log(ev TraceEvent) {
	if tl == nil || tl.file == nil {
		return
	}

	line := struct {
		Time string `json:"time"`
		TraceEvent
	}{
		Time:       time.Now().UTC().Format(time.RFC3339Nano),
		TraceEvent: ev,
	}

	data, err := json.Marshal(line)
	if err != nil {
		return
	}
	data = append(data, '\n')

	tl.mu.Lock()
	defer tl.mu.Unlock()
	if tl.file == nil {
		return
	}
	_, _ = tl.file.Write(data)
}

// Close closes the underlying file. Safe to call on nil receiver.
func (tl *TraceLogger) Close() {
	if tl == nil {
		return
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.file != nil {
		tl.file.Close()
		tl.file = nil
	}
}
