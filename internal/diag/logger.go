// Package diag provides the optional diagnostic subsystem: a buffered,
// size-rotated, append-only log of every resolver and mutator decision, and
// a best-effort preview of live response streams. Nothing in this package
// may stall or fail request processing; every I/O fault is reported to the
// console channel and swallowed.
package diag

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultMaxLogSize is the rotation ceiling when none is configured.
	DefaultMaxLogSize = 10 * 1024 * 1024

	// flushLineLimit force-flushes the buffer synchronously when reached.
	flushLineLimit = 50

	// flushDelay is the debounce interval for the asynchronous flush.
	flushDelay = 100 * time.Millisecond

	// counterWrap keeps the correlation counters well below overflow.
	counterWrap = 1_000_000_000

	// serializationPlaceholder replaces values that cannot be marshaled.
	serializationPlaceholder = "[unserializable]"
)

// Logger is a process-lifetime append-only log. The file name is derived
// from the session start time so concurrent processes never collide. It is
// never explicitly closed.
type Logger struct {
	mu      sync.Mutex
	dir     string
	base    string // file name stem without extension
	path    string
	maxSize int64
	buf     []string
	timer   *time.Timer
	part    int
	reqSeq  uint64
	respSeq uint64
}

// now is a function variable so tests can pin the session timestamp.
var now = time.Now

// New creates a logger writing under dir. A maxSize of zero or less selects
// DefaultMaxLogSize.
func New(dir string, maxSize int64) (*Logger, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxLogSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	base := "thinkgate-" + now().Format("2006-01-02_15-04-05.000")
	l := &Logger{
		dir:     dir,
		base:    base,
		path:    filepath.Join(dir, base+".log"),
		maxSize: maxSize,
	}
	return l, nil
}

// Path returns the current log file path.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// NextRequestID returns the next request correlation id, wrapping safely.
func (l *Logger) NextRequestID() uint64 {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reqSeq = l.reqSeq%counterWrap + 1
	return l.reqSeq
}

// NextResponseID returns the next response correlation id, wrapping safely.
func (l *Logger) NextResponseID() uint64 {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.respSeq = l.respSeq%counterWrap + 1
	return l.respSeq
}

// Printf appends a formatted, timestamped line to the buffer.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	line := now().Format("15:04:05.000") + " " + fmt.Sprintf(format, args...)
	l.append(line)
}

// JSON appends a labeled JSON dump of v. Serialization faults (circular
// references, unsupported types) are replaced with a placeholder so logging
// continues.
func (l *Logger) JSON(label string, v any) {
	if l == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		data = []byte(serializationPlaceholder)
	}
	l.Printf("%s %s", label, data)
}

// Section appends a visual boundary line.
func (l *Logger) Section(title string) {
	if l == nil {
		return
	}
	l.append("===== " + strings.TrimSpace(title) + " =====")
}

// Flush writes any buffered lines now. Exposed for shutdown paths and tests.
func (l *Logger) Flush() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.flushLocked()
}

// append buffers a line and arranges for it to reach disk: synchronously
// once the line ceiling is hit, otherwise via the debounced timer.
func (l *Logger) append(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf = append(l.buf, line)
	if len(l.buf) >= flushLineLimit {
		l.flushLocked()
		return
	}
	if l.timer == nil {
		l.timer = time.AfterFunc(flushDelay, l.timedFlush)
	}
}

func (l *Logger) timedFlush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timer = nil
	l.flushLocked()
}

// flushLocked rotates if needed and appends the buffered lines to the file.
// Caller must hold mu. Write failures are reported and dropped.
func (l *Logger) flushLocked() {
	if len(l.buf) == 0 {
		return
	}
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	lines := strings.Join(l.buf, "\n") + "\n"
	l.buf = l.buf[:0]

	l.rotateLocked()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Error("diag.flush.open.failed", "path", l.path, "error", err)
		return
	}
	if _, err := f.WriteString(lines); err != nil {
		slog.Error("diag.flush.write.failed", "path", l.path, "error", err)
	}
	if err := f.Close(); err != nil {
		slog.Error("diag.flush.close.failed", "path", l.path, "error", err)
	}
}

// rotateLocked renames the current file to a numbered part file once the
// size ceiling is exceeded and starts a fresh file with a continuation
// marker. Rotation failures are reported and logging continues on the
// current file.
func (l *Logger) rotateLocked() {
	st, err := os.Stat(l.path)
	if err != nil || st.Size() < l.maxSize {
		return
	}
	l.part++
	partPath := filepath.Join(l.dir, fmt.Sprintf("%s.part%d.log", l.base, l.part))
	if err := os.Rename(l.path, partPath); err != nil {
		slog.Error("diag.rotate.failed", "path", l.path, "error", err)
		l.part--
		return
	}
	marker := fmt.Sprintf("--- continued from part %d ---\n", l.part)
	if err := os.WriteFile(l.path, []byte(marker), 0o644); err != nil {
		slog.Error("diag.rotate.marker.failed", "path", l.path, "error", err)
	}
}
