// Package logx provides the append-only text logger shared by every
// automation component. One Logger instance is created at startup and passed
// down by handle; components never open the log file themselves.
package logx

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Line format written to the log file. The trailing timestamp uses the same
// day-first layout as the dedup store.
const timeLayout = "02/01/2006 15:04:05"

// Logger appends leveled text lines to a single log file. The zero value is
// unusable; use New. Safe for concurrent use.
type Logger struct {
	mu      sync.Mutex
	path    string
	enabled bool
	now     func() time.Time // overridable in tests
}

// New returns a Logger appending to path. When enabled is false every log
// call is a no-op, matching the log_on setting.
func New(path string, enabled bool) *Logger {
	return &Logger{path: path, enabled: enabled, now: time.Now}
}

// Nop returns a disabled logger, handy as a default collaborator in tests.
func Nop() *Logger {
	return &Logger{enabled: false, now: time.Now}
}

// Success records a SUCCESS line attributed to source.
func (l *Logger) Success(msg, source string) {
	l.write("SUCCESS", msg, source)
}

// Error records an ERROR line attributed to source.
func (l *Logger) Error(msg, source string) {
	l.write("ERROR", msg, source)
}

func (l *Logger) write(level, msg, source string) {
	if l == nil || !l.enabled {
		return
	}
	line := fmt.Sprintf("%s: %s (%s) %s\n", level, msg, source, l.now().Format(timeLayout))

	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return // logging must never take down the automation
	}
	defer f.Close()
	_, _ = f.WriteString(line)
}
