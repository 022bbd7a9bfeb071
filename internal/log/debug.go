// Package log provides opt-in debug logging for git-edit-index. The
// terminal belongs to the user's editor and to git's own interactive
// output, so diagnostics never go to stderr; they are discarded unless
// --debug-log points them at a file.
package log

import (
	"log"
	"os"
	"sync"
)

// debugWriter writes log output to a file when one is configured and
// drops it otherwise. It implements io.Writer so the standard logger
// can provide timestamps and formatting.
type debugWriter struct {
	mu   sync.Mutex
	file *os.File
}

var (
	writer    = &debugWriter{}
	stdLogger = log.New(writer, "", log.LstdFlags|log.Lmicroseconds)
)

func (w *debugWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return len(p), nil
	}
	n, err := w.file.Write(p)
	// Flushed per message: the process usually exits right after the
	// interesting line.
	_ = w.file.Sync()
	return n, err
}

// SetFile starts appending debug output to path, creating the file if
// needed. An empty path turns logging back off.
func SetFile(path string) error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.file != nil {
		_ = writer.file.Close()
		writer.file = nil
	}
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		return err
	}
	writer.file = f
	return nil
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Close closes the debug log file if one is open.
func Close() error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.file == nil {
		return nil
	}
	err := writer.file.Close()
	writer.file = nil
	return err
}
