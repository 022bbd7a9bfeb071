package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetWriter(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		_ = Close()
	})
	_ = SetFile("")
}

func TestPrintfWithoutFileIsDiscarded(t *testing.T) {
	resetWriter(t)

	// Must not panic or block; output has nowhere to go.
	Printf("status: %d entries", 3)
}

func TestSetFileWritesMessages(t *testing.T) {
	resetWriter(t)

	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, SetFile(path))

	Printf("perform: git %s", "reset -- file.txt")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "perform: git reset -- file.txt")
}

func TestSetFileAppends(t *testing.T) {
	resetWriter(t)

	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, SetFile(path))
	Printf("first")
	require.NoError(t, Close())

	require.NoError(t, SetFile(path))
	Printf("second")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
	assert.Less(t, strings.Index(string(data), "first"), strings.Index(string(data), "second"))
}

func TestSetFileFailure(t *testing.T) {
	resetWriter(t)

	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o500)) //nolint:gosec
	t.Cleanup(func() {
		_ = os.Chmod(dir, 0o700) //nolint:gosec
	})

	err := SetFile(filepath.Join(dir, "debug.log"))
	require.Error(t, err)

	// Logging after a failed SetFile must be a no-op, not a crash.
	Printf("dropped")
}

func TestCloseWithoutFile(t *testing.T) {
	resetWriter(t)
	assert.NoError(t, Close())
}
