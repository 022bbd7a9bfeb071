package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExec replaces execCommand for the duration of one test.
func stubExec(t *testing.T, fn func(name string, args ...string) *exec.Cmd) {
	t.Helper()
	orig := execCommand
	execCommand = fn
	t.Cleanup(func() { execCommand = orig })
}

// shOut builds a command that prints the given shell-quoted output.
func shOut(script string) *exec.Cmd {
	return exec.Command("sh", "-c", script)
}

func TestStatusBuildsPorcelainCommand(t *testing.T) {
	var gotName string
	var gotArgs []string
	stubExec(t, func(name string, args ...string) *exec.Cmd {
		gotName = name
		gotArgs = args
		return shOut(`printf 'M file1\0M file2\0'`)
	})

	out, err := NewService().Status(IgnoredOmit)

	require.NoError(t, err)
	assert.Equal(t, "git", gotName)
	assert.Equal(t, []string{"status", "--porcelain", "-z"}, gotArgs)
	assert.Equal(t, "M file1\x00M file2\x00", out)
}

func TestStatusWithIgnoredMode(t *testing.T) {
	var gotArgs []string
	stubExec(t, func(_ string, args ...string) *exec.Cmd {
		gotArgs = args
		return shOut(`printf ''`)
	})

	_, err := NewService().Status(IgnoredTraditional)

	require.NoError(t, err)
	assert.Equal(t, []string{"status", "--porcelain", "-z", "--ignored=traditional"}, gotArgs)
}

func TestStatusFailureCarriesExitCode(t *testing.T) {
	stubExec(t, func(string, ...string) *exec.Cmd {
		return shOut("exit 128")
	})

	_, err := NewService().Status(IgnoredOmit)

	var exitErr *ExitCodeError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 128, exitErr.Code)
}

func TestRepoRootTrimsAndCaches(t *testing.T) {
	calls := 0
	stubExec(t, func(string, ...string) *exec.Cmd {
		calls++
		return shOut("echo '/path/to/repo'")
	})

	s := NewService()
	root, err := s.RepoRoot()
	require.NoError(t, err)
	assert.Equal(t, "/path/to/repo", root)

	root, err = s.RepoRoot()
	require.NoError(t, err)
	assert.Equal(t, "/path/to/repo", root)
	assert.Equal(t, 1, calls)
}

func TestConfigValue(t *testing.T) {
	t.Run("set value is trimmed", func(t *testing.T) {
		var gotArgs []string
		stubExec(t, func(_ string, args ...string) *exec.Cmd {
			gotArgs = args
			return shOut("echo 'act'")
		})

		value, set := NewService().ConfigValue("editIndex.onEmptyBuffer")

		assert.Equal(t, []string{"config", "editIndex.onEmptyBuffer"}, gotArgs)
		assert.True(t, set)
		assert.Equal(t, "act", value)
	})

	t.Run("non-zero exit means unset", func(t *testing.T) {
		stubExec(t, func(string, ...string) *exec.Cmd {
			return shOut("exit 1")
		})

		value, set := NewService().ConfigValue("editIndex.onEmptyBuffer")

		assert.False(t, set)
		assert.Empty(t, value)
	})
}

func TestEditorCommandSplitsFields(t *testing.T) {
	stubExec(t, func(string, ...string) *exec.Cmd {
		return shOut("echo 'gvim -f'")
	})

	cmd, err := NewService().EditorCommand()

	require.NoError(t, err)
	assert.Equal(t, []string{"gvim", "-f"}, cmd)
}

func TestEditorCommandEmptyIsError(t *testing.T) {
	stubExec(t, func(string, ...string) *exec.Cmd {
		return shOut("echo ''")
	})

	_, err := NewService().EditorCommand()
	assert.Error(t, err)
}

func TestEditRunsEditorOnFile(t *testing.T) {
	var editorName string
	var editorArgs []string
	stubExec(t, func(name string, args ...string) *exec.Cmd {
		if name == "git" {
			return shOut("echo 'gvim -f'")
		}
		editorName = name
		editorArgs = args
		return exec.Command("true")
	})

	err := NewService().Edit("/tmp/listing")

	require.NoError(t, err)
	assert.Equal(t, "gvim", editorName)
	assert.Equal(t, []string{"-f", "/tmp/listing"}, editorArgs)
}

func TestEditPropagatesEditorExitCode(t *testing.T) {
	stubExec(t, func(name string, _ ...string) *exec.Cmd {
		if name == "git" {
			return shOut("echo 'vim'")
		}
		return shOut("exit 3")
	})

	err := NewService().Edit("/tmp/listing")

	var exitErr *ExitCodeError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
}

func TestPerformResolvesPathAndAddsSeparator(t *testing.T) {
	var gotName string
	var gotArgs []string
	stubExec(t, func(name string, args ...string) *exec.Cmd {
		gotName = name
		gotArgs = args
		return exec.Command("true")
	})

	s := &Service{repoRoot: "/repo"}
	err := s.Perform([]string{"rm", "--cached"}, "dir/file.txt", PerformOpts{})

	require.NoError(t, err)
	assert.Equal(t, "git", gotName)
	assert.Equal(t, []string{"rm", "--cached", "--", filepath.Join("/repo", "dir/file.txt")}, gotArgs)
}

func TestPerformIgnoresExitStatus(t *testing.T) {
	stubExec(t, func(string, ...string) *exec.Cmd {
		// Patch mode exits non-zero when the user quits hunk selection.
		return shOut("exit 1")
	})

	s := &Service{repoRoot: "/repo"}
	assert.NoError(t, s.Perform([]string{"add", "--patch"}, "file.txt", PerformOpts{ShowStdout: true}))
}

func TestRemove(t *testing.T) {
	t.Run("regular file", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "file.txt"), []byte("x"), 0o600))

		s := &Service{repoRoot: root}
		require.NoError(t, s.Remove("file.txt"))
		assert.NoFileExists(t, filepath.Join(root, "file.txt"))
	})

	t.Run("symlink removes the link only", func(t *testing.T) {
		root := t.TempDir()
		target := filepath.Join(root, "target.txt")
		require.NoError(t, os.WriteFile(target, []byte("x"), 0o600))
		require.NoError(t, os.Symlink(target, filepath.Join(root, "link.txt")))

		s := &Service{repoRoot: root}
		require.NoError(t, s.Remove("link.txt"))
		assert.NoFileExists(t, filepath.Join(root, "link.txt"))
		assert.FileExists(t, target)
	})

	t.Run("directory tree", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "dir", "sub"), 0o750))
		require.NoError(t, os.WriteFile(filepath.Join(root, "dir", "sub", "f"), []byte("x"), 0o600))

		s := &Service{repoRoot: root}
		require.NoError(t, s.Remove("dir"))
		assert.NoDirExists(t, filepath.Join(root, "dir"))
	})

	t.Run("missing path is an error", func(t *testing.T) {
		s := &Service{repoRoot: t.TempDir()}
		assert.Error(t, s.Remove("nope.txt"))
	})
}

func TestValidIgnoredMode(t *testing.T) {
	assert.True(t, ValidIgnoredMode(IgnoredOmit))
	assert.True(t, ValidIgnoredMode(IgnoredNo))
	assert.True(t, ValidIgnoredMode(IgnoredTraditional))
	assert.True(t, ValidIgnoredMode(IgnoredMatching))
	assert.False(t, ValidIgnoredMode(IgnoredMode("bogus")))
}

func TestExitCodeErrorMessage(t *testing.T) {
	err := &ExitCodeError{Cmd: "git status", Code: 128}
	assert.Equal(t, "git status exited with code 128", err.Error())
}
