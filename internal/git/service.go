// Package git wraps the external collaborators of an edit-index session:
// the git status/config/var queries, the mutating git actions and the
// direct filesystem removal used for untracked files.
package git

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/chmouel/git-edit-index/internal/log"
)

// execCommand is used to spawn external processes. It's exposed as a
// package variable so tests can mock it and avoid depending on a real
// git binary or repository.
var execCommand = exec.Command

// ExitCodeError reports a failed external command whose exit code the
// process must propagate as its own. The command is assumed to have
// already written its diagnostics to the terminal, so callers print
// nothing on top of it.
type ExitCodeError struct {
	Cmd  string
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Cmd, e.Code)
}

// IgnoredMode selects how git reports ignored files in the status
// listing. The zero value omits them.
type IgnoredMode string

const (
	IgnoredOmit        IgnoredMode = ""
	IgnoredNo          IgnoredMode = "no"
	IgnoredTraditional IgnoredMode = "traditional"
	IgnoredMatching    IgnoredMode = "matching"
)

// ValidIgnoredMode reports whether mode is one of the accepted tokens.
func ValidIgnoredMode(mode IgnoredMode) bool {
	switch mode {
	case IgnoredOmit, IgnoredNo, IgnoredTraditional, IgnoredMatching:
		return true
	}
	return false
}

// PerformOpts controls stream suppression for a mutating git action.
// The defaults match the common case: swallow stdout, keep stderr.
type PerformOpts struct {
	// ShowStdout leaves the action's stdout attached to the terminal.
	// Patch mode needs it to display interactive hunks.
	ShowStdout bool
	// SuppressStderr swallows the action's stderr. Used only for the
	// checkout that follows unstaging, where failure is expected when
	// the file was never committed.
	SuppressStderr bool
}

// Service runs git commands and filesystem operations for a session.
// All calls are blocking; there is no internal concurrency.
type Service struct {
	repoRoot string
}

// NewService constructs a Service.
func NewService() *Service {
	return &Service{}
}

func (s *Service) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

// Status returns the raw porcelain status listing, NUL-separated so
// arbitrary path bytes survive. A non-zero git exit is returned as an
// ExitCodeError; git's own stderr stays attached to the terminal.
func (s *Service) Status(mode IgnoredMode) (string, error) {
	args := []string{"status", "--porcelain", "-z"}
	if mode != IgnoredOmit {
		args = append(args, "--ignored="+string(mode))
	}
	s.debugf("run: git %s", strings.Join(args, " "))

	cmd := execCommand("git", args...)
	cmd.Stderr = os.Stderr
	output, err := cmd.Output()
	if err != nil {
		return "", asExitCodeError("git status", err)
	}
	return string(output), nil
}

// RepoRoot returns the absolute path of the repository's top-level
// directory. The result is cached for the lifetime of the Service.
func (s *Service) RepoRoot() (string, error) {
	if s.repoRoot != "" {
		return s.repoRoot, nil
	}
	cmd := execCommand("git", "rev-parse", "--show-toplevel")
	cmd.Stderr = os.Stderr
	output, err := cmd.Output()
	if err != nil {
		return "", asExitCodeError("git rev-parse", err)
	}
	s.repoRoot = strings.TrimSpace(string(output))
	return s.repoRoot, nil
}

// ConfigValue looks up a dotted option in the git config store. A
// non-zero exit from git config means the option is unset, which is not
// an error.
func (s *Service) ConfigValue(name string) (string, bool) {
	cmd := execCommand("git", "config", name)
	output, err := cmd.Output()
	if err != nil {
		s.debugf("config %s: unset (%v)", name, err)
		return "", false
	}
	return strings.TrimSpace(string(output)), true
}

// EditorCommand resolves the editor the same way other git commands do,
// via GIT_EDITOR. The returned slice may hold a program plus flags
// (e.g. "gvim -f").
func (s *Service) EditorCommand() ([]string, error) {
	cmd := execCommand("git", "var", "GIT_EDITOR")
	cmd.Stderr = os.Stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, asExitCodeError("git var", err)
	}
	fields := strings.Fields(string(output))
	if len(fields) == 0 {
		return nil, errors.New("git var GIT_EDITOR returned no editor")
	}
	return fields, nil
}

// Edit runs the resolved editor on file with the terminal attached and
// blocks until the user closes it. A non-zero exit aborts the session
// with the editor's own exit code.
func (s *Service) Edit(file string) error {
	editor, err := s.EditorCommand()
	if err != nil {
		return err
	}
	s.debugf("edit: %s %s", strings.Join(editor, " "), file)

	// #nosec G204 -- the editor command comes from the user's own git configuration
	cmd := execCommand(editor[0], append(editor[1:], file)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return asExitCodeError(editor[0], err)
	}
	return nil
}

// Perform runs a mutating git action ("reset", "add -f", ...) on a
// single path. The path is resolved against the repository root first:
// the status listing is root-relative while the process may be running
// in a subdirectory. The "--" separator keeps paths that look like
// flags or refs from being misinterpreted. The action's exit status is
// ignored; in patch mode git exits non-zero when the user quits hunk
// selection, and the defensive checkout after unstaging is expected to
// fail for files that were never committed.
func (s *Service) Perform(action []string, path string, opts PerformOpts) error {
	root, err := s.RepoRoot()
	if err != nil {
		return err
	}

	args := append(append([]string{}, action...), "--", filepath.Join(root, path))
	s.debugf("perform: git %s", strings.Join(args, " "))

	cmd := execCommand("git", args...)
	cmd.Stdin = os.Stdin
	if opts.ShowStdout {
		cmd.Stdout = os.Stdout
	}
	if !opts.SuppressStderr {
		cmd.Stderr = os.Stderr
	}
	_ = cmd.Run()
	return nil
}

// Remove deletes path (relative to the repository root) from the
// filesystem without involving git. Files and symlinks are removed
// directly, anything else is treated as a directory tree.
func (s *Service) Remove(path string) error {
	root, err := s.RepoRoot()
	if err != nil {
		return err
	}

	target := filepath.Join(root, path)
	s.debugf("remove: %s", target)

	info, err := os.Lstat(target)
	if err != nil {
		return err
	}
	if info.Mode().IsRegular() || info.Mode()&os.ModeSymlink != 0 {
		return os.Remove(target)
	}
	return os.RemoveAll(target)
}

// asExitCodeError converts an exec failure into an ExitCodeError when
// the process ran and exited non-zero; other failures (binary missing)
// pass through wrapped.
func asExitCodeError(cmdName string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitCodeError{Cmd: cmdName, Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("%s: %w", cmdName, err)
}
