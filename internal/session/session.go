package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/chmouel/git-edit-index/internal/git"
	"github.com/chmouel/git-edit-index/internal/index"
)

// OnEmptyBufferOption is the git config option consulted when the user
// saves an empty listing.
const OnEmptyBufferOption = "editIndex.onEmptyBuffer"

// Recognized values for OnEmptyBufferOption.
const (
	emptyBufferAsk     = "ask"
	emptyBufferAct     = "act"
	emptyBufferNothing = "nothing"
)

var promptStyle = lipgloss.NewStyle().Bold(true)

// ConfigError reports a configured value this tool does not understand.
// Unlike external command failures it is the tool's own error, reported
// in git's message style and mapped to a local exit code.
type ConfigError struct {
	Option string
	Value  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("unsupported config value %s for %s", e.Value, e.Option)
}

// repository is the collaborator surface a session needs from
// internal/git. Tests substitute a fake.
type repository interface {
	Status(mode git.IgnoredMode) (string, error)
	ConfigValue(name string) (string, bool)
	Edit(file string) error
	Perform(action []string, path string, opts git.PerformOpts) error
	Remove(path string) error
}

var _ repository = (*git.Service)(nil)

// Session runs one status-edit round trip.
type Session struct {
	repo    repository
	ignored git.IgnoredMode

	// Prompt plumbing, swappable in tests.
	in         io.Reader
	out        io.Writer
	isTerminal func() bool
}

// New builds a Session over the given git service.
func New(repo *git.Service, ignored git.IgnoredMode) *Session {
	return &Session{
		repo:    repo,
		ignored: ignored,
		in:      os.Stdin,
		out:     os.Stderr,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// Run executes the whole session: snapshot, edit, reconcile. It returns
// nil when there was nothing to do.
func (s *Session) Run() error {
	raw, err := s.repo.Status(s.ignored)
	if err != nil {
		return err
	}
	orig := index.FromText(raw, index.SeparatorPorcelain)
	if orig.Empty() {
		return nil
	}

	edited, err := s.editIndex(orig)
	if err != nil {
		return err
	}

	// The trigger is the decoded index being empty, not the raw text: a
	// buffer holding only malformed lines counts as emptied too.
	if edited.Empty() {
		proceed, err := s.shouldApplyOnEmptyBuffer()
		if err != nil || !proceed {
			return err
		}
	}

	for _, change := range Diff(orig, edited) {
		if err := Apply(s.repo, change); err != nil {
			return err
		}
	}
	return nil
}

// editIndex serializes the index to a temporary file, lets the user
// edit it and decodes the result. The temporary file is removed on
// every exit path, including editor failure and read errors.
func (s *Session) editIndex(orig *index.Index) (*index.Index, error) {
	tmp, err := os.CreateTemp("", "git-edit-index-")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := tmp.WriteString(orig.Text()); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("writing %s: %w", name, err)
	}

	if err := s.repo.Edit(name); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return index.FromText(string(edited), index.SeparatorEditor), nil
}

// shouldApplyOnEmptyBuffer decides what an emptied buffer means, based
// on the editIndex.onEmptyBuffer config option: ask the user (the
// default), act without asking, or do nothing.
func (s *Session) shouldApplyOnEmptyBuffer() (bool, error) {
	value, set := s.repo.ConfigValue(OnEmptyBufferOption)
	if !set {
		value = emptyBufferAsk
	}

	switch value {
	case emptyBufferAsk:
		return s.askEmptyBuffer(), nil
	case emptyBufferAct:
		return true, nil
	case emptyBufferNothing:
		return false, nil
	default:
		return false, &ConfigError{Option: OnEmptyBufferOption, Value: value}
	}
}

// askEmptyBuffer prompts for a yes/no answer, defaulting to no. Without
// a terminal on stdin there is nobody to answer, so the default wins.
func (s *Session) askEmptyBuffer() bool {
	if !s.isTerminal() {
		return false
	}

	fmt.Fprint(s.out, promptStyle.Render("The listing is empty. Revert or delete every originally listed file?"), " [y/N] ")
	line, err := bufio.NewReader(s.in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
