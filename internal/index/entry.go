// Package index models the editable listing of a repository's status:
// one entry per file, parsed from git porcelain output or from the text
// the user saved in their editor.
package index

import "regexp"

// Status is the staging state of a single file.
type Status int

const (
	// StatusAbsent marks a path that has no entry in an index. It is
	// only ever produced by lookups, never by parsing.
	StatusAbsent Status = iota
	// StatusAdded is a file staged for the next commit ("A", or the
	// porcelain codes "A " and "M " for staged changes).
	StatusAdded
	// StatusModified is a file changed in the working tree (" M" or "M").
	StatusModified
	// StatusDeleted is a file deleted from the working tree (" D" or "D").
	StatusDeleted
	// StatusUntracked is a file git does not track ("??" or "?").
	StatusUntracked
	// StatusIgnored is a file matched by ignore rules ("!!" or "!").
	StatusIgnored
	// StatusPatch requests interactive patch staging/unstaging. It never
	// appears in git output, only in edited text ("P").
	StatusPatch
)

// Letter returns the single-character rendering used in the editable
// listing. StatusAbsent renders as "-" and must not be fed back into
// ParseLine.
func (s Status) Letter() string {
	switch s {
	case StatusAdded:
		return "A"
	case StatusModified:
		return "M"
	case StatusDeleted:
		return "D"
	case StatusUntracked:
		return "?"
	case StatusIgnored:
		return "!"
	case StatusPatch:
		return "P"
	default:
		return "-"
	}
}

// Entry is one line of the status listing. Entries are immutable; a
// changed status is a new Entry, not a mutation.
type Entry struct {
	Status Status
	Path   string
}

// Absent returns the lookup-miss sentinel for path.
func Absent(path string) Entry {
	return Entry{Status: StatusAbsent, Path: path}
}

// Line renders the entry in the editable "<letter> <path>" format.
func (e Entry) Line() string {
	return e.Status.Letter() + " " + e.Path
}

// lineRules maps raw status lines to statuses. Order matters: the staged
// two-character codes ("M " / "A ") must win over the bare "M" form, so
// "M  file" is staged while "M file" is a working-tree modification.
// Codes are matched case-insensitively; the path is the first capture.
var lineRules = []struct {
	re     *regexp.Regexp
	status Status
}{
	{regexp.MustCompile(`(?i)^(?:[am]  +|a +)(.+)$`), StatusAdded},
	{regexp.MustCompile(`(?i)^ ?m +(.+)$`), StatusModified},
	{regexp.MustCompile(`(?i)^ ?d +(.+)$`), StatusDeleted},
	{regexp.MustCompile(`^\?\?? +(.+)$`), StatusUntracked},
	{regexp.MustCompile(`^!!? +(.+)$`), StatusIgnored},
	{regexp.MustCompile(`(?i)^p +(.+)$`), StatusPatch},
}

// ParseLine parses one status line, either raw porcelain output or a
// line of the round-tripped editable format. Unsupported codes (merge
// conflicts, renames, copies, two-letter combinations such as "MM") and
// malformed lines report ok == false and are meant to be skipped, not
// treated as errors.
func ParseLine(line string) (Entry, bool) {
	for _, rule := range lineRules {
		if m := rule.re.FindStringSubmatch(line); m != nil {
			return Entry{Status: rule.status, Path: m[1]}, true
		}
	}
	return Entry{}, false
}
