// Package session drives one edit-index round: snapshot the status,
// hand it to the editor, diff the result and replay the differences as
// git and filesystem actions.
package session

import (
	"github.com/chmouel/git-edit-index/internal/git"
	"github.com/chmouel/git-edit-index/internal/index"
)

// Change pairs an entry's status before and after the edit. New carries
// the Absent sentinel when the user deleted the line.
type Change struct {
	Orig index.Entry
	New  index.Entry
}

// Actions is the capability surface the reconciler mutates the
// repository through. *git.Service implements it; tests substitute a
// recording fake.
type Actions interface {
	Perform(action []string, path string, opts git.PerformOpts) error
	Remove(path string) error
}

var _ Actions = (*git.Service)(nil)

// Diff compares the edited index against the original snapshot and
// returns the entries whose status changed, in the original listing
// order. Only paths present in the original are considered: the user
// can change the status of a listed file but cannot conjure a new
// tracked path by typing an extra line.
func Diff(orig, edited *index.Index) []Change {
	var changes []Change
	for _, entry := range orig.Entries() {
		newEntry := edited.EntryFor(entry.Path)
		if newEntry.Status != entry.Status {
			changes = append(changes, Change{Orig: entry, New: newEntry})
		}
	}
	return changes
}

// Apply performs the single repository action a status transition calls
// for. A removed line means "make the change go away": unstage and
// revert staged files, revert modified and deleted ones, and physically
// delete untracked or ignored ones. A changed letter re-stages,
// unstages, untracks or switches to interactive patch selection.
func Apply(a Actions, ch Change) error {
	path := ch.Orig.Path

	switch ch.New.Status {
	case index.StatusAbsent:
		switch ch.Orig.Status {
		case index.StatusAdded:
			if err := a.Perform([]string{"reset"}, path, git.PerformOpts{}); err != nil {
				return err
			}
			// The file may have been untracked before staging, in which
			// case there is no committed version to restore and checkout
			// complains about an unknown pathspec.
			return a.Perform([]string{"checkout"}, path, git.PerformOpts{SuppressStderr: true})
		case index.StatusModified, index.StatusDeleted:
			return a.Perform([]string{"checkout"}, path, git.PerformOpts{})
		case index.StatusUntracked, index.StatusIgnored:
			return a.Remove(path)
		}
	case index.StatusAdded:
		return a.Perform([]string{"add", "-f"}, path, git.PerformOpts{})
	case index.StatusModified, index.StatusDeleted:
		return a.Perform([]string{"reset"}, path, git.PerformOpts{})
	case index.StatusUntracked:
		return a.Perform([]string{"rm", "--cached"}, path, git.PerformOpts{})
	case index.StatusPatch:
		if ch.Orig.Status == index.StatusAdded {
			return a.Perform([]string{"reset", "--patch"}, path, git.PerformOpts{ShowStdout: true})
		}
		return a.Perform([]string{"add", "--patch"}, path, git.PerformOpts{ShowStdout: true})
	}
	return nil
}
