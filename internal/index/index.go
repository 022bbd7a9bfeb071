package index

import "strings"

// Separators used by the two sources of status text. Porcelain output is
// requested with -z so paths may contain anything but a NUL; the text
// coming back from the editor uses ordinary line breaks. The two must
// never be mixed up.
const (
	SeparatorPorcelain = "\x00"
	SeparatorEditor    = "\n"
)

// Index is an ordered snapshot of status entries. It is built once from
// a text blob and never mutated afterwards. Duplicate paths are
// tolerated; lookups return the first match.
type Index struct {
	entries []Entry
}

// New builds an index from the given entries, preserving their order.
func New(entries ...Entry) *Index {
	return &Index{entries: entries}
}

// FromText splits text on sep, parses every piece as a status line and
// keeps the ones that parse, in order of appearance.
func FromText(text, sep string) *Index {
	ix := &Index{}
	for _, line := range strings.Split(text, sep) {
		if entry, ok := ParseLine(line); ok {
			ix.entries = append(ix.entries, entry)
		}
	}
	return ix
}

// Entries returns the entries in listing order. Callers must not modify
// the returned slice.
func (ix *Index) Entries() []Entry {
	return ix.entries
}

// Len returns the number of entries.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Empty reports whether the index has no entries.
func (ix *Index) Empty() bool {
	return len(ix.entries) == 0
}

// EntryFor returns the first entry recorded for path, or the Absent
// sentinel carrying the queried path when there is none.
func (ix *Index) EntryFor(path string) Entry {
	for _, entry := range ix.entries {
		if entry.Path == path {
			return entry
		}
	}
	return Absent(path)
}

// Text renders the index in the editable format. A non-empty index ends
// with a trailing newline; some editors mishandle a file whose last line
// is unterminated. An empty index renders as the empty string.
func (ix *Index) Text() string {
	if len(ix.entries) == 0 {
		return ""
	}
	var b strings.Builder
	for _, entry := range ix.entries {
		b.WriteString(entry.Line())
		b.WriteString("\n")
	}
	return b.String()
}
