package formstate

import (
	"sort"

	"github.com/Vincentvirtuoso/shopverse-admin-sub001/fieldpath"
)

// ChangeTracker records which field paths have been touched since the
// form was loaded. Marking a leaf also marks every ancestor prefix, so
// the differ can ask about a top-level field and learn whether anything
// underneath it was edited.
//
// The set only grows between Clear calls. There is deliberately no way
// to un-mark a single path: removing a list item still leaves the list
// marked, and whether anything actually changed is decided later by a
// value comparison against the snapshot.
type ChangeTracker struct {
	dirty map[string]bool
}

// NewChangeTracker creates an empty ChangeTracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{dirty: make(map[string]bool)}
}

// MarkDirty marks path and every strict ancestor prefix of it.
func (ct *ChangeTracker) MarkDirty(path string) {
	segs := fieldpath.Parse(path)
	for i := 1; i <= len(segs); i++ {
		ct.dirty[fieldpath.Join(segs[:i])] = true
	}
}

// Dirty checks if a specific path has been marked dirty.
func (ct *ChangeTracker) Dirty(path string) bool {
	return ct.dirty[fieldpath.Join(fieldpath.Parse(path))]
}

// HasChanges returns true if any paths have been marked dirty.
func (ct *ChangeTracker) HasChanges() bool {
	return len(ct.dirty) > 0
}

// DirtyPaths returns all marked paths in sorted order.
func (ct *ChangeTracker) DirtyPaths() []string {
	paths := make([]string, 0, len(ct.dirty))
	for p := range ct.dirty {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Clear removes all dirty markers.
func (ct *ChangeTracker) Clear() {
	ct.dirty = make(map[string]bool)
}

// Count returns the number of dirty paths.
func (ct *ChangeTracker) Count() int {
	return len(ct.dirty)
}
