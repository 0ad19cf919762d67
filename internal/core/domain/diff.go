package domain

import "sort"

// ChangedEntry pairs the old and new lock entry of a package whose resolved
// version (or any other recorded attribute) changed.
type ChangedEntry struct {
	Old LockEntry
	New LockEntry
}

// LockDiff describes the differences between two locks, keyed by package
// name. The orchestrator applies a changed entry as a remove of the old
// version followed by an install of the new one.
type LockDiff struct {
	Added   []LockEntry
	Removed []LockEntry
	Changed []ChangedEntry
}

// IsEmpty reports whether the two locks are identical.
func (d *LockDiff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// TotalChanges returns the number of packages affected by the diff.
func (d *LockDiff) TotalChanges() int {
	return len(d.Added) + len(d.Removed) + len(d.Changed)
}

// DiffLocks computes the difference between two locks. A nil lock is treated
// as empty. Results are sorted by package name for deterministic output.
func DiffLocks(oldLock, newLock *Lock) *LockDiff {
	diff := &LockDiff{}

	oldEntries := map[string]LockEntry{}
	if oldLock != nil {
		for _, e := range oldLock.Entries() {
			oldEntries[e.Name] = e
		}
	}
	newEntries := map[string]LockEntry{}
	if newLock != nil {
		for _, e := range newLock.Entries() {
			newEntries[e.Name] = e
		}
	}

	for name, ne := range newEntries {
		oe, existed := oldEntries[name]
		switch {
		case !existed:
			diff.Added = append(diff.Added, ne)
		case !lockEntryEqual(oe, ne):
			diff.Changed = append(diff.Changed, ChangedEntry{Old: oe, New: ne})
		}
	}
	for name, oe := range oldEntries {
		if _, stillThere := newEntries[name]; !stillThere {
			diff.Removed = append(diff.Removed, oe)
		}
	}

	sort.Slice(diff.Added, func(i, j int) bool { return diff.Added[i].Name < diff.Added[j].Name })
	sort.Slice(diff.Removed, func(i, j int) bool { return diff.Removed[i].Name < diff.Removed[j].Name })
	sort.Slice(diff.Changed, func(i, j int) bool { return diff.Changed[i].New.Name < diff.Changed[j].New.Name })

	return diff
}
