package services

import (
	"io/fs"
	"path/filepath"
	"testing"

	"duskfs/internal/domain"
)

func slash(path string) string {
	return filepath.FromSlash(path)
}

func scenarioEntries() []domain.Entry {
	return []domain.Entry{
		{Path: slash("/a"), IsDir: true},
		{Path: slash("/a/f1"), Size: 4000, DiskUsage: 4096},
		{Path: slash("/a/b"), IsDir: true},
		{Path: slash("/a/b/f2"), Size: 8000, DiskUsage: 8192},
	}
}

func findChild(t *testing.T, tree *domain.Tree, parent domain.NodeIndex, name string) domain.NodeIndex {
	t.Helper()
	for _, child := range tree.Children(parent) {
		if tree.View(child).Name == name {
			return child
		}
	}
	t.Fatalf("no child %q under node %d", name, parent)
	return domain.RootIndex
}

func aggregate(entries []domain.Entry, dedup bool) (*domain.Tree, ScanStats) {
	tree := domain.NewTree(0)
	agg := newAggregator(tree, []string{slash("/a")}, dedup)
	for _, entry := range entries {
		agg.apply(entry)
	}
	return tree, agg.finish()
}

func TestAggregateScenario(t *testing.T) {
	tree, stats := aggregate(scenarioEntries(), true)

	a := findChild(t, tree, domain.RootIndex, slash("/a"))
	b := findChild(t, tree, a, "b")

	view := tree.View(a)
	if view.Size != 12000 {
		t.Errorf("apparent size of /a = %d, want 12000", view.Size)
	}
	if view.DiskUsage != 12288 {
		t.Errorf("disk usage of /a = %d, want 12288", view.DiskUsage)
	}
	if view.EntryCount != 4 {
		t.Errorf("entry count of /a = %d, want 4", view.EntryCount)
	}
	if got := tree.View(b).DiskUsage; got != 8192 {
		t.Errorf("disk usage of /a/b = %d, want 8192", got)
	}
	if stats.ErrorCount != 0 {
		t.Errorf("error count = %d, want 0", stats.ErrorCount)
	}
}

func TestAggregateDeepEntriesBeforeAncestors(t *testing.T) {
	entries := scenarioEntries()
	// Reverse delivery order: the deepest file arrives first and its
	// ancestor chain is created on demand.
	reversed := make([]domain.Entry, 0, len(entries))
	for position := len(entries) - 1; position >= 0; position-- {
		reversed = append(reversed, entries[position])
	}

	tree, _ := aggregate(reversed, true)
	a := findChild(t, tree, domain.RootIndex, slash("/a"))
	view := tree.View(a)
	if view.Size != 12000 || view.DiskUsage != 12288 || view.EntryCount != 4 {
		t.Errorf("/a = (%d, %d, %d), want (12000, 12288, 4)",
			view.Size, view.DiskUsage, view.EntryCount)
	}
}

func TestAggregateIdempotentAcrossScans(t *testing.T) {
	firstTree, _ := aggregate(scenarioEntries(), true)
	secondTree, _ := aggregate(scenarioEntries(), true)

	firstRoot := firstTree.View(domain.RootIndex)
	secondRoot := secondTree.View(domain.RootIndex)
	if firstRoot.Size != secondRoot.Size ||
		firstRoot.DiskUsage != secondRoot.DiskUsage ||
		firstRoot.EntryCount != secondRoot.EntryCount {
		t.Errorf("repeated scans disagree: (%d, %d, %d) vs (%d, %d, %d)",
			firstRoot.Size, firstRoot.DiskUsage, firstRoot.EntryCount,
			secondRoot.Size, secondRoot.DiskUsage, secondRoot.EntryCount)
	}
}

func TestAggregateMonotonicDuringScan(t *testing.T) {
	tree := domain.NewTree(0)
	agg := newAggregator(tree, []string{slash("/a")}, true)

	var previous int64
	for _, entry := range scenarioEntries() {
		agg.apply(entry)
		current := tree.View(domain.RootIndex).DiskUsage
		if current < previous {
			t.Fatalf("root total shrank mid-scan: %d -> %d", previous, current)
		}
		previous = current
	}
}

func TestAggregateHardLinkDedup(t *testing.T) {
	linked := []domain.Entry{
		{Path: slash("/a"), IsDir: true},
		{Path: slash("/a/one"), Size: 4000, DiskUsage: 4096, Dev: 7, Inode: 42, Nlink: 2},
		{Path: slash("/a/two"), Size: 4000, DiskUsage: 4096, Dev: 7, Inode: 42, Nlink: 2},
	}

	tests := []struct {
		name       string
		dedup      bool
		wantDisk   int64
		wantSize   int64
		wantsCount int64
	}{
		{name: "dedup counts the allocation once", dedup: true, wantDisk: 4096, wantSize: 4000, wantsCount: 3},
		{name: "no dedup counts both links", dedup: false, wantDisk: 8192, wantSize: 8000, wantsCount: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, _ := aggregate(linked, tt.dedup)
			a := findChild(t, tree, domain.RootIndex, slash("/a"))
			view := tree.View(a)
			if view.DiskUsage != tt.wantDisk {
				t.Errorf("disk usage = %d, want %d", view.DiskUsage, tt.wantDisk)
			}
			if view.Size != tt.wantSize {
				t.Errorf("apparent size = %d, want %d", view.Size, tt.wantSize)
			}
			if view.EntryCount != tt.wantsCount {
				t.Errorf("entry count = %d, want %d", view.EntryCount, tt.wantsCount)
			}
		})
	}
}

func TestAggregateDedupIgnoresSymlinks(t *testing.T) {
	// Symlinks can share an inode link count but are not regular files, so
	// the registry must not swallow the second one.
	entries := []domain.Entry{
		{Path: slash("/a"), IsDir: true},
		{Path: slash("/a/one"), Size: 30, DiskUsage: 512, Dev: 7, Inode: 42, Nlink: 2, IsSymlink: true},
		{Path: slash("/a/two"), Size: 30, DiskUsage: 512, Dev: 7, Inode: 42, Nlink: 2, IsSymlink: true},
	}
	tree, _ := aggregate(entries, true)

	a := findChild(t, tree, domain.RootIndex, slash("/a"))
	view := tree.View(a)
	if view.Size != 60 {
		t.Errorf("apparent size = %d, want 60", view.Size)
	}
	if view.DiskUsage != 1024 {
		t.Errorf("disk usage = %d, want 1024", view.DiskUsage)
	}
}

func TestAggregateCapacityStopsAdmitting(t *testing.T) {
	tree := domain.NewTree(2)
	agg := newAggregator(tree, []string{slash("/a")}, true)
	for _, entry := range scenarioEntries() {
		agg.apply(entry)
	}

	stats := agg.finish()
	if !stats.CapacityReached {
		t.Fatal("capacity exhaustion not reported")
	}
	// /a and f1 fit; their totals stay valid after the bound was hit.
	a := findChild(t, tree, domain.RootIndex, slash("/a"))
	if got := tree.View(a).DiskUsage; got != 4096 {
		t.Errorf("partial disk usage = %d, want 4096", got)
	}
}

func TestAggregateRecordsEntryErrors(t *testing.T) {
	entries := []domain.Entry{
		{Path: slash("/a"), IsDir: true},
		{Path: slash("/a/denied"), IsDir: true, Err: fs.ErrPermission},
		{Path: slash("/a/f1"), Size: 4000, DiskUsage: 4096},
	}
	tree, stats := aggregate(entries, true)

	if stats.ErrorCount != 1 {
		t.Errorf("error count = %d, want 1", stats.ErrorCount)
	}
	if len(stats.ErrorSamples) != 1 || stats.ErrorSamples[0] != slash("/a/denied") {
		t.Errorf("error samples = %v", stats.ErrorSamples)
	}
	// The failed entry contributes zero size but is still an entry, and the
	// rest of the tree is unaffected.
	a := findChild(t, tree, domain.RootIndex, slash("/a"))
	view := tree.View(a)
	if view.DiskUsage != 4096 {
		t.Errorf("disk usage = %d, want 4096", view.DiskUsage)
	}
	if view.EntryCount != 3 {
		t.Errorf("entry count = %d, want 3", view.EntryCount)
	}
}
