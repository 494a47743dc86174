//go:build !windows

package services

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"duskfs/internal/domain"
)

func writeBytes(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
}

func scanFixture(t *testing.T, req ScanRequest) (*domain.Tree, ScanStats) {
	t.Helper()
	scanner := NewWalkScanner(2)
	tree, stats, err := scanner.Scan(req)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	return tree, stats
}

func rootNode(t *testing.T, tree *domain.Tree, root string) domain.NodeIndex {
	t.Helper()
	return findChild(t, tree, domain.RootIndex, root)
}

func TestScanAggregatesFixture(t *testing.T) {
	dir := t.TempDir()
	writeBytes(t, filepath.Join(dir, "f1"), 4000)
	if err := os.Mkdir(filepath.Join(dir, "b"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeBytes(t, filepath.Join(dir, "b", "f2"), 8000)

	tree, stats := scanFixture(t, ScanRequest{Roots: []string{dir}, DedupHardLinks: true})

	root := rootNode(t, tree, dir)
	view := tree.View(root)
	if view.Size != 12000 {
		t.Errorf("apparent size = %d, want 12000", view.Size)
	}
	// Entries: root dir itself, f1, b, f2.
	if view.EntryCount != 4 {
		t.Errorf("entry count = %d, want 4", view.EntryCount)
	}
	if view.DiskUsage < view.Size {
		t.Errorf("disk usage %d smaller than apparent size %d", view.DiskUsage, view.Size)
	}
	if stats.ErrorCount != 0 {
		t.Errorf("error count = %d, want 0: %v", stats.ErrorCount, stats.ErrorSamples)
	}
	if stats.EntriesSeen != 4 {
		t.Errorf("entries seen = %d, want 4", stats.EntriesSeen)
	}
}

func TestScanDoesNotFollowSymlinks(t *testing.T) {
	outside := t.TempDir()
	writeBytes(t, filepath.Join(outside, "huge"), 16000)

	dir := t.TempDir()
	if err := os.Symlink(outside, filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	tree, _ := scanFixture(t, ScanRequest{Roots: []string{dir}})

	root := rootNode(t, tree, dir)
	children := tree.Children(root)
	if len(children) != 1 {
		t.Fatalf("children = %d, want just the link", len(children))
	}
	link := tree.View(children[0])
	if !link.Symlink {
		t.Error("link entry not flagged as symlink")
	}
	if grand := tree.Children(children[0]); len(grand) != 0 {
		t.Errorf("traversal followed the link: %d grandchildren", len(grand))
	}
	if view := tree.View(root); view.Size >= 16000 {
		t.Errorf("link target's bytes leaked into the total: %d", view.Size)
	}
}

func TestScanDedupCountsHardLinkOnce(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "one")
	writeBytes(t, original, 4000)
	if err := os.Link(original, filepath.Join(dir, "two")); err != nil {
		t.Skipf("hard links unavailable: %v", err)
	}

	deduped, _ := scanFixture(t, ScanRequest{Roots: []string{dir}, DedupHardLinks: true})
	counted, _ := scanFixture(t, ScanRequest{Roots: []string{dir}, DedupHardLinks: false})

	dedupedSize := deduped.View(rootNode(t, deduped, dir)).Size
	countedSize := counted.View(rootNode(t, counted, dir)).Size
	if dedupedSize != 4000 {
		t.Errorf("deduped size = %d, want 4000", dedupedSize)
	}
	if countedSize != 8000 {
		t.Errorf("counted size = %d, want 8000", countedSize)
	}
}

func TestScanMissingRootFails(t *testing.T) {
	scanner := NewWalkScanner(1)
	_, _, err := scanner.Scan(ScanRequest{Roots: []string{filepath.Join(t.TempDir(), "absent")}})
	if err == nil {
		t.Fatal("scan of a missing root succeeded")
	}
}

func TestScanDeduplicatesRepeatedRoots(t *testing.T) {
	dir := t.TempDir()
	writeBytes(t, filepath.Join(dir, "f1"), 4000)

	tree, _ := scanFixture(t, ScanRequest{Roots: []string{dir, dir}})

	root := rootNode(t, tree, dir)
	if view := tree.View(root); view.Size != 4000 {
		t.Errorf("repeated root double-counted: size = %d, want 4000", view.Size)
	}
}

func TestScanCollapsesNestedRoots(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeBytes(t, filepath.Join(sub, "f1"), 4000)

	tree, _ := scanFixture(t, ScanRequest{Roots: []string{dir, sub}})

	roots := tree.Children(domain.RootIndex)
	if len(roots) != 1 {
		t.Fatalf("roots under the virtual root = %d, want 1", len(roots))
	}
	root := rootNode(t, tree, dir)
	if view := tree.View(root); view.Size != 4000 {
		t.Errorf("nested root double-counted: size = %d, want 4000", view.Size)
	}
	if view := tree.View(domain.RootIndex); view.Size != 4000 {
		t.Errorf("virtual root size = %d, want 4000", view.Size)
	}
}

func TestScanDeliversProgress(t *testing.T) {
	dir := t.TempDir()
	for position := 0; position < progressEvery+64; position++ {
		writeBytes(t, filepath.Join(dir, fmt.Sprintf("f%03d", position)), 10)
	}

	progress := make(chan ScanProgress, 64)
	scanner := NewWalkScanner(2)
	if _, _, err := scanner.Scan(ScanRequest{Roots: []string{dir}, Progress: progress}); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	var live int
	var completed bool
	for update := range progress {
		if update.Completed {
			completed = true
			continue
		}
		live++
		if update.Seen == 0 {
			t.Error("live update carries no count")
		}
	}
	if live == 0 {
		t.Error("no live update delivered during the scan")
	}
	if !completed {
		t.Error("no completion update delivered")
	}
}
