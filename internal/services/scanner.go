package services

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"duskfs/internal/domain"
	"duskfs/internal/logging"
)

// entryBufferSize bounds the hand-off channel between walk workers and the
// aggregating owner. Workers block on a full buffer (simple backpressure)
// and nowhere else.
const entryBufferSize = 1024

const progressEvery = 256

// WalkScanner visits filesystem entries in parallel and folds them into a
// fresh tree. Traversal never follows symbolic links: only lstat metadata is
// read, so symlink cycles cannot trap the walk and it never escapes the
// requested roots.
type WalkScanner struct {
	workers int
	seen    atomic.Int64
	errs    atomic.Int64
}

func NewWalkScanner(workers int) *WalkScanner {
	return &WalkScanner{workers: workers}
}

// Scan walks the requested roots and aggregates every entry into a new tree.
// The only fatal error is a root that does not exist at start; everything
// else is recorded per entry and surfaced through ScanStats. Once started, a
// scan runs to completion or to capacity exhaustion; partially-aggregated
// totals are valid snapshots throughout. Updates flow to req.Progress with
// non-blocking sends; a slow reader only loses intermediate counts. The
// channel is closed when the scan ends.
func (scanner *WalkScanner) Scan(req ScanRequest) (*domain.Tree, ScanStats, error) {
	start := time.Now()
	progress := req.Progress
	if progress != nil {
		defer close(progress)
	}
	roots, err := normalizeRoots(req.Roots)
	if err != nil {
		return nil, ScanStats{}, err
	}
	scanner.seen.Store(0)
	scanner.errs.Store(0)

	dedup := req.DedupHardLinks
	tree := domain.NewTree(req.Capacity)
	aggregator := newAggregator(tree, roots, dedup)

	entries := make(chan domain.Entry, entryBufferSize)
	go func() {
		defer close(entries)
		scanner.walk(roots, entries, progress)
	}()

	// All tree mutation happens here, on the single consuming goroutine.
	for entry := range entries {
		aggregator.apply(entry)
	}

	stats := aggregator.finish()
	stats.Duration = time.Since(start)
	progressNonBlocking(progress, ScanProgress{Seen: stats.EntriesSeen, ErrorCount: stats.ErrorCount, Completed: true})
	logging.L().Info("scan complete",
		zap.Strings("roots", roots),
		zap.Int64("entries", stats.EntriesSeen),
		zap.Int64("errors", stats.ErrorCount),
		zap.Duration("duration", stats.Duration),
	)
	return tree, stats, nil
}

// progress may be nil; sends on a nil channel are never selected, so the
// non-blocking helper degrades to a no-op.
func (scanner *WalkScanner) walk(roots []string, out chan<- domain.Entry, progress chan<- ScanProgress) {
	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: scanner.workers,
	}
	for _, root := range roots {
		err := fastwalk.Walk(conf, root, func(path string, dirent fs.DirEntry, err error) error {
			entry := scanner.buildEntry(path, dirent, err)
			out <- entry
			if seen := scanner.seen.Add(1); seen%progressEvery == 0 {
				progressNonBlocking(progress, ScanProgress{
					Current:    path,
					Seen:       seen,
					ErrorCount: scanner.errs.Load(),
				})
			}
			return nil
		})
		if err != nil {
			// Roots were validated before the walk; anything here is a race
			// with the filesystem and is reported as a per-entry error.
			scanner.errs.Add(1)
			out <- domain.Entry{Path: root, IsDir: true, Err: err}
		}
	}
}

func (scanner *WalkScanner) buildEntry(path string, dirent fs.DirEntry, err error) domain.Entry {
	if err != nil {
		scanner.errs.Add(1)
		isDir := dirent != nil && dirent.IsDir()
		return domain.Entry{Path: path, IsDir: isDir, Err: err}
	}
	entry := domain.Entry{
		Path:      path,
		IsDir:     dirent.IsDir(),
		IsSymlink: dirent.Type()&fs.ModeSymlink != 0,
	}
	info, infoErr := dirent.Info()
	if infoErr != nil {
		scanner.errs.Add(1)
		entry.Err = infoErr
		return entry
	}
	entry.Size = info.Size()
	stat := getStatInfo(info)
	entry.DiskUsage = stat.diskUsage
	entry.Dev = stat.dev
	entry.Inode = stat.inode
	entry.Nlink = stat.nlink
	return entry
}

// normalizeRoots resolves each root to a cleaned absolute path and verifies
// it exists. A missing root is the one fatal scan error. Duplicate roots and
// roots nested inside another root are dropped: walking both an ancestor and
// its descendant would apply every nested entry twice.
func normalizeRoots(roots []string) ([]string, error) {
	if len(roots) == 0 {
		roots = []string{"."}
	}
	seen := make(map[string]struct{}, len(roots))
	resolved := make([]string, 0, len(roots))
	for _, root := range roots {
		abs, err := filepath.Abs(filepath.Clean(root))
		if err != nil {
			return nil, err
		}
		if _, err := os.Lstat(abs); err != nil {
			return nil, fmt.Errorf("scan root %q: %w", root, err)
		}
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		resolved = append(resolved, abs)
	}

	result := make([]string, 0, len(resolved))
	for _, root := range resolved {
		if !nestedInAny(root, resolved) {
			result = append(result, root)
		}
	}
	return result, nil
}

func nestedInAny(root string, roots []string) bool {
	for _, candidate := range roots {
		if candidate == root {
			continue
		}
		if rel, err := filepath.Rel(candidate, root); err == nil &&
			rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != "." {
			return true
		}
	}
	return false
}

func progressNonBlocking(ch chan<- ScanProgress, msg ScanProgress) {
	select {
	case ch <- msg:
	default:
	}
}
