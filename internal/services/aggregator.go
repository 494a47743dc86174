package services

import (
	"path/filepath"

	"duskfs/internal/domain"
)

const errorSampleLimit = 8

// devino identifies an on-disk allocation for hard-link deduplication.
type devino struct {
	dev   uint64
	inode uint64
}

// aggregator folds the entry stream into the tree. It is single-owner: only
// the goroutine draining the entry channel calls apply. The path index and
// hard-link registry are scoped to one pass and die with it, so repeated
// scans can never leak identities between runs.
type aggregator struct {
	tree  *domain.Tree
	roots map[string]struct{}
	index map[string]domain.NodeIndex
	seen  map[devino]struct{}
	dedup bool
	stats ScanStats
}

func newAggregator(tree *domain.Tree, roots []string, dedup bool) *aggregator {
	rootSet := make(map[string]struct{}, len(roots))
	for _, root := range roots {
		rootSet[root] = struct{}{}
	}
	return &aggregator{
		tree:  tree,
		roots: rootSet,
		index: make(map[string]domain.NodeIndex),
		seen:  make(map[devino]struct{}),
		dedup: dedup,
	}
}

// apply resolves or creates the entry's node and parent chain, then adds the
// entry's contribution to every ancestor up to the virtual root. Entries may
// arrive for deep paths before their ancestors are independently visited, so
// intermediate directory nodes are created on demand; their own entry count
// is added when their own entry arrives.
func (agg *aggregator) apply(entry domain.Entry) {
	agg.stats.EntriesSeen++
	if entry.Err != nil {
		agg.stats.ErrorCount++
		if len(agg.stats.ErrorSamples) < errorSampleLimit {
			agg.stats.ErrorSamples = append(agg.stats.ErrorSamples, entry.Path)
		}
		if entry.Path == "" {
			return
		}
	}
	if agg.stats.CapacityReached {
		// The bound was hit earlier in this pass. Stop admitting nodes but
		// keep draining so already-aggregated totals stay a valid snapshot.
		return
	}

	path := filepath.Clean(entry.Path)
	index, known := agg.index[path]
	if !known {
		var err error
		index, err = agg.insert(path, kindOf(entry))
		if err != nil {
			agg.stats.CapacityReached = true
			return
		}
		if entry.IsDir {
			agg.index[path] = index
		}
	}
	if entry.IsSymlink {
		agg.tree.MarkSymlink(index)
	}

	size, diskUsage := contribution(entry)
	// Only regular files enter the registry.
	if agg.dedup && !entry.IsDir && !entry.IsSymlink && entry.Nlink > 1 {
		key := devino{dev: entry.Dev, inode: entry.Inode}
		if _, counted := agg.seen[key]; counted {
			// Already counted this allocation: contribute zero bytes but
			// still count the entry toward the statistics.
			size, diskUsage = 0, 0
		} else {
			agg.seen[key] = struct{}{}
		}
	}
	agg.tree.Accumulate(index, size, diskUsage, 1)
}

// insert creates the node for path, building any missing ancestor directory
// nodes first. Children of the virtual root keep their full path as name.
func (agg *aggregator) insert(path string, kind domain.NodeKind) (domain.NodeIndex, error) {
	if _, isRoot := agg.roots[path]; isRoot {
		return agg.tree.Insert(domain.RootIndex, path, kind)
	}
	dir := filepath.Dir(path)
	if dir == path {
		// Walked above every requested root; anchor at the virtual root.
		return agg.tree.Insert(domain.RootIndex, path, kind)
	}
	parent, err := agg.ensureDir(dir)
	if err != nil {
		return domain.RootIndex, err
	}
	return agg.tree.Insert(parent, filepath.Base(path), kind)
}

func (agg *aggregator) ensureDir(path string) (domain.NodeIndex, error) {
	if index, ok := agg.index[path]; ok {
		return index, nil
	}
	index, err := agg.insert(path, domain.KindDir)
	if err != nil {
		return domain.RootIndex, err
	}
	agg.index[path] = index
	return index, nil
}

func (agg *aggregator) finish() ScanStats {
	return agg.stats
}

func kindOf(entry domain.Entry) domain.NodeKind {
	if entry.IsDir {
		return domain.KindDir
	}
	return domain.KindFile
}

// contribution returns the sizes an entry adds to its ancestors. Directories
// contribute only their entry count; their totals are the sum of their
// subtree. Entries whose metadata could not be read contribute zero.
func contribution(entry domain.Entry) (size, diskUsage int64) {
	if entry.IsDir || entry.Err != nil {
		return 0, 0
	}
	return entry.Size, entry.DiskUsage
}
