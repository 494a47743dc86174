package domain

import "sort"

type SortMode string

const (
	SortBySize  SortMode = "size"
	SortByName  SortMode = "name"
	SortByCount SortMode = "count"
)

// NextSortMode cycles size -> name -> count -> size.
func NextSortMode(mode SortMode) SortMode {
	switch mode {
	case SortBySize:
		return SortByName
	case SortByName:
		return SortByCount
	default:
		return SortBySize
	}
}

// SortChildren orders child indices for display without touching the tree.
// Size and count sorts are descending by default; name sorts ascending.
// Reversal flips the primary key only: ties always break on name ascending,
// so the order is deterministic across redraws and direction flips.
func SortChildren(tree *Tree, children []NodeIndex, mode SortMode, reverse bool) {
	sort.SliceStable(children, func(i, j int) bool {
		left, right := tree.View(children[i]), tree.View(children[j])
		switch mode {
		case SortByName:
			if reverse {
				return left.Name > right.Name
			}
			return left.Name < right.Name
		case SortByCount:
			if left.EntryCount != right.EntryCount {
				if reverse {
					return left.EntryCount < right.EntryCount
				}
				return left.EntryCount > right.EntryCount
			}
		default:
			if left.DiskUsage != right.DiskUsage {
				if reverse {
					return left.DiskUsage < right.DiskUsage
				}
				return left.DiskUsage > right.DiskUsage
			}
		}
		return left.Name < right.Name
	})
}
