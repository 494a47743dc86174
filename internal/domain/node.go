package domain

// NodeIndex addresses a node inside the arena. Index 0 is reserved for the
// virtual root, so a live index is always valid for parent-chain walks.
type NodeIndex uint32

// RootIndex is the distinguished index of the virtual root. The root is its
// own parent, which keeps ancestor loops free of nullable parent checks.
const RootIndex NodeIndex = 0

type NodeKind uint8

const (
	KindFile NodeKind = iota
	KindDir
	KindRoot
)

func (kind NodeKind) String() string {
	switch kind {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindRoot:
		return "root"
	default:
		return "unknown"
	}
}

// Node is an arena slot. Both size variants are aggregated simultaneously so
// the display policy can switch between apparent and on-disk without a
// rescan. A deleted node keeps its slot; only its totals are zeroed and its
// edge to the parent is cut, so indices recorded in navigation history stay
// valid for the lifetime of the arena.
type Node struct {
	Name       string
	Size       int64
	DiskUsage  int64
	EntryCount int64
	Kind       NodeKind
	Symlink    bool
	Deleted    bool

	parent   NodeIndex
	children []NodeIndex
}

// NodeView is the immutable snapshot handed to rendering collaborators.
type NodeView struct {
	Index      NodeIndex
	Name       string
	Size       int64
	DiskUsage  int64
	EntryCount int64
	Kind       NodeKind
	Symlink    bool
	Deleted    bool
	Parent     NodeIndex
}

// SizeFor returns the aggregated size under the given measurement policy.
func (view NodeView) SizeFor(apparent bool) int64 {
	if apparent {
		return view.Size
	}
	return view.DiskUsage
}
