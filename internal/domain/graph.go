package domain

import (
	"math"
	"path/filepath"
)

// MaxCapacity is the hard ceiling on arena size: the maximum value of the
// index type, minus the slot reserved for the virtual root.
const MaxCapacity = uint32(math.MaxUint32) - 1

// Tree is the bounded, index-addressed directory graph. It is a tree rooted
// at the virtual root: every node except the root has exactly one parent and
// no index is ever reused while the arena is live. The Tree is single-owner;
// all mutation happens on one goroutine.
type Tree struct {
	nodes    []Node
	lookup   map[childKey]NodeIndex
	capacity uint32
}

type childKey struct {
	parent NodeIndex
	name   string
}

// NewTree allocates an arena bounded at capacity nodes (excluding the
// virtual root). A capacity of 0 or anything above MaxCapacity falls back to
// MaxCapacity.
func NewTree(capacity uint32) *Tree {
	if capacity == 0 || capacity > MaxCapacity {
		capacity = MaxCapacity
	}
	tree := &Tree{
		nodes:    make([]Node, 1, 64),
		lookup:   make(map[childKey]NodeIndex),
		capacity: capacity,
	}
	tree.nodes[RootIndex] = Node{Kind: KindRoot, parent: RootIndex}
	return tree
}

// Len reports the number of allocated nodes, the virtual root included.
func (tree *Tree) Len() int {
	return len(tree.nodes)
}

// Insert resolves or creates the node named name under parent. Insertion is
// the only graph-shaping operation during a scan. It fails with ErrCapacity
// once the arena bound is reached, leaving already-aggregated totals intact.
func (tree *Tree) Insert(parent NodeIndex, name string, kind NodeKind) (NodeIndex, error) {
	key := childKey{parent: parent, name: name}
	if existing, ok := tree.lookup[key]; ok {
		return existing, nil
	}
	if uint32(len(tree.nodes)-1) >= tree.capacity {
		return RootIndex, ErrCapacity
	}
	index := NodeIndex(len(tree.nodes))
	tree.nodes = append(tree.nodes, Node{
		Name:   name,
		Kind:   kind,
		parent: parent,
	})
	tree.nodes[parent].children = append(tree.nodes[parent].children, index)
	tree.lookup[key] = index
	return index, nil
}

// View returns an immutable snapshot of the node at index.
func (tree *Tree) View(index NodeIndex) NodeView {
	node := &tree.nodes[index]
	return NodeView{
		Index:      index,
		Name:       node.Name,
		Size:       node.Size,
		DiskUsage:  node.DiskUsage,
		EntryCount: node.EntryCount,
		Kind:       node.Kind,
		Symlink:    node.Symlink,
		Deleted:    node.Deleted,
		Parent:     node.parent,
	}
}

// Children returns a copy of the child indices of index, safe for callers to
// reorder for display.
func (tree *Tree) Children(index NodeIndex) []NodeIndex {
	children := tree.nodes[index].children
	if len(children) == 0 {
		return nil
	}
	return append([]NodeIndex(nil), children...)
}

func (tree *Tree) Parent(index NodeIndex) NodeIndex {
	return tree.nodes[index].parent
}

// MarkSymlink flags the node as a symbolic link entry.
func (tree *Tree) MarkSymlink(index NodeIndex) {
	tree.nodes[index].Symlink = true
}

// Accumulate adds an entry's contribution to the node and every ancestor up
// to the virtual root. Directory totals are therefore monotonically
// non-decreasing while their subtree is being discovered.
func (tree *Tree) Accumulate(index NodeIndex, size, diskUsage, entries int64) {
	for {
		node := &tree.nodes[index]
		node.Size += size
		node.DiskUsage += diskUsage
		node.EntryCount += entries
		if index == RootIndex {
			return
		}
		index = node.parent
	}
}

// ZeroAndDetach records a successful deletion: the node's totals are
// subtracted from every ancestor, the node is zeroed and flagged deleted,
// and its edge to the parent is removed. The arena slot itself survives so
// stored indices stay valid.
func (tree *Tree) ZeroAndDetach(index NodeIndex) {
	if index == RootIndex {
		return
	}
	node := &tree.nodes[index]
	if node.Deleted {
		return
	}
	size, diskUsage, entries := node.Size, node.DiskUsage, node.EntryCount
	parent := node.parent
	tree.Accumulate(parent, -size, -diskUsage, -entries)

	node.Size = 0
	node.DiskUsage = 0
	node.EntryCount = 0
	node.Deleted = true

	siblings := tree.nodes[parent].children
	for position, child := range siblings {
		if child == index {
			tree.nodes[parent].children = append(siblings[:position], siblings[position+1:]...)
			break
		}
	}
	delete(tree.lookup, childKey{parent: parent, name: node.Name})
}

// PathOf reconstructs the filesystem path of a node by walking its parent
// chain. Children of the virtual root carry full root paths as their names,
// so the walk stops there.
func (tree *Tree) PathOf(index NodeIndex) string {
	if index == RootIndex {
		return ""
	}
	var segments []string
	for index != RootIndex {
		node := &tree.nodes[index]
		segments = append(segments, node.Name)
		index = node.parent
	}
	path := segments[len(segments)-1]
	for position := len(segments) - 2; position >= 0; position-- {
		path = filepath.Join(path, segments[position])
	}
	return path
}
