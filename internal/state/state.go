// Package state models the operator's exploration of the directory graph as
// an explicit state machine. The two-stage deletion flow (mark, request
// confirmation, confirm) is a safety contract: no single transition can
// reach the filesystem.
package state

import (
	"duskfs/internal/domain"
)

// Stage is the deletion stage of the session.
type Stage int

const (
	// StageViewing is ordinary browsing.
	StageViewing Stage = iota
	// StageMarked means the pending-deletion set is non-empty.
	StageMarked
	// StageConfirming means the operator requested deletion of the marked
	// set and must still confirm it.
	StageConfirming
)

// Mark records one entry staged for deletion, with enough context to render
// the mark pane and to report per-target failures back onto the item.
type Mark struct {
	Index    domain.NodeIndex
	Path     string
	Size     int64
	IsDir    bool
	Order    int
	ErrCount int
}

// frame is one level of the visited-directory stack. It records the sort
// order active when the directory was entered and the child highlighted when
// it was left, so re-entering restores the previous selection.
type frame struct {
	node     domain.NodeIndex
	sortMode domain.SortMode
	selected domain.NodeIndex
}

// Nav tracks the operator's position in the tree, per-directory selection
// history, sort order, and the staged-deletion set. It is single-owner like
// the tree it navigates.
type Nav struct {
	tree        *domain.Tree
	frames      []frame
	marks       map[domain.NodeIndex]*Mark
	stage       Stage
	sortMode    domain.SortMode
	sortReverse bool
	markCounter int
	pendingMode string
}

func NewNav(tree *domain.Tree, sortMode domain.SortMode) *Nav {
	if sortMode == "" {
		sortMode = domain.SortBySize
	}
	nav := &Nav{
		tree:     tree,
		marks:    make(map[domain.NodeIndex]*Mark),
		sortMode: sortMode,
	}
	nav.frames = []frame{{node: domain.RootIndex, sortMode: sortMode}}
	nav.selectFirst()
	return nav
}

// Tree exposes the navigated tree for read-only rendering.
func (nav *Nav) Tree() *domain.Tree {
	return nav.tree
}

func (nav *Nav) Stage() Stage {
	return nav.stage
}

// Current returns the directory being viewed.
func (nav *Nav) Current() domain.NodeIndex {
	return nav.frames[len(nav.frames)-1].node
}

// Selected returns the highlighted child of the current directory, and false
// when the directory is empty.
func (nav *Nav) Selected() (domain.NodeIndex, bool) {
	selected := nav.frames[len(nav.frames)-1].selected
	if selected == domain.RootIndex {
		return domain.RootIndex, false
	}
	return selected, true
}

// Children returns the current directory's children in display order. This
// is a pure view transform; the tree is never mutated by sorting.
func (nav *Nav) Children() []domain.NodeIndex {
	children := nav.tree.Children(nav.Current())
	domain.SortChildren(nav.tree, children, nav.sortMode, nav.sortReverse)
	return children
}

// Cursor returns the position of the highlighted child within the current
// display order, or -1 when nothing is highlighted.
func (nav *Nav) Cursor(children []domain.NodeIndex) int {
	selected, ok := nav.Selected()
	if !ok {
		return -1
	}
	for position, child := range children {
		if child == selected {
			return position
		}
	}
	return -1
}

// Highlight moves the selection to the child at position within children.
func (nav *Nav) Highlight(children []domain.NodeIndex, position int) {
	if position < 0 || position >= len(children) {
		return
	}
	nav.frames[len(nav.frames)-1].selected = children[position]
}

// EnterChild descends into the highlighted child. Valid only while the
// highlighted node is a directory that is still attached; returns false
// otherwise, leaving the state untouched.
func (nav *Nav) EnterChild() bool {
	selected, ok := nav.Selected()
	if !ok {
		return false
	}
	view := nav.tree.View(selected)
	if view.Kind == domain.KindFile || view.Deleted {
		return false
	}
	if !nav.isChild(selected) {
		return false
	}
	nav.frames = append(nav.frames, frame{node: selected, sortMode: nav.sortMode})
	nav.selectFirst()
	return true
}

// LeaveToParent pops a frame, restoring the selection previously held at
// that level. Returns false at the root.
func (nav *Nav) LeaveToParent() bool {
	if len(nav.frames) == 1 {
		return false
	}
	nav.frames = nav.frames[:len(nav.frames)-1]
	if _, ok := nav.Selected(); !ok {
		nav.selectFirst()
	}
	return true
}

// ToggleMark adds or removes the highlighted child from the pending-deletion
// set. Marking never touches the filesystem.
func (nav *Nav) ToggleMark() bool {
	selected, ok := nav.Selected()
	if !ok || nav.stage == StageConfirming {
		return false
	}
	if _, marked := nav.marks[selected]; marked {
		delete(nav.marks, selected)
	} else {
		view := nav.tree.View(selected)
		nav.markCounter++
		nav.marks[selected] = &Mark{
			Index: selected,
			Path:  nav.tree.PathOf(selected),
			Size:  view.DiskUsage,
			IsDir: view.Kind != domain.KindFile,
			Order: nav.markCounter,
		}
	}
	if len(nav.marks) == 0 {
		nav.stage = StageViewing
	} else {
		nav.stage = StageMarked
	}
	return true
}

// Marks returns the pending-deletion set keyed by node index.
func (nav *Nav) Marks() map[domain.NodeIndex]*Mark {
	return nav.marks
}

// MarkedSize sums the staged entries' on-disk sizes.
func (nav *Nav) MarkedSize() int64 {
	var total int64
	for _, mark := range nav.marks {
		total += mark.Size
	}
	return total
}

// RequestConfirmation is the first safety stage: it arms the confirmation
// prompt for the non-empty marked set. mode is remembered so the eventual
// confirm executes the deletion the operator asked for.
func (nav *Nav) RequestConfirmation(mode string) bool {
	if nav.stage != StageMarked || len(nav.marks) == 0 {
		return false
	}
	nav.stage = StageConfirming
	nav.pendingMode = mode
	return true
}

// ConfirmTargets is the second safety stage: valid only while confirming, it
// hands back the marked set (in mark order) and the requested mode. The
// caller runs the deletion subsystem and reports back via CompleteDeletion.
func (nav *Nav) ConfirmTargets() ([]domain.NodeIndex, string, bool) {
	if nav.stage != StageConfirming {
		return nil, "", false
	}
	targets := make([]domain.NodeIndex, 0, len(nav.marks))
	for index := range nav.marks {
		targets = append(targets, index)
	}
	sortByOrder(targets, nav.marks)
	return targets, nav.pendingMode, true
}

// CompleteDeletion folds per-target outcomes back into the mark set:
// successful targets leave it, failed ones stay with their error count
// bumped so the operator can see what survived. The session returns to
// Viewing either way.
func (nav *Nav) CompleteDeletion(succeeded, failed []domain.NodeIndex) {
	for _, index := range succeeded {
		delete(nav.marks, index)
	}
	for _, index := range failed {
		if mark, ok := nav.marks[index]; ok {
			mark.ErrCount++
		}
	}
	if len(nav.marks) == 0 {
		nav.stage = StageViewing
	} else {
		nav.stage = StageMarked
	}
	nav.pendingMode = ""
	nav.reselect()
}

// Cancel backs out of the marked or confirming stage with zero filesystem
// effect: the pending set is dropped and the session returns to Viewing.
func (nav *Nav) Cancel() {
	nav.marks = make(map[domain.NodeIndex]*Mark)
	nav.stage = StageViewing
	nav.pendingMode = ""
}

// SortMode returns the active sort order.
func (nav *Nav) SortMode() (domain.SortMode, bool) {
	return nav.sortMode, nav.sortReverse
}

// CycleSortMode advances size -> name -> count. Selection history is keyed
// by node index, not list position, so it survives the reorder.
func (nav *Nav) CycleSortMode() domain.SortMode {
	nav.sortMode = domain.NextSortMode(nav.sortMode)
	return nav.sortMode
}

// ToggleSortDirection flips between ascending and descending.
func (nav *Nav) ToggleSortDirection() bool {
	nav.sortReverse = !nav.sortReverse
	return nav.sortReverse
}

// reselect repairs the selection after deletions detached the highlighted
// node at any level of the stack.
func (nav *Nav) reselect() {
	for level := range nav.frames {
		selected := nav.frames[level].selected
		if selected == domain.RootIndex {
			continue
		}
		if nav.tree.View(selected).Deleted {
			nav.frames[level].selected = domain.RootIndex
		}
	}
	if _, ok := nav.Selected(); !ok {
		nav.selectFirst()
	}
}

func (nav *Nav) selectFirst() {
	children := nav.Children()
	if len(children) == 0 {
		nav.frames[len(nav.frames)-1].selected = domain.RootIndex
		return
	}
	nav.frames[len(nav.frames)-1].selected = children[0]
}

func (nav *Nav) isChild(index domain.NodeIndex) bool {
	return nav.tree.Parent(index) == nav.Current()
}

func sortByOrder(targets []domain.NodeIndex, marks map[domain.NodeIndex]*Mark) {
	for i := 1; i < len(targets); i++ {
		for j := i; j > 0 && marks[targets[j]].Order < marks[targets[j-1]].Order; j-- {
			targets[j], targets[j-1] = targets[j-1], targets[j]
		}
	}
}
