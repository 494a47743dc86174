package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"duskfs/internal/config"
	"duskfs/internal/domain"
	"duskfs/internal/services"
	"duskfs/internal/state"
)

// Model is the rendering collaborator: it consumes read-only views of the
// tree plus the navigation state and never mutates the graph except through
// the deletion subsystem on a confirmed batch.
type Model struct {
	opts    config.Options
	prefs   config.Prefs
	scanner services.Scanner
	deleter services.Deleter
	nav     *state.Nav
	keys    KeyMap

	// progress is dedicated to the scan in flight; the scanner closes it
	// when that scan ends, so a rescan allocates a fresh one.
	progress chan services.ScanProgress

	status      string
	showHelp    bool
	scanning    bool
	stats       services.ScanStats
	free        services.DiskSpace
	lastResults []services.DeleteResult

	width   int
	height  int
	viewTop int
}

// PrefsProvider lets the app persist UI preferences after the program exits.
type PrefsProvider interface {
	PrefsSnapshot() config.Prefs
}

func NewModel(opts config.Options, prefs config.Prefs, scanner services.Scanner, deleter services.Deleter) Model {
	return Model{
		opts:     opts,
		prefs:    prefs,
		scanner:  scanner,
		deleter:  deleter,
		nav:      state.NewNav(domain.NewTree(opts.Capacity), prefs.SortMode),
		keys:     DefaultKeyMap(),
		progress: make(chan services.ScanProgress, 64),
		status:   "Scanning...",
		scanning: true,
		width:    100,
		height:   30,
	}
}

func (model Model) PrefsSnapshot() config.Prefs {
	sortMode, _ := model.nav.SortMode()
	return config.Prefs{
		SortMode:     sortMode,
		ApparentSize: model.prefs.ApparentSize,
	}
}

func (model Model) Init() tea.Cmd {
	return tea.Batch(model.scanCmd(), model.progressCmd())
}

func (model Model) scanCmd() tea.Cmd {
	scanner := model.scanner
	req := services.ScanRequest{
		Roots:          model.opts.Roots,
		DedupHardLinks: model.opts.DedupHardLinks,
		Capacity:       model.opts.Capacity,
		Workers:        model.opts.Workers,
		Progress:       model.progress,
	}
	return func() tea.Msg {
		tree, stats, err := scanner.Scan(req)
		return scanDoneMsg{tree: tree, stats: stats, err: err}
	}
}

func (model Model) progressCmd() tea.Cmd {
	progress := model.progress
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return nil
		}
		return scanProgressMsg{progress: update}
	}
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return model.handleKey(typed)
	case tea.WindowSizeMsg:
		model.width = typed.Width
		model.height = typed.Height
		model.ensureCursorVisible()
		return model, nil
	case scanDoneMsg:
		return model.handleScanDone(typed)
	case scanProgressMsg:
		if typed.progress.Completed {
			return model, nil
		}
		model.status = fmt.Sprintf("Scanning... %d items (%s)", typed.progress.Seen, typed.progress.Current)
		return model, model.progressCmd()
	}
	return model, nil
}

func (model Model) handleScanDone(msg scanDoneMsg) (tea.Model, tea.Cmd) {
	model.scanning = false
	if msg.err != nil {
		model.status = fmt.Sprintf("Scan failed: %v", msg.err)
		return model, nil
	}
	sortMode, _ := model.nav.SortMode()
	model.nav = state.NewNav(msg.tree, sortMode)
	model.stats = msg.stats
	model.status = fmt.Sprintf("Scan complete: %d entries in %s", msg.stats.EntriesSeen, msg.stats.Duration.Round(time.Millisecond))
	if msg.stats.CapacityReached {
		model.status = "Node capacity reached; showing a valid partial result"
	}
	model.probeFreeSpace()
	model.viewTop = 0
	return model, nil
}

func (model *Model) probeFreeSpace() {
	roots := model.nav.Tree().Children(domain.RootIndex)
	if len(roots) == 0 {
		return
	}
	if free, err := services.FreeSpace(model.nav.Tree().PathOf(roots[0])); err == nil {
		model.free = free
	}
}

func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.showHelp {
		model.showHelp = false
		return model, nil
	}

	// While confirming, only confirm, cancel, and quit are live. The
	// confirmation stage is unreachable without marking first, so no single
	// keystroke can cause a deletion.
	if model.nav.Stage() == state.StageConfirming {
		switch {
		case key.Matches(msg, model.keys.Confirm):
			return model.executeDeletion()
		case key.Matches(msg, model.keys.Cancel):
			model.nav.Cancel()
			model.status = "Cancelled; nothing deleted"
			return model, nil
		case key.Matches(msg, model.keys.Quit):
			return model, tea.Quit
		}
		return model, nil
	}

	switch {
	case key.Matches(msg, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(msg, model.keys.Help):
		model.showHelp = true
	case key.Matches(msg, model.keys.Up):
		model.moveCursor(-1)
	case key.Matches(msg, model.keys.Down):
		model.moveCursor(1)
	case key.Matches(msg, model.keys.Enter):
		if model.nav.EnterChild() {
			model.viewTop = 0
		}
	case key.Matches(msg, model.keys.Leave):
		if model.nav.LeaveToParent() {
			model.viewTop = 0
			model.ensureCursorVisible()
		}
	case key.Matches(msg, model.keys.Mark):
		if model.nav.ToggleMark() {
			model.moveCursor(1)
		}
	case key.Matches(msg, model.keys.Trash):
		if model.nav.RequestConfirmation(string(services.DeleteModeTrash)) {
			model.status = fmt.Sprintf("Move %d marked items to trash? (y/n)", len(model.nav.Marks()))
		}
	case key.Matches(msg, model.keys.Permanent):
		if model.nav.RequestConfirmation(string(services.DeleteModePermanent)) {
			model.status = fmt.Sprintf("PERMANENTLY delete %d marked items? (y/n)", len(model.nav.Marks()))
		}
	case key.Matches(msg, model.keys.Cancel):
		if model.nav.Stage() == state.StageMarked {
			model.nav.Cancel()
			model.status = "Marks cleared"
		}
	case key.Matches(msg, model.keys.Sort):
		mode := model.nav.CycleSortMode()
		model.status = fmt.Sprintf("Sorting by %s", mode)
	case key.Matches(msg, model.keys.Reverse):
		model.nav.ToggleSortDirection()
	case key.Matches(msg, model.keys.Apparent):
		model.prefs.ApparentSize = !model.prefs.ApparentSize
	case key.Matches(msg, model.keys.Refresh):
		if !model.scanning {
			model.scanning = true
			model.status = "Rescanning..."
			model.progress = make(chan services.ScanProgress, 64)
			return model, tea.Batch(model.scanCmd(), model.progressCmd())
		}
	}
	return model, nil
}

// executeDeletion runs the confirmed batch synchronously. The tree is
// single-owner and batches are operator-sized, so blocking the update loop
// briefly keeps every mutation on this goroutine.
func (model Model) executeDeletion() (tea.Model, tea.Cmd) {
	targets, mode, ok := model.nav.ConfirmTargets()
	if !ok {
		return model, nil
	}
	results := model.deleter.Delete(model.nav.Tree(), services.DeleteRequest{
		Targets: targets,
		Mode:    services.DeleteMode(mode),
	})

	var succeeded, failed []domain.NodeIndex
	for _, result := range results {
		if result.Err == nil {
			succeeded = append(succeeded, result.Index)
		} else {
			failed = append(failed, result.Index)
		}
	}
	model.nav.CompleteDeletion(succeeded, failed)
	model.lastResults = results
	model.probeFreeSpace()
	model.ensureCursorVisible()

	if len(failed) == 0 {
		model.status = fmt.Sprintf("Deleted %d items", len(succeeded))
	} else {
		model.status = fmt.Sprintf("Deleted %d items, %d could not be deleted (%v)",
			len(succeeded), len(failed), firstError(results))
	}
	return model, nil
}

func firstError(results []services.DeleteResult) error {
	for _, result := range results {
		if result.Err != nil {
			return result.Err
		}
	}
	return nil
}

func (model *Model) moveCursor(delta int) {
	children := model.nav.Children()
	if len(children) == 0 {
		return
	}
	cursor := model.nav.Cursor(children)
	next := cursor + delta
	if next < 0 {
		next = 0
	}
	if next >= len(children) {
		next = len(children) - 1
	}
	model.nav.Highlight(children, next)
	model.ensureCursorVisible()
}

func (model *Model) ensureCursorVisible() {
	children := model.nav.Children()
	cursor := model.nav.Cursor(children)
	if cursor < 0 {
		model.viewTop = 0
		return
	}
	height := model.listHeight()
	if cursor < model.viewTop {
		model.viewTop = cursor
	}
	if cursor >= model.viewTop+height {
		model.viewTop = cursor - height + 1
	}
}

func (model Model) listHeight() int {
	height := model.height - 5
	if height < 3 {
		height = 3
	}
	return height
}
