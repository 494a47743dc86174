package app

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"duskfs/internal/config"
	"duskfs/internal/domain"
	"duskfs/internal/logging"
	"duskfs/internal/services"
	"duskfs/internal/ui"
)

// Run opens the interactive view. The scan starts immediately; the view
// renders progress until the tree is handed over.
func Run(opts config.Options) error {
	prefs, err := config.LoadPrefs()
	if err != nil {
		logging.L().Warn("using default preferences")
		prefs = config.DefaultPrefs()
	}
	if opts.ApparentSize {
		prefs.ApparentSize = true
	}

	scanner := services.NewWalkScanner(opts.Workers)
	deleter := services.NewFSDeleter()
	model := ui.NewModel(opts, prefs, scanner, deleter)

	program := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	if provider, ok := finalModel.(ui.PrefsProvider); ok {
		if err := config.SavePrefs(provider.PrefsSnapshot()); err != nil {
			logging.L().Warn("saving preferences failed")
		}
	}
	return nil
}

// RunSummary scans and prints one aggregated total per root, for pipes and
// scripts. Per-entry scan problems are a tally, never a failure.
func RunSummary(out io.Writer, opts config.Options) error {
	scanner := services.NewWalkScanner(opts.Workers)
	tree, stats, err := scanner.Scan(services.ScanRequest{
		Roots:          opts.Roots,
		DedupHardLinks: opts.DedupHardLinks,
		Capacity:       opts.Capacity,
	})
	if err != nil {
		return err
	}

	roots := tree.Children(domain.RootIndex)
	domain.SortChildren(tree, roots, domain.SortBySize, false)
	for _, root := range roots {
		view := tree.View(root)
		fmt.Fprintf(out, "%10s  %9d  %s\n",
			humanize.IBytes(uint64(view.SizeFor(opts.ApparentSize))),
			view.EntryCount,
			view.Name,
		)
	}
	if stats.ErrorCount > 0 {
		fmt.Fprintf(out, "%d items could not be scanned\n", stats.ErrorCount)
	}
	if stats.CapacityReached {
		fmt.Fprintln(out, "node capacity reached; totals are a valid partial result")
	}
	return nil
}
