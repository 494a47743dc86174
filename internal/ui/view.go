package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"duskfs/internal/domain"
	"duskfs/internal/state"
)

type uiStyles struct {
	headerStyle lipgloss.Style
	mutedStyle  lipgloss.Style
	statusStyle lipgloss.Style
	warnStyle   lipgloss.Style
	cursorStyle lipgloss.Style
	markedStyle lipgloss.Style
}

func defaultStyles() uiStyles {
	return uiStyles{
		headerStyle: lipgloss.NewStyle().Bold(true),
		mutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		statusStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true),
		warnStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
		cursorStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		markedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	}
}

func (model Model) View() string {
	styles := defaultStyles()
	if model.showHelp {
		return renderHelp(model, styles)
	}
	header := renderHeader(model, styles)
	list := renderList(model, styles)
	footer := renderFooter(model, styles)
	return strings.Join([]string{header, list, footer}, "\n")
}

func renderHeader(model Model, styles uiStyles) string {
	tree := model.nav.Tree()
	root := tree.View(domain.RootIndex)
	title := styles.headerStyle.Render("duskfs")
	path := tree.PathOf(model.nav.Current())
	if path == "" {
		path = "(all roots)"
	}
	totals := fmt.Sprintf("total %s in %d entries",
		humanize.IBytes(uint64(maxInt64(root.SizeFor(model.prefs.ApparentSize), 0))),
		root.EntryCount,
	)
	parts := []string{title, path, styles.mutedStyle.Render(totals)}
	if model.free.TotalBytes > 0 {
		parts = append(parts, styles.mutedStyle.Render(fmt.Sprintf("free %s", humanize.IBytes(uint64(model.free.FreeBytes)))))
	}
	return trimStatus(strings.Join(parts, "  "), model.width)
}

func renderList(model Model, styles uiStyles) string {
	tree := model.nav.Tree()
	children := model.nav.Children()
	cursor := model.nav.Cursor(children)
	height := model.listHeight()

	if len(children) == 0 {
		message := "(empty)"
		if model.scanning {
			message = "Scanning..."
		}
		return padListRows([]string{styles.mutedStyle.Render(message)}, height)
	}

	parentSize := tree.View(model.nav.Current()).SizeFor(model.prefs.ApparentSize)
	marks := model.nav.Marks()

	top := model.viewTop
	if top > len(children)-1 {
		top = 0
	}
	end := top + height
	if end > len(children) {
		end = len(children)
	}

	rows := make([]string, 0, height)
	for position := top; position < end; position++ {
		index := children[position]
		view := tree.View(index)
		rows = append(rows, renderRow(model, styles, view, marks, parentSize, position == cursor))
	}
	return padListRows(rows, height)
}

func renderRow(model Model, styles uiStyles, view domain.NodeView, marks map[domain.NodeIndex]*state.Mark, parentSize int64, isCursor bool) string {
	prefix := "  "
	if isCursor {
		prefix = "> "
	}
	markFlag := " "
	if _, marked := marks[view.Index]; marked {
		markFlag = "*"
	}

	size := view.SizeFor(model.prefs.ApparentSize)
	sizeText := fmt.Sprintf("%10s", humanize.IBytes(uint64(maxInt64(size, 0))))
	bar := shareBar(size, parentSize, 10)

	name := view.Name
	switch {
	case view.Kind != domain.KindFile:
		name += "/"
	case view.Symlink:
		name += " -> (link)"
	}
	line := fmt.Sprintf("%s%s %s %s %8d  %s", prefix, markFlag, sizeText, bar, view.EntryCount, name)
	switch {
	case isCursor:
		return styles.cursorStyle.Render(line)
	case markFlag == "*":
		return styles.markedStyle.Render(line)
	default:
		return line
	}
}

func renderFooter(model Model, styles uiStyles) string {
	statusStyle := styles.statusStyle
	lowered := strings.ToLower(model.status)
	if strings.Contains(lowered, "fail") || strings.Contains(lowered, "delete") || strings.Contains(lowered, "capacity") {
		statusStyle = styles.warnStyle
	}
	statusLine := statusStyle.Render(trimStatus(model.status, model.width))

	sortMode, reversed := model.nav.SortMode()
	direction := ""
	if reversed {
		direction = " (rev)"
	}
	sizePolicy := "disk"
	if model.prefs.ApparentSize {
		sizePolicy = "apparent"
	}
	info := fmt.Sprintf("Marked: %d (%s)  Sort: %s%s  Size: %s",
		len(model.nav.Marks()),
		humanize.IBytes(uint64(maxInt64(model.nav.MarkedSize(), 0))),
		sortMode, direction, sizePolicy,
	)
	if model.stats.ErrorCount > 0 {
		info = fmt.Sprintf("%s  %s", info, styles.warnStyle.Render(fmt.Sprintf("%d items could not be scanned", model.stats.ErrorCount)))
	}

	keys := "↑/↓ move  →/l enter  ←/h up  space mark  d trash  x delete  s sort  a size  r rescan  ? help  q quit"
	if model.nav.Stage() == state.StageConfirming {
		keys = "y confirm  n/esc cancel"
	}
	footer := padLine(info, keys, model.width)
	return strings.Join([]string{statusLine, styles.mutedStyle.Render(footer)}, "\n")
}

func renderHelp(model Model, styles uiStyles) string {
	bindings := []struct {
		keys string
		help string
	}{
		{"↑/k, ↓/j", "move the selection"},
		{"→/l/enter", "enter the selected directory"},
		{"←/h/backspace", "return to the parent (restores the previous selection)"},
		{"space/m", "toggle the mark on the selected entry"},
		{"d", "request deletion of all marked entries (to trash)"},
		{"x", "request permanent deletion of all marked entries"},
		{"y", "confirm the requested deletion"},
		{"n/esc", "cancel marks or a pending confirmation"},
		{"s", "cycle sort: size, name, entry count"},
		{"v", "reverse the sort direction"},
		{"a", "switch between apparent size and size on disk"},
		{"r", "rescan from scratch"},
		{"q", "quit"},
	}
	var builder strings.Builder
	builder.WriteString(styles.headerStyle.Render("duskfs keys"))
	builder.WriteString("\n\n")
	for _, binding := range bindings {
		builder.WriteString(fmt.Sprintf("  %-16s %s\n", binding.keys, binding.help))
	}
	builder.WriteString("\n")
	builder.WriteString(styles.mutedStyle.Render("Deletion needs mark + request + confirm; no single key can delete."))
	builder.WriteString("\n")
	builder.WriteString(styles.mutedStyle.Render("press any key to close"))
	return builder.String()
}

// shareBar renders a node's share of its parent as a fixed-width bar.
func shareBar(size, parentSize int64, width int) string {
	if parentSize <= 0 || size <= 0 {
		return strings.Repeat(" ", width)
	}
	filled := int(float64(width) * float64(size) / float64(parentSize))
	if filled > width {
		filled = width
	}
	if filled == 0 {
		filled = 1
	}
	return strings.Repeat("█", filled) + strings.Repeat(" ", width-filled)
}

func padListRows(rows []string, height int) string {
	for len(rows) < height {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

func padLine(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

func trimStatus(status string, width int) string {
	if width <= 3 || lipgloss.Width(status) <= width {
		return status
	}
	runes := []rune(status)
	if len(runes) <= width-3 {
		return status
	}
	return string(runes[:width-3]) + "..."
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
