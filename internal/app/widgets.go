package app

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"scrim/internal/ui/styles"
)

const (
	menuItemWidth = 14
	tooltipWidth  = 28
)

var fileMenuItems = []string{"New File", "Open Recent", "Save", "Export"}

var recentItems = []string{"roadmap.yaml", "triage.yaml", "backlog.yaml"}

var contextMenuItems = []string{"Cut", "Copy", "Paste", "Inspect"}

// renderMenu lays out a vertical list of items, padding each label to
// a fixed column so the dropdown has a stable silhouette.
func renderMenu(items []string, selected int) string {
	var b strings.Builder
	for i, item := range items {
		label := runewidth.FillRight(runewidth.Truncate(item, menuItemWidth, "…"), menuItemWidth)
		style := styles.MenuItem
		if i == selected {
			style = styles.MenuItemSelected
		}
		b.WriteString(style.Render(label))
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderTooltip(text string) string {
	return wordwrap.String(text, tooltipWidth)
}

const helpMarkdown = `# Scrim Playground

Floating widgets anchored to the toolbar below.

| Key | Action |
| --- | ------ |
| f   | toggle the file menu |
| right | open the recent submenu |
| t   | toggle the status tooltip |
| p   | cycle the default placement |
| ctrl+x | toggle the log overlay |
| ?   | this dialog |
| esc | close the topmost widget |
| q   | quit |

Right-click anywhere for a context menu.
`

// renderHelp renders the help dialog body once at open time. A
// rendering failure falls back to the raw markdown rather than an
// empty dialog.
func renderHelp(width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n")
}
