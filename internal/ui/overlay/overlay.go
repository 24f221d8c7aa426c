// Package overlay composites floating content onto a background view
// without clearing the screen. It is the terminal's "document root"
// mount point: category hosts paint their entries through it, container
// tier first, overlay tier above.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Composite paints fg over bg with its top-left corner at x,y.
// Both strings may carry ANSI styling; the background is truncated and
// resumed around the foreground without breaking escape sequences.
// Coordinates outside the canvas are clipped, not wrapped.
func Composite(bg, fg string, x, y, width, height int) string {
	if fg == "" {
		return bg
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < height {
		bgLines = append(bgLines, strings.Repeat(" ", width))
	}

	for i, fgLine := range fgLines {
		bgY := y + i
		if bgY >= len(bgLines) {
			break
		}

		bgLine := bgLines[bgY]
		fgLineWidth := ansi.StringWidth(fgLine)

		leftPart := ansi.Truncate(bgLine, x, "")
		leftWidth := ansi.StringWidth(leftPart)
		if leftWidth < x {
			leftPart += strings.Repeat(" ", x-leftWidth)
		}

		endX := x + fgLineWidth
		bgWidth := ansi.StringWidth(bgLine)
		var rightPart string
		if endX < bgWidth {
			// TruncateLeft drops cells from the left, keeping what
			// resumes after the foreground.
			rightPart = ansi.TruncateLeft(bgLine, endX, "")
		}

		bgLines[bgY] = leftPart + fgLine + rightPart
	}

	return strings.Join(bgLines, "\n")
}

// Center composites fg at the middle of the canvas, the conventional
// spot for backdrop-bearing containers like dialogs.
func Center(bg, fg string, width, height int) string {
	x := (width - lipgloss.Width(fg)) / 2
	y := (height - lipgloss.Height(fg)) / 2
	return Composite(bg, fg, x, y, width, height)
}
