package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// overlayAt draws the modal text over the base frame with its top-left
// corner at cell (x, y). Rows outside the base or past height are left
// alone. Widths are terminal cells, not bytes, so styled text splices
// cleanly.
func overlayAt(base, modal string, x, y, width, height int) string {
	rows := splitLines(base)
	modalRows := splitLines(modal)
	modalWidth := maxLineWidth(modalRows)

	for i, mr := range modalRows {
		row := y + i
		if row < 0 || row >= len(rows) || row >= height {
			continue
		}
		rows[row] = spliceRow(rows[row], padRight(mr, modalWidth), x, width)
	}
	return strings.Join(rows, "\n")
}

// spliceRow overwrites the cells of row covered by mid starting at x,
// keeping whatever renders to the left and right of it.
func spliceRow(row, mid string, x, width int) string {
	row = padRight(row, width)

	left := ansi.Truncate(row, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}

	end := x + ansi.StringWidth(mid)
	var right string
	if width > 0 {
		right = ansi.TruncateLeft(row, end, "")
		if gap := width - end - ansi.StringWidth(right); gap > 0 {
			right = strings.Repeat(" ", gap) + right
		}
	}
	return left + mid + right
}

// ---------------------------------------------------------------------------
// String utilities
// ---------------------------------------------------------------------------

// splitLines splits on newlines, returning at least one element.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// maxLineWidth returns the visual width of the widest line.
func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > m {
			m = w
		}
	}
	return m
}

// padRight pads s with spaces to the given visual width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate shortens s to width cells, appending an ellipsis if truncated.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
