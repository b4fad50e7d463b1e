package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// screenSize falls back to $COLUMNS/$LINES and then 80x24 before the first
// WindowSizeMsg arrives.
func screenSize(width, height int) (int, int) {
	envInt := func(name string) int {
		if v, err := strconv.Atoi(os.Getenv(name)); err == nil {
			return v
		}
		return 0
	}
	if width <= 0 {
		if width = envInt("COLUMNS"); width <= 0 {
			width = 80
		}
	}
	if height <= 0 {
		if height = envInt("LINES"); height <= 0 {
			height = 24
		}
	}
	return width, height
}

// renderOverlay centers popup over base on a width x height screen without
// moving the base content. The result has exactly height lines, each padded
// or truncated to width cells.
func renderOverlay(base, popup string, width, height int) string {
	width, height = max(1, width), max(1, height)
	screen := lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, base,
		lipgloss.WithWhitespaceChars(" "))

	bgLines := strings.Split(screen, "\n")
	popLines := strings.Split(popup, "\n")
	popW := 0
	for _, l := range popLines {
		popW = max(popW, lipgloss.Width(l))
	}
	startRow := max(0, (height-len(popLines))/2)
	startCol := max(0, (width-popW)/2)

	out := make([]string, 0, height)
	for i, line := range bgLines {
		if pi := i - startRow; pi >= 0 && pi < len(popLines) {
			line = overlayLine(fitWidth(line, width), popLines[pi], startCol)
		}
		out = append(out, fitWidth(line, width))
	}
	for len(out) < height {
		out = append(out, strings.Repeat(" ", width))
	}
	return strings.Join(out[:height], "\n")
}

// overlayLine writes pop over bg starting at visual column col, clipped at
// the end of bg. Escape sequences in bg are kept whole on both sides.
func overlayLine(bg, pop string, col int) string {
	bgW := ansi.StringWidth(bg)
	if col >= bgW {
		return bg
	}
	pop = ansi.Truncate(pop, bgW-col, "")
	left := ansi.Truncate(bg, col, "")
	right := ansi.TruncateLeft(bg, col+ansi.StringWidth(pop), "")
	if strings.Contains(left, "\x1b") {
		left += ansi.ResetStyle
	}
	return left + pop + right
}

// fitWidth pads or truncates s to exactly width cells.
func fitWidth(s string, width int) string {
	if lipgloss.Width(s) > width {
		s = truncateToWidth(s, width)
	}
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// truncateToWidth cuts s to at most maxWidth cells on a rune boundary.
func truncateToWidth(s string, maxWidth int) string {
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if lipgloss.Width(b.String()+string(r)) > maxWidth {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}
