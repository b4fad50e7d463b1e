package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"jvanrhyn.dev/disklayers/internal/layout"
)

// bandPalette cycles by depth and sibling position.
var bandPalette = []lipgloss.Color{"63", "35", "172", "169", "39", "142", "205", "75"}

// span is the column range [start,end) a paint entry occupies.
type span struct {
	start, end int
}

func spanOf(l layout.Layer, width int) span {
	start := int(math.Round(l.Offset * float64(width)))
	end := int(math.Round((l.Offset + l.Portion) * float64(width)))
	return span{start: max(0, start), end: min(width, end)}
}

// bandRows groups the paint order by layer, keeping only the first depth
// layers. Index 0 is the root layer.
func bandRows(layers []layout.Layer, depth int) [][]layout.Layer {
	rows := make([][]layout.Layer, depth)
	for _, l := range layers {
		if l.Layer < depth {
			rows[l.Layer] = append(rows[l.Layer], l)
		}
	}
	return rows
}

// renderBands draws the paint order as stacked horizontal bands, root at the
// bottom and deeper layers above it. Every layer takes rowHeight lines;
// entries narrower than one column are not drawn.
func renderBands(layers []layout.Layer, width, rowHeight, depth int) string {
	if width <= 0 || depth <= 0 || len(layers) == 0 {
		return ""
	}
	rowHeight = max(1, rowHeight)
	rows := bandRows(layers, depth)

	var out []string
	for d := depth - 1; d >= 0; d-- {
		labelled := renderBandLine(rows[d], d, width, true)
		plain := labelled
		if rowHeight > 1 {
			plain = renderBandLine(rows[d], d, width, false)
		}
		for i := 0; i < rowHeight; i++ {
			if i == rowHeight/2 {
				out = append(out, labelled)
			} else {
				out = append(out, plain)
			}
		}
	}
	return strings.Join(out, "\n")
}

func renderBandLine(entries []layout.Layer, depth, width int, label bool) string {
	var b strings.Builder
	col := 0
	for i, l := range entries {
		sp := spanOf(l, width)
		if sp.end <= sp.start || sp.start < col {
			continue
		}
		if sp.start > col {
			b.WriteString(strings.Repeat(" ", sp.start-col))
		}
		w := sp.end - sp.start
		text := ""
		if label {
			text = truncateToWidth(l.Name, w)
		}
		style := lipgloss.NewStyle().
			Background(bandPalette[(depth+i)%len(bandPalette)]).
			Foreground(lipgloss.Color("0")).
			Width(w).
			MaxWidth(w)
		b.WriteString(style.Render(text))
		col = sp.end
	}
	if col < width {
		b.WriteString(strings.Repeat(" ", width-col))
	}
	return b.String()
}

// bandHit maps a cell inside the band area back to the entry drawn there.
// y counts from the top line of the band area.
func bandHit(layers []layout.Layer, width, rowHeight, depth, x, y int) (layout.Layer, bool) {
	rowHeight = max(1, rowHeight)
	if x < 0 || x >= width || y < 0 || y >= depth*rowHeight {
		return layout.Layer{}, false
	}
	d := depth - 1 - y/rowHeight
	for _, l := range layers {
		if l.Layer != d {
			continue
		}
		sp := spanOf(l, width)
		if x >= sp.start && x < sp.end {
			return l, true
		}
	}
	return layout.Layer{}, false
}
