package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/cockroachdb/errors"

	"jvanrhyn.dev/disklayers/internal/layout"
)

// paint output formats
const (
	formatTable = "table"
	formatCSV   = "csv"
)

// paintLayers builds the paint order of records viewed from root. An empty
// root means the dataset's overall root.
func paintLayers(recs []layout.Record, root layout.ID, opts ...layout.IndexOption) ([]layout.Layer, error) {
	x, err := layout.BuildIndex(recs, opts...)
	if err != nil {
		return nil, err
	}
	nav := layout.NewNavigator(x, layout.Aggregate(x))
	if root != "" {
		if err := nav.DrillDown(root); err != nil {
			return nil, err
		}
	}
	return nav.PaintOrder()
}

// writePaint prints layers in the requested format.
func writePaint(w io.Writer, layers []layout.Layer, format string) error {
	switch strings.ToLower(format) {
	case formatCSV:
		return writePaintCSV(w, layers)
	case formatTable, "":
		_, err := fmt.Fprintln(w, paintTable(layers))
		return err
	default:
		return errors.Newf("unknown format %q (want %s or %s)", format, formatTable, formatCSV)
	}
}

func paintTable(layers []layout.Layer) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(paintHeader...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			// numeric columns
			if col == 0 || col >= 4 {
				return cell.Align(lipgloss.Right)
			}
			return cell
		})
	for _, l := range layers {
		row := paintRow(l)
		row[2] = strings.Repeat("  ", l.Layer) + iconFor(l.Name, l.Kind) + " " + l.Name
		t.Row(row...)
	}
	return t.Render()
}
