package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"jvanrhyn.dev/disklayers/internal/layout"
)

var paintHeader = []string{"Layer", "ID", "Name", "Kind", "SizeBytes", "SizeHuman", "Portion%", "Offset%"}

// paintRow is one layer in the column order of paintHeader.
func paintRow(l layout.Layer) []string {
	return []string{
		strconv.Itoa(l.Layer),
		string(l.ID),
		l.Name,
		l.Kind.String(),
		strconv.FormatInt(l.Size, 10),
		humanBytes(l.Size),
		fmt.Sprintf("%.2f", l.Portion*100),
		fmt.Sprintf("%.2f", l.Offset*100),
	}
}

// writePaintCSV writes layers in paint order.
func writePaintCSV(w io.Writer, layers []layout.Layer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(paintHeader); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, l := range layers {
		if err := cw.Write(paintRow(l)); err != nil {
			return errors.Wrapf(err, "write %q", l.ID)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (m *model) exportCSV() tea.Cmd {
	if len(m.paint) == 0 {
		return func() tea.Msg { return exportDoneMsg{err: errors.New("nothing to export")} }
	}
	layers := m.paint
	log := m.log
	path := fmt.Sprintf("layers-%s.csv", time.Now().Format("20060102-150405"))
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		if err := writePaintCSV(f, layers); err != nil {
			_ = f.Close()
			return exportDoneMsg{err: err}
		}
		if err := f.Close(); err != nil {
			return exportDoneMsg{err: err}
		}
		log.Info("exported paint order", zap.String("path", path), zap.Int("layers", len(layers)))
		return exportDoneMsg{path: path}
	}
}
