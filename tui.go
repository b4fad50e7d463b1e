package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"jvanrhyn.dev/disklayers/internal/layout"
	"jvanrhyn.dev/disklayers/internal/source"
)

const (
	minBandHeight = 1
	maxBandHeight = 4
	// lines used by everything except bands and table: header, status, footer
	chromeLines = 3
)

type model struct {
	// config
	sourcePath string
	loadOpts   source.Options
	indexOpts  []layout.IndexOption
	log        *zap.Logger

	// ui state
	width      int
	height     int
	bandHeight int

	index *layout.Index
	sizes *layout.SizeTable
	nav   *layout.Navigator
	paint []layout.Layer
	rows  []layout.Layer // layer 1 of paint, one per table row

	loading   bool
	status    string
	loadToken string
	hovering  bool // status shows the band under the pointer

	tbl  table.Model
	spin spinner.Model
	help help.Model
	keys keyMap

	ctx    context.Context
	cancel context.CancelFunc
}

type loadedMsg struct {
	records []layout.Record
	err     error
	token   string
}

type exportDoneMsg struct {
	path string
	err  error
}

func initialModel(src string, opts source.Options, log *zap.Logger) *model {
	ctx, cancel := context.WithCancel(context.Background())
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	cols := []table.Column{
		{Title: "Name", Width: 40},
		{Title: "Size", Width: 10},
		{Title: "Files", Width: 8},
		{Title: "Dirs", Width: 6},
		{Title: "% of Root", Width: 10},
		{Title: "Graph", Width: 20},
	}
	t := table.New(table.WithColumns(cols), table.WithFocused(true))
	t.SetStyles(tableStyles())

	if log == nil {
		log = zap.NewNop()
	}
	return &model{
		sourcePath: src,
		loadOpts:   opts,
		log:        log,
		bandHeight: 1,
		spin:       sp,
		tbl:        t,
		help:       help.New(),
		keys:       defaultKeyMap(),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.startLoad())
}

// startLoad reads the source in the background. Only the result carrying the
// latest token is applied, so a reload supersedes one still in flight.
func (m *model) startLoad() tea.Cmd {
	m.loading = true
	m.loadToken = uuid.NewString()
	m.status = fmt.Sprintf("Loading %s ...", m.sourcePath)
	token, ctx, src, opts := m.loadToken, m.ctx, m.sourcePath, m.loadOpts
	return func() tea.Msg {
		recs, err := source.Load(ctx, src, opts)
		return loadedMsg{records: recs, err: err, token: token}
	}
}

// applySnapshot replaces the dataset. The navigator starts over at the root.
func (m *model) applySnapshot(recs []layout.Record) error {
	x, err := layout.BuildIndex(recs, m.indexOpts...)
	if err != nil {
		return err
	}
	m.index = x
	m.sizes = layout.Aggregate(x)
	m.nav = layout.NewNavigator(x, m.sizes)
	m.log.Info("snapshot loaded",
		zap.String("source", m.sourcePath),
		zap.Int("records", x.Len()),
		zap.Int("folders", m.sizes.Len()))
	return m.refresh()
}

// refresh rebuilds the paint order if the navigator says it is stale and
// repopulates the table.
func (m *model) refresh() error {
	if m.nav == nil {
		return nil
	}
	if !m.nav.Stale() && m.paint != nil {
		return nil
	}
	paint, err := m.nav.PaintOrder()
	if err != nil {
		return err
	}
	m.paint = paint
	m.rows = m.rows[:0]
	for _, l := range paint {
		if l.Layer == 1 {
			m.rows = append(m.rows, l)
		}
	}
	m.reflow()
	m.setTableRows()
	m.tbl.SetCursor(0)
	m.status = m.summary()
	return nil
}

func (m *model) setTableRows() {
	rows := make([]table.Row, 0, len(m.rows))
	for _, l := range m.rows {
		files, dirs := int64(1), int64(0)
		if l.Kind == layout.Folder {
			tot, _ := m.sizes.Totals(l.ID)
			files, dirs = tot.Files, tot.Folders
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%s %s", iconFor(l.Name, l.Kind), l.Name),
			humanBytes(l.Size),
			fmt.Sprintf("%d", files),
			fmt.Sprintf("%d", dirs),
			fmt.Sprintf("%5.1f%%", l.Portion*100),
			bar(l.Portion, m.graphWidth()),
		})
	}
	m.tbl.SetRows(rows)
}

func (m *model) summary() string {
	cur := m.nav.Current()
	r, _ := m.index.Lookup(cur)
	tot, _ := m.sizes.Totals(cur)
	return fmt.Sprintf("%s: %s (%d files, %d dirs)", r.Name, humanBytes(tot.Bytes), tot.Files, tot.Folders)
}

func (m *model) selected() (layout.Layer, bool) {
	idx := m.tbl.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return layout.Layer{}, false
	}
	return m.rows[idx], true
}

// drill makes id the current root and reports failures in the status line.
func (m *model) drill(id layout.ID) {
	if err := m.nav.DrillDown(id); err != nil {
		m.status = "⚠ " + err.Error()
		return
	}
	m.log.Debug("drill down", zap.String("id", string(id)))
	if err := m.refresh(); err != nil {
		m.status = "⚠ " + err.Error()
	}
}

func (m *model) drillParent() {
	if m.nav.AtOverallRoot() {
		m.status = "Already at the top"
		return
	}
	r, _ := m.index.Lookup(m.nav.Current())
	m.drill(r.ParentID)
}

// hover shows the band under the pointer in the status line and restores
// the summary once the pointer leaves the bands.
func (m *model) hover(hit layout.Layer, ok bool) {
	if ok {
		m.hovering = true
		m.status = fmt.Sprintf("%s: %s (%.1f%%)", hit.Name, humanBytes(hit.Size), hit.Portion*100)
		return
	}
	if m.hovering {
		m.hovering = false
		m.status = m.summary()
	}
}

func (m *model) reset() {
	m.nav.Reset()
	m.log.Debug("reset root")
	if err := m.refresh(); err != nil {
		m.status = "⚠ " + err.Error()
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.token != m.loadToken {
			return m, nil
		}
		m.loading = false
		if msg.err == nil {
			msg.err = m.applySnapshot(msg.records)
		}
		if msg.err != nil {
			m.log.Error("load failed", zap.String("source", m.sourcePath), zap.Error(msg.err))
			m.status = "⚠ " + msg.err.Error()
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.status = "⚠ export: " + msg.err.Error()
		} else {
			m.status = "Exported " + msg.path
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.reflow()
		if m.nav != nil {
			m.setTableRows()
		}
		return m, nil

	case tea.MouseMsg:
		if m.loading || m.nav == nil {
			return m, nil
		}
		// bands start right below the header line
		hit, ok := bandHit(m.paint, m.screenWidth(), m.bandHeight, m.visibleDepth(), msg.X, msg.Y-1)
		switch {
		case msg.Action == tea.MouseActionMotion:
			m.hover(hit, ok)
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && ok:
			m.hovering = false
			if hit.Layer == 0 {
				m.drillParent()
			} else {
				m.drill(hit.ID)
			}
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.cancel()
			return m, tea.Quit
		}
		if m.loading {
			return m, m.spin.Tick
		}
		switch {
		case key.Matches(msg, m.keys.Reload):
			return m, tea.Batch(m.spin.Tick, m.startLoad())
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.reflow()
			return m, nil
		}
		if m.nav == nil {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Open):
			if sel, ok := m.selected(); ok {
				m.drill(sel.ID)
			}
			return m, nil
		case key.Matches(msg, m.keys.Parent):
			m.drillParent()
			return m, nil
		case key.Matches(msg, m.keys.Reset):
			m.reset()
			return m, nil
		case key.Matches(msg, m.keys.Taller):
			m.bandHeight = min(maxBandHeight, m.bandHeight+1)
			m.reflow()
			return m, nil
		case key.Matches(msg, m.keys.Shorter):
			m.bandHeight = max(minBandHeight, m.bandHeight-1)
			m.reflow()
			return m, nil
		case key.Matches(msg, m.keys.Export):
			return m, m.exportCSV()
		}
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return m, cmd

	default:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
}

func (m *model) screenWidth() int {
	w, _ := screenSize(m.width, m.height)
	return w
}

// visibleDepth is how many layers fit into the upper half of the screen.
func (m *model) visibleDepth() int {
	_, h := screenSize(m.width, m.height)
	fit := max(1, (h/2)/max(1, m.bandHeight))
	return min(layout.Depth(m.paint), fit)
}

func (m *model) graphWidth() int {
	return max(10, m.tbl.Columns()[5].Width-2)
}

// reflow sizes the table columns and height to the terminal.
func (m *model) reflow() {
	if m.width <= 0 {
		return
	}
	// Size, Files, Dirs, % of Root, Graph minimum
	fixed := []int{10, 8, 8, 10, 12}
	avail := m.width - 10
	sum := 0
	for _, w := range fixed {
		sum += w
	}
	nameW := max(20, avail-sum)
	graphW := max(12, fixed[4]+(avail-(nameW+sum)))
	m.tbl.SetColumns([]table.Column{
		{Title: "Name", Width: nameW},
		{Title: "Size", Width: fixed[0]},
		{Title: "Files", Width: fixed[1]},
		{Title: "Dirs", Width: fixed[2]},
		{Title: "% of Root", Width: fixed[3]},
		{Title: "Graph", Width: graphW},
	})
	if m.height > 0 {
		bands := m.visibleDepth() * m.bandHeight
		helpLines := lipgloss.Height(m.help.View(m.keys))
		m.tbl.SetHeight(max(3, m.height-chromeLines-helpLines-bands))
	}
}

func (m *model) breadcrumb() string {
	if m.nav == nil {
		return m.sourcePath
	}
	names := make([]string, 0, 4)
	for _, r := range m.nav.Breadcrumb() {
		names = append(names, r.Name)
	}
	return strings.Join(names, " / ")
}

func (m *model) View() string {
	w, h := screenSize(m.width, m.height)
	head := lipgloss.NewStyle().Bold(true).Render(truncateToWidth("DiskLayers — "+m.breadcrumb(), w))
	status := m.status
	if m.loading {
		status = m.spin.View() + " " + status
	}
	parts := []string{head}
	if bands := renderBands(m.paint, w, m.bandHeight, m.visibleDepth()); bands != "" {
		parts = append(parts, bands)
	}
	parts = append(parts,
		m.tbl.View(),
		status,
		lipgloss.NewStyle().Faint(true).Render(m.help.View(m.keys)),
	)
	body := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if m.loading {
		popupW := min(50, max(10, w-4))
		modal := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2).Width(popupW).Align(lipgloss.Center)
		popup := modal.Render(lipgloss.JoinHorizontal(lipgloss.Center, m.spin.View(), " ", m.status))
		return renderOverlay(body, popup, w, h)
	}
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, body, lipgloss.WithWhitespaceChars(" "))
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.NoColor{}).
		Background(lipgloss.Color("57")).
		Bold(false)
	return styles
}
