package analyze

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/ui"
)

// largeThreshold is the cut-off for the "large only" filter.
const largeThreshold = 100 << 20

// BuildFunc produces the preflight report shown at the top level.
type BuildFunc func(ctx context.Context) (*Report, error)

// ─── Messages ────────────────────────────────────────────────────────────────

type reportMsg struct {
	report *Report
	err    error
}

type scanMsg struct {
	entry *DirEntry
	err   error
}

// ─── Model ───────────────────────────────────────────────────────────────────

// AnalyzeModel is the bubbletea Model for the reclaimable-space browser. The
// top level lists preflight entries; Enter drills into a directory.
type AnalyzeModel struct {
	build   BuildFunc
	ctx     context.Context
	cancel  context.CancelFunc
	scanner *Scanner

	spinner spinner.Model
	table   table.Model

	report    *Report
	stack     []*DirEntry // drill-down listings, innermost last
	rows      []rowRef    // backs the table's rows
	loading   string      // non-empty while work is in flight
	largeOnly bool
	width     int
	height    int
	quitting  bool
	err       error
}

// rowRef is what a table row points at.
type rowRef struct {
	path  string
	isDir bool
}

// NewAnalyzeModel returns a model that runs build on start. When root is
// non-empty the model opens straight into a listing of that directory.
func NewAnalyzeModel(ctx context.Context, build BuildFunc, root string) AnalyzeModel {
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.ColorCoral)

	t := table.New(table.WithFocused(true), table.WithHeight(16))
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#111827"}).
		Background(ui.ColorCoral).
		Bold(false)
	t.SetStyles(st)

	m := AnalyzeModel{
		build:   build,
		ctx:     ctx,
		cancel:  cancel,
		scanner: NewScanner(8),
		spinner: s,
		table:   t,
		width:   80,
		height:  24,
		loading: "Measuring reclaimable space…",
	}
	if root != "" {
		m.build = nil
		m.loading = "Scanning " + root + "…"
		m.stack = []*DirEntry{{Path: root, IsDir: true}}
	}
	return m
}

func (m AnalyzeModel) Init() tea.Cmd {
	if m.build == nil && len(m.stack) == 1 {
		return tea.Batch(m.spinner.Tick, m.scanDir(m.stack[0].Path, nil))
	}
	return tea.Batch(m.spinner.Tick, m.runBuild())
}

func (m AnalyzeModel) runBuild() tea.Cmd {
	build, ctx := m.build, m.ctx
	return func() tea.Msg {
		r, err := build(ctx)
		return reportMsg{report: r, err: err}
	}
}

func (m AnalyzeModel) scanDir(path string, parent *DirEntry) tea.Cmd {
	sc := m.scanner
	return func() tea.Msg {
		e, err := sc.Scan(path, parent)
		return scanMsg{entry: e, err: err}
	}
}

func (m AnalyzeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(m.viewportHeight())
		m.refreshTable()
		return m, nil

	case spinner.TickMsg:
		if m.loading == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case reportMsg:
		m.loading = ""
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.report = msg.report
		m.refreshTable()
		return m, nil

	case scanMsg:
		m.loading = ""
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if n := len(m.stack); n > 0 && m.stack[n-1].Children == nil && m.stack[n-1].Path == msg.entry.Path {
			m.stack[n-1] = msg.entry
		} else {
			m.stack = append(m.stack, msg.entry)
		}
		m.table.SetCursor(0)
		m.refreshTable()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.cancel()
			return m, tea.Quit

		case "esc", "left", "h", "backspace":
			if m.canGoBack() {
				m.stack = m.stack[:len(m.stack)-1]
				m.table.SetCursor(0)
				m.refreshTable()
				return m, nil
			}
			if msg.String() == "esc" {
				m.quitting = true
				m.cancel()
				return m, tea.Quit
			}
			return m, nil

		case "enter", "right", "l":
			if m.loading != "" {
				return m, nil
			}
			if ref, ok := m.selected(); ok && ref.isDir {
				m.loading = "Scanning " + ref.path + "…"
				m.err = nil
				return m, tea.Batch(m.spinner.Tick, m.scanDir(ref.path, m.current()))
			}
			return m, nil

		case "o":
			if ref, ok := m.selected(); ok {
				revealInFinder(ref.path)
			}
			return m, nil

		case "L":
			m.largeOnly = !m.largeOnly
			m.table.SetCursor(0)
			m.refreshTable()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View delegates to view.go renderView.
func (m AnalyzeModel) View() string {
	return m.renderView()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (m AnalyzeModel) current() *DirEntry {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

// canGoBack is false at the top level: the report, or the root listing
// when there is no report.
func (m AnalyzeModel) canGoBack() bool {
	if m.report != nil {
		return len(m.stack) > 0
	}
	return len(m.stack) > 1
}

func (m AnalyzeModel) selected() (rowRef, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return rowRef{}, false
	}
	return m.rows[i], true
}

func (m *AnalyzeModel) viewportHeight() int {
	return max(m.height-9, 3) // header (5) + footer (3) + padding
}

// refreshTable rebuilds columns and rows for the current level.
func (m *AnalyzeModel) refreshTable() {
	nameW := max(m.width-44, 20)
	var rows []table.Row
	m.rows = nil

	if cur := m.current(); cur != nil {
		m.table.SetColumns([]table.Column{
			{Title: "Size", Width: 10},
			{Title: "Share", Width: 7},
			{Title: "Name", Width: nameW},
			{Title: "Age", Width: 6},
		})
		for _, c := range cur.Children {
			if m.largeOnly && c.Size < largeThreshold {
				continue
			}
			name := c.Name
			if c.IsDir {
				name += "/"
			}
			age := ""
			if c.IsOld() {
				age = ">6mo"
			}
			rows = append(rows, table.Row{core.FormatSize(c.Size), fmt.Sprintf("%5.1f%%", c.Percentage(cur.Size)), name, age})
			m.rows = append(m.rows, rowRef{path: c.Path, isDir: c.IsDir})
		}
	} else if m.report != nil {
		m.table.SetColumns([]table.Column{
			{Title: "Size", Width: 10},
			{Title: "Share", Width: 7},
			{Title: "Item", Width: nameW},
			{Title: "Section", Width: 10},
		})
		for _, e := range m.report.Entries {
			if m.largeOnly && e.Size < largeThreshold {
				continue
			}
			size := core.FormatSize(e.Size)
			if e.Partial {
				size = "≤" + size
			}
			rows = append(rows, table.Row{size, fmt.Sprintf("%5.1f%%", percent(e.Size, m.report.Total)), e.Label, e.Section})
			m.rows = append(m.rows, rowRef{path: e.Path, isDir: true})
		}
	}
	m.table.SetRows(rows)
}

// revealInFinder selects path in a new Finder window.
func revealInFinder(path string) {
	if runtime.GOOS == "darwin" {
		_ = exec.Command("open", "-R", path).Start()
	}
}
