package status

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ─── Tab enumeration ─────────────────────────────────────────────────────────

// Tab identifies one of the dashboard sections.
type Tab int

const (
	TabOverview Tab = iota
	TabVolumes
	TabSnapshots
)

// TabNames is the display label for each tab.
var TabNames = []string{"Overview", "Volumes", "Snapshots"}

// CollectFunc gathers one round of metrics.
type CollectFunc func(ctx context.Context) (*SystemMetrics, error)

// ─── Messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

type metricsMsg struct {
	metrics *SystemMetrics
	err     error
}

// ─── Model ───────────────────────────────────────────────────────────────────

// StatusModel is the bubbletea Model for the live free-space view.
type StatusModel struct {
	Metrics         *SystemMetrics
	Tab             Tab
	Width           int
	Height          int
	Err             error
	collect         CollectFunc
	ctx             context.Context
	refreshInterval time.Duration
	quitting        bool

	// FreeHistory holds the last 60 free-space readings of the boot volume.
	FreeHistory []uint64
}

// NewStatusModel creates a StatusModel with the given refresh cadence.
func NewStatusModel(ctx context.Context, collect CollectFunc, refreshInterval time.Duration) StatusModel {
	if refreshInterval <= 0 {
		refreshInterval = 2 * time.Second
	}
	return StatusModel{
		Width:           80,
		Height:          24,
		collect:         collect,
		ctx:             ctx,
		refreshInterval: refreshInterval,
	}
}

func (m StatusModel) doTick() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m StatusModel) collectMetrics() tea.Cmd {
	collect, ctx := m.collect, m.ctx
	return func() tea.Msg {
		metrics, err := collect(ctx)
		return metricsMsg{metrics: metrics, err: err}
	}
}

// ─── tea.Model interface ─────────────────────────────────────────────────────

func (m StatusModel) Init() tea.Cmd {
	// The first metricsMsg starts the tick loop, keeping collection and
	// display strictly sequential.
	return m.collectMetrics()
}

func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			m.Tab = (m.Tab + 1) % Tab(len(TabNames))
		case "shift+tab":
			if m.Tab == 0 {
				m.Tab = Tab(len(TabNames) - 1)
			} else {
				m.Tab--
			}
		case "1":
			m.Tab = TabOverview
		case "2":
			m.Tab = TabVolumes
		case "3":
			m.Tab = TabSnapshots
		}
		return m, nil

	case tickMsg:
		return m, m.collectMetrics()

	case metricsMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, m.doTick()
		}
		m.Err = nil
		m.Metrics = msg.metrics
		m.FreeHistory = appendU64(m.FreeHistory, msg.metrics.Boot.Free, 60)
		return m, m.doTick()
	}

	return m, nil
}

func (m StatusModel) View() string {
	if m.quitting {
		return ""
	}
	return m.renderView()
}

// ─── History helpers ─────────────────────────────────────────────────────────

func appendU64(h []uint64, v uint64, maxLen int) []uint64 {
	h = append(h, v)
	if len(h) > maxLen {
		h = h[1:]
	}
	return h
}
