// Package app is the interactive --watch view.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/HaPhanBaoMinh/kcap/internal/domain"
	"github.com/HaPhanBaoMinh/kcap/internal/render"
	"github.com/HaPhanBaoMinh/kcap/internal/report"
	"github.com/HaPhanBaoMinh/kcap/internal/ui/styles"
	"github.com/HaPhanBaoMinh/kcap/internal/ui/widgets"
)

type Config struct {
	Collect  domain.CollectOptions
	SortBy   domain.SortKey
	Interval time.Duration
}

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	collector domain.Collector
	log       *zap.Logger

	opts      domain.CollectOptions
	sortBy    domain.SortKey
	showUsage bool
	interval  time.Duration

	table   table.Model
	records []domain.ResourceRequests
	updated time.Time
	loading bool

	width, height int
	err           error
}

type tickMsg struct{}
type recordsMsg struct {
	typ     domain.ResourceType
	records []domain.ResourceRequests
	at      time.Time
}
type errMsg struct {
	typ domain.ResourceType
	error
}

func New(ctx context.Context, c domain.Collector, log *zap.Logger, cfg Config) Model {
	ctx, cancel := context.WithCancel(ctx)

	t := table.New()
	t.SetHeight(12)
	t.SetWidth(100)

	return Model{
		ctx:       ctx,
		cancel:    cancel,
		collector: c,
		log:       log,
		opts:      cfg.Collect,
		sortBy:    cfg.SortBy,
		showUsage: cfg.Collect.Utilization,
		interval:  cfg.Interval,
		table:     t,
		loading:   true,
	}
}

// Run blocks until the user quits.
func Run(ctx context.Context, c domain.Collector, log *zap.Logger, cfg Config) error {
	m := New(ctx, c, log, cfg)
	defer m.cancel()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.tick())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m Model) fetch() tea.Cmd {
	opts := m.opts
	return func() tea.Msg {
		recs, err := m.collector.Collect(m.ctx, opts)
		if err != nil {
			return errMsg{typ: opts.Type, error: err}
		}
		return recordsMsg{typ: opts.Type, records: recs, at: time.Now()}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

		headerH := lipgloss.Height(styles.Header.Render("x"))
		footerH := lipgloss.Height(styles.Footer.Render("x"))
		base := m.height - headerH - footerH - 3
		if base < 5 {
			base = 5
		}
		m.table.SetHeight(base)
		m.table.SetWidth(m.width - 2)
		m.rebuildTable()
		return m, nil

	// Responses for a type we already switched away from are dropped.
	case recordsMsg:
		if msg.typ != m.opts.Type {
			return m, nil
		}
		m.records = msg.records
		m.updated = msg.at
		m.loading = false
		m.err = nil
		m.rebuildTable()
		if n := len(m.records); n > 0 && m.table.Cursor() >= n {
			m.table.SetCursor(0)
		}
		return m, nil

	case errMsg:
		if msg.typ != m.opts.Type {
			return m, nil
		}
		m.err = msg.error
		m.loading = false
		if m.log != nil {
			m.log.Error("refresh failed", zap.Error(msg.error))
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetch(), m.tick())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancel()
			return m, tea.Quit

		case "s":
			m.sortBy = m.sortBy.Next()
			m.rebuildTable()
			return m, nil

		case "tab":
			if m.opts.Type == domain.ResourceNode {
				m.opts.Type = domain.ResourceNamespace
			} else {
				m.opts.Type = domain.ResourceNode
			}
			m.records = nil
			m.loading = true
			m.table.SetCursor(0)
			m.rebuildTable()
			return m, m.fetch()

		case "u":
			m.showUsage = !m.showUsage
			m.rebuildTable()
			if m.showUsage && !m.opts.Utilization {
				m.opts.Utilization = true
				return m, m.fetch()
			}
			return m, nil

		case "r":
			return m, m.fetch()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) rebuildTable() {
	idx := render.VisibleColumns(m.showUsage)
	wName, wMetric, wBar := colWidths(m.table.Width(), len(idx)-1)

	cols := make([]table.Column, 0, len(idx)+1)
	for i, c := range render.Project(domain.Columns, idx) {
		w := wMetric
		if i == 0 {
			w = wName
		}
		cols = append(cols, table.Column{Title: c, Width: w})
	}
	cols = append(cols, table.Column{Title: "cpu", Width: wBar})

	ranked := report.Rank(m.records, m.sortBy)
	rows := make([]table.Row, 0, len(ranked))
	for _, r := range ranked {
		row := render.Project(report.Format(r).Fields(), idx)
		pct := report.Percent(float64(r.CPURequests), float64(r.CPUTotal)) / 100
		rows = append(rows, append(row, widgets.Bar(pct, wBar-1)))
	}

	// Rows must never be wider than the columns, even transiently.
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.table.Focus()
}

func (m Model) View() string {
	usage := "off"
	if m.showUsage {
		usage = "on"
	}
	status := "loading…"
	if !m.loading {
		status = "updated " + m.updated.Format("15:04:05")
	}

	head := styles.Title.Render("kcap") + styles.Header.Render(
		fmt.Sprintf("  │ type: %s  sort: %s  usage: %s  %s  (%d rows)",
			m.opts.Type, m.sortBy, usage, status, len(m.records)),
	)
	body := lipgloss.NewStyle().Padding(0, 1).Render(m.table.View())

	errLine := ""
	if m.err != nil {
		errLine = styles.Danger.Render("error: " + m.err.Error())
	}
	footer := styles.Footer.Render("↑/↓ move • [s] sort • [Tab] node/namespace • [u] usage • [r] refresh • [q] quit")

	return lipgloss.JoinVertical(lipgloss.Left, head, body, errLine, footer)
}
