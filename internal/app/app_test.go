package app

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HaPhanBaoMinh/kcap/internal/domain"
	"github.com/HaPhanBaoMinh/kcap/internal/infrastructure/mock"
)

type failingCollector struct{}

func (failingCollector) Collect(context.Context, domain.CollectOptions) ([]domain.ResourceRequests, error) {
	return nil, errors.New("forbidden")
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T, c domain.Collector) Model {
	t.Helper()
	m := New(context.Background(), c, zap.NewNop(), Config{SortBy: domain.SortCPU, Interval: time.Second})
	t.Cleanup(m.cancel)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	return next.(Model)
}

// load runs the fetch command synchronously and feeds its message back.
func load(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(m.fetch()())
	return next.(Model)
}

func TestModel_LoadsAndSorts(t *testing.T) {
	m := load(t, newModel(t, mock.New()))

	require.Len(t, m.records, 5)
	assert.False(t, m.loading)
	require.Len(t, m.table.Rows(), 5)
	assert.Equal(t, "ip-10-0-2-3", m.table.Rows()[0][0], "highest cpu requests first")
	assert.Len(t, m.table.Rows()[0], 6, "usage columns hidden plus bar")
	assert.Contains(t, m.View(), "sort: cpu")
}

func TestModel_CycleSort(t *testing.T) {
	m := load(t, newModel(t, mock.New()))

	next, _ := m.Update(key("s"))
	m = next.(Model)

	assert.Equal(t, domain.SortMem, m.sortBy)
	assert.Equal(t, "ip-10-0-2-3", m.table.Rows()[0][0])

	next, _ = m.Update(key("s"))
	m = next.(Model)
	assert.Equal(t, domain.SortStorage, m.sortBy)
	assert.Equal(t, "ip-10-0-2-3", m.table.Rows()[0][0])
	assert.Contains(t, m.View(), "sort: storage")
}

func TestModel_ToggleUsage(t *testing.T) {
	m := load(t, newModel(t, mock.New()))

	next, cmd := m.Update(key("u"))
	m = next.(Model)
	require.NotNil(t, cmd, "enabling usage refetches")
	assert.True(t, m.opts.Utilization)

	m = load(t, m)
	assert.Len(t, m.table.Rows()[0], 8)
	assert.Contains(t, m.table.Rows()[0][2], "m (")
}

func TestModel_SwitchType(t *testing.T) {
	m := load(t, newModel(t, mock.New()))

	next, cmd := m.Update(key("tab"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, domain.ResourceNamespace, m.opts.Type)
	assert.Empty(t, m.records)

	// stale node response is dropped
	next, _ = m.Update(recordsMsg{typ: domain.ResourceNode, records: []domain.ResourceRequests{{Name: "stale"}}})
	m = next.(Model)
	assert.Empty(t, m.records)

	m = load(t, m)
	assert.Len(t, m.records, 4)
}

func TestModel_Error(t *testing.T) {
	m := load(t, newModel(t, failingCollector{}))

	require.Error(t, m.err)
	assert.Contains(t, m.View(), "forbidden")
}

func TestModel_SwitchTypeDropsStaleError(t *testing.T) {
	m := load(t, newModel(t, mock.New()))

	next, _ := m.Update(key("tab"))
	m = next.(Model)
	require.Equal(t, domain.ResourceNamespace, m.opts.Type)

	next, _ = m.Update(errMsg{typ: domain.ResourceNode, error: errors.New("forbidden")})
	m = next.(Model)
	assert.NoError(t, m.err)
	assert.True(t, m.loading)
	assert.NotContains(t, m.View(), "forbidden")

	next, _ = m.Update(errMsg{typ: domain.ResourceNamespace, error: errors.New("forbidden")})
	m = next.(Model)
	assert.Error(t, m.err)
	assert.False(t, m.loading)
}

func TestModel_Quit(t *testing.T) {
	m := newModel(t, mock.New())

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Error(t, m.ctx.Err())
}

func TestColWidths(t *testing.T) {
	wName, wMetric, wBar := colWidths(200, 6)
	assert.Equal(t, 16, wMetric)
	assert.LessOrEqual(t, wName+6*wMetric+wBar, 200)
	assert.GreaterOrEqual(t, wBar, 8)

	wName, _, wBar = colWidths(10, 6)
	assert.Equal(t, 16, wName)
	assert.Equal(t, 8, wBar)
}
