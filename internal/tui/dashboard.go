package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mdjaved24/mlplay/internal/api"
	"github.com/mdjaved24/mlplay/internal/charts"
)

type dashboardModel struct {
	stats   api.DashboardStats
	metrics []float64
	loaded  bool
	loading bool
	errMsg  string

	width  int
	height int
}

func newDashboardModel() *dashboardModel {
	return &dashboardModel{}
}

func (m *dashboardModel) startLoad() {
	m.loading = true
	m.errMsg = ""
}

func (m *dashboardModel) setSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *dashboardModel) updateKey(deps Deps, msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "r" && !m.loading {
		m.startLoad()
		return dashboardCmd(deps.API, deps.History)
	}
	return nil
}

func (m *dashboardModel) update(msg tea.Msg) tea.Cmd {
	done, ok := msg.(dashboardMsg)
	if !ok {
		return nil
	}
	m.loading = false
	if done.err != nil {
		m.errMsg = done.err.Error()
		return nil
	}
	m.loaded = true
	m.errMsg = ""
	m.stats = done.stats
	m.metrics = done.metrics
	return nil
}

func (m *dashboardModel) view(width, height int) string {
	if m.loading && !m.loaded {
		return fitLines(headerStyle.Render("loading dashboard..."), width, height)
	}
	if !m.loaded {
		msg := "Dashboard is unavailable."
		if m.errMsg != "" {
			msg = m.errMsg
		}
		return fitLines(errorStyle.Render(truncateLine(msg, width)), width, height)
	}

	cards := []string{
		metricCard("Total Models", fmt.Sprintf("%d", m.stats.TotalModels)),
		metricCard("Active Models", fmt.Sprintf("%d", m.stats.ActiveModels)),
		metricCard("Avg Accuracy", fmt.Sprintf("%.1f%%", m.stats.AvgAccuracy*100)),
		metricCard("Avg Training", fmt.Sprintf("%.2fs", m.stats.AvgTrainingTime)),
	}
	var cardBlock string
	if width < 80 {
		cardBlock = strings.Join(cards, "\n")
	} else {
		cardBlock = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	sections := []string{cardBlock}
	if m.stats.RecentAvgAccuracy > 0 || m.stats.RecentAvgTrainingTime > 0 {
		recent := fmt.Sprintf("last 30 days: %.1f%% accuracy, %.2fs training",
			m.stats.RecentAvgAccuracy*100, m.stats.RecentAvgTrainingTime)
		sections = append(sections, labelStyle.Render(recent))
	}
	sections = append(sections, "", m.distributionBlock(width))
	if block := m.performanceBlock(width); block != "" {
		sections = append(sections, "", block)
	}
	if block := m.localRunsBlock(); block != "" {
		sections = append(sections, "", block)
	}
	if m.errMsg != "" {
		sections = append(sections, "", errorStyle.Render(truncateLine(m.errMsg, width)))
	}
	return fitLines(strings.Join(sections, "\n"), width, height)
}

func (m *dashboardModel) distributionBlock(width int) string {
	dist := m.stats.ModelDistribution
	if dist.Classification == 0 && dist.Regression == 0 {
		return labelStyle.Render("No saved models yet.")
	}
	chart := &charts.Chart{
		Mode:   charts.ModeBar,
		Title:  "Models by problem type",
		Labels: []string{"classification", "regression"},
		Values: []float64{float64(dist.Classification), float64(dist.Regression)},
	}
	return charts.Render(chart, width, 0)
}

func (m *dashboardModel) performanceBlock(width int) string {
	buckets := m.stats.PerformanceDistribution
	if len(buckets) == 0 {
		return ""
	}
	labels := make([]string, len(buckets))
	values := make([]float64, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Range
		values[i] = float64(b.Count)
	}
	chart := &charts.Chart{
		Mode:   charts.ModeBar,
		Title:  "Accuracy distribution",
		Labels: labels,
		Values: values,
	}
	return charts.Render(chart, width, 0)
}

// localRunsBlock shows the score trend of runs trained from this machine.
func (m *dashboardModel) localRunsBlock() string {
	if len(m.metrics) < 2 {
		return ""
	}
	return labelStyle.Render("Recent local runs: ") + charts.Sparkline(m.metrics)
}
