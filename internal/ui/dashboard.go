package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chemviz/chemviz-tui/internal/charts"
	"github.com/chemviz/chemviz-tui/internal/model"
)

// dashboardScreen renders the metrics view: summary cards, the type
// distribution and averages charts, and the per-equipment deep dive.
type dashboardScreen struct {
	deps *deps

	vp      viewport.Model
	metric  model.Metric
	record  *model.UploadRecord
	latest  *model.LatestDataset
	loading int
	errMsg  string
	seq     int

	width  int
	height int
}

func newDashboardScreen(d *deps) *dashboardScreen {
	return &dashboardScreen{
		deps:   d,
		vp:     viewport.New(0, 0),
		metric: model.MetricFlowrate,
	}
}

// show refetches both the summaries and the latest raw rows.
func (s *dashboardScreen) show() tea.Cmd {
	s.seq++
	seq := s.seq
	s.loading = 2
	s.errMsg = ""
	client := s.deps.client
	fetchSummaries := func() tea.Msg {
		records, err := client.Summaries(context.Background())
		return summariesMsg{seq: seq, records: records, err: err}
	}
	fetchLatest := func() tea.Msg {
		latest, err := client.LatestRows(context.Background())
		return latestRowsMsg{seq: seq, latest: latest, err: err}
	}
	return tea.Batch(fetchSummaries, fetchLatest)
}

func (s *dashboardScreen) setSize(width, height int) {
	s.width = width
	s.height = height
	s.vp.Width = width
	s.vp.Height = maxInt(1, height-1)
	s.refreshContent()
}

func (s *dashboardScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case summariesMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.loading--
		if msg.err != nil {
			s.errMsg = "Failed to load summaries: " + msg.err.Error()
		} else if len(msg.records) > 0 {
			record := msg.records[0]
			s.record = &record
		} else {
			s.record = nil
		}
		s.refreshContent()
		return s, nil
	case latestRowsMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.loading--
		if msg.err != nil {
			s.errMsg = "Failed to load latest rows: " + msg.err.Error()
		} else {
			latest := msg.latest
			s.latest = &latest
		}
		s.refreshContent()
		return s, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "m":
			s.metric = s.metric.Next()
			s.refreshContent()
			return s, nil
		case "r":
			return s, s.show()
		case "g", "home":
			s.vp.GotoTop()
			return s, nil
		case "G", "end":
			s.vp.GotoBottom()
			return s, nil
		}
	}
	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	return s, cmd
}

func (s *dashboardScreen) refreshContent() {
	s.vp.SetContent(s.renderContent())
}

func (s *dashboardScreen) renderContent() string {
	if s.loading > 0 {
		return subtleStyle.Render("Loading dashboard...")
	}
	if s.errMsg != "" {
		return errorStyle.Render(s.errMsg)
	}
	if s.record == nil {
		return subtleStyle.Render("No datasets yet. Upload a CSV to populate the dashboard.")
	}

	summary := s.record.Summary
	chartWidth := maxInt(20, s.width-2)

	sections := []string{
		titleStyle.Render("Dashboard") + subtleStyle.Render("  latest: "+s.record.Name),
		"",
		s.renderCards(summary),
		"",
		charts.RenderBarsString("Equipment by type", charts.TypeDistributionBars(summary.TypeDistribution), chartWidth),
		charts.RenderBarsString("Averages", charts.AverageBars(summary), chartWidth),
	}
	if s.latest != nil && len(s.latest.Rows) > 0 {
		title := fmt.Sprintf("Top %d by %s", charts.DeepDiveSize, s.metric)
		sections = append(sections,
			charts.RenderBarsString(title, charts.DeepDiveBars(s.latest.Rows, s.metric), chartWidth))
	}
	return strings.Join(sections, "\n")
}

func (s *dashboardScreen) renderCards(summary model.DatasetSummary) string {
	cards := []string{
		renderCard("Total equipment", fmt.Sprintf("%d", summary.TotalEquipment)),
		renderCard("Avg flowrate", charts.FormatAverage(summary.AvgFlowrate, "m³/h")),
		renderCard("Avg pressure", charts.FormatAverage(summary.AvgPressure, "bar")),
		renderCard("Avg temperature", charts.FormatAverage(summary.AvgTemperature, "°C")),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderCard(title, value string) string {
	body := cardTitleStyle.Render(title) + "\n" + cardValueStyle.Render(value)
	return cardStyle.Render(body)
}

func (s *dashboardScreen) view() string {
	help := helpStyle.Render(truncateLine("m: metric  r: refresh  up/down: scroll", s.width))
	return s.vp.View() + "\n" + help
}
