package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/chemviz/chemviz-tui/internal/charts"
	"github.com/chemviz/chemviz-tui/internal/model"
)

// historyScreen lists past uploads and downloads PDF reports per row.
type historyScreen struct {
	deps *deps

	tbl     table.Model
	records []model.UploadRecord
	loading bool
	errMsg  string
	seq     int

	// Per-upload download state, keyed by upload id. A row stays marked
	// while its report request is in flight, and keeps its saved path after.
	downloading map[int64]bool
	savedPaths  map[int64]string
	notice      string

	width  int
	height int
}

func newHistoryScreen(d *deps) *historyScreen {
	s := &historyScreen{
		deps:        d,
		downloading: map[int64]bool{},
		savedPaths:  map[int64]string{},
	}
	s.tbl = table.New(
		table.WithColumns(historyColumns()),
		table.WithFocused(true),
	)
	s.tbl.SetStyles(historyTableStyles())
	return s
}

func historyColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Name", Width: 24},
		{Title: "Uploaded", Width: 17},
		{Title: "By", Width: 12},
		{Title: "Rows", Width: 6},
		{Title: "Accepted", Width: 8},
		{Title: "Rejected", Width: 8},
		{Title: "Size", Width: 9},
		{Title: "Report", Width: 12},
	}
}

func historyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (s *historyScreen) show() tea.Cmd {
	s.seq++
	seq := s.seq
	s.loading = true
	s.errMsg = ""
	s.notice = ""
	client := s.deps.client
	return func() tea.Msg {
		records, err := client.Summaries(context.Background())
		return summariesMsg{seq: seq, records: records, err: err}
	}
}

func (s *historyScreen) setSize(width, height int) {
	s.width = width
	s.height = height
	s.tbl.SetWidth(width)
	s.tbl.SetHeight(maxInt(1, height-4))
}

func (s *historyScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case summariesMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.loading = false
		if msg.err != nil {
			s.errMsg = "Failed to load history: " + msg.err.Error()
			return s, nil
		}
		s.records = msg.records
		s.rebuildRows()
		return s, nil
	case reportSavedMsg:
		delete(s.downloading, msg.uploadID)
		if msg.err != nil {
			s.notice = errorStyle.Render(fmt.Sprintf("Report for upload %d failed: %v", msg.uploadID, msg.err))
		} else {
			s.savedPaths[msg.uploadID] = msg.path
			s.notice = successStyle.Render("Saved " + msg.path)
		}
		s.rebuildRows()
		return s, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return s, s.show()
		case "enter", "p":
			return s, s.downloadSelected()
		}
	}
	var cmd tea.Cmd
	s.tbl, cmd = s.tbl.Update(msg)
	return s, cmd
}

// downloadSelected fetches the PDF for the highlighted row. Downloads for
// different rows may run at once; a second request for the same row while
// one is in flight is ignored.
func (s *historyScreen) downloadSelected() tea.Cmd {
	idx := s.tbl.Cursor()
	if idx < 0 || idx >= len(s.records) {
		return nil
	}
	record := s.records[idx]
	if s.downloading[record.ID] {
		return nil
	}
	s.downloading[record.ID] = true
	s.notice = subtleStyle.Render(fmt.Sprintf("Downloading report for upload %d...", record.ID))
	s.rebuildRows()

	seq := s.seq
	client := s.deps.client
	log := s.deps.log
	dir := s.deps.downloadDir
	uploadID := record.ID
	return func() tea.Msg {
		data, err := client.Report(context.Background(), uploadID)
		if err != nil {
			return reportSavedMsg{seq: seq, uploadID: uploadID, err: err}
		}
		path, err := SaveReport(dir, uploadID, data)
		if err != nil {
			return reportSavedMsg{seq: seq, uploadID: uploadID, err: err}
		}
		log.Info("report saved",
			zap.Int64("upload_id", uploadID),
			zap.String("path", path),
		)
		return reportSavedMsg{seq: seq, uploadID: uploadID, path: path}
	}
}

// SaveReport writes a downloaded report under dir as report-<id>.pdf.
func SaveReport(dir string, uploadID int64, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("report-%d.pdf", uploadID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func (s *historyScreen) rebuildRows() {
	rows := make([]table.Row, 0, len(s.records))
	for _, record := range s.records {
		rows = append(rows, table.Row{
			strconv.FormatInt(record.ID, 10),
			record.Name,
			record.UploadedAt.Local().Format("2006-01-02 15:04"),
			record.UploadedBy,
			strconv.Itoa(recordRowCount(record)),
			strconv.Itoa(recordAccepted(record)),
			strconv.Itoa(recordRejected(record)),
			charts.FormatBytes(recordSize(record)),
			s.reportState(record.ID),
		})
	}
	s.tbl.SetRows(rows)
}

func (s *historyScreen) reportState(uploadID int64) string {
	switch {
	case s.downloading[uploadID]:
		return "downloading"
	case s.savedPaths[uploadID] != "":
		return "saved"
	default:
		return "enter: pdf"
	}
}

// The list payload carries counts both at the top level and inside the
// nested summary depending on server version; prefer the top level.
func recordRowCount(record model.UploadRecord) int {
	if record.RowCount > 0 {
		return record.RowCount
	}
	return record.Summary.RowCount
}

func recordAccepted(record model.UploadRecord) int {
	if record.AcceptedRows > 0 {
		return record.AcceptedRows
	}
	if record.ValidationSummary != nil {
		return record.ValidationSummary.AcceptedRows
	}
	return 0
}

func recordRejected(record model.UploadRecord) int {
	if record.RejectedRows > 0 {
		return record.RejectedRows
	}
	if record.ValidationSummary != nil {
		return record.ValidationSummary.RejectedRows
	}
	return 0
}

func recordSize(record model.UploadRecord) int64 {
	if record.FileSizeBytes > 0 {
		return record.FileSizeBytes
	}
	return record.Summary.FileSizeBytes
}

func (s *historyScreen) view() string {
	header := titleStyle.Render("Upload history")
	switch {
	case s.loading:
		return header + "\n" + subtleStyle.Render("Loading history...")
	case s.errMsg != "":
		return header + "\n" + errorStyle.Render(s.errMsg)
	case len(s.records) == 0:
		return header + "\n" + subtleStyle.Render("No uploads yet.")
	}
	lines := []string{header, s.tbl.View()}
	if s.notice != "" {
		lines = append(lines, s.notice)
	}
	lines = append(lines, helpStyle.Render(truncateLine("enter: download pdf  r: refresh  up/down: select", s.width)))
	return strings.Join(lines, "\n")
}
