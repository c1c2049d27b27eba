package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chemviz/chemviz-tui/internal/model"
)

func TestSaveReportWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	path, err := SaveReport(dir, 12, []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("save report: %v", err)
	}
	if filepath.Base(path) != "report-12.pdf" {
		t.Fatalf("unexpected file name: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if string(data) != "%PDF-1.4" {
		t.Fatalf("unexpected contents: %q", data)
	}
}

func TestRecordCountsPreferTopLevel(t *testing.T) {
	record := model.UploadRecord{
		RowCount:     10,
		AcceptedRows: 8,
		RejectedRows: 2,
		Summary:      model.DatasetSummary{RowCount: 99},
		ValidationSummary: &model.ValidationSummary{
			AcceptedRows: 99,
			RejectedRows: 99,
		},
	}
	if got := recordRowCount(record); got != 10 {
		t.Fatalf("row count = %d, want 10", got)
	}
	if got := recordAccepted(record); got != 8 {
		t.Fatalf("accepted = %d, want 8", got)
	}
	if got := recordRejected(record); got != 2 {
		t.Fatalf("rejected = %d, want 2", got)
	}
}

func TestRecordCountsFallBackToValidation(t *testing.T) {
	record := model.UploadRecord{
		Summary: model.DatasetSummary{RowCount: 7, FileSizeBytes: 2048},
		ValidationSummary: &model.ValidationSummary{
			AcceptedRows: 5,
			RejectedRows: 2,
		},
	}
	if got := recordRowCount(record); got != 7 {
		t.Fatalf("row count = %d, want 7", got)
	}
	if got := recordAccepted(record); got != 5 {
		t.Fatalf("accepted = %d, want 5", got)
	}
	if got := recordRejected(record); got != 2 {
		t.Fatalf("rejected = %d, want 2", got)
	}
	if got := recordSize(record); got != 2048 {
		t.Fatalf("size = %d, want 2048", got)
	}
}
