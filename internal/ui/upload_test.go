package ui

import (
	"strings"
	"testing"

	"github.com/chemviz/chemviz-tui/internal/model"
)

func TestRenderUploadResultCleanFile(t *testing.T) {
	record := model.UploadRecord{
		ID:   7,
		Name: "plant-a.csv",
		ValidationSummary: &model.ValidationSummary{
			TotalRows:    120,
			AcceptedRows: 120,
		},
	}
	out := strings.Join(renderUploadResult(record), "\n")
	if !strings.Contains(out, "plant-a.csv") {
		t.Fatalf("missing dataset name: %s", out)
	}
	if !strings.Contains(out, "120 total, 120 accepted, 0 rejected") {
		t.Fatalf("missing row counts: %s", out)
	}
	if strings.Contains(out, "Row errors") {
		t.Fatalf("clean upload should not list row errors: %s", out)
	}
}

func TestRenderUploadResultRejectedRows(t *testing.T) {
	rowErrors := make([]model.RowError, 0, 12)
	for i := 0; i < 12; i++ {
		rowErrors = append(rowErrors, model.RowError{Row: i + 2, Column: "Pressure", Message: "not a number"})
	}
	record := model.UploadRecord{
		ID:   8,
		Name: "plant-b.csv",
		ValidationSummary: &model.ValidationSummary{
			TotalRows:     50,
			AcceptedRows:  38,
			RejectedRows:  12,
			MissingValues: map[string]int{"Flowrate": 3},
			InvalidValues: map[string]int{"Pressure": 12},
			OutOfRange:    map[string]int{"Temperature": 1},
			RowErrors:     rowErrors,
		},
	}
	out := strings.Join(renderUploadResult(record), "\n")
	for _, want := range []string{
		"38 accepted, 12 rejected",
		"Missing values",
		"Flowrate 3",
		"Invalid values",
		"Pressure 12",
		"Out of range",
		"Temperature 1",
		"Row errors:",
		"and 2 more",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderUploadResultFallsBackToUploadID(t *testing.T) {
	out := strings.Join(renderUploadResult(model.UploadRecord{ID: 42}), "\n")
	if !strings.Contains(out, "upload #42") {
		t.Fatalf("expected id fallback name: %s", out)
	}
}
