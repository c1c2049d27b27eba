// Package model defines shared data structures.
package model

import "time"

// Profile describes the authenticated account as returned by the server.
type Profile struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	LastLogin *time.Time `json:"last_login"`
}

// DatasetSummary holds server-computed aggregates for one upload.
type DatasetSummary struct {
	TotalEquipment   int                `json:"total_equipment"`
	AvgFlowrate      *float64           `json:"avg_flowrate"`
	AvgPressure      *float64           `json:"avg_pressure"`
	AvgTemperature   *float64           `json:"avg_temperature"`
	TypeDistribution map[string]int     `json:"type_distribution"`
	RowCount         int                `json:"row_count,omitempty"`
	FileSizeBytes    int64              `json:"file_size_bytes,omitempty"`
	Validation       *ValidationSummary `json:"validation,omitempty"`
}

// RowError reports a single rejected cell.
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

// ValidationSummary reports row and column level data-quality defects.
type ValidationSummary struct {
	TotalRows     int            `json:"total_rows"`
	AcceptedRows  int            `json:"accepted_rows"`
	RejectedRows  int            `json:"rejected_rows"`
	MissingValues map[string]int `json:"missing_values"`
	InvalidValues map[string]int `json:"invalid_values"`
	OutOfRange    map[string]int `json:"out_of_range"`
	RowErrors     []RowError     `json:"row_errors,omitempty"`
}

// UploadRecord describes one upload with its summary, as listed by the server.
type UploadRecord struct {
	ID                int64              `json:"id"`
	Name              string             `json:"name"`
	UploadedAt        time.Time          `json:"uploaded_at"`
	Summary           DatasetSummary     `json:"summary"`
	UploadedBy        string             `json:"uploaded_by,omitempty"`
	RowCount          int                `json:"row_count,omitempty"`
	FileSizeBytes     int64              `json:"file_size_bytes,omitempty"`
	AcceptedRows      int                `json:"accepted_rows,omitempty"`
	RejectedRows      int                `json:"rejected_rows,omitempty"`
	ValidationSummary *ValidationSummary `json:"validation_summary,omitempty"`
}

// EquipmentRow is one raw dataset row, using the server's column names.
type EquipmentRow struct {
	EquipmentName string  `json:"Equipment Name"`
	Type          string  `json:"Type"`
	Flowrate      float64 `json:"Flowrate"`
	Pressure      float64 `json:"Pressure"`
	Temperature   float64 `json:"Temperature"`
}

// LatestDataset is a sample of the most recent upload's raw rows.
type LatestDataset struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	UploadedAt time.Time      `json:"uploaded_at"`
	Rows       []EquipmentRow `json:"rows"`
}

// Metric identifies one of the numeric equipment columns.
type Metric string

// Numeric metrics available for the dashboard deep dive.
const (
	MetricFlowrate    Metric = "Flowrate"
	MetricPressure    Metric = "Pressure"
	MetricTemperature Metric = "Temperature"
)

// Value returns the row's value for the metric.
func (m Metric) Value(row EquipmentRow) float64 {
	switch m {
	case MetricPressure:
		return row.Pressure
	case MetricTemperature:
		return row.Temperature
	default:
		return row.Flowrate
	}
}

// Next cycles to the following metric.
func (m Metric) Next() Metric {
	switch m {
	case MetricFlowrate:
		return MetricPressure
	case MetricPressure:
		return MetricTemperature
	default:
		return MetricFlowrate
	}
}
