package charts

import (
	"fmt"
	"sort"

	"github.com/chemviz/chemviz-tui/internal/model"
)

// DeepDiveSize caps the single-metric ranking on the dashboard.
const DeepDiveSize = 20

// TypeDistributionBars turns the summary's type counts into bars,
// largest count first, ties broken by type name.
func TypeDistributionBars(distribution map[string]int) []Bar {
	bars := make([]Bar, 0, len(distribution))
	for name, count := range distribution {
		bars = append(bars, Bar{Label: name, Value: float64(count)})
	}
	sort.Slice(bars, func(i, j int) bool {
		if bars[i].Value == bars[j].Value {
			return bars[i].Label < bars[j].Label
		}
		return bars[i].Value > bars[j].Value
	})
	return bars
}

// AverageBars builds the averaged-metrics chart. Absent averages render
// as zero, matching the browser dashboard.
func AverageBars(summary model.DatasetSummary) []Bar {
	return []Bar{
		{Label: "Flowrate", Value: deref(summary.AvgFlowrate)},
		{Label: "Pressure", Value: deref(summary.AvgPressure)},
		{Label: "Temperature", Value: deref(summary.AvgTemperature)},
	}
}

// TopEquipment ranks rows by the chosen metric, descending, keeping at
// most n. Ties are broken by equipment name for a stable display.
func TopEquipment(rows []model.EquipmentRow, metric model.Metric, n int) []model.EquipmentRow {
	if n <= 0 || len(rows) == 0 {
		return nil
	}
	out := append([]model.EquipmentRow(nil), rows...)
	sort.Slice(out, func(i, j int) bool {
		vi := metric.Value(out[i])
		vj := metric.Value(out[j])
		if vi == vj {
			return out[i].EquipmentName < out[j].EquipmentName
		}
		return vi > vj
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// DeepDiveBars renders the top equipment ranking as chart bars.
func DeepDiveBars(rows []model.EquipmentRow, metric model.Metric) []Bar {
	top := TopEquipment(rows, metric, DeepDiveSize)
	bars := make([]Bar, 0, len(top))
	for _, row := range top {
		bars = append(bars, Bar{Label: row.EquipmentName, Value: metric.Value(row)})
	}
	return bars
}

// FormatBytes renders a byte count the way the upload history does:
// KB below one megabyte, MB otherwise, em dash for unknown.
func FormatBytes(bytes int64) string {
	if bytes <= 0 {
		return "—"
	}
	mb := float64(bytes) / (1024 * 1024)
	if mb < 1 {
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%.2f MB", mb)
}

// FormatAverage renders an optional average with its unit.
func FormatAverage(value *float64, unit string) string {
	if value == nil {
		return "--"
	}
	if unit == "" {
		return fmt.Sprintf("%.2f", *value)
	}
	return fmt.Sprintf("%.2f %s", *value, unit)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
