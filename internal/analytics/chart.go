package analytics

// Chart describes one plottable figure for the external rendering layer.
// It is purely structural: the adapter reshapes computed series without
// recomputing or mutating them.
type Chart struct {
	Type   string  `json:"type"`
	Title  string  `json:"title"`
	XTitle string  `json:"x_title,omitempty"`
	YTitle string  `json:"y_title,omitempty"`
	Traces []Trace `json:"traces"`
}

// Trace is one series within a chart. Line and bar traces use X/Y; pie
// traces use Labels/Values.
type Trace struct {
	Name   string    `json:"name,omitempty"`
	X      []string  `json:"x,omitempty"`
	Y      []float64 `json:"y,omitempty"`
	Labels []string  `json:"labels,omitempty"`
	Values []float64 `json:"values,omitempty"`
}

// LineChart builds a line figure from one or more traces.
func LineChart(title, xTitle, yTitle string, traces ...Trace) Chart {
	return Chart{Type: "line", Title: title, XTitle: xTitle, YTitle: yTitle, Traces: traces}
}

// BarChart builds a bar figure from one or more traces.
func BarChart(title, xTitle, yTitle string, traces ...Trace) Chart {
	return Chart{Type: "bar", Title: title, XTitle: xTitle, YTitle: yTitle, Traces: traces}
}

// PieChart builds a pie figure from labelled values.
func PieChart(title string, labels []string, values []float64) Chart {
	return Chart{Type: "pie", Title: title, Traces: []Trace{{Labels: labels, Values: values}}}
}

// seriesFromAggregates splits aggregate rows into parallel key and value
// slices for one reduced column, preserving row order.
func seriesFromAggregates(rows []AggregateRow, column string) ([]string, []float64) {
	keys := make([]string, 0, len(rows))
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, row.Key)
		values = append(values, row.Get(column))
	}
	return keys, values
}
