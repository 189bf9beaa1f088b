package model

// Frame is a rectangular view backing a table panel or an export. Cell
// values keep full precision; formatting happens at render/export time.
type Frame struct {
	Title   string   `json:"title"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// NumRows returns the number of data rows.
func (f *Frame) NumRows() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// Truncate returns a copy limited to the first maxRows rows and maxCols
// columns. Used by the PDF snapshot export.
func (f *Frame) Truncate(maxRows, maxCols int) *Frame {
	cols := f.Columns
	if maxCols > 0 && len(cols) > maxCols {
		cols = cols[:maxCols]
	}
	rows := f.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	out := &Frame{Title: f.Title, Columns: append([]string(nil), cols...)}
	for _, r := range rows {
		c := r
		if len(c) > len(cols) {
			c = c[:len(cols)]
		}
		out.Rows = append(out.Rows, append([]any(nil), c...))
	}
	return out
}

// KPIEntry is one labelled count with its share of the block total.
type KPIEntry struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// HeadcountKPI is the KPI strip payload for the latest period of a slice.
type HeadcountKPI struct {
	Period     string     `json:"period"`
	Total      int        `json:"total"`
	ByRelation []KPIEntry `json:"byRelation"`
	BySex      []KPIEntry `json:"bySex"`
}

// MeasureDelta compares one measure between the current and previous
// period. HasBase is false when the previous value is not a valid base.
type MeasureDelta struct {
	Measure  string  `json:"measure"`
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	DeltaPct float64 `json:"deltaPct"`
	HasBase  bool    `json:"hasBase"`
	Up       bool    `json:"up"`
}

// PeriodDelta carries the latest-vs-penultimate period comparison.
type PeriodDelta struct {
	CurrentPeriod  string         `json:"currentPeriod"`
	PreviousPeriod string         `json:"previousPeriod"`
	Measures       []MeasureDelta `json:"measures"`
}

// EvolutionPoint is one month of a time series with its month-over-month
// variation.
type EvolutionPoint struct {
	Month     string  `json:"month"`
	Value     float64 `json:"value"`
	Delta     float64 `json:"delta"`
	PctChange float64 `json:"pctChange"`
}

// HeatmapGrid is a dense (row dimension × month) grid, zero-padded for
// combinations absent from the slice.
type HeatmapGrid struct {
	RowDim string      `json:"rowDim"`
	Rows   []string    `json:"rows"`
	Months []string    `json:"months"`
	Values [][]float64 `json:"values"`
}

// WhatIfResult is the salary what-if simulation outcome.
type WhatIfResult struct {
	Current   float64 `json:"current"`
	Increment float64 `json:"increment"`
	Projected float64 `json:"projected"`
}
