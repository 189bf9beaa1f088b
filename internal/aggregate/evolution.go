package aggregate

import (
	"github.com/Tincho2002/RRHH-sub000/internal/format"
	"github.com/Tincho2002/RRHH-sub000/internal/model"
)

// MonthlyEvolution groups a slice by calendar month and totals one
// measure (or counts rows when measure is empty), with absolute and
// percent month-over-month variation. The first month's variation is 0.
func MonthlyEvolution(slice []model.Row, measure string) []model.EvolutionPoint {
	byMonth := make(map[string][]model.Row)
	present := make([]string, 0)
	for _, row := range slice {
		m := row.Dim(model.DimMonth)
		if m == model.NotAvailable {
			continue
		}
		if _, ok := byMonth[m]; !ok {
			present = append(present, m)
		}
		byMonth[m] = append(byMonth[m], row)
	}
	present = model.SortDimValues(model.DimMonth, present)

	out := make([]model.EvolutionPoint, 0, len(present))
	prev := 0.0
	for i, m := range present {
		v := sumMeasure(byMonth[m], measure)
		p := model.EvolutionPoint{Month: m, Value: v}
		if i > 0 {
			p.Delta = v - prev
			if prev != 0 {
				p.PctChange = (v - prev) / prev * 100
			}
		}
		prev = v
		out = append(out, p)
	}
	return out
}

// Heatmap aggregates one measure over (rowDim × Month) and returns a
// dense grid: every row/month combination appears, zero-padded when the
// slice has no matching rows.
func Heatmap(slice []model.Row, rowDim, measure string) *model.HeatmapGrid {
	type cellKey struct{ row, month string }
	sums := make(map[cellKey]float64)
	rowSeen := make(map[string]bool)
	monthSeen := make(map[string]bool)
	rows := make([]string, 0)
	months := make([]string, 0)

	for _, r := range slice {
		rv := r.Dim(rowDim)
		mv := r.Dim(model.DimMonth)
		if mv == model.NotAvailable {
			continue
		}
		if !rowSeen[rv] {
			rowSeen[rv] = true
			rows = append(rows, rv)
		}
		if !monthSeen[mv] {
			monthSeen[mv] = true
			months = append(months, mv)
		}
		if measure == "" {
			sums[cellKey{rv, mv}]++
		} else {
			sums[cellKey{rv, mv}] += r.Measure(measure)
		}
	}

	rows = model.SortDimValues(rowDim, rows)
	months = model.SortDimValues(model.DimMonth, months)

	grid := &model.HeatmapGrid{RowDim: rowDim, Rows: rows, Months: months}
	for _, rv := range rows {
		line := make([]float64, len(months))
		for i, mv := range months {
			line[i] = sums[cellKey{rv, mv}]
		}
		grid.Values = append(grid.Values, line)
	}
	return grid
}

// EvolutionFrame converts an evolution series to an export-ready frame
// with Spanish variation column headers.
func EvolutionFrame(points []model.EvolutionPoint, measureLabel string) *model.Frame {
	frame := &model.Frame{
		Title:   "Evolución mensual",
		Columns: []string{"Mes", measureLabel, "Variación", "Variación %"},
	}
	for _, p := range points {
		frame.Rows = append(frame.Rows, []any{p.Month, p.Value, p.Delta, format.Round1(p.PctChange)})
	}
	return frame
}

// HeatmapFrame flattens a heatmap grid to a frame, one row per rowDim
// value and one column per month.
func HeatmapFrame(grid *model.HeatmapGrid) *model.Frame {
	frame := &model.Frame{
		Title:   "Mapa de calor",
		Columns: append([]string{grid.RowDim}, grid.Months...),
	}
	for i, rv := range grid.Rows {
		cells := make([]any, 0, len(grid.Months)+1)
		cells = append(cells, rv)
		for _, v := range grid.Values[i] {
			cells = append(cells, v)
		}
		frame.Rows = append(frame.Rows, cells)
	}
	return frame
}
