package aggregate

import (
	"sort"

	"github.com/Tincho2002/RRHH-sub000/internal/model"
)

// Breakdown pivots a slice into a stacked-composition frame: one row per
// primary dimension value, one column per stacking value, counting rows.
// A Total column and a closing total row are appended; data rows are
// sorted by Total descending and sentinel primaries are dropped.
//
// When the stacking dimension is Relation the column order is the fixed
// contract order; otherwise stackOrder (normally the user's current
// management selection) wins, falling back to canonical order.
func Breakdown(slice []model.Row, primaryDim, stackDim string, stackOrder []string) *model.Frame {
	counts := make(map[string]map[string]int)
	primaries := make([]string, 0)
	stackSeen := make(map[string]bool)
	stacks := make([]string, 0)

	for _, row := range slice {
		p := dimLabel(row.Dim(primaryDim))
		if p == model.NotAvailable {
			continue
		}
		s := dimLabel(row.Dim(stackDim))
		if counts[p] == nil {
			counts[p] = make(map[string]int)
			primaries = append(primaries, p)
		}
		counts[p][s]++
		if !stackSeen[s] {
			stackSeen[s] = true
			stacks = append(stacks, s)
		}
	}

	stacks = orderStacks(stackDim, stacks, stackOrder)

	totals := make(map[string]int, len(primaries))
	for _, p := range primaries {
		for _, s := range stacks {
			totals[p] += counts[p][s]
		}
	}
	sort.SliceStable(primaries, func(i, j int) bool {
		return totals[primaries[i]] > totals[primaries[j]]
	})

	frame := &model.Frame{
		Title:   primaryDim + " × " + stackDim,
		Columns: append(append([]string{primaryDim}, stacks...), "Total"),
	}
	columnTotals := make([]int, len(stacks))
	grandTotal := 0
	for _, p := range primaries {
		cells := make([]any, 0, len(stacks)+2)
		cells = append(cells, p)
		for i, s := range stacks {
			n := counts[p][s]
			columnTotals[i] += n
			cells = append(cells, n)
		}
		cells = append(cells, totals[p])
		grandTotal += totals[p]
		frame.Rows = append(frame.Rows, cells)
	}

	totalRow := make([]any, 0, len(stacks)+2)
	totalRow = append(totalRow, "Total")
	for _, n := range columnTotals {
		totalRow = append(totalRow, n)
	}
	totalRow = append(totalRow, grandTotal)
	frame.Rows = append(frame.Rows, totalRow)

	return frame
}

// orderStacks resolves the stacking column order.
func orderStacks(stackDim string, present, preferred []string) []string {
	if stackDim == model.DimRelation {
		preferred = model.RelationOrder
	}
	if len(preferred) == 0 {
		return model.SortDimValues(stackDim, present)
	}
	presentSet := make(map[string]bool, len(present))
	for _, s := range present {
		presentSet[s] = true
	}
	out := make([]string, 0, len(present))
	used := make(map[string]bool)
	for _, s := range preferred {
		if presentSet[s] {
			out = append(out, s)
			used[s] = true
		}
	}
	// Values present in the slice but absent from the preference keep
	// canonical order at the end.
	rest := make([]string, 0)
	for _, s := range present {
		if !used[s] {
			rest = append(rest, s)
		}
	}
	return append(out, model.SortDimValues(stackDim, rest)...)
}

// BreakdownShares converts a breakdown frame's data rows to row-wise
// percentages, for 100%-stacked views. The Total column is preserved.
func BreakdownShares(frame *model.Frame) *model.Frame {
	out := &model.Frame{Title: frame.Title + " (%)", Columns: append([]string(nil), frame.Columns...)}
	for _, row := range frame.Rows {
		total := 0.0
		for _, cell := range row[1 : len(row)-1] {
			if n, ok := cell.(int); ok {
				total += float64(n)
			}
		}
		cells := make([]any, len(row))
		cells[0] = row[0]
		cells[len(row)-1] = row[len(row)-1]
		for i, cell := range row[1 : len(row)-1] {
			n, _ := cell.(int)
			if total > 0 {
				cells[i+1] = float64(n) / total * 100
			} else {
				cells[i+1] = 0.0
			}
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}
