package aggregate

import "github.com/Tincho2002/RRHH-sub000/internal/model"

// WhatIf simulates a percentage raise applied to the monthly totals of
// the selected levels: projected = current + sum(selected) · pct, where
// pct is a fraction (0.10 = 10%).
func WhatIf(slice []model.Row, pct float64, levels []string) model.WhatIfResult {
	selected := make(map[string]bool, len(levels))
	for _, l := range levels {
		selected[l] = true
	}

	current := 0.0
	affected := 0.0
	for _, row := range slice {
		v := row.Measure(model.MeasureMonthlyTotal)
		current += v
		if selected[row.Dim(model.DimLevel)] {
			affected += v
		}
	}

	increment := affected * pct
	return model.WhatIfResult{
		Current:   current,
		Increment: increment,
		Projected: current + increment,
	}
}
