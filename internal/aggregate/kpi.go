package aggregate

import (
	"github.com/Tincho2002/RRHH-sub000/internal/format"
	"github.com/Tincho2002/RRHH-sub000/internal/model"
)

// HeadcountKPI computes the KPI strip for the latest period of a slice:
// total rows plus counts and shares by Relation and Sex. Percentages are
// rounded to one decimal for the KPI record.
func HeadcountKPI(slice []model.Row) (*model.HeadcountKPI, bool) {
	period, ok := LatestPeriod(slice)
	if !ok {
		if len(slice) == 0 {
			return nil, false
		}
		// Period-less slice: treat the whole slice as one period.
		return headcountFor(slice, Period{}), true
	}
	return headcountFor(rowsInPeriod(slice, period), period), true
}

func headcountFor(rows []model.Row, p Period) *model.HeadcountKPI {
	return &model.HeadcountKPI{
		Period:     p.Label(),
		Total:      len(rows),
		ByRelation: countBy(rows, model.DimRelation),
		BySex:      countBy(rows, model.DimSex),
	}
}

// countBy tallies a dimension over a set of rows and derives each
// label's share of the total, in canonical dimension order.
func countBy(rows []model.Row, dim string) []model.KPIEntry {
	counts := make(map[string]int)
	labels := make([]string, 0)
	for _, row := range rows {
		v := row.Dim(dim)
		if v == model.NotAvailable {
			continue
		}
		if _, ok := counts[v]; !ok {
			labels = append(labels, v)
		}
		counts[v]++
	}
	labels = model.SortDimValues(dim, labels)

	total := len(rows)
	out := make([]model.KPIEntry, 0, len(labels))
	for _, label := range labels {
		pct := 0.0
		if total > 0 {
			pct = format.Round1(float64(counts[label]) / float64(total) * 100)
		}
		out = append(out, model.KPIEntry{Label: label, Count: counts[label], Pct: pct})
	}
	return out
}

// PeriodDeltas compares the latest period of a slice against the
// penultimate one for each measure. It returns nil when the slice spans
// fewer than two periods; a zero previous value yields HasBase=false.
func PeriodDeltas(slice []model.Row, measures []string) *model.PeriodDelta {
	periods := OrderedPeriods(slice)
	if len(periods) < 2 {
		return nil
	}
	current := periods[len(periods)-1]
	previous := periods[len(periods)-2]
	currentRows := rowsInPeriod(slice, current)
	previousRows := rowsInPeriod(slice, previous)

	out := &model.PeriodDelta{
		CurrentPeriod:  current.Label(),
		PreviousPeriod: previous.Label(),
	}
	for _, m := range measures {
		c := sumMeasure(currentRows, m)
		p := sumMeasure(previousRows, m)
		d := model.MeasureDelta{Measure: m, Current: c, Previous: p}
		if p > 0 {
			d.HasBase = true
			d.DeltaPct = (c - p) / p * 100
			d.Up = c >= p
		}
		out.Measures = append(out.Measures, d)
	}
	return out
}
