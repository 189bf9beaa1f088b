// Package aggregate computes the KPI, delta, pivot, evolution, heatmap
// and what-if frames every page renders from its filtered slice. Frames
// keep full precision; rounding happens at display time only.
package aggregate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Tincho2002/RRHH-sub000/internal/format"
	"github.com/Tincho2002/RRHH-sub000/internal/model"
)

// Period is a (year, month) reporting period inside a slice. Year may be
// 0 when the source carried only month names.
type Period struct {
	Year  int
	Month string
}

// Label renders the period for display, e.g. "Enero 2025" or "Enero".
func (p Period) Label() string {
	if p.Year == 0 {
		return p.Month
	}
	if p.Month == "" {
		return strconv.Itoa(p.Year)
	}
	return p.Month + " " + strconv.Itoa(p.Year)
}

func periodOf(row model.Row) Period {
	year := 0
	if y := row.Dim(model.DimYear); y != model.NotAvailable {
		year, _ = strconv.Atoi(y)
	}
	month := row.Dim(model.DimMonth)
	if month == model.NotAvailable {
		month = ""
	}
	return Period{Year: year, Month: month}
}

// OrderedPeriods returns the unique periods of a slice in ascending
// (year, calendar month) order.
func OrderedPeriods(slice []model.Row) []Period {
	seen := make(map[Period]bool)
	out := make([]Period, 0)
	for _, row := range slice {
		p := periodOf(row)
		if p.Year == 0 && p.Month == "" {
			continue
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return format.MonthIndex(out[i].Month) < format.MonthIndex(out[j].Month)
	})
	return out
}

// LatestPeriod returns the last period of the slice and whether one
// exists.
func LatestPeriod(slice []model.Row) (Period, bool) {
	periods := OrderedPeriods(slice)
	if len(periods) == 0 {
		return Period{}, false
	}
	return periods[len(periods)-1], true
}

// rowsInPeriod filters a slice down to one period.
func rowsInPeriod(slice []model.Row, p Period) []model.Row {
	out := make([]model.Row, 0)
	for _, row := range slice {
		if periodOf(row) == p {
			out = append(out, row)
		}
	}
	return out
}

// sumMeasure totals one measure over a slice; an empty measure name
// counts rows instead.
func sumMeasure(slice []model.Row, measure string) float64 {
	if measure == "" {
		return float64(len(slice))
	}
	total := 0.0
	for _, row := range slice {
		total += row.Measure(measure)
	}
	return total
}

// dimLabel normalizes a dimension value for grouping keys.
func dimLabel(v string) string {
	return strings.TrimSpace(v)
}
