package aggregate

import (
	"sort"
	"strconv"

	"github.com/Tincho2002/RRHH-sub000/internal/format"
	"github.com/Tincho2002/RRHH-sub000/internal/model"
)

// HireExitView carries the position-roster monthly frames: hires and
// exits pivoted by (year, month) with per-relation counts, plus companion
// totals series with month-over-month variation.
type HireExitView struct {
	Hires      *model.Frame `json:"hires"`
	Exits      *model.Frame `json:"exits"`
	HireTotals *model.Frame `json:"hireTotals"`
	ExitTotals *model.Frame `json:"exitTotals"`
}

// HireExitMonthly builds the hire/exit view from a slice. A row counts as
// a hire when HireDate is populated and as an exit when ExitDate is; the
// event's period comes from the date itself, not the reporting period.
func HireExitMonthly(slice []model.Row) *HireExitView {
	hires := make([]model.Row, 0)
	exits := make([]model.Row, 0)
	for _, row := range slice {
		if _, ok := row.Date(model.DateHireDate); ok {
			hires = append(hires, row)
		}
		if _, ok := row.Date(model.DateExitDate); ok {
			exits = append(exits, row)
		}
	}
	return &HireExitView{
		Hires:      monthlyByRelation(hires, model.DateHireDate, "Altas"),
		Exits:      monthlyByRelation(exits, model.DateExitDate, "Bajas"),
		HireTotals: monthlyTotals(hires, model.DateHireDate, "Altas"),
		ExitTotals: monthlyTotals(exits, model.DateExitDate, "Bajas"),
	}
}

type yearMonth struct {
	year  int
	month int
}

func (ym yearMonth) label() string {
	return format.MonthName(ym.month) + " " + strconv.Itoa(ym.year)
}

func eventPeriods(rows []model.Row, dateCol string) []yearMonth {
	seen := make(map[yearMonth]bool)
	out := make([]yearMonth, 0)
	for _, row := range rows {
		t, _ := row.Date(dateCol)
		ym := yearMonth{t.Year(), int(t.Month())}
		if !seen[ym] {
			seen[ym] = true
			out = append(out, ym)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].year != out[j].year {
			return out[i].year < out[j].year
		}
		return out[i].month < out[j].month
	})
	return out
}

// monthlyByRelation pivots event rows into (Año, Mes, relation..., Total).
func monthlyByRelation(rows []model.Row, dateCol, title string) *model.Frame {
	type key struct {
		ym       yearMonth
		relation string
	}
	counts := make(map[key]int)
	for _, row := range rows {
		t, _ := row.Date(dateCol)
		ym := yearMonth{t.Year(), int(t.Month())}
		counts[key{ym, row.Dim(model.DimRelation)}]++
	}

	frame := &model.Frame{
		Title:   title,
		Columns: append(append([]string{"Año", "Mes"}, model.RelationOrder...), "Total"),
	}
	for _, ym := range eventPeriods(rows, dateCol) {
		cells := []any{ym.year, format.MonthName(ym.month)}
		total := 0
		for _, rel := range model.RelationOrder {
			n := counts[key{ym, rel}]
			total += n
			cells = append(cells, n)
		}
		// Rows with an unmapped relation still count toward the total.
		other := counts[key{ym, model.NotAvailable}]
		total += other
		cells = append(cells, total)
		frame.Rows = append(frame.Rows, cells)
	}
	return frame
}

// monthlyTotals produces the companion per-month totals frame with
// absolute and percent variation.
func monthlyTotals(rows []model.Row, dateCol, title string) *model.Frame {
	counts := make(map[yearMonth]int)
	for _, row := range rows {
		t, _ := row.Date(dateCol)
		counts[yearMonth{t.Year(), int(t.Month())}]++
	}

	frame := &model.Frame{
		Title:   title + " por mes",
		Columns: []string{"Período", "Total", "Variación", "Variación %"},
	}
	prev := 0
	for i, ym := range eventPeriods(rows, dateCol) {
		n := counts[ym]
		delta := 0
		pct := 0.0
		if i > 0 {
			delta = n - prev
			if prev != 0 {
				pct = float64(n-prev) / float64(prev) * 100
			}
		}
		prev = n
		frame.Rows = append(frame.Rows, []any{ym.label(), n, delta, format.Round1(pct)})
	}
	return frame
}
