package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Tincho2002/RRHH-sub000/internal/model"
)

func row(dims map[string]string, measures map[string]float64) model.Row {
	return model.Row{Dims: dims, Measures: measures}
}

func TestHeadcountKPI(t *testing.T) {
	slice := []model.Row{
		row(map[string]string{model.DimMonth: "Enero", model.DimRelation: model.RelationConvenio, model.DimSex: "Masculino"}, nil),
		row(map[string]string{model.DimMonth: "Enero", model.DimRelation: model.RelationConvenio, model.DimSex: "Masculino"}, nil),
		row(map[string]string{model.DimMonth: "Enero", model.DimRelation: model.RelationFuera, model.DimSex: "Femenino"}, nil),
	}
	kpi, ok := HeadcountKPI(slice)
	if !ok {
		t.Fatal("expected a KPI block")
	}
	assert.Equal(t, 3, kpi.Total)
	assert.Equal(t, "Enero", kpi.Period)

	assert.Equal(t, model.RelationConvenio, kpi.ByRelation[0].Label)
	assert.Equal(t, 2, kpi.ByRelation[0].Count)
	assert.InDelta(t, 66.7, kpi.ByRelation[0].Pct, 0.01)
	assert.Equal(t, model.RelationFuera, kpi.ByRelation[1].Label)
	assert.Equal(t, 1, kpi.ByRelation[1].Count)
	assert.InDelta(t, 33.3, kpi.ByRelation[1].Pct, 0.01)

	bySex := map[string]model.KPIEntry{}
	for _, e := range kpi.BySex {
		bySex[e.Label] = e
	}
	assert.Equal(t, 2, bySex["Masculino"].Count)
	assert.InDelta(t, 66.7, bySex["Masculino"].Pct, 0.01)
	assert.Equal(t, 1, bySex["Femenino"].Count)
	assert.InDelta(t, 33.3, bySex["Femenino"].Pct, 0.01)
}

func TestHeadcountKPIUsesLatestPeriod(t *testing.T) {
	slice := []model.Row{
		row(map[string]string{model.DimYear: "2025", model.DimMonth: "Enero"}, nil),
		row(map[string]string{model.DimYear: "2025", model.DimMonth: "Febrero"}, nil),
		row(map[string]string{model.DimYear: "2025", model.DimMonth: "Febrero"}, nil),
	}
	kpi, ok := HeadcountKPI(slice)
	if !ok {
		t.Fatal("expected a KPI block")
	}
	assert.Equal(t, "Febrero 2025", kpi.Period)
	assert.Equal(t, 2, kpi.Total)
}

func TestPeriodDeltas(t *testing.T) {
	slice := []model.Row{
		row(map[string]string{model.DimMonth: "Enero"}, map[string]float64{model.MeasureMonthlyTotal: 100}),
		row(map[string]string{model.DimMonth: "Febrero"}, map[string]float64{model.MeasureMonthlyTotal: 110}),
	}
	delta := PeriodDeltas(slice, []string{model.MeasureMonthlyTotal})
	if delta == nil {
		t.Fatal("expected deltas for two periods")
	}
	assert.Equal(t, "Febrero", delta.CurrentPeriod)
	assert.Equal(t, "Enero", delta.PreviousPeriod)
	d := delta.Measures[0]
	assert.Equal(t, 110.0, d.Current)
	assert.Equal(t, 100.0, d.Previous)
	assert.True(t, d.HasBase)
	assert.InDelta(t, 10.0, d.DeltaPct, 1e-9)
	assert.True(t, d.Up)
}

func TestPeriodDeltasSinglePeriodOmitted(t *testing.T) {
	slice := []model.Row{
		row(map[string]string{model.DimMonth: "Enero"}, map[string]float64{model.MeasureMonthlyTotal: 100}),
	}
	assert.Nil(t, PeriodDeltas(slice, []string{model.MeasureMonthlyTotal}))
}

func TestPeriodDeltasNoBase(t *testing.T) {
	slice := []model.Row{
		row(map[string]string{model.DimMonth: "Enero"}, map[string]float64{model.MeasureMonthlyTotal: 0}),
		row(map[string]string{model.DimMonth: "Febrero"}, map[string]float64{model.MeasureMonthlyTotal: 50}),
	}
	delta := PeriodDeltas(slice, []string{model.MeasureMonthlyTotal})
	assert.False(t, delta.Measures[0].HasBase)
}

func TestBreakdown(t *testing.T) {
	slice := []model.Row{
		row(map[string]string{model.DimManagement: "Operaciones", model.DimRelation: model.RelationConvenio}, nil),
		row(map[string]string{model.DimManagement: "Operaciones", model.DimRelation: model.RelationConvenio}, nil),
		row(map[string]string{model.DimManagement: "Operaciones", model.DimRelation: model.RelationPasante}, nil),
		row(map[string]string{model.DimManagement: "Comercial", model.DimRelation: model.RelationFuera}, nil),
		row(map[string]string{model.DimManagement: model.NotAvailable, model.DimRelation: model.RelationConvenio}, nil),
	}
	frame := Breakdown(slice, model.DimManagement, model.DimRelation, nil)

	// Sentinel primary dropped, Relation stack order fixed.
	assert.Equal(t, []string{model.DimManagement, model.RelationConvenio, model.RelationFuera, model.RelationPasante, "Total"}, frame.Columns)
	if len(frame.Rows) != 3 { // 2 data rows + total row
		t.Fatalf("rows = %d, want 3", len(frame.Rows))
	}
	// Sorted by total descending: Operaciones (3) before Comercial (1).
	assert.Equal(t, "Operaciones", frame.Rows[0][0])
	assert.Equal(t, 3, frame.Rows[0][4])
	assert.Equal(t, "Comercial", frame.Rows[1][0])
	assert.Equal(t, "Total", frame.Rows[2][0])
	assert.Equal(t, 4, frame.Rows[2][4])
}

func TestBreakdownSharesSumTo100(t *testing.T) {
	slice := []model.Row{
		row(map[string]string{model.DimManagement: "A", model.DimRelation: model.RelationConvenio}, nil),
		row(map[string]string{model.DimManagement: "A", model.DimRelation: model.RelationFuera}, nil),
		row(map[string]string{model.DimManagement: "A", model.DimRelation: model.RelationPasante}, nil),
	}
	shares := BreakdownShares(Breakdown(slice, model.DimManagement, model.DimRelation, nil))
	for _, r := range shares.Rows {
		sum := 0.0
		for _, cell := range r[1 : len(r)-1] {
			sum += cell.(float64)
		}
		assert.InDelta(t, 100.0, sum, 0.1)
	}
}

func TestMonthlyEvolution(t *testing.T) {
	slice := []model.Row{
		row(map[string]string{model.DimMonth: "Febrero"}, map[string]float64{model.MeasureMonthlyTotal: 120}),
		row(map[string]string{model.DimMonth: "Enero"}, map[string]float64{model.MeasureMonthlyTotal: 100}),
		row(map[string]string{model.DimMonth: "Enero"}, map[string]float64{model.MeasureMonthlyTotal: 50}),
	}
	points := MonthlyEvolution(slice, model.MeasureMonthlyTotal)
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2", len(points))
	}
	// Month order is calendar order regardless of data order.
	assert.Equal(t, "Enero", points[0].Month)
	assert.Equal(t, 150.0, points[0].Value)
	assert.Equal(t, 0.0, points[0].PctChange)
	assert.Equal(t, "Febrero", points[1].Month)
	assert.Equal(t, -30.0, points[1].Delta)
	assert.InDelta(t, -20.0, points[1].PctChange, 1e-9)
}

func TestHeatmapDensePad(t *testing.T) {
	slice := []model.Row{
		row(map[string]string{model.DimManagement: "A", model.DimMonth: "Enero"}, map[string]float64{model.MeasureMonthlyTotal: 10}),
		row(map[string]string{model.DimManagement: "B", model.DimMonth: "Febrero"}, map[string]float64{model.MeasureMonthlyTotal: 20}),
	}
	grid := Heatmap(slice, model.DimManagement, model.MeasureMonthlyTotal)
	assert.Equal(t, []string{"A", "B"}, grid.Rows)
	assert.Equal(t, []string{"Enero", "Febrero"}, grid.Months)
	// Dense: missing combinations are explicit zeros.
	assert.Equal(t, [][]float64{{10, 0}, {0, 20}}, grid.Values)
}

func TestHeatmapSingleRowStillDense(t *testing.T) {
	slice := []model.Row{
		row(map[string]string{model.DimManagement: "A", model.DimMonth: "Enero"}, nil),
	}
	grid := Heatmap(slice, model.DimManagement, "")
	assert.Equal(t, [][]float64{{1}}, grid.Values)
}

func TestWhatIf(t *testing.T) {
	slice := []model.Row{
		row(map[string]string{model.DimLevel: "FC"}, map[string]float64{model.MeasureMonthlyTotal: 1000}),
		row(map[string]string{model.DimLevel: "Convenio"}, map[string]float64{model.MeasureMonthlyTotal: 500}),
	}
	res := WhatIf(slice, 0.10, []string{"FC"})
	assert.InDelta(t, 1500.0, res.Current, 1e-9)
	assert.InDelta(t, 100.0, res.Increment, 1e-9)
	assert.InDelta(t, 1600.0, res.Projected, 1e-9)
}

func TestHireExitMonthly(t *testing.T) {
	jan := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, time.February, 5, 0, 0, 0, 0, time.UTC)
	slice := []model.Row{
		{
			Dims:  map[string]string{model.DimRelation: model.RelationConvenio},
			Dates: map[string]time.Time{model.DateHireDate: jan},
		},
		{
			Dims:  map[string]string{model.DimRelation: model.RelationPasante},
			Dates: map[string]time.Time{model.DateHireDate: feb},
		},
		{
			Dims:  map[string]string{model.DimRelation: model.RelationConvenio},
			Dates: map[string]time.Time{model.DateHireDate: jan, model.DateExitDate: feb},
		},
	}
	view := HireExitMonthly(slice)

	if len(view.Hires.Rows) != 2 {
		t.Fatalf("hire rows = %d, want 2", len(view.Hires.Rows))
	}
	// Enero 2025: two Convenio hires.
	assert.Equal(t, 2025, view.Hires.Rows[0][0])
	assert.Equal(t, "Enero", view.Hires.Rows[0][1])
	assert.Equal(t, 2, view.Hires.Rows[0][2])
	assert.Equal(t, 2, view.Hires.Rows[0][5])

	if len(view.Exits.Rows) != 1 {
		t.Fatalf("exit rows = %d, want 1", len(view.Exits.Rows))
	}
	assert.Equal(t, "Febrero", view.Exits.Rows[0][1])

	// Companion totals: Enero 2, Febrero 1, variation -1 (-50%).
	assert.Equal(t, "Enero 2025", view.HireTotals.Rows[0][0])
	assert.Equal(t, 2, view.HireTotals.Rows[0][1])
	assert.Equal(t, 1, view.HireTotals.Rows[1][1])
	assert.Equal(t, -1, view.HireTotals.Rows[1][2])
	assert.InDelta(t, -50.0, view.HireTotals.Rows[1][3].(float64), 0.01)
}

func TestOrderedPeriods(t *testing.T) {
	slice := []model.Row{
		row(map[string]string{model.DimYear: "2025", model.DimMonth: "Febrero"}, nil),
		row(map[string]string{model.DimYear: "2024", model.DimMonth: "Diciembre"}, nil),
		row(map[string]string{model.DimYear: "2025", model.DimMonth: "Enero"}, nil),
	}
	periods := OrderedPeriods(slice)
	labels := make([]string, 0, len(periods))
	for _, p := range periods {
		labels = append(labels, p.Label())
	}
	assert.Equal(t, []string{"Diciembre 2024", "Enero 2025", "Febrero 2025"}, labels)
}
