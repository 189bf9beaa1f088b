package view

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/Tincho2002/RRHH-sub000/internal/config"
	"github.com/Tincho2002/RRHH-sub000/internal/model"
)

func dotacionTable() *model.Table {
	return &model.Table{
		Page: model.PageDotacion,
		Schema: model.Schema{
			Dims: []string{
				model.DimYear, model.DimMonth, model.DimRelation,
				model.DimManagement, model.DimDistrict, model.DimSex,
			},
		},
		Rows: []model.Row{
			{Dims: map[string]string{
				model.DimYear: "2025", model.DimMonth: "Enero",
				model.DimRelation:   model.RelationConvenio,
				model.DimManagement: "Operaciones",
				model.DimDistrict:   "Morón", model.DimSex: "Masculino",
			}},
			{Dims: map[string]string{
				model.DimYear: "2025", model.DimMonth: "Enero",
				model.DimRelation:   model.RelationFuera,
				model.DimManagement: "Administración",
				model.DimDistrict:   "Luján", model.DimSex: "Femenino",
			}},
		},
	}
}

func masaTable() *model.Table {
	return &model.Table{
		Page: model.PageMasaSalarial,
		Schema: model.Schema{
			Dims:     []string{model.DimYear, model.DimMonth, model.DimRelation, model.DimLevel, model.DimManagement},
			Measures: []string{model.MeasureMonthlyTotal},
		},
		Rows: []model.Row{
			{
				Dims: map[string]string{
					model.DimYear: "2025", model.DimMonth: "Enero",
					model.DimRelation: model.RelationFuera, model.DimLevel: "Gerencial",
					model.DimManagement: "Operaciones",
				},
				Measures: map[string]float64{model.MeasureMonthlyTotal: 1000},
			},
			{
				Dims: map[string]string{
					model.DimYear: "2025", model.DimMonth: "Enero",
					model.DimRelation: model.RelationConvenio, model.DimLevel: "Operativo",
					model.DimManagement: "Operaciones",
				},
				Measures: map[string]float64{model.MeasureMonthlyTotal: 500},
			},
		},
	}
}

// coordServer serves a coordinates CSV so the map panel never leaves
// the test process.
func coordServer(t *testing.T) *httptest.Server {
	t.Helper()
	data, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte("localidad,lat,lon\nMorón,-34.65,-58.62\n"))
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	o := New(config.DefaultConfig())
	o.SetGeoURL(coordServer(t).URL)
	return o
}

func installTable(t *testing.T, o *Orchestrator, table *model.Table) string {
	t.Helper()
	sess := o.Sessions().GetOrCreate("")
	pv, ok := PageFor(table.Page)
	require.True(t, ok)
	state := o.Sessions().SetUpload(sess.ID, table.Page, table, "hash-"+string(table.Page), presentDims(pv.FilterDims, table))
	require.NotNil(t, state)
	return sess.ID
}

func TestPagesRegistryComplete(t *testing.T) {
	all := Pages()
	require.Len(t, all, 5)
	for _, pv := range all {
		assert.NotEmpty(t, pv.Panels, pv.Page)
		assert.NotEmpty(t, pv.FilterDims, pv.Page)
		last := pv.Panels[len(pv.Panels)-1]
		assert.Equal(t, KindTable, last.Kind, pv.Page)
		assert.NotEmpty(t, last.Exports, pv.Page)
	}
}

func TestRenderDotacion(t *testing.T) {
	o := newTestOrchestrator(t)
	id := installTable(t, o, dotacionTable())

	res, err := o.Render(context.Background(), id, model.PageDotacion, PanelParams{})
	require.NoError(t, err)
	assert.Equal(t, "Dotación", res.Title)

	byID := map[string]PanelResult{}
	for _, p := range res.Panels {
		byID[p.ID] = p
	}

	kpi, ok := byID["kpi"].Data.(*model.HeadcountKPI)
	require.True(t, ok)
	assert.Equal(t, 2, kpi.Total)
	assert.Equal(t, "Enero 2025", kpi.Period)

	mapData, ok := byID["mapa"].Data.(*MapPayload)
	require.True(t, ok)
	require.Len(t, mapData.Points, 1)
	assert.Equal(t, "Morón", mapData.Points[0].District)
	assert.Equal(t, 1, mapData.Points[0].Count)
	assert.Contains(t, mapData.Missing, "Luján")

	table := byID["tabla"]
	require.NotNil(t, table.Frame)
	assert.Equal(t, 2, table.Frame.NumRows())
}

func TestRenderMapCompareSplitsByRelation(t *testing.T) {
	o := newTestOrchestrator(t)
	id := installTable(t, o, dotacionTable())
	o.Sessions().SetShowMapCompare(id, model.PageDotacion, true)

	res, err := o.Render(context.Background(), id, model.PageDotacion, PanelParams{})
	require.NoError(t, err)
	for _, p := range res.Panels {
		if p.ID != "mapa" {
			continue
		}
		payload := p.Data.(*MapPayload)
		assert.True(t, payload.Compare)
		require.Contains(t, payload.ByRelation, model.RelationConvenio)
		assert.Len(t, payload.ByRelation[model.RelationConvenio], 1)
	}
}

func TestRenderEmptyTableUsesPlaceholders(t *testing.T) {
	o := newTestOrchestrator(t)
	empty := dotacionTable()
	empty.Rows = nil
	id := installTable(t, o, empty)

	res, err := o.Render(context.Background(), id, model.PageDotacion, PanelParams{})
	require.NoError(t, err)
	for _, p := range res.Panels {
		assert.True(t, p.Empty, p.ID)
		assert.Equal(t, "Sin datos para la selección actual", p.Message)
		assert.Nil(t, p.Data)
	}
}

func TestRenderClearsMutated(t *testing.T) {
	o := newTestOrchestrator(t)
	id := installTable(t, o, dotacionTable())
	state, err := o.State(id, model.PageDotacion)
	require.NoError(t, err)
	state.Filter.Commit(model.DimManagement, []string{"Operaciones"})
	require.True(t, state.Filter.Mutated())

	res, err := o.Render(context.Background(), id, model.PageDotacion, PanelParams{})
	require.NoError(t, err)
	assert.True(t, res.Mutated)
	assert.False(t, state.Filter.Mutated())
}

func TestWhatIfPctClamped(t *testing.T) {
	o := newTestOrchestrator(t)
	id := installTable(t, o, masaTable())

	res, err := o.Render(context.Background(), id, model.PageMasaSalarial, PanelParams{
		WhatIfPct:    5, // above the configured ceiling of 0.5
		WhatIfLevels: []string{"Gerencial"},
	})
	require.NoError(t, err)
	for _, p := range res.Panels {
		if p.ID != "simulador" {
			continue
		}
		sim := p.Data.(model.WhatIfResult)
		assert.InDelta(t, 500.0, sim.Increment, 0.001)
		assert.InDelta(t, 2000.0, sim.Projected, 0.001)
	}
}

func TestPanelFrameForExport(t *testing.T) {
	o := newTestOrchestrator(t)
	id := installTable(t, o, dotacionTable())

	frame, err := o.PanelFrame(context.Background(), id, model.PageDotacion, "gerencia_convenio", PanelParams{})
	require.NoError(t, err)
	assert.Equal(t, "Dotación por gerencia y convenio", frame.Title)

	_, err = o.PanelFrame(context.Background(), id, model.PageDotacion, "kpi", PanelParams{})
	assert.ErrorIs(t, err, ErrNoFrame)

	_, err = o.PanelFrame(context.Background(), id, model.PageDotacion, "inexistente", PanelParams{})
	assert.ErrorIs(t, err, ErrUnknownPanel)
}

func TestStateBeforeUpload(t *testing.T) {
	o := newTestOrchestrator(t)
	sess := o.Sessions().GetOrCreate("")
	_, err := o.State(sess.ID, model.PageDotacion)
	assert.ErrorIs(t, err, ErrNoUpload)
}
