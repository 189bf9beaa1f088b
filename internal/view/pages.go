// Package view declares the per-page panel lists and wires ingestion,
// filtering, aggregation and export together for the HTTP surface.
package view

import (
	"context"

	"github.com/Tincho2002/RRHH-sub000/internal/aggregate"
	"github.com/Tincho2002/RRHH-sub000/internal/export"
	"github.com/Tincho2002/RRHH-sub000/internal/model"
	"github.com/Tincho2002/RRHH-sub000/internal/session"
)

// PanelKind names the rendering a panel expects.
type PanelKind string

const (
	KindKPI        PanelKind = "kpi"
	KindStackedBar PanelKind = "stacked_bar"
	KindPie        PanelKind = "pie"
	KindHeatmap    PanelKind = "heatmap"
	KindLine       PanelKind = "line"
	KindTable      PanelKind = "table"
	KindSimulator  PanelKind = "simulator"
	KindMap        PanelKind = "map"
)

// BuildContext is what a panel build function sees: the filtered slice
// plus the page state and request-scoped collaborators.
type BuildContext struct {
	Ctx    context.Context
	Slice  []model.Row
	State  *session.PageState
	Params PanelParams
	Deps   *Deps
}

// PanelParams are the user-adjustable knobs forwarded to panel builds.
type PanelParams struct {
	WhatIfPct    float64  `json:"whatIfPct"`
	WhatIfLevels []string `json:"whatIfLevels"`
}

// PanelResult is one computed panel: chart payload plus the frame its
// export buttons tap, when tabular.
type PanelResult struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Kind    PanelKind     `json:"kind"`
	Exports []export.Kind `json:"exports,omitempty"`
	Empty   bool          `json:"empty"`
	Message string        `json:"message,omitempty"`
	Data    any           `json:"data,omitempty"`
	Frame   *model.Frame  `json:"frame,omitempty"`
}

// Panel declares one page panel and how to compute it.
type Panel struct {
	ID      string
	Title   string
	Kind    PanelKind
	Exports []export.Kind
	Build   func(bc BuildContext) (data any, frame *model.Frame, err error)
}

// PageView is the declarative description of one dashboard page.
type PageView struct {
	Page       model.Page
	Title      string
	FilterDims []string
	Measures   []string
	// MoneyColumns name the frame columns exports render as currency.
	MoneyColumns []string
	Panels       []Panel
}

var allExports = []export.Kind{export.KindCSV, export.KindXLSX, export.KindPDF}

// sliceFrame materializes a slice as a raw table frame following the
// page schema's column order.
func sliceFrame(state *session.PageState, slice []model.Row, title string) *model.Frame {
	schema := state.Table.Schema
	frame := &model.Frame{Title: title}
	frame.Columns = append(frame.Columns, schema.Dims...)
	frame.Columns = append(frame.Columns, schema.Measures...)
	for _, row := range slice {
		cells := make([]any, 0, len(frame.Columns))
		for _, d := range schema.Dims {
			cells = append(cells, row.Dim(d))
		}
		for _, m := range schema.Measures {
			cells = append(cells, row.Measure(m))
		}
		frame.Rows = append(frame.Rows, cells)
	}
	return frame
}

// tablePanel is the raw-slice table every page closes with.
func tablePanel(title string) Panel {
	return Panel{
		ID:      "tabla",
		Title:   title,
		Kind:    KindTable,
		Exports: allExports,
		Build: func(bc BuildContext) (any, *model.Frame, error) {
			f := sliceFrame(bc.State, bc.Slice, title)
			return nil, f, nil
		},
	}
}

// breakdownPanel pivots the slice by (primary × stack) headcount. When
// the stacking dimension is Management the user's current Management
// selection fixes the stack order.
func breakdownPanel(id, title, primary, stack string, kind PanelKind) Panel {
	return Panel{
		ID:      id,
		Title:   title,
		Kind:    kind,
		Exports: allExports,
		Build: func(bc BuildContext) (any, *model.Frame, error) {
			var stackOrder []string
			if stack == model.DimManagement {
				stackOrder = bc.State.Filter.Selection(model.DimManagement)
			}
			f := aggregate.Breakdown(bc.Slice, primary, stack, stackOrder)
			f.Title = title
			return nil, f, nil
		},
	}
}

func evolutionPanel(id, title, measure, measureLabel string) Panel {
	return Panel{
		ID:      id,
		Title:   title,
		Kind:    KindLine,
		Exports: allExports,
		Build: func(bc BuildContext) (any, *model.Frame, error) {
			points := aggregate.MonthlyEvolution(bc.Slice, measure)
			return points, aggregate.EvolutionFrame(points, measureLabel), nil
		},
	}
}

func heatmapPanel(id, title, rowDim, measure string) Panel {
	return Panel{
		ID:      id,
		Title:   title,
		Kind:    KindHeatmap,
		Exports: allExports,
		Build: func(bc BuildContext) (any, *model.Frame, error) {
			grid := aggregate.Heatmap(bc.Slice, rowDim, measure)
			return grid, aggregate.HeatmapFrame(grid), nil
		},
	}
}

func deltaPanel(id, title string, measures []string) Panel {
	return Panel{
		ID:    id,
		Title: title,
		Kind:  KindKPI,
		Build: func(bc BuildContext) (any, *model.Frame, error) {
			// Nil when the slice spans fewer than two periods; the
			// renderer shows the KPI without comparison.
			return aggregate.PeriodDeltas(bc.Slice, measures), nil, nil
		},
	}
}

// pages is the full page registry.
var pages = map[model.Page]*PageView{
	model.PageDotacion: {
		Page:  model.PageDotacion,
		Title: "Dotación",
		FilterDims: []string{
			model.DimYear, model.DimMonth, model.DimRelation,
			model.DimManagement, model.DimFunction, model.DimDistrict,
			model.DimSex, model.DimTenureBand, model.DimAgeBand,
		},
		Panels: []Panel{
			{
				ID:    "kpi",
				Title: "Dotación del período",
				Kind:  KindKPI,
				Build: func(bc BuildContext) (any, *model.Frame, error) {
					kpi, _ := aggregate.HeadcountKPI(bc.Slice)
					return kpi, nil, nil
				},
			},
			breakdownPanel("gerencia_convenio", "Dotación por gerencia y convenio", model.DimManagement, model.DimRelation, KindStackedBar),
			breakdownPanel("sexo_convenio", "Distribución por sexo y convenio", model.DimSex, model.DimRelation, KindPie),
			breakdownPanel("antiguedad", "Dotación por antigüedad", model.DimTenureBand, model.DimRelation, KindStackedBar),
			breakdownPanel("edad", "Dotación por rango etario", model.DimAgeBand, model.DimRelation, KindStackedBar),
			evolutionPanel("evolucion", "Evolución mensual de dotación", "", "Dotación"),
			heatmapPanel("calor", "Dotación por gerencia y mes", model.DimManagement, ""),
			mapPanel(),
			tablePanel("Detalle de dotación"),
		},
	},
	model.PageHorasExtra: {
		Page:  model.PageHorasExtra,
		Title: "Horas Extra",
		FilterDims: []string{
			model.DimYear, model.DimMonth, model.DimRelation,
			model.DimManagement, model.DimFunction, model.DimSex,
		},
		Measures: []string{model.MeasureOvertime50, model.MeasureOvertime100},
		Panels: []Panel{
			deltaPanel("kpi", "Horas extra del período", []string{model.MeasureOvertime50, model.MeasureOvertime100}),
			evolutionPanel("evolucion_50", "Evolución horas al 50%", model.MeasureOvertime50, "Horas al 50%"),
			evolutionPanel("evolucion_100", "Evolución horas al 100%", model.MeasureOvertime100, "Horas al 100%"),
			breakdownPanel("gerencia_convenio", "Agentes con horas extra por gerencia", model.DimManagement, model.DimRelation, KindStackedBar),
			heatmapPanel("calor", "Horas al 50% por gerencia y mes", model.DimManagement, model.MeasureOvertime50),
			tablePanel("Detalle de horas extra"),
		},
	},
	model.PageMasaSalarial: {
		Page:  model.PageMasaSalarial,
		Title: "Masa Salarial",
		FilterDims: []string{
			model.DimYear, model.DimMonth, model.DimRelation,
			model.DimManagement, model.DimLevel, model.DimFunction,
		},
		Measures:     []string{model.MeasureMonthlyTotal},
		MoneyColumns: []string{model.MeasureMonthlyTotal, "Total"},
		Panels: []Panel{
			deltaPanel("kpi", "Masa salarial del período", []string{model.MeasureMonthlyTotal}),
			evolutionPanel("evolucion", "Evolución mensual de masa salarial", model.MeasureMonthlyTotal, "Masa salarial"),
			breakdownPanel("nivel_convenio", "Agentes por nivel y convenio", model.DimLevel, model.DimRelation, KindStackedBar),
			heatmapPanel("calor", "Masa salarial por gerencia y mes", model.DimManagement, model.MeasureMonthlyTotal),
			{
				ID:    "simulador",
				Title: "Simulador de incremento",
				Kind:  KindSimulator,
				Build: func(bc BuildContext) (any, *model.Frame, error) {
					res := aggregate.WhatIf(bc.Slice, bc.Params.WhatIfPct, bc.Params.WhatIfLevels)
					return res, nil, nil
				},
			},
			tablePanel("Detalle de masa salarial"),
		},
	},
	model.PagePlantaCargos: {
		Page:  model.PagePlantaCargos,
		Title: "Planta de Cargos",
		FilterDims: []string{
			model.DimYear, model.DimMonth, model.DimRelation,
			model.DimManagement, model.DimLevel, model.DimSex,
			model.DimExitReason,
		},
		Panels: []Panel{
			{
				ID:      "altas_bajas",
				Title:   "Altas y bajas mensuales",
				Kind:    KindTable,
				Exports: allExports,
				Build: func(bc BuildContext) (any, *model.Frame, error) {
					v := aggregate.HireExitMonthly(bc.Slice)
					return v, v.Hires, nil
				},
			},
			breakdownPanel("motivo_egreso", "Bajas por motivo de egreso", model.DimExitReason, model.DimRelation, KindStackedBar),
			breakdownPanel("gerencia_convenio", "Planta por gerencia y convenio", model.DimManagement, model.DimRelation, KindStackedBar),
			tablePanel("Detalle de planta de cargos"),
		},
	},
	model.PageEficiencia: {
		Page:  model.PageEficiencia,
		Title: "Indicadores de Eficiencia",
		FilterDims: []string{
			model.DimYear, model.DimMonth, model.DimManagement,
			model.DimDistrict,
		},
		Measures: []string{
			model.MeasureEfficiencyTotal, model.MeasureEfficiencyOperation,
			model.MeasureEfficiencyManagement, model.MeasureTotalInvestments,
		},
		Panels: []Panel{
			deltaPanel("kpi", "Eficiencia del período", []string{
				model.MeasureEfficiencyTotal, model.MeasureEfficiencyOperation,
				model.MeasureEfficiencyManagement, model.MeasureTotalInvestments,
			}),
			evolutionPanel("evolucion", "Evolución de eficiencia total", model.MeasureEfficiencyTotal, "Eficiencia total"),
			evolutionPanel("inversiones", "Evolución de inversiones", model.MeasureTotalInvestments, "Inversiones"),
			heatmapPanel("calor", "Eficiencia por gerencia y mes", model.DimManagement, model.MeasureEfficiencyTotal),
			tablePanel("Detalle de eficiencia"),
		},
	},
}

// PageFor returns a page's declaration.
func PageFor(page model.Page) (*PageView, bool) {
	pv, ok := pages[page]
	return pv, ok
}

// Pages lists every registered page.
func Pages() []*PageView {
	out := make([]*PageView, 0, len(pages))
	for _, p := range []model.Page{
		model.PageDotacion, model.PageHorasExtra, model.PageMasaSalarial,
		model.PagePlantaCargos, model.PageEficiencia,
	} {
		out = append(out, pages[p])
	}
	return out
}
