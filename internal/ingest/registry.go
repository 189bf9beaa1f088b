package ingest

import "github.com/Tincho2002/RRHH-sub000/internal/model"

// PageSpec declares how a page's upload is ingested: which sheet to read
// and which canonical columns its table carries.
type PageSpec struct {
	Page      model.Page
	SheetName string // "" means first sheet of the workbook
	AcceptCSV bool
	Schema    model.Schema
	// Mandatory canonical columns; their absence is a fatal ingest error.
	Mandatory []string
}

var commonDims = []string{
	model.DimYear, model.DimMonth, model.DimEmployeeID, model.DimRelation,
	model.DimManagement, model.DimLevel, model.DimFunction, model.DimDistrict,
	model.DimMinistry, model.DimCostCenter, model.DimSex,
	model.DimTenureBand, model.DimAgeBand,
}

// pageSpecs binds every dashboard page to its ingestion rules.
var pageSpecs = map[model.Page]PageSpec{
	model.PageDotacion: {
		Page:      model.PageDotacion,
		SheetName: "Dotacion_25",
		Schema: model.Schema{
			Dims:  commonDims,
			Dates: []string{model.DateHireDate, model.DateBirthDate, model.DatePeriod},
		},
	},
	model.PageHorasExtra: {
		Page:      model.PageHorasExtra,
		SheetName: "horas_extra",
		Schema: model.Schema{
			Dims: []string{
				model.DimYear, model.DimMonth, model.DimEmployeeID,
				model.DimRelation, model.DimManagement, model.DimFunction,
				model.DimSex,
			},
			Measures: []string{model.MeasureOvertime50, model.MeasureOvertime100},
			Dates:    []string{model.DatePeriod},
		},
	},
	model.PageMasaSalarial: {
		Page:      model.PageMasaSalarial,
		SheetName: "masa_salarial",
		Schema: model.Schema{
			Dims: []string{
				model.DimYear, model.DimMonth, model.DimEmployeeID,
				model.DimRelation, model.DimManagement, model.DimLevel,
				model.DimFunction,
			},
			Measures: []string{model.MeasureMonthlyTotal},
			Dates:    []string{model.DatePeriod},
		},
	},
	model.PagePlantaCargos: {
		Page:      model.PagePlantaCargos,
		SheetName: "", // single-sheet workbook, first sheet wins
		AcceptCSV: true,
		Schema: model.Schema{
			Dims: []string{
				model.DimYear, model.DimMonth, model.DimEmployeeID,
				model.DimRelation, model.DimManagement, model.DimLevel,
				model.DimSex, model.DimExitReason,
			},
			Dates: []string{model.DateHireDate, model.DateExitDate, model.DatePeriod},
		},
	},
	model.PageEficiencia: {
		Page:      model.PageEficiencia,
		SheetName: "Eficiencia",
		Schema: model.Schema{
			Dims: []string{
				model.DimYear, model.DimMonth, model.DimManagement,
				model.DimDistrict,
			},
			Measures: []string{
				model.MeasureTotalInvestments, model.MeasureEfficiencyTotal,
				model.MeasureEfficiencyOperation, model.MeasureEfficiencyManagement,
				model.MeasureCostsYoYVariation,
			},
			Dates: []string{model.DatePeriod},
		},
		Mandatory: []string{model.DimPeriod},
	},
}

// SpecFor returns the ingestion spec for a page.
func SpecFor(page model.Page) (PageSpec, bool) {
	spec, ok := pageSpecs[page]
	return spec, ok
}
