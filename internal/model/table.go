package model

import "time"

// NotAvailable is the sentinel stored in every dimension cell whose raw
// value is missing or empty. It is kept in the data but excluded from
// filter option lists.
const NotAvailable = "no disponible"

// Page identifies one dashboard page.
type Page string

const (
	PageDotacion     Page = "dotacion"
	PageHorasExtra   Page = "horas_extra"
	PageMasaSalarial Page = "masa_salarial"
	PagePlantaCargos Page = "planta_cargos"
	PageEficiencia   Page = "eficiencia"
)

// Canonical dimension columns.
const (
	DimPeriod     = "Period"
	DimYear       = "Year"
	DimMonth      = "Month"
	DimEmployeeID = "EmployeeId"
	DimRelation   = "Relation"
	DimManagement = "Management"
	DimLevel      = "Level"
	DimFunction   = "Function"
	DimDistrict   = "District"
	DimMinistry   = "Ministry"
	DimCostCenter = "CostCenter"
	DimSex        = "Sex"
	DimTenureBand = "TenureBand"
	DimAgeBand    = "AgeBand"
	DimExitReason = "ExitReason"
)

// Canonical date columns.
const (
	DateHireDate  = "HireDate"
	DateExitDate  = "ExitDate"
	DateBirthDate = "BirthDate"
	DatePeriod    = "PeriodDate"
)

// Canonical measure columns.
const (
	MeasureMonthlyTotal         = "MonthlyTotal"
	MeasureOvertime50           = "Overtime50"
	MeasureOvertime100          = "Overtime100"
	MeasureTotalInvestments     = "TotalInvestments"
	MeasureEfficiencyTotal      = "EfficiencyTotal"
	MeasureEfficiencyOperation  = "EfficiencyOperational"
	MeasureEfficiencyManagement = "EfficiencyManagement"
	MeasureCostsYoYVariation    = "CostsYoYVariation"
)

// Canonical relation values.
const (
	RelationConvenio = "Convenio"
	RelationFuera    = "Fuera de Convenio"
	RelationPasante  = "Pasante"
)

// RelationOrder is the fixed stacking order for the Relation dimension.
var RelationOrder = []string{RelationConvenio, RelationFuera, RelationPasante}

// Schema declares the columns a canonical table carries.
type Schema struct {
	Dims     []string `json:"dims"`
	Measures []string `json:"measures"`
	Dates    []string `json:"dates"`
}

// HasDim reports whether the schema declares the given dimension.
func (s Schema) HasDim(dim string) bool {
	for _, d := range s.Dims {
		if d == dim {
			return true
		}
	}
	return false
}

// Row is one record of a canonical table. Dimension cells are always
// present and sentinel-filled; absent dates are simply missing from the map.
type Row struct {
	Dims     map[string]string    `json:"dims"`
	Measures map[string]float64   `json:"measures"`
	Dates    map[string]time.Time `json:"dates,omitempty"`
}

// Dim returns a dimension cell, falling back to the sentinel.
func (r Row) Dim(name string) string {
	if v, ok := r.Dims[name]; ok && v != "" {
		return v
	}
	return NotAvailable
}

// Measure returns a measure cell; missing measures read as 0.
func (r Row) Measure(name string) float64 {
	return r.Measures[name]
}

// Date returns a date cell and whether it is populated.
func (r Row) Date(name string) (time.Time, bool) {
	t, ok := r.Dates[name]
	return t, ok
}

// Table is the canonical in-memory table produced by ingestion. It is
// immutable after construction and shared read-only across panels.
type Table struct {
	Page   Page   `json:"page"`
	Schema Schema `json:"schema"`
	Rows   []Row  `json:"rows"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Uniques returns the distinct values of a dimension in row order,
// sentinel included.
func (t *Table) Uniques(dim string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, r := range t.Rows {
		v := r.Dim(dim)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// NonSentinelUniques returns the distinct values of a dimension with the
// sentinel removed.
func (t *Table) NonSentinelUniques(dim string) []string {
	all := t.Uniques(dim)
	out := make([]string, 0, len(all))
	for _, v := range all {
		if v != NotAvailable {
			out = append(out, v)
		}
	}
	return out
}
