package ingest

import (
	"strings"

	"github.com/Tincho2002/RRHH-sub000/internal/model"
)

// NormalizeHeader prepares a raw workbook header for alias lookup: trim,
// lowercase, accents stripped, every non-alphanumeric run collapsed to a
// single underscore.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = stripAccents(h)
	var b strings.Builder
	lastUnderscore := true
	for _, r := range h {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}

func stripAccents(s string) string {
	replacer := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
		"ü", "u", "ñ", "n",
	)
	return replacer.Replace(s)
}

// headerAliases maps normalized workbook headers to canonical columns.
// Several workbook generations use different labels for the same field.
var headerAliases = map[string]string{
	// period / dates
	"fecha":            model.DimPeriod,
	"periodo":          model.DimPeriod,
	"period":           model.DimPeriod,
	"mes":              model.DimMonth,
	"ano":              model.DimYear,
	"anio":             model.DimYear,
	"year":             model.DimYear,
	"fecha_ing":        model.DateHireDate,
	"fecha_ingreso":    model.DateHireDate,
	"fecha_de_ingreso": model.DateHireDate,
	"fecha_alta":       model.DateHireDate,
	"fecha_egreso":     model.DateExitDate,
	"fecha_de_egreso":  model.DateExitDate,
	"fecha_baja":       model.DateExitDate,
	"fecha_nac":        model.DateBirthDate,
	"fecha_nacimiento": model.DateBirthDate,

	// identity / contract
	"nro_de_legajo": model.DimEmployeeID,
	"legajo":        model.DimEmployeeID,
	"nro_legajo":    model.DimEmployeeID,
	"convenio":      model.DimRelation,
	"relacion":      model.DimRelation,

	// organizational dimensions
	"gerencia":                             model.DimManagement,
	"nivel":                                model.DimLevel,
	"funcion":                              model.DimFunction,
	"distrito":                             model.DimDistrict,
	"localidad":                            model.DimDistrict,
	"clasificacion_ministerio_de_hacienda": model.DimMinistry,
	"ministerio":                           model.DimMinistry,
	"centro_de_costo":                      model.DimCostCenter,
	"ceco":                                 model.DimCostCenter,
	"sexo":                                 model.DimSex,
	"genero":                               model.DimSex,
	"antiguedad":                           model.DimTenureBand,
	"rango_antiguedad":                     model.DimTenureBand,
	"rango_etario":                         model.DimAgeBand,
	"rango_edad":                           model.DimAgeBand,
	"motivo_de_egreso":                     model.DimExitReason,
	"motivo_egreso":                        model.DimExitReason,

	// measures
	"total_mensual":          model.MeasureMonthlyTotal,
	"masa_salarial":          model.MeasureMonthlyTotal,
	"hs_50":                  model.MeasureOvertime50,
	"horas_al_50":            model.MeasureOvertime50,
	"hs_100":                 model.MeasureOvertime100,
	"horas_al_100":           model.MeasureOvertime100,
	"total_inversiones":      model.MeasureTotalInvestments,
	"eficiencia_total":       model.MeasureEfficiencyTotal,
	"eficiencia_operativa":   model.MeasureEfficiencyOperation,
	"eficiencia_de_gestion":  model.MeasureEfficiencyManagement,
	"variacion_costos_ia":    model.MeasureCostsYoYVariation,
	"variacion_interanual":   model.MeasureCostsYoYVariation,
	"variacion_costos_anual": model.MeasureCostsYoYVariation,
}

// CanonicalColumn resolves a raw header to its canonical column name.
// Unknown headers resolve to "".
func CanonicalColumn(raw string) string {
	return headerAliases[NormalizeHeader(raw)]
}

// MapRelation canonicalizes a free-text contract class. The rule set works
// on substrings because workbooks carry variants like "Dentro de CCT",
// "FUERA DE CONVENIO" or "Pasantes".
func MapRelation(raw string) string {
	v := strings.ToLower(stripAccents(strings.TrimSpace(raw)))
	switch {
	case v == "":
		return model.NotAvailable
	case strings.Contains(v, "fuera"):
		return model.RelationFuera
	case strings.Contains(v, "pasant"):
		return model.RelationPasante
	case strings.Contains(v, "cct"), strings.Contains(v, "conv"):
		return model.RelationConvenio
	default:
		return model.NotAvailable
	}
}
