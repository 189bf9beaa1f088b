package ingest

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"github.com/Tincho2002/RRHH-sub000/internal/model"
)

var testNow = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

// buildWorkbook writes a one-sheet workbook to bytes for ingestion tests.
func buildWorkbook(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)
	for i, row := range rows {
		for j, val := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func newTestService() *Service {
	s := NewService(4)
	s.SetNow(func() time.Time { return testNow })
	return s
}

func TestIngestDotacion(t *testing.T) {
	data := buildWorkbook(t, "Dotacion_25", [][]any{
		{"Fecha", "Nro. de Legajo", "Convenio", "Gerencia", "Sexo", "Fecha ing."},
		{"2025-01-01", "1001", "Dentro de CCT", "Operaciones", "Masculino", "2019-06-15"},
		{"2025-01-01", "1002.0", "FUERA DE CONVENIO", "Administración", "", ""},
	})

	s := newTestService()
	table, _, err := s.Ingest(data, model.PageDotacion)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("rows = %d, want 2", table.Len())
	}

	r0 := table.Rows[0]
	assert.Equal(t, "2025", r0.Dim(model.DimYear))
	assert.Equal(t, "Enero", r0.Dim(model.DimMonth))
	assert.Equal(t, "1001", r0.Dim(model.DimEmployeeID))
	assert.Equal(t, model.RelationConvenio, r0.Dim(model.DimRelation))
	assert.Equal(t, "Masculino", r0.Dim(model.DimSex))
	// 6 years of tenure, no raw band column: derived from Fecha ing.
	assert.Equal(t, "de 5 a 10 años", r0.Dim(model.DimTenureBand))

	r1 := table.Rows[1]
	assert.Equal(t, "1002", r1.Dim(model.DimEmployeeID))
	assert.Equal(t, model.RelationFuera, r1.Dim(model.DimRelation))
	assert.Equal(t, model.NotAvailable, r1.Dim(model.DimSex))
	assert.Equal(t, model.NotAvailable, r1.Dim(model.DimTenureBand))

	// Schema-complete: every declared dim is present even with no column.
	for _, dim := range table.Schema.Dims {
		if _, ok := r0.Dims[dim]; !ok {
			t.Errorf("dim %s missing from row", dim)
		}
	}
}

func TestIngestMissingSheetIsFatal(t *testing.T) {
	data := buildWorkbook(t, "Otra", [][]any{{"Fecha"}})
	s := newTestService()
	_, _, err := s.Ingest(data, model.PageDotacion)
	assert.ErrorIs(t, err, ErrMissingSheet)
}

func TestIngestEficienciaRequiresPeriod(t *testing.T) {
	data := buildWorkbook(t, "Eficiencia", [][]any{
		{"Gerencia", "Eficiencia Total"},
		{"Operaciones", 0.8},
	})
	s := newTestService()
	_, _, err := s.Ingest(data, model.PageEficiencia)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestIngestMeasureCoercion(t *testing.T) {
	data := buildWorkbook(t, "masa_salarial", [][]any{
		{"Fecha", "Legajo", "Total Mensual"},
		{"2025-02-01", "7", "1.234,56"},
		{"2025-02-01", "8", "no aplica"},
	})
	s := newTestService()
	table, _, err := s.Ingest(data, model.PageMasaSalarial)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	assert.InDelta(t, 1234.56, table.Rows[0].Measure(model.MeasureMonthlyTotal), 1e-9)
	assert.Equal(t, 0.0, table.Rows[1].Measure(model.MeasureMonthlyTotal))
	assert.Equal(t, "Febrero", table.Rows[0].Dim(model.DimMonth))
}

func TestIngestIdempotentAndCached(t *testing.T) {
	data := buildWorkbook(t, "Dotacion_25", [][]any{
		{"Fecha", "Legajo"},
		{"2025-01-01", "1"},
	})
	s := newTestService()
	t1, h1, err := s.Ingest(data, model.PageDotacion)
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	t2, h2, err := s.Ingest(data, model.PageDotacion)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	assert.Equal(t, h1, h2)
	if t1 != t2 {
		t.Error("identical bytes should hit the cache")
	}
}

func TestIngestRosterCSV(t *testing.T) {
	csv := "Nro. de Legajo,Convenio,Fecha ing.,Fecha egreso,Motivo de egreso\n" +
		"55,Pasantes,2024-03-01,,\n" +
		"56,Dentro de CCT,2018-01-10,2025-02-28,Renuncia\n"
	s := newTestService()
	table, _, err := s.Ingest([]byte(csv), model.PagePlantaCargos)
	if err != nil {
		t.Fatalf("ingest csv: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("rows = %d, want 2", table.Len())
	}
	byID := map[string]model.Row{}
	for _, r := range table.Rows {
		byID[r.Dim(model.DimEmployeeID)] = r
	}
	assert.Equal(t, model.RelationPasante, byID["55"].Dim(model.DimRelation))
	_, hasExit := byID["55"].Date(model.DateExitDate)
	assert.False(t, hasExit)
	exit, hasExit := byID["56"].Date(model.DateExitDate)
	assert.True(t, hasExit)
	assert.Equal(t, 2025, exit.Year())
	assert.Equal(t, "Renuncia", byID["56"].Dim(model.DimExitReason))
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"1234.56", 1234.56},
		{"1.234,56", 1234.56},
		{"1,234.56", 1234.56},
		{"$ 500", 500},
		{"12,5", 12.5},
		{"NaN", 0},
		{"texto", 0},
	}
	for _, c := range cases {
		if got := ParseNumber(c.in); got != c.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestMapRelation(t *testing.T) {
	cases := map[string]string{
		"Dentro de CCT":     model.RelationConvenio,
		"convenio":          model.RelationConvenio,
		"Fuera de Convenio": model.RelationFuera,
		"fuera":             model.RelationFuera,
		"Pasantes":          model.RelationPasante,
		"":                  model.NotAvailable,
		"otro":              model.NotAvailable,
	}
	for in, want := range cases {
		if got := MapRelation(in); got != want {
			t.Errorf("MapRelation(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"  Nro. de Legajo ":                    "nro_de_legajo",
		"Clasificación Ministerio de Hacienda": "clasificacion_ministerio_de_hacienda",
		"Fecha ing.":                           "fecha_ing",
		"AÑO":                                  "ano",
	}
	for in, want := range cases {
		if got := NormalizeHeader(in); got != want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}
