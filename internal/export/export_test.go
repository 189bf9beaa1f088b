package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"github.com/Tincho2002/RRHH-sub000/internal/model"
)

func sampleFrame() *model.Frame {
	return &model.Frame{
		Title:   "Dotación por gerencia",
		Columns: []string{"Gerencia", "Convenio", "Total"},
		Rows: [][]any{
			{"Operaciones", 12, 15},
			{"Comercial", 4, 4},
		},
	}
}

func TestCSVRoundTrip(t *testing.T) {
	frame := sampleFrame()
	data, err := CSV(frame)
	if err != nil {
		t.Fatalf("csv export: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	assert.Equal(t, frame.Columns, records[0])
	assert.Equal(t, []string{"Operaciones", "12", "15"}, records[1])
	assert.Equal(t, []string{"Comercial", "4", "4"}, records[2])
}

func TestXLSXSheetDatos(t *testing.T) {
	data, err := XLSX(sampleFrame())
	if err != nil {
		t.Fatalf("xlsx export: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("re-open: %v", err)
	}
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	assert.Equal(t, []string{"Gerencia", "Convenio", "Total"}, rows[0])
	assert.Equal(t, "Operaciones", rows[1][0])
}

func TestPDFSnapshot(t *testing.T) {
	data, err := PDF(sampleFrame(), Options{
		Title:       "Masa Salarial",
		PeriodLabel: "Enero 2025",
	})
	if err != nil {
		t.Fatalf("pdf export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output is not a PDF document")
	}
}

func TestPDFTruncates(t *testing.T) {
	frame := &model.Frame{Columns: make([]string, 12)}
	for i := range frame.Columns {
		frame.Columns[i] = "c"
	}
	for i := 0; i < 250; i++ {
		frame.Rows = append(frame.Rows, make([]any, 12))
	}
	snap := frame.Truncate(PDFMaxRows, PDFMaxCols)
	assert.Equal(t, PDFMaxRows, snap.NumRows())
	assert.Len(t, snap.Columns, PDFMaxCols)

	if _, err := PDF(frame, Options{Title: "t"}); err != nil {
		t.Fatalf("pdf export: %v", err)
	}
}

func TestBytesUnknownKind(t *testing.T) {
	_, err := Bytes(sampleFrame(), Kind("doc"), Options{})
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType(KindPDF))
	assert.Contains(t, ContentType(KindCSV), "text/csv")
}
