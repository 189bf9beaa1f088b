// Package export converts any view frame into downloadable bytes. The
// exporter is stateless: the same frame and kind produce the same bytes,
// modulo timestamps the underlying engines embed.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"github.com/Tincho2002/RRHH-sub000/internal/format"
	"github.com/Tincho2002/RRHH-sub000/internal/model"
)

// Kind selects the export encoding.
type Kind string

const (
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
	KindPDF  Kind = "pdf"
)

// SheetName is the single sheet every spreadsheet export uses.
const SheetName = "Datos"

// PDF snapshot limits.
const (
	PDFMaxRows = 100
	PDFMaxCols = 8
)

// Options carries the per-export presentation settings.
type Options struct {
	Title       string
	PeriodLabel string
	// MoneyColumns are pre-formatted to locale strings in the PDF.
	MoneyColumns map[string]bool
	// MaxRows and MaxCols override the PDF snapshot limits; zero means
	// the defaults.
	MaxRows int
	MaxCols int
}

// Bytes renders a frame in the requested kind.
func Bytes(frame *model.Frame, kind Kind, opts Options) ([]byte, error) {
	switch kind {
	case KindCSV:
		return CSV(frame)
	case KindXLSX:
		return XLSX(frame)
	case KindPDF:
		return PDF(frame, opts)
	default:
		return nil, fmt.Errorf("formato de exportación desconocido: %s", kind)
	}
}

// CSV renders UTF-8, comma-separated, no index column; numbers stay in
// raw dot-decimal form.
func CSV(frame *model.Frame) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(frame.Columns); err != nil {
		return nil, err
	}
	for _, row := range frame.Rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = cellString(cell)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// XLSX renders a single-sheet workbook named Datos with a bold header.
func XLSX(frame *model.Frame) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", SheetName)

	for i, col := range frame.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, col); err != nil {
			return nil, err
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetRowStyle(SheetName, 1, 1, headerStyle)
	}

	for r, row := range frame.Rows {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(SheetName, cell, val); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PDF renders a landscape A4 snapshot of the frame truncated to the
// first 100 rows and 8 columns, with title, period label and a
// disclaimer footer. Money columns are locale-formatted.
func PDF(frame *model.Frame, opts Options) ([]byte, error) {
	maxRows, maxCols := opts.MaxRows, opts.MaxCols
	if maxRows <= 0 {
		maxRows = PDFMaxRows
	}
	if maxCols <= 0 {
		maxCols = PDFMaxCols
	}
	snap := frame.Truncate(maxRows, maxCols)

	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("") // core fonts are cp1252
	pdf.SetAutoPageBreak(true, 14)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(0, 6, "Documento generado automaticamente - datos sujetos a revision", "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 13)
	title := opts.Title
	if title == "" {
		title = snap.Title
	}
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	if opts.PeriodLabel != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 6, tr("Período: "+opts.PeriodLabel), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right
	colWidth := usable / float64(len(snap.Columns))

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(226, 232, 240)
	for _, col := range snap.Columns {
		pdf.CellFormat(colWidth, 7, tr(col), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range snap.Rows {
		for i, cell := range row {
			text := cellString(cell)
			if i < len(snap.Columns) && opts.MoneyColumns[snap.Columns[i]] {
				if f, ok := cellFloat(cell); ok {
					text = format.Money(f)
				}
			}
			pdf.CellFormat(colWidth, 6, tr(text), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error generando PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName builds a download name for a page/panel export.
func FileName(base string, kind Kind) string {
	base = strings.ToLower(strings.TrimSpace(base))
	base = strings.ReplaceAll(base, " ", "_")
	if base == "" {
		base = "datos"
	}
	return base + "." + string(kind)
}

// ContentType maps an export kind to its MIME type.
func ContentType(kind Kind) string {
	switch kind {
	case KindCSV:
		return "text/csv; charset=utf-8"
	case KindXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case KindPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func cellFloat(cell any) (float64, bool) {
	switch v := cell.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
