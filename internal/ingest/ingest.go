// Package ingest turns uploaded spreadsheets into canonical in-memory
// tables. Recognized headers are renamed to canonical columns, dates are
// parsed permissively, missing bands are derived from dates, dimensions
// are sentinel-normalized and measures coerced to finite numbers.
package ingest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Tincho2002/RRHH-sub000/internal/format"
	"github.com/Tincho2002/RRHH-sub000/internal/model"
)

var (
	// ErrMissingSheet is fatal: the page cannot run without its sheet.
	ErrMissingSheet = errors.New("hoja requerida no encontrada")
	// ErrMissingColumn is fatal for columns listed as mandatory.
	ErrMissingColumn = errors.New("columna obligatoria no encontrada")
	// ErrUnknownPage rejects uploads for pages outside the registry.
	ErrUnknownPage = errors.New("página desconocida")
)

// Service ingests uploads and memoizes the result by content hash. The
// cache is bounded; the oldest entry is evicted first.
type Service struct {
	mu         sync.Mutex
	cache      map[string]*model.Table
	order      []string
	maxEntries int
	now        func() time.Time
}

// NewService creates an ingestion service with a bounded content cache.
func NewService(maxEntries int) *Service {
	if maxEntries <= 0 {
		maxEntries = 16
	}
	return &Service{
		cache:      make(map[string]*model.Table),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// SetNow overrides the clock used for band derivation. Tests only.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}

// ContentHash identifies an upload by its bytes.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Ingest parses an upload for a page and returns the canonical table plus
// the upload's content hash. Identical bytes return the cached table.
func (s *Service) Ingest(data []byte, page model.Page) (*model.Table, string, error) {
	spec, ok := SpecFor(page)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownPage, page)
	}

	hash := ContentHash(data)
	s.mu.Lock()
	if t, ok := s.cache[hash+string(page)]; ok {
		s.mu.Unlock()
		return t, hash, nil
	}
	s.mu.Unlock()

	var table *model.Table
	var err error
	if spec.AcceptCSV && !bytes.HasPrefix(data, []byte("PK")) {
		table, err = s.ingestCSV(data, spec)
	} else {
		table, err = s.ingestWorkbook(data, spec)
	}
	if err != nil {
		return nil, hash, err
	}

	s.mu.Lock()
	key := hash + string(spec.Page)
	if len(s.cache) >= s.maxEntries && len(s.order) > 0 {
		delete(s.cache, s.order[0])
		s.order = s.order[1:]
	}
	s.cache[key] = table
	s.order = append(s.order, key)
	s.mu.Unlock()

	return table, hash, nil
}

func (s *Service) ingestWorkbook(data []byte, spec PageSpec) (*model.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir el archivo: %w", err)
	}
	defer f.Close()

	sheet, err := resolveSheet(f, spec.SheetName)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("no se pudo leer la hoja %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return emptyTable(spec), checkMandatory(spec, nil)
	}

	cols := mapHeader(rows[0])
	if err := checkMandatory(spec, cols); err != nil {
		return nil, err
	}

	table := emptyTable(spec)
	now := s.now()
	for _, raw := range rows[1:] {
		if isBlankRow(raw) {
			continue
		}
		table.Rows = append(table.Rows, buildRow(spec, raw, cols, now))
	}
	return table, nil
}

// resolveSheet finds the expected sheet, tolerating case and whitespace
// differences. An empty want means "first sheet".
func resolveSheet(f *excelize.File, want string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrMissingSheet
	}
	if want == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == want {
			return s, nil
		}
	}
	for _, s := range sheets {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(want)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrMissingSheet, want)
}

// mapHeader resolves raw headers to canonical columns. The first header
// that maps to a canonical name wins; later duplicates are ignored.
func mapHeader(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		canonical := CanonicalColumn(h)
		if canonical == "" {
			continue
		}
		if _, taken := cols[canonical]; !taken {
			cols[canonical] = i
		}
	}
	return cols
}

func checkMandatory(spec PageSpec, cols map[string]int) error {
	for _, c := range spec.Mandatory {
		if _, ok := cols[c]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return nil
}

func emptyTable(spec PageSpec) *model.Table {
	return &model.Table{Page: spec.Page, Schema: spec.Schema, Rows: []model.Row{}}
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cellAt(cells []string, cols map[string]int, name string) (string, bool) {
	idx, ok := cols[name]
	if !ok || idx >= len(cells) {
		return "", ok
	}
	return strings.TrimSpace(cells[idx]), true
}

// buildRow applies the full coercion pipeline to one raw row.
func buildRow(spec PageSpec, cells []string, cols map[string]int, now time.Time) model.Row {
	row := model.Row{
		Dims:     make(map[string]string, len(spec.Schema.Dims)),
		Measures: make(map[string]float64, len(spec.Schema.Measures)),
		Dates:    make(map[string]time.Time),
	}

	// Dates first: band derivation and period splitting depend on them.
	for _, dc := range []string{model.DateHireDate, model.DateExitDate, model.DateBirthDate} {
		if raw, ok := cellAt(cells, cols, dc); ok {
			if t, parsed := ParseDate(raw); parsed {
				row.Dates[dc] = t
			}
		}
	}

	year, month := periodOf(cells, cols, &row)

	for _, dim := range spec.Schema.Dims {
		raw, _ := cellAt(cells, cols, dim)
		row.Dims[dim] = normalizeDim(dim, raw, row, year, month, now)
	}

	for _, m := range spec.Schema.Measures {
		raw, _ := cellAt(cells, cols, m)
		row.Measures[m] = ParseNumber(raw)
	}

	return row
}

// periodOf resolves the reporting period. A timestamp Period is split into
// year and Spanish month name; a plain month-name Period is capitalized.
// Explicit Year/Month columns win when the Period cell is absent.
func periodOf(cells []string, cols map[string]int, row *model.Row) (year, month string) {
	if raw, ok := cellAt(cells, cols, model.DimPeriod); ok && raw != "" {
		if t, parsed := ParseDate(raw); parsed {
			row.Dates[model.DatePeriod] = t
			return strconv.Itoa(t.Year()), format.MonthName(int(t.Month()))
		}
		if format.MonthIndex(raw) > 0 {
			month = format.Capitalize(raw)
		}
	}
	if raw, ok := cellAt(cells, cols, model.DimYear); ok && raw != "" {
		year = strings.TrimSuffix(raw, ".0")
	}
	if month == "" {
		if raw, ok := cellAt(cells, cols, model.DimMonth); ok && format.MonthIndex(raw) > 0 {
			month = format.Capitalize(raw)
		}
	}
	return year, month
}

// normalizeDim applies the per-dimension normalization rules.
func normalizeDim(dim, raw string, row model.Row, year, month string, now time.Time) string {
	switch dim {
	case model.DimYear:
		raw = year
	case model.DimMonth:
		raw = month
	case model.DimTenureBand:
		if isMissing(raw) {
			if hire, ok := row.Date(model.DateHireDate); ok {
				raw = format.TenureBand(YearsSince(hire, now))
			}
		}
		return lowerOrSentinel(raw)
	case model.DimAgeBand:
		if isMissing(raw) {
			if birth, ok := row.Date(model.DateBirthDate); ok {
				raw = format.AgeBand(YearsSince(birth, now))
			}
		}
		return lowerOrSentinel(raw)
	case model.DimRelation:
		return MapRelation(raw)
	case model.DimEmployeeID:
		raw = strings.TrimSuffix(strings.TrimSpace(raw), ".0")
	}
	if isMissing(raw) {
		return model.NotAvailable
	}
	return strings.TrimSpace(raw)
}

func isMissing(raw string) bool {
	v := strings.ToLower(strings.TrimSpace(raw))
	return v == "" || v == "nan" || v == "none" || v == "null" || v == "na"
}

func lowerOrSentinel(raw string) string {
	if isMissing(raw) {
		return model.NotAvailable
	}
	return strings.ToLower(strings.TrimSpace(raw))
}

// ParseNumber coerces a measure cell to a finite float64. Unparseable or
// NaN values become 0. Both Spanish ("1.234,56") and plain ("1234.56")
// renderings are accepted.
func ParseNumber(raw string) float64 {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if raw == "" {
		return 0
	}
	raw = strings.ReplaceAll(raw, " ", "")

	hasDot := strings.Contains(raw, ".")
	hasComma := strings.Contains(raw, ",")
	switch {
	case hasDot && hasComma:
		if strings.LastIndex(raw, ",") > strings.LastIndex(raw, ".") {
			// Spanish: dot thousands, comma decimal.
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.Replace(raw, ",", ".", 1)
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	case hasComma:
		raw = strings.Replace(raw, ",", ".", 1)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
