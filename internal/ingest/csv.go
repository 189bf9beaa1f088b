package ingest

import (
	"bytes"
	"fmt"

	"github.com/gocarina/gocsv"

	"github.com/Tincho2002/RRHH-sub000/internal/model"
)

// ingestCSV handles the position-roster page, which accepts plain CSV
// uploads next to xlsx. Records go through the same coercion pipeline as
// workbook rows.
func (s *Service) ingestCSV(data []byte, spec PageSpec) (*model.Table, error) {
	records, err := gocsv.CSVToMaps(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("no se pudo leer el CSV: %w", err)
	}

	table := emptyTable(spec)
	if len(records) == 0 {
		return table, nil
	}

	// Rebuild a header/cells view so CSV and workbook rows share buildRow.
	headers := make([]string, 0, len(records[0]))
	for h := range records[0] {
		headers = append(headers, h)
	}
	cols := mapHeader(headers)
	if err := checkMandatory(spec, cols); err != nil {
		return nil, err
	}

	now := s.now()
	for _, rec := range records {
		cells := make([]string, len(headers))
		blank := true
		for i, h := range headers {
			cells[i] = rec[h]
			if cells[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		table.Rows = append(table.Rows, buildRow(spec, cells, cols, now))
	}
	return table, nil
}
