package ingest

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order by ParseDate. Workbooks mix ISO
// timestamps, Argentine day-first dates and excelize's textual renderings.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2/1/2006",
	"01/2006",
	"2006/01",
	"Jan-06",
	"01-02-06",
}

// excelEpoch is day zero of the 1900 date system.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate parses a cell permissively. Unparseable values report ok=false
// instead of an error; callers treat them as null.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	// Excel serial number: GetRows may hand back the raw serial when the
	// cell has no date style.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 59 && serial < 200000 {
		return excelEpoch.Add(time.Duration(serial * 24 * float64(time.Hour))), true
	}
	return time.Time{}, false
}

// YearsSince returns fractional years between a date and now using the
// 365.25-day convention the band buckets are defined on.
func YearsSince(t, now time.Time) float64 {
	return now.Sub(t).Hours() / 24 / 365.25
}
