// Package format holds the Spanish display conventions shared by every
// page: decimal-comma numbers, month names and their calendar order, and
// the tenure/age bucket boundaries.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Months is the calendar-ordered list of Spanish month names.
var Months = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

var monthIndex = func() map[string]int {
	m := make(map[string]int, len(Months))
	for i, name := range Months {
		m[strings.ToLower(name)] = i + 1
	}
	return m
}()

// MonthIndex returns the 1-based calendar position of a Spanish month
// name, or 0 when the name is unknown. Matching is case-insensitive.
func MonthIndex(name string) int {
	return monthIndex[strings.ToLower(strings.TrimSpace(name))]
}

// MonthName returns the capitalized Spanish name for a 1-based month.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return Months[month-1]
}

// Capitalize uppercases the first rune and lowercases the rest. Month
// names arrive as "enero", "ENERO" or "Enero" depending on the workbook.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// TenureBands is the ordered list of tenure bucket labels.
var TenureBands = []string{
	"de 0 a 5 años",
	"de 5 a 10 años",
	"de 11 a 15 años",
	"de 16 a 20 años",
	"de 21 a 25 años",
	"de 26 a 30 años",
	"de 31 a 35 años",
	"más de 35 años",
}

// tenureEdges are the left-closed lower edges matching TenureBands.
var tenureEdges = []float64{0, 5, 10, 15, 20, 25, 30, 35}

// AgeBands is the ordered list of age bucket labels.
var AgeBands = []string{
	"de 0 a 19 años",
	"de 19 a 25 años",
	"de 25 a 35 años",
	"de 35 a 45 años",
	"de 45 a 55 años",
	"de 55 a 65 años",
	"más de 65 años",
}

var ageEdges = []float64{0, 19, 25, 35, 45, 55, 65}

// TenureBand buckets a tenure in years into its label. Intervals are
// left-closed: exactly 5 years falls in "de 5 a 10 años".
func TenureBand(years float64) string {
	return bucket(years, tenureEdges, TenureBands)
}

// AgeBand buckets an age in years into its label.
func AgeBand(years float64) string {
	return bucket(years, ageEdges, AgeBands)
}

func bucket(v float64, edges []float64, labels []string) string {
	if v < 0 || math.IsNaN(v) {
		return ""
	}
	for i := len(edges) - 1; i >= 0; i-- {
		if v >= edges[i] {
			return labels[i]
		}
	}
	return labels[0]
}

// BandIndex returns the position of a band label inside its ordered list,
// or -1 when not found. Comparison is case-insensitive because bands are
// lowercased during ingestion.
func BandIndex(label string, bands []string) int {
	label = strings.ToLower(strings.TrimSpace(label))
	for i, b := range bands {
		if strings.ToLower(b) == label {
			return i
		}
	}
	return -1
}

// Number renders a float with the Spanish convention: dot as thousand
// separator, comma as decimal separator.
func Number(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

// Integer renders a whole number with thousand separators.
func Integer(n int) string {
	return Number(float64(n), 0)
}

// Percent renders a percentage with one decimal, e.g. "66,7%".
func Percent(v float64) string {
	return Number(v, 1) + "%"
}

// Money renders a currency amount with two decimals and a "$ " prefix.
func Money(v float64) string {
	return fmt.Sprintf("$ %s", Number(v, 2))
}

// Round1 rounds to one decimal. Display-only; aggregation frames keep
// full precision.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
