package model

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Tincho2002/RRHH-sub000/internal/format"
)

// SortDimValues orders a dimension's values canonically: calendar order
// for Month, band order for TenureBand/AgeBand, reverse-numeric for Year,
// fixed contract order for Relation, lexicographic otherwise. Groupings
// and chart axes rely on this instead of sort strings.
func SortDimValues(dim string, values []string) []string {
	out := append([]string(nil), values...)
	switch dim {
	case DimMonth:
		sort.SliceStable(out, func(i, j int) bool {
			return format.MonthIndex(out[i]) < format.MonthIndex(out[j])
		})
	case DimTenureBand:
		sort.SliceStable(out, func(i, j int) bool {
			return format.BandIndex(out[i], format.TenureBands) < format.BandIndex(out[j], format.TenureBands)
		})
	case DimAgeBand:
		sort.SliceStable(out, func(i, j int) bool {
			return format.BandIndex(out[i], format.AgeBands) < format.BandIndex(out[j], format.AgeBands)
		})
	case DimYear:
		sort.SliceStable(out, func(i, j int) bool {
			yi, _ := strconv.Atoi(out[i])
			yj, _ := strconv.Atoi(out[j])
			return yi > yj
		})
	case DimRelation:
		sort.SliceStable(out, func(i, j int) bool {
			return RelationRank(out[i]) < RelationRank(out[j])
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i]) < strings.ToLower(out[j])
		})
	}
	return out
}

// RelationRank positions a relation value inside the fixed stack order;
// unknown values sort last.
func RelationRank(v string) int {
	for i, r := range RelationOrder {
		if r == v {
			return i
		}
	}
	return len(RelationOrder)
}
