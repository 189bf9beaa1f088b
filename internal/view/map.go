package view

import (
	"sort"
	"strings"

	"github.com/Tincho2002/RRHH-sub000/internal/geo"
	"github.com/Tincho2002/RRHH-sub000/internal/model"
)

// MapPoint is one plotted district: coordinates plus agent count.
type MapPoint struct {
	District  string  `json:"district"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Count     int     `json:"count"`
}

// MapPayload carries the geographic panel. When Compare is on the
// renderer splits the points in two synchronized maps by relation.
type MapPayload struct {
	Compare    bool                  `json:"compare"`
	Points     []MapPoint            `json:"points"`
	ByRelation map[string][]MapPoint `json:"byRelation,omitempty"`
	Missing    []string              `json:"missing,omitempty"`
}

// mapPanel builds the district headcount map for the staffing page.
// Districts without a known coordinate are reported, not dropped
// silently.
func mapPanel() Panel {
	return Panel{
		ID:    "mapa",
		Title: "Distribución geográfica",
		Kind:  KindMap,
		Build: func(bc BuildContext) (any, *model.Frame, error) {
			coords, err := bc.Deps.Geo.Fetch(bc.Ctx, bc.Deps.GeoURL)
			if err != nil {
				return nil, nil, err
			}
			index := geo.Lookup(coords)

			payload := &MapPayload{Compare: bc.State.ShowMapCompare.Load()}
			counts := map[string]int{}
			byRel := map[string]map[string]int{}
			for _, row := range bc.Slice {
				district := row.Dim(model.DimDistrict)
				if district == model.NotAvailable {
					continue
				}
				counts[district]++
				rel := row.Dim(model.DimRelation)
				if byRel[rel] == nil {
					byRel[rel] = map[string]int{}
				}
				byRel[rel][district]++
			}
			seenMissing := map[string]bool{}
			toPoints := func(m map[string]int) []MapPoint {
				points := make([]MapPoint, 0, len(m))
				for district, n := range m {
					c, ok := index[strings.ToLower(district)]
					if !ok {
						if !seenMissing[district] {
							seenMissing[district] = true
							payload.Missing = append(payload.Missing, district)
						}
						continue
					}
					points = append(points, MapPoint{
						District:  c.District,
						Latitude:  c.Latitude,
						Longitude: c.Longitude,
						Count:     n,
					})
				}
				sort.Slice(points, func(i, j int) bool { return points[i].District < points[j].District })
				return points
			}
			payload.Points = toPoints(counts)
			if payload.Compare {
				payload.ByRelation = make(map[string][]MapPoint, len(byRel))
				for rel, m := range byRel {
					payload.ByRelation[rel] = toPoints(m)
				}
			}
			sort.Strings(payload.Missing)
			return payload, nil, nil
		},
	}
}
