package report

import (
	"sort"

	"github.com/cerfaos/analyse/internal/store"
)

// TypeGroup aggregates the activities sharing one exact type string.
type TypeGroup struct {
	Type     string  `json:"type"`
	Count    int     `json:"count"`
	Distance float64 `json:"distance"`
	Duration int     `json:"duration"`
	Trimp    float64 `json:"trimp"`
	Indoor   int     `json:"indoor"`
	Outdoor  int     `json:"outdoor"`
}

// GroupByType buckets activities per type string (case-sensitive) and
// returns the groups sorted by count descending. Ties keep the order the
// types were first encountered.
func GroupByType(activities []store.Activity) []TypeGroup {
	index := make(map[string]int)
	groups := make([]TypeGroup, 0)

	for _, a := range activities {
		i, ok := index[a.Type]
		if !ok {
			i = len(groups)
			index[a.Type] = i
			groups = append(groups, TypeGroup{Type: a.Type})
		}
		g := &groups[i]
		g.Count++
		g.Distance += a.Distance
		g.Duration += a.Duration
		g.Trimp += a.Trimp
		if IsIndoor(a) {
			g.Indoor++
		} else {
			g.Outdoor++
		}
	}

	for i := range groups {
		groups[i].Distance = round2(groups[i].Distance)
		groups[i].Trimp = round1(groups[i].Trimp)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	return groups
}
