package report

import (
	"sort"
	"time"

	"github.com/cerfaos/analyse/internal/store"
)

// topLimit caps each ranking
const topLimit = 5

// RankedActivity is the slim projection used in rankings
type RankedActivity struct {
	ID            int64     `json:"id"`
	Date          time.Time `json:"date"`
	Type          string    `json:"type"`
	SubSport      string    `json:"sub_sport,omitempty"`
	Distance      float64   `json:"distance"`
	Duration      int       `json:"duration"`
	Trimp         float64   `json:"trimp"`
	ElevationGain float64   `json:"elevation_gain"`
	AvgHeartRate  *float64  `json:"avg_heart_rate,omitempty"`
	AvgSpeed      *float64  `json:"avg_speed,omitempty"`
}

// TopActivities holds the four independent top-5 rankings. An activity may
// appear in several of them.
type TopActivities struct {
	ByDistance  []RankedActivity `json:"by_distance"`
	ByDuration  []RankedActivity `json:"by_duration"`
	ByTrimp     []RankedActivity `json:"by_trimp"`
	ByElevation []RankedActivity `json:"by_elevation"`
}

// RankTop builds the four rankings. Only activities with a positive value
// in the ranked field qualify; ties keep chronological order because the
// input is date-ascending and the sort is stable.
func RankTop(activities []store.Activity) TopActivities {
	return TopActivities{
		ByDistance:  rankBy(activities, func(a store.Activity) float64 { return a.Distance }),
		ByDuration:  rankBy(activities, func(a store.Activity) float64 { return float64(a.Duration) }),
		ByTrimp:     rankBy(activities, func(a store.Activity) float64 { return a.Trimp }),
		ByElevation: rankBy(activities, func(a store.Activity) float64 { return a.ElevationGain }),
	}
}

func rankBy(activities []store.Activity, field func(store.Activity) float64) []RankedActivity {
	qualified := make([]store.Activity, 0, len(activities))
	for _, a := range activities {
		if field(a) > 0 {
			qualified = append(qualified, a)
		}
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return field(qualified[i]) > field(qualified[j])
	})

	if len(qualified) > topLimit {
		qualified = qualified[:topLimit]
	}

	ranked := make([]RankedActivity, len(qualified))
	for i, a := range qualified {
		ranked[i] = RankedActivity{
			ID:            a.ID,
			Date:          a.Date,
			Type:          a.Type,
			SubSport:      a.SubSport,
			Distance:      a.Distance,
			Duration:      a.Duration,
			Trimp:         a.Trimp,
			ElevationGain: a.ElevationGain,
			AvgHeartRate:  a.AvgHeartRate,
			AvgSpeed:      a.AvgSpeed,
		}
	}
	return ranked
}
