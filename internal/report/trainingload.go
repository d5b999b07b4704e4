package report

import (
	"github.com/cerfaos/analyse/internal/store"
	"github.com/cerfaos/analyse/internal/trainingload"
)

// loadLookbackDays is how much trailing history seeds the CTL/ATL series
// before the report window. It must stay equal to trainingload.SeedDays:
// the slice below skips exactly this many leading days, so changing one
// without the other silently mis-anchors the window.
const loadLookbackDays = trainingload.SeedDays

// TrainingLoad is the period's slice of the fitness series with its
// start/end anchors and deltas.
type TrainingLoad struct {
	StartCTL  float64                 `json:"start_ctl"`
	EndCTL    float64                 `json:"end_ctl"`
	CTLChange float64                 `json:"ctl_change"`
	StartATL  float64                 `json:"start_atl"`
	EndATL    float64                 `json:"end_atl"`
	ATLChange float64                 `json:"atl_change"`
	History   []trainingload.DayPoint `json:"history"`
}

// calculateTrainingLoad runs the fitness model over the extended window
// (period plus lookback) and slices out the requested period's days.
// extendedActivities must cover [period.Start - lookback, period.End].
func calculateTrainingLoad(extendedActivities []store.Activity, period Period) TrainingLoad {
	extendedStart := period.Start.AddDate(0, 0, -loadLookbackDays)
	totalDays := daysBetween(extendedStart, period.End) + 1
	daysInPeriod := daysBetween(period.Start, period.End) + 1

	result := trainingload.Calculate(extendedActivities, extendedStart, totalDays)

	history := result.History
	if loadLookbackDays < len(history) {
		history = history[loadLookbackDays:]
	} else {
		history = nil
	}
	if daysInPeriod < len(history) {
		history = history[:daysInPeriod]
	}

	load := TrainingLoad{History: history}
	if len(history) > 0 {
		first, last := history[0], history[len(history)-1]
		load.StartCTL = first.CTL
		load.StartATL = first.ATL
		load.EndCTL = last.CTL
		load.EndATL = last.ATL
	}
	load.CTLChange = round1(load.EndCTL - load.StartCTL)
	load.ATLChange = round1(load.EndATL - load.StartATL)
	return load
}
