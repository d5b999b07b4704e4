package report

import (
	"strings"

	"github.com/cerfaos/analyse/internal/store"
)

// walkingType is special-cased: a walk with no GPS track is assumed to be
// on a treadmill.
const walkingType = "marche"

// Sub-sport labels that always mean an indoor session
var indoorSubSports = map[string]struct{}{
	"home_trainer":   {},
	"indoor_cycling": {},
	"virtual_ride":   {},
	"treadmill":      {},
	"indoor_rowing":  {},
	"elliptical":     {},
}

// Activity types that are inherently indoor
var indoorTypes = map[string]struct{}{
	"musculation": {},
	"yoga":        {},
	"pilates":     {},
	"stretching":  {},
}

// IsIndoor classifies one activity as indoor. Decision order: indoor
// sub-sport, then inherently-indoor type, then a GPS-less walk. Everything
// else is outdoor. Total function; every activity lands in exactly one of
// the two buckets.
func IsIndoor(a store.Activity) bool {
	if _, ok := indoorSubSports[strings.ToLower(a.SubSport)]; ok {
		return true
	}
	if _, ok := indoorTypes[strings.ToLower(a.Type)]; ok {
		return true
	}
	if strings.ToLower(a.Type) == walkingType && !a.HasGPS {
		return true
	}
	return false
}
