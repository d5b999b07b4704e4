package report

import (
	"testing"
	"time"

	"github.com/cerfaos/analyse/internal/hrzone"
	"github.com/cerfaos/analyse/internal/store"
)

func TestDistributeZonesEmpty(t *testing.T) {
	t.Parallel()

	zones := hrzone.BuildZones(190, 60)
	buckets, polarization := DistributeZones(nil, zones)

	if len(buckets) != len(zones) {
		t.Fatalf("buckets = %d, want %d", len(buckets), len(zones))
	}
	for _, b := range buckets {
		if b.Seconds != 0 || b.Hours != 0 || b.Percentage != 0 {
			t.Errorf("zone %d: expected zero bucket, got %+v", b.Zone, b)
		}
	}
	if polarization.Profile != "aucune donnée" {
		t.Errorf("profile = %q, want %q", polarization.Profile, "aucune donnée")
	}
}

func TestDistributeZones(t *testing.T) {
	t.Parallel()

	zones := hrzone.BuildZones(190, 60)
	date := time.Date(2025, time.March, 3, 18, 0, 0, 0, time.UTC)
	activities := []store.Activity{
		// zone 1 (bounds 125-138)
		{ID: 1, Date: date, Type: "course", Duration: 3600, AvgHeartRate: ptr(130.0)},
		// zone 2 (138-151)
		{ID: 2, Date: date, Type: "course", Duration: 1800, AvgHeartRate: ptr(145.0)},
		// zone 4 (164-177)
		{ID: 3, Date: date, Type: "course", Duration: 600, AvgHeartRate: ptr(170.0)},
		// no heart rate, contributes nothing
		{ID: 4, Date: date, Type: "marche", Duration: 5400},
	}

	buckets, polarization := DistributeZones(activities, zones)

	wantSeconds := []int{3600, 1800, 0, 600, 0}
	for i, b := range buckets {
		if b.Seconds != wantSeconds[i] {
			t.Errorf("zone %d: seconds = %d, want %d", b.Zone, b.Seconds, wantSeconds[i])
		}
		if b.Min != zones[i].Min || b.Max != zones[i].Max || b.Name != zones[i].Name {
			t.Errorf("zone %d: definition not carried through", b.Zone)
		}
	}

	// total 6000s: 60%, 30%, 0%, 10%, 0%
	wantPct := []float64{60.0, 30.0, 0.0, 10.0, 0.0}
	var pctSum float64
	for i, b := range buckets {
		if b.Percentage != wantPct[i] {
			t.Errorf("zone %d: percentage = %v, want %v", b.Zone, b.Percentage, wantPct[i])
		}
		pctSum += b.Percentage
	}
	if pctSum != 100.0 {
		t.Errorf("percentages sum to %v", pctSum)
	}

	if buckets[0].Hours != 1.0 {
		t.Errorf("zone 1 hours = %v, want 1.0", buckets[0].Hours)
	}
	if buckets[1].Hours != 0.5 {
		t.Errorf("zone 2 hours = %v, want 0.5", buckets[1].Hours)
	}

	// low 90%, high 10% -> polarized
	if polarization.Profile != "polarisé" {
		t.Errorf("profile = %q, want %q", polarization.Profile, "polarisé")
	}
}
