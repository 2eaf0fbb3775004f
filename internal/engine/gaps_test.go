package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremesh/caremesh-cli/internal/geo"
	"github.com/caremesh/caremesh-cli/internal/model"
)

func TestDetectGaps_WellServedRegionNotEmitted(t *testing.T) {
	e := newTestEngine(t)

	result := e.Optimize(nairobiCluster(), []model.RegionSummary{
		{Name: "Nairobi", FacilityTypes: map[string]int{"hospital": 3}},
	})

	assert.Empty(t, result.Gaps, "a dense cluster is within the access standard")
}

func TestDetectGaps_GazetteerCentroidFallback(t *testing.T) {
	e := newTestEngine(t)

	// No Coast facilities: distance is measured from the gazetteer's
	// Coast centroid to the globally nearest facility.
	result := e.Optimize(nairobiCluster(), []model.RegionSummary{
		{Name: "Coast", FacilityTypes: map[string]int{"clinic": 4}},
	})

	require.Len(t, result.Gaps, 1)
	gap := result.Gaps[0]
	assert.Equal(t, "Coast", gap.Region)

	coastCentroid := geo.Point{Lat: -3.5, Lng: 39.5}
	wantKM := e.cfg.MaxDisplayDistanceKM
	for _, n := range result.Nodes {
		d := geo.HaversineKM(coastCentroid, geo.Point{Lat: n.Latitude, Lng: n.Longitude})
		if d < wantKM {
			wantKM = d
		}
	}
	assert.InDelta(t, wantKM, gap.AvgDistanceKM, 0.1)
	assert.Equal(t, 4*e.cfg.PopulationPerFacility, gap.EstimatedPopulation)
}

func TestDetectGaps_UnknownRegionUsesCountryCenter(t *testing.T) {
	e := newTestEngine(t)

	result := e.Optimize(nairobiCluster(), []model.RegionSummary{
		{Name: "Atlantis"},
	})

	require.Len(t, result.Gaps, 1)
	gap := result.Gaps[0]
	assert.InDelta(t, 0.0236, gap.Latitude, 0.001)
	assert.InDelta(t, 37.9062, gap.Longitude, 0.001)
	assert.Equal(t, e.cfg.RegionBasePopulation, gap.EstimatedPopulation)
}

func TestDetectGaps_FuzzyRegionMatch(t *testing.T) {
	// Facility labeled "Coast Province", summary says "Coast": the
	// bidirectional substring fallback must connect them.
	nodes := []model.Node{
		{ID: "a", Region: "Coast Province"},
		{ID: "b", Region: "Nairobi"},
	}

	matched := matchRegion(nodes, "Coast")
	require.Len(t, matched, 1)
	assert.Equal(t, 0, matched[0])

	// And the other direction: summary name longer than the label.
	matched = matchRegion(nodes, "nairobi county")
	require.Len(t, matched, 1)
	assert.Equal(t, 1, matched[0])
}

func TestDetectGaps_ExactMatchBeatsFuzzy(t *testing.T) {
	nodes := []model.Node{
		{ID: "a", Region: "Eastern"},
		{ID: "b", Region: "North Eastern"},
	}

	// "Eastern" matches node a exactly; the fuzzy pass (which would also
	// pull in "North Eastern") must not run.
	matched := matchRegion(nodes, "Eastern")
	require.Len(t, matched, 1)
	assert.Equal(t, 0, matched[0])
}

func TestDetectGaps_SortedByUrgency(t *testing.T) {
	e := newTestEngine(t)

	// One moderately underserved pair and one extremely remote pair.
	facilities := []model.Facility{
		fac("m1", "Meru District", 0.05, 37.65, "Meru", 60),
		fac("m2", "Embu District", -0.54, 37.45, "Embu", 60),
		fac("x1", "Island Clinic", -10.0, 50.0, "Offshore", 60),
	}

	result := e.Optimize(facilities, []model.RegionSummary{
		{Name: "Meru", FacilityTypes: map[string]int{"hospital": 1}},
		{Name: "Offshore", FacilityTypes: map[string]int{"clinic": 1}},
	})

	for i := 1; i < len(result.Gaps); i++ {
		assert.GreaterOrEqual(t, result.Gaps[i-1].Urgency, result.Gaps[i].Urgency)
	}
}

func TestRecommendAction_Tiers(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, ActionDeployMobileUnit, e.recommendAction(200))
	assert.Equal(t, ActionBuildFacility, e.recommendAction(150))
	assert.Equal(t, ActionUpgradeCapacity, e.recommendAction(100))
}

func TestDetectGaps_UrgencyClampedToOne(t *testing.T) {
	e := newTestEngine(t)

	result := e.Optimize(nil, []model.RegionSummary{{Name: "Anywhere"}})

	require.Len(t, result.Gaps, 1)
	assert.Equal(t, 1.0, result.Gaps[0].Urgency)
}
