package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremesh/caremesh-cli/internal/config"
	"github.com/caremesh/caremesh-cli/internal/geo"
	"github.com/caremesh/caremesh-cli/internal/model"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(config.DefaultEngine(), nil)
}

func fac(id, name string, lat, lng float64, region string, quality float64) model.Facility {
	return model.Facility{
		ID:           id,
		Name:         name,
		Latitude:     lat,
		Longitude:    lng,
		Geocoded:     true,
		Region:       region,
		QualityScore: quality,
	}
}

// nairobiCluster is a tight urban cluster; every pairwise distance is a
// few kilometers.
func nairobiCluster() []model.Facility {
	return []model.Facility{
		fac("f1", "Kenyatta National", -1.3007, 36.8060, "Nairobi", 90),
		fac("f2", "Nairobi West", -1.3081, 36.8110, "Nairobi", 70),
		fac("f3", "Mbagathi", -1.3060, 36.7970, "Nairobi", 60),
	}
}

func TestOptimize_EmptyInput(t *testing.T) {
	e := newTestEngine(t)

	regions := []model.RegionSummary{
		{Name: "Nairobi", FacilityTypes: map[string]int{"hospital": 3}},
		{Name: "Coast", FacilityTypes: map[string]int{"clinic": 5}},
	}

	result := e.Optimize(nil, regions)

	assert.Empty(t, result.Nodes)
	assert.Empty(t, result.Edges)
	assert.Empty(t, result.HubIDs)
	assert.Empty(t, result.DistanceTable)

	// With no facilities anywhere, every known region is still assessed
	// and emitted as a gap at the capped travel time.
	require.Len(t, result.Gaps, 2)
	for _, gap := range result.Gaps {
		assert.Equal(t, 300.0, gap.AvgTravelTimeMin)
		assert.Equal(t, 1.0, gap.Urgency)
		assert.Equal(t, ActionDeployMobileUnit, gap.RecommendedAction)
	}

	assert.Equal(t, 0, result.Metrics.TotalNodes)
	assert.Equal(t, 0, result.Statistics.SampleSize)
}

func TestOptimize_Idempotent(t *testing.T) {
	e := newTestEngine(t)

	build := func() ([]model.Facility, []model.RegionSummary) {
		facilities := append(nairobiCluster(),
			fac("f4", "Coast General", -4.0435, 39.6682, "Coast", 80),
			fac("f5", "Port Reitz", -4.0600, 39.6400, "Coast", 55),
			fac("f6", "Kitale District", 1.0157, 35.0062, "Rift Valley", 65),
		)
		regions := []model.RegionSummary{
			{Name: "Nairobi", FacilityTypes: map[string]int{"hospital": 3}},
			{Name: "Coast", FacilityTypes: map[string]int{"hospital": 2}},
			{Name: "Rift Valley", FacilityTypes: map[string]int{"clinic": 1}},
			{Name: "North Eastern", FacilityTypes: map[string]int{"dispensary": 2}},
		}
		return facilities, regions
	}

	f1, r1 := build()
	f2, r2 := build()

	first := e.Optimize(f1, r1)
	second := e.Optimize(f2, r2)

	assert.Equal(t, first, second)
}

func TestOptimize_IsolatedSingleNode(t *testing.T) {
	e := newTestEngine(t)

	result := e.Optimize([]model.Facility{
		fac("only", "Lodwar District", 3.1190, 35.5973, "Rift Valley", 50),
	}, nil)

	require.Len(t, result.Nodes, 1)
	n := result.Nodes[0]

	// The exhaustive fallback finds nothing, so the nearest distance is
	// the finite display cap rather than Inf.
	assert.Equal(t, 999.9, n.NearestKM)
	assert.Equal(t, "", n.NearestName)
	assert.Equal(t, 300.0, n.ResponseTimeMin)
	assert.Empty(t, result.Edges)
}

func TestOptimize_DistantPair(t *testing.T) {
	e := newTestEngine(t)

	// Roughly 500 km apart along the equator, nothing else nearby.
	a := fac("west", "Western General", 0, 35.0, "Western", 70)
	b := fac("east", "Eastern General", 0, 39.5, "Eastern", 70)

	result := e.Optimize([]model.Facility{a, b}, []model.RegionSummary{
		{Name: "Western", FacilityTypes: map[string]int{"hospital": 1}},
		{Name: "Eastern", FacilityTypes: map[string]int{"hospital": 1}},
	})

	// Beyond max edge distance: no edges at all.
	assert.Empty(t, result.Edges)

	// Each still resolves the other as nearest neighbor via the
	// exhaustive fallback scan.
	want := geo.HaversineKM(geo.Point{Lat: 0, Lng: 35.0}, geo.Point{Lat: 0, Lng: 39.5})
	require.Len(t, result.Nodes, 2)
	assert.InDelta(t, want, result.Nodes[0].NearestKM, 0.1)
	assert.Equal(t, "Eastern General", result.Nodes[0].NearestName)
	assert.InDelta(t, want, result.Nodes[1].NearestKM, 0.1)
	assert.Equal(t, "Western General", result.Nodes[1].NearestName)

	// Rural travel time for ~500 km blows through the cap and the
	// access standard; both regions are flagged.
	require.Len(t, result.Gaps, 2)
	for _, gap := range result.Gaps {
		assert.Equal(t, 300.0, gap.AvgTravelTimeMin)
		assert.Equal(t, ActionDeployMobileUnit, gap.RecommendedAction)
	}
}

func TestOptimize_CoveragePercentage(t *testing.T) {
	e := newTestEngine(t)

	// Three close facilities (short response times) plus one isolated
	// one (capped response time): 3 of 4 within the standard.
	facilities := append(nairobiCluster(),
		fac("f4", "Mandera District", 3.9366, 41.8670, "North Eastern", 50),
	)

	result := e.Optimize(facilities, nil)

	covered := 0
	for _, n := range result.Nodes {
		if n.ResponseTimeMin <= 90 {
			covered++
		}
	}
	wantPct := float64(covered) / float64(len(result.Nodes)) * 100
	assert.InDelta(t, wantPct, result.Metrics.CoveragePercent, 0.1)
	assert.Equal(t, 75.0, result.Metrics.CoveragePercent)
}

func TestOptimize_DistanceTableMatchesNodes(t *testing.T) {
	e := newTestEngine(t)

	result := e.Optimize(nairobiCluster(), nil)

	require.Len(t, result.DistanceTable, len(result.Nodes))
	for i, row := range result.DistanceTable {
		assert.Equal(t, result.Nodes[i].ID, row.FacilityID)
		assert.Equal(t, result.Nodes[i].NearestKM, row.NearestKM)
		assert.Equal(t, result.Nodes[i].ResponseTimeMin, row.ResponseTimeMin)
		assert.False(t, row.NearestKM < 0)
	}
}
