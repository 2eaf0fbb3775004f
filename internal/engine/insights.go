package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/caremesh/caremesh-cli/internal/geo"
	"github.com/caremesh/caremesh-cli/internal/model"
)

// Facility tiers for new-facility recommendations.
const (
	FacilityTypeHospital     = "hospital"
	FacilityTypeHealthCenter = "health_center"
	FacilityTypeClinic       = "clinic"
)

// synthesize combines the graph, hub ranking, gaps, and metrics into the
// final insight set.
func (e *Engine) synthesize(
	nodes []model.Node,
	neighbors []map[int]struct{},
	hubIdx []int,
	gaps []model.CoverageGap,
	metrics model.OptimizationMetrics,
) model.CriticalInsights {
	insights := model.CriticalInsights{
		HubLocations:          e.hubLocations(nodes, neighbors, hubIdx),
		RecommendedFacilities: e.recommendFacilities(nodes, gaps),
		UnderservedCenters:    e.underservedCenters(gaps),
		Bottlenecks:           e.findBottlenecks(nodes, neighbors),
	}

	if metrics.AvgNearestKM > e.cfg.SparseNetworkAvgKM {
		insights.NetworkNotes = append(insights.NetworkNotes, fmt.Sprintf(
			"average inter-facility distance of %.1f km exceeds %.0f km; the network is sparsely connected",
			metrics.AvgNearestKM, e.cfg.SparseNetworkAvgKM,
		))
	}

	return insights
}

// hubLocations expands ranked hub indices into reportable hub records
// with heuristic coverage-radius and population-served estimates.
func (e *Engine) hubLocations(nodes []model.Node, neighbors []map[int]struct{}, hubIdx []int) []model.HubLocation {
	hubs := make([]model.HubLocation, 0, len(hubIdx))
	for _, idx := range hubIdx {
		n := nodes[idx]
		connections := len(neighbors[idx])

		radius := math.Max(e.cfg.HubMinRadiusKM, math.Min(n.NearestKM*2, e.cfg.MaxEdgeDistanceKM))

		population := e.cfg.HubBasePopulation + connections*e.cfg.HubPopulationPerLink
		// Dataset-specific per-region adjustments are injected through
		// configuration rather than hard-coded here.
		if bonus, ok := e.cfg.HubRegionBonus[n.Region]; ok {
			population += bonus
		}

		hubs = append(hubs, model.HubLocation{
			NodeID:           n.ID,
			Name:             n.Name,
			Region:           n.Region,
			Score:            round2(e.hubScore(n, connections)),
			Connections:      connections,
			CoverageRadiusKM: geo.Round1(radius),
			PopulationServed: population,
		})
	}
	return hubs
}

// recommendFacilities proposes new facilities for gaps at or above the
// urgency gate, typed by population estimate, each paired with the true
// nearest existing facility found by a fresh full scan from the gap
// centroid.
func (e *Engine) recommendFacilities(nodes []model.Node, gaps []model.CoverageGap) []model.RecommendedFacility {
	var recs []model.RecommendedFacility
	for _, gap := range gaps {
		if gap.Urgency < e.cfg.RecommendUrgencyMin {
			continue
		}

		rec := model.RecommendedFacility{
			Region:              gap.Region,
			Latitude:            gap.Latitude,
			Longitude:           gap.Longitude,
			FacilityType:        e.facilityTypeFor(gap.EstimatedPopulation),
			EstimatedPopulation: gap.EstimatedPopulation,
			Urgency:             gap.Urgency,
		}

		centroid := geo.Point{Lat: gap.Latitude, Lng: gap.Longitude}
		best := -1
		bestKM := math.Inf(1)
		for i := range nodes {
			d := geo.HaversineKM(centroid, geo.Point{Lat: nodes[i].Latitude, Lng: nodes[i].Longitude})
			if d < bestKM {
				bestKM = d
				best = i
			}
		}
		if best >= 0 {
			rec.NearestExistingID = nodes[best].ID
			rec.NearestExistingName = nodes[best].Name
			rec.NearestExistingKM = e.capKM(bestKM)
		}

		recs = append(recs, rec)
	}
	return recs
}

func (e *Engine) facilityTypeFor(population int) string {
	switch {
	case population >= e.cfg.HospitalPopulation:
		return FacilityTypeHospital
	case population >= e.cfg.HealthCenterPopulation:
		return FacilityTypeHealthCenter
	default:
		return FacilityTypeClinic
	}
}

// underservedCenters reports one population center per coverage gap with
// its access-standard pass/fail flag.
func (e *Engine) underservedCenters(gaps []model.CoverageGap) []model.PopulationCenter {
	centers := make([]model.PopulationCenter, 0, len(gaps))
	for _, gap := range gaps {
		centers = append(centers, model.PopulationCenter{
			Region:              gap.Region,
			Latitude:            gap.Latitude,
			Longitude:           gap.Longitude,
			EstimatedPopulation: gap.EstimatedPopulation,
			AvgTravelTimeMin:    gap.AvgTravelTimeMin,
			MeetsAccessStandard: gap.AvgTravelTimeMin <= e.cfg.AccessStandardMin,
		})
	}
	return centers
}

// findBottlenecks returns isolated, poorly connected nodes: at most one
// unique connection and a nearest neighbor beyond the isolation distance.
// Worst offenders first, capped.
func (e *Engine) findBottlenecks(nodes []model.Node, neighbors []map[int]struct{}) []model.Bottleneck {
	var out []model.Bottleneck
	for i := range nodes {
		connections := len(neighbors[i])
		if connections > 1 || nodes[i].NearestKM <= e.cfg.BottleneckIsolationKM {
			continue
		}
		out = append(out, model.Bottleneck{
			NodeID:      nodes[i].ID,
			Name:        nodes[i].Name,
			Region:      nodes[i].Region,
			Connections: connections,
			NearestKM:   nodes[i].NearestKM,
		})
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].NearestKM != out[b].NearestKM {
			return out[a].NearestKM > out[b].NearestKM
		}
		return out[a].NodeID < out[b].NodeID
	})

	if len(out) > e.cfg.BottleneckMaxResults {
		out = out[:e.cfg.BottleneckMaxResults]
	}
	return out
}
