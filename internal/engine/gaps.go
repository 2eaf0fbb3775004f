package engine

import (
	"math"
	"sort"
	"strings"

	"github.com/caremesh/caremesh-cli/internal/geo"
	"github.com/caremesh/caremesh-cli/internal/model"
)

// Tiered recommended actions for underserved regions.
const (
	ActionDeployMobileUnit = "deploy_mobile_unit"
	ActionBuildFacility    = "build_permanent_facility"
	ActionUpgradeCapacity  = "upgrade_existing_capability"
)

// detectGaps compares each known region's average access time against the
// access standard and returns the regions that exceed it, most urgent
// first.
func (e *Engine) detectGaps(nodes []model.Node, regions []model.RegionSummary) []model.CoverageGap {
	var gaps []model.CoverageGap

	for _, region := range regions {
		matched := matchRegion(nodes, region.Name)

		var avgKM float64
		var centroid geo.Point
		haveAvg := false

		if len(matched) > 0 {
			var sumKM, sumLat, sumLng float64
			usable := 0
			for _, idx := range matched {
				sumLat += nodes[idx].Latitude
				sumLng += nodes[idx].Longitude
				d := nodes[idx].NearestKM
				if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
					continue
				}
				sumKM += d
				usable++
			}
			centroid = geo.Point{
				Lat: sumLat / float64(len(matched)),
				Lng: sumLng / float64(len(matched)),
			}
			if usable > 0 {
				avgKM = sumKM / float64(usable)
				haveAvg = true
			}
		}

		if !haveAvg {
			// No facilities (or no usable distances) in the region:
			// measure from the gazetteer centroid to the globally
			// nearest facility.
			if len(matched) == 0 {
				centroid, _ = e.gaz.Lookup(region.Name)
			}
			avgKM = e.nearestToPoint(nodes, centroid)
		}

		travelTime := e.travelTimeMin(avgKM)
		if travelTime <= e.cfg.AccessStandardMin {
			continue
		}

		gaps = append(gaps, model.CoverageGap{
			Region:              region.Name,
			Latitude:            centroid.Lat,
			Longitude:           centroid.Lng,
			AvgDistanceKM:       e.capKM(avgKM),
			AvgTravelTimeMin:    travelTime,
			EstimatedPopulation: e.estimatePopulation(region),
			Urgency:             round2(math.Min(travelTime/e.cfg.AccessStandardMin, 1)),
			RecommendedAction:   e.recommendAction(travelTime),
		})
	}

	sort.SliceStable(gaps, func(a, b int) bool {
		return gaps[a].Urgency > gaps[b].Urgency
	})
	return gaps
}

// matchRegion gathers node indices for a region: exact label match first,
// then a bidirectional case-insensitive substring fallback. The fallback
// can over-match related labels; that ambiguity is deliberate observed
// behavior of the matching rules.
func matchRegion(nodes []model.Node, region string) []int {
	var exact []int
	for i := range nodes {
		if nodes[i].Region == region {
			exact = append(exact, i)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	key := strings.ToLower(strings.TrimSpace(region))
	if key == "" {
		return nil
	}
	var fuzzy []int
	for i := range nodes {
		label := strings.ToLower(nodes[i].Region)
		if label == "" {
			continue
		}
		if strings.Contains(label, key) || strings.Contains(key, label) {
			fuzzy = append(fuzzy, i)
		}
	}
	return fuzzy
}

// nearestToPoint returns the distance from a point to the closest node,
// or the display maximum when there are no nodes at all.
func (e *Engine) nearestToPoint(nodes []model.Node, pt geo.Point) float64 {
	nearest := math.Inf(1)
	for i := range nodes {
		d := geo.HaversineKM(pt, geo.Point{Lat: nodes[i].Latitude, Lng: nodes[i].Longitude})
		if d < nearest {
			nearest = d
		}
	}
	if math.IsInf(nearest, 1) {
		return e.cfg.MaxDisplayDistanceKM
	}
	return nearest
}

// estimatePopulation scales the region's expected facility count into a
// population estimate, with a base floor for regions reporting none.
func (e *Engine) estimatePopulation(region model.RegionSummary) int {
	total := region.TotalFacilities()
	if total <= 0 {
		return e.cfg.RegionBasePopulation
	}
	return total * e.cfg.PopulationPerFacility
}

func (e *Engine) recommendAction(travelTimeMin float64) string {
	switch {
	case travelTimeMin > e.cfg.MobileUnitThresholdMin:
		return ActionDeployMobileUnit
	case travelTimeMin > e.cfg.PermanentThresholdMin:
		return ActionBuildFacility
	default:
		return ActionUpgradeCapacity
	}
}
