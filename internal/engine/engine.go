// Package engine implements the network optimization engine: a pure,
// synchronous computation that builds a distance-weighted facility graph,
// ranks hub facilities, detects region coverage gaps, and summarizes the
// result statistically.
//
// The engine owns no state across invocations. Two calls with deep-equal
// inputs produce deep-equal outputs; all iteration-order-sensitive steps
// (edge deduplication, fuzzy region matching) are defined over
// deterministic orderings.
package engine

import (
	"math"

	"github.com/caremesh/caremesh-cli/internal/config"
	"github.com/caremesh/caremesh-cli/internal/gazetteer"
	"github.com/caremesh/caremesh-cli/internal/geo"
	"github.com/caremesh/caremesh-cli/internal/model"
)

// Engine runs the optimization pipeline with a fixed configuration and
// region gazetteer. Safe for concurrent use; Optimize touches no shared
// mutable state.
type Engine struct {
	cfg config.EngineConfig
	gaz *gazetteer.Gazetteer
}

// New creates an Engine. A nil gazetteer falls back to the built-in table.
func New(cfg config.EngineConfig, gaz *gazetteer.Gazetteer) *Engine {
	if gaz == nil {
		gaz = gazetteer.Default()
	}
	return &Engine{cfg: cfg, gaz: gaz}
}

// Optimize runs the full pipeline over cleaned facility records and
// externally supplied region summaries. It never fails under normal
// input: zero facilities, zero edges, and zero variance all degrade to
// finite default values.
func (e *Engine) Optimize(facilities []model.Facility, regions []model.RegionSummary) *model.OptimizationResult {
	nodes := e.buildNodes(facilities)

	grid := newSpatialGrid(nodes, e.cfg.CellSizeDegrees)
	g := e.buildGraph(nodes, grid)
	e.assignResponseTimes(nodes, g)

	hubIdx := e.identifyHubs(nodes, g.neighbors)
	gaps := e.detectGaps(nodes, regions)
	metrics := e.calculateMetrics(nodes, len(g.edges), len(gaps))
	stats := e.analyze(nodes)
	insights := e.synthesize(nodes, g.neighbors, hubIdx, gaps, metrics)

	hubIDs := make([]string, 0, len(hubIdx))
	for _, idx := range hubIdx {
		hubIDs = append(hubIDs, nodes[idx].ID)
	}

	return &model.OptimizationResult{
		Nodes:         nodes,
		Edges:         g.edges,
		HubIDs:        hubIDs,
		Gaps:          gaps,
		Metrics:       metrics,
		Statistics:    stats,
		Insights:      insights,
		DistanceTable: distanceTable(nodes),
	}
}

// buildNodes maps facility records onto graph nodes in input order.
func (e *Engine) buildNodes(facilities []model.Facility) []model.Node {
	nodes := make([]model.Node, 0, len(facilities))
	for _, f := range facilities {
		nodes = append(nodes, model.Node{
			ID:           f.ID,
			Name:         f.Name,
			Latitude:     f.Latitude,
			Longitude:    f.Longitude,
			Region:       f.Region,
			Capabilities: f.Capabilities,
			QualityScore: f.QualityScore,
		})
	}
	return nodes
}

// assignResponseTimes sets each node's response time: the minimum travel
// time over its incident edges, or the nearest-neighbor distance converted
// to travel time when the node has no edges.
func (e *Engine) assignResponseTimes(nodes []model.Node, g *graph) {
	for i := range nodes {
		if t := g.minEdgeTime[i]; !math.IsInf(t, 1) {
			nodes[i].ResponseTimeMin = t
			continue
		}
		nodes[i].ResponseTimeMin = e.travelTimeMin(nodes[i].NearestKM)
	}
}

// travelTimeMin converts a distance to minutes using the tiered speed
// model: urban speed below the cutoff, rural speed above, capped at the
// maximum reportable travel time.
func (e *Engine) travelTimeMin(distKM float64) float64 {
	speed := e.cfg.RuralSpeedKmh
	if distKM < e.cfg.UrbanCutoffKM {
		speed = e.cfg.UrbanSpeedKmh
	}
	if speed <= 0 {
		return 0
	}
	t := distKM / speed * 60
	if t > e.cfg.MaxTravelTimeMin {
		return e.cfg.MaxTravelTimeMin
	}
	return geo.Round1(t)
}

// capKM clamps a distance to the display maximum, guaranteeing the output
// never carries NaN or Infinity.
func (e *Engine) capKM(d float64) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) || d > e.cfg.MaxDisplayDistanceKM {
		return e.cfg.MaxDisplayDistanceKM
	}
	return geo.Round1(d)
}

func distanceTable(nodes []model.Node) []model.FacilityDistance {
	table := make([]model.FacilityDistance, 0, len(nodes))
	for _, n := range nodes {
		table = append(table, model.FacilityDistance{
			FacilityID:      n.ID,
			Name:            n.Name,
			Region:          n.Region,
			NearestName:     n.NearestName,
			NearestKM:       n.NearestKM,
			ResponseTimeMin: n.ResponseTimeMin,
		})
	}
	return table
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
