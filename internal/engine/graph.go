package engine

import (
	"math"
	"sort"

	"github.com/caremesh/caremesh-cli/internal/geo"
	"github.com/caremesh/caremesh-cli/internal/model"
)

// graph holds the built edge set plus per-node connectivity used by the
// downstream stages.
type graph struct {
	edges []model.Edge
	// neighbors tracks unique adjacent node indices; a set, not an edge
	// count, so duplicate candidate pairs cannot inflate a hub score.
	neighbors []map[int]struct{}
	// minEdgeTime is the minimum incident edge travel time per node,
	// +Inf for nodes with no edges.
	minEdgeTime []float64
}

// buildGraph creates edges between facilities within the max-edge-distance
// threshold and records each node's nearest neighbor. Candidates come from
// the spatial grid; a node whose grid neighborhood is empty falls back to
// an exhaustive scan so every node ends up with a finite nearest distance.
func (e *Engine) buildGraph(nodes []model.Node, grid *spatialGrid) *graph {
	g := &graph{
		neighbors:   make([]map[int]struct{}, len(nodes)),
		minEdgeTime: make([]float64, len(nodes)),
	}
	for i := range nodes {
		g.neighbors[i] = make(map[int]struct{})
		g.minEdgeTime[i] = math.Inf(1)
	}

	edgeSet := make(map[string]model.Edge)

	for i := range nodes {
		self := geo.Point{Lat: nodes[i].Latitude, Lng: nodes[i].Longitude}
		nearest := math.Inf(1)
		nearestName := ""
		found := false

		for _, j := range grid.nearby(nodes[i].Latitude, nodes[i].Longitude, e.cfg.SearchRadiusCells) {
			if j == i {
				continue
			}
			found = true
			d := geo.HaversineKM(self, geo.Point{Lat: nodes[j].Latitude, Lng: nodes[j].Longitude})
			if d < nearest {
				nearest = d
				nearestName = nodes[j].Name
			}
			if d <= e.cfg.MaxEdgeDistanceKM {
				e.addEdge(nodes, edgeSet, g, i, j, d)
			}
		}

		if !found {
			// Sparse area: the whole grid neighborhood was empty.
			for j := range nodes {
				if j == i {
					continue
				}
				d := geo.HaversineKM(self, geo.Point{Lat: nodes[j].Latitude, Lng: nodes[j].Longitude})
				if d < nearest {
					nearest = d
					nearestName = nodes[j].Name
				}
			}
		}

		nodes[i].NearestKM = e.capKM(nearest)
		nodes[i].NearestName = nearestName
	}

	// Canonical key order keeps the edge list independent of iteration
	// order.
	keys := make([]string, 0, len(edgeSet))
	for k := range edgeSet {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	g.edges = make([]model.Edge, 0, len(keys))
	for _, k := range keys {
		g.edges = append(g.edges, edgeSet[k])
	}

	return g
}

// addEdge records the undirected edge (i, j) once under its canonical
// unordered-pair key.
func (e *Engine) addEdge(nodes []model.Node, edgeSet map[string]model.Edge, g *graph, i, j int, distKM float64) {
	a, b := i, j
	if nodes[b].ID < nodes[a].ID {
		a, b = b, a
	}
	key := nodes[a].ID + "|" + nodes[b].ID

	travelTime := e.travelTimeMin(distKM)
	if _, ok := edgeSet[key]; !ok {
		// Weight discounts travel time toward the higher-quality
		// endpoint. This biases connectivity rankings; no path-finding
		// is run over these weights.
		qualityDelta := (nodes[b].QualityScore - nodes[a].QualityScore) / 100
		weight := round2(travelTime * (1 - qualityDelta*e.cfg.QualityDiscount))

		edgeSet[key] = model.Edge{
			FromID:        nodes[a].ID,
			ToID:          nodes[b].ID,
			FromName:      nodes[a].Name,
			ToName:        nodes[b].Name,
			DistanceKM:    geo.Round1(distKM),
			TravelTimeMin: travelTime,
			Weight:        weight,
		}
	}

	g.neighbors[i][j] = struct{}{}
	g.neighbors[j][i] = struct{}{}
	if travelTime < g.minEdgeTime[i] {
		g.minEdgeTime[i] = travelTime
	}
	if travelTime < g.minEdgeTime[j] {
		g.minEdgeTime[j] = travelTime
	}
}
