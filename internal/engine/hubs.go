package engine

import (
	"math"
	"sort"

	"github.com/caremesh/caremesh-cli/internal/model"
)

// identifyHubs ranks nodes by connectivity × quality and returns the
// indices of the selected hub facilities, best first.
//
// Selection applies a diversity rule: among the first hubDiverseTop picks,
// no two may share a region label. Candidates skipped by the rule remain
// eligible for the unconstrained remaining positions. Ties keep original
// node order.
func (e *Engine) identifyHubs(nodes []model.Node, neighbors []map[int]struct{}) []int {
	if len(nodes) == 0 {
		return nil
	}

	ranked := make([]int, len(nodes))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return e.hubScore(nodes[ranked[a]], len(neighbors[ranked[a]])) >
			e.hubScore(nodes[ranked[b]], len(neighbors[ranked[b]]))
	})

	selected := make([]int, 0, e.cfg.HubCount)
	taken := make(map[int]bool)
	regions := make(map[string]bool)

	// Diversity-constrained head of the list.
	for _, idx := range ranked {
		if len(selected) >= e.cfg.HubDiverseTop || len(selected) >= e.cfg.HubCount {
			break
		}
		if regions[nodes[idx].Region] {
			continue
		}
		selected = append(selected, idx)
		taken[idx] = true
		regions[nodes[idx].Region] = true
	}

	// Remaining positions have no region constraint.
	for _, idx := range ranked {
		if len(selected) >= e.cfg.HubCount {
			break
		}
		if taken[idx] {
			continue
		}
		selected = append(selected, idx)
		taken[idx] = true
	}

	return selected
}

// hubScore blends unique connectivity, quality, and accessibility.
// accessibility rescales the nearest-neighbor distance into (0,1]: a
// facility 100+ km from its nearest peer bottoms out at 0.01.
func (e *Engine) hubScore(n model.Node, connections int) float64 {
	accessibility := math.Max(1, 100-n.NearestKM) / 100
	return e.cfg.HubConnectionWeight*float64(connections) +
		e.cfg.HubQualityWeight*n.QualityScore +
		e.cfg.HubAccessibilityWeight*accessibility
}
