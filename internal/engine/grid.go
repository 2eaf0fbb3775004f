package engine

import (
	"math"

	"github.com/caremesh/caremesh-cli/internal/model"
)

// cellKey addresses one spatial grid cell.
type cellKey struct {
	latIdx int
	lngIdx int
}

// spatialGrid is a uniform grid index over node coordinates. Cells are
// keyed by (floor(lat/cell), floor(lng/cell)); with the default 0.5° cell
// size a cell spans roughly 50 km of latitude. Construction is O(N) and a
// query touches only the local cell block, not the whole node set.
// Read-only after construction.
type spatialGrid struct {
	cellSize float64
	cells    map[cellKey][]int
}

func newSpatialGrid(nodes []model.Node, cellSize float64) *spatialGrid {
	g := &spatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}
	for i, n := range nodes {
		key := g.keyFor(n.Latitude, n.Longitude)
		g.cells[key] = append(g.cells[key], i)
	}
	return g
}

func (g *spatialGrid) keyFor(lat, lng float64) cellKey {
	return cellKey{
		latIdx: int(math.Floor(lat / g.cellSize)),
		lngIdx: int(math.Floor(lng / g.cellSize)),
	}
}

// nearby returns node indices in the (2·radius+1)² cell block around the
// query point. This is an approximation of a radius query: a caller
// needing an exact cutoff must filter by true distance. Results follow
// cell-block order then insertion order, so output is deterministic for
// identical input.
func (g *spatialGrid) nearby(lat, lng float64, radius int) []int {
	center := g.keyFor(lat, lng)
	var out []int
	for dLat := -radius; dLat <= radius; dLat++ {
		for dLng := -radius; dLng <= radius; dLng++ {
			key := cellKey{latIdx: center.latIdx + dLat, lngIdx: center.lngIdx + dLng}
			out = append(out, g.cells[key]...)
		}
	}
	return out
}
