package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/caremesh/caremesh-cli/internal/model"
)

// WriteGeoJSON writes the network as a GeoJSON FeatureCollection: one
// Point per facility, one LineString per connection, and one Point per
// coverage-gap centroid. Coordinates are GeoJSON order, [lng, lat].
func WriteGeoJSON(result *model.OptimizationResult, w io.Writer) error {
	fc := &geojson.FeatureCollection{}

	for _, n := range result.Nodes {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       n.ID,
			Geometry: geom.NewPointFlat(geom.XY, []float64{n.Longitude, n.Latitude}),
			Properties: map[string]interface{}{
				"kind":              "facility",
				"name":              n.Name,
				"region":            n.Region,
				"quality_score":     n.QualityScore,
				"response_time_min": n.ResponseTimeMin,
				"nearest_km":        n.NearestKM,
			},
		})
	}

	nodesByID := make(map[string]model.Node, len(result.Nodes))
	for _, n := range result.Nodes {
		nodesByID[n.ID] = n
	}

	for _, e := range result.Edges {
		from, okFrom := nodesByID[e.FromID]
		to, okTo := nodesByID[e.ToID]
		if !okFrom || !okTo {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewLineStringFlat(geom.XY, []float64{
				from.Longitude, from.Latitude,
				to.Longitude, to.Latitude,
			}),
			Properties: map[string]interface{}{
				"kind":            "connection",
				"from_id":         e.FromID,
				"to_id":           e.ToID,
				"distance_km":     e.DistanceKM,
				"travel_time_min": e.TravelTimeMin,
				"weight":          e.Weight,
			},
		})
	}

	for _, g := range result.Gaps {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{g.Longitude, g.Latitude}),
			Properties: map[string]interface{}{
				"kind":                "coverage_gap",
				"region":              g.Region,
				"avg_travel_time_min": g.AvgTravelTimeMin,
				"urgency":             g.Urgency,
				"recommended_action":  g.RecommendedAction,
			},
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(fc), "export: encode geojson")
}

// WriteGeoJSONFile writes the FeatureCollection to a file at path.
func WriteGeoJSONFile(result *model.OptimizationResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create geojson file")
	}
	defer f.Close()

	if err := WriteGeoJSON(result, f); err != nil {
		return err
	}
	return eris.Wrap(f.Close(), "export: close geojson file")
}
