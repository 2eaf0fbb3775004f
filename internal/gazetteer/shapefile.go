package gazetteer

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/caremesh/caremesh-cli/internal/geo"
)

// LoadShapefile reads region centroids from a point shapefile. nameField
// selects the attribute holding the region name (case-insensitive). The
// default country center is the mean of all loaded points.
func LoadShapefile(shpPath, nameField string) (*Gazetteer, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "gazetteer: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	fields := reader.Fields()
	nameIdx := -1
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(name, nameField) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, eris.Errorf("gazetteer: field %q not found in %s", nameField, shpPath)
	}

	entries := make(map[string]geo.Point)
	var sumLat, sumLng float64
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()
		pt, ok := shape.(*shp.Point)
		if !ok {
			skipped++
			continue
		}

		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		if name == "" {
			skipped++
			continue
		}

		entries[name] = geo.Point{Lat: pt.Y, Lng: pt.X}
		sumLat += pt.Y
		sumLng += pt.X
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrapf(err, "gazetteer: read shapefile %s", shpPath)
	}
	if len(entries) == 0 {
		return nil, eris.Errorf("gazetteer: no point records in %s", shpPath)
	}

	n := float64(len(entries))
	center := geo.Point{Lat: sumLat / n, Lng: sumLng / n}

	if skipped > 0 {
		zap.L().Warn("gazetteer: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}

	return New(center, entries), nil
}
