// Package ingest reads already-cleaned facility and region CSV files into
// model structs. It is a thin shim over the upstream cleaning collaborator:
// no validation happens here beyond basic parsing, and records the
// upstream marked as not geocoded are dropped.
package ingest

import (
	"os"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/caremesh/caremesh-cli/internal/model"
)

// facilityRow is the facility CSV schema. Capabilities are
// semicolon-separated; geocoded defaults to true when the column is
// absent.
type facilityRow struct {
	ID           string   `csv:"id"`
	Name         string   `csv:"name"`
	Latitude     float64  `csv:"latitude"`
	Longitude    float64  `csv:"longitude"`
	Geocoded     *bool    `csv:"geocoded,omitempty"`
	Region       string   `csv:"region"`
	QualityScore *float64 `csv:"quality_score,omitempty"`
	Capabilities string   `csv:"capabilities,omitempty"`
}

// regionRow is one row of the region summary CSV: one (region,
// facility_type) count per line.
type regionRow struct {
	Region       string `csv:"region"`
	FacilityType string `csv:"facility_type"`
	Count        int    `csv:"count"`
}

// defaultQualityScore is applied when the quality column is missing,
// matching the upstream cleaning contract.
const defaultQualityScore = 50.0

// ReadFacilities loads facility records from a CSV file.
func ReadFacilities(path string) ([]model.Facility, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read %s", path)
	}

	var rows []facilityRow
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, eris.Wrapf(err, "ingest: parse %s", path)
	}

	facilities := make([]model.Facility, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		if row.Geocoded != nil && !*row.Geocoded {
			dropped++
			continue
		}
		quality := defaultQualityScore
		if row.QualityScore != nil {
			quality = *row.QualityScore
		}
		facilities = append(facilities, model.Facility{
			ID:           row.ID,
			Name:         row.Name,
			Latitude:     row.Latitude,
			Longitude:    row.Longitude,
			Geocoded:     true,
			Region:       row.Region,
			QualityScore: quality,
			Capabilities: splitCapabilities(row.Capabilities),
		})
	}

	if dropped > 0 {
		zap.L().Warn("ingest: dropped facilities without coordinates",
			zap.String("path", path),
			zap.Int("dropped", dropped),
		)
	}

	return facilities, nil
}

// ReadRegions loads region summaries from a CSV file, aggregating
// facility-type counts per region in first-seen order.
func ReadRegions(path string) ([]model.RegionSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read %s", path)
	}

	var rows []regionRow
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, eris.Wrapf(err, "ingest: parse %s", path)
	}

	index := make(map[string]int)
	var regions []model.RegionSummary
	for _, row := range rows {
		i, ok := index[row.Region]
		if !ok {
			i = len(regions)
			index[row.Region] = i
			regions = append(regions, model.RegionSummary{
				Name:          row.Region,
				FacilityTypes: make(map[string]int),
			})
		}
		if row.FacilityType != "" {
			regions[i].FacilityTypes[row.FacilityType] += row.Count
		}
	}

	return regions, nil
}

func splitCapabilities(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
