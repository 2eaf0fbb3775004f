// Package model defines the shared data types for the facility network
// optimization pipeline.
package model

// Facility is a cleaned healthcare-facility record as delivered by the
// upstream ingestion collaborator. Coordinates are already validated and
// QualityScore is already clamped to [0,100].
type Facility struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Geocoded     bool     `json:"geocoded"`
	Region       string   `json:"region"`
	Capabilities []string `json:"capabilities,omitempty"`
	QualityScore float64  `json:"quality_score"`
}

// RegionSummary describes a known administrative region and the number of
// facilities of each type it is expected to contain. Supplied externally;
// regions with no matching facility records are still assessed for
// coverage gaps.
type RegionSummary struct {
	Name          string         `json:"name"`
	FacilityTypes map[string]int `json:"facility_types,omitempty"`
}

// TotalFacilities returns the sum of all facility-type counts.
func (r RegionSummary) TotalFacilities() int {
	total := 0
	for _, n := range r.FacilityTypes {
		total += n
	}
	return total
}
