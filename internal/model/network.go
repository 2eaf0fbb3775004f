package model

// Node is a facility placed in the network graph. Built once per
// optimization run and immutable afterwards.
type Node struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Region          string   `json:"region"`
	Capabilities    []string `json:"capabilities,omitempty"`
	QualityScore    float64  `json:"quality_score"`
	ResponseTimeMin float64  `json:"response_time_min"`
	NearestKM       float64  `json:"nearest_km"`
	NearestName     string   `json:"nearest_name,omitempty"`
}

// Edge connects two facilities within the max-edge-distance threshold.
// Undirected; stored once per unordered pair under a canonical key.
type Edge struct {
	FromID        string  `json:"from_id"`
	ToID          string  `json:"to_id"`
	FromName      string  `json:"from_name"`
	ToName        string  `json:"to_name"`
	DistanceKM    float64 `json:"distance_km"`
	TravelTimeMin float64 `json:"travel_time_min"`
	Weight        float64 `json:"weight"`
}

// CoverageGap is a region whose average access time exceeds the access
// standard. Latitude/Longitude is the region centroid used for the
// assessment (facility average or gazetteer fallback).
type CoverageGap struct {
	Region              string  `json:"region"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	AvgDistanceKM       float64 `json:"avg_distance_km"`
	AvgTravelTimeMin    float64 `json:"avg_travel_time_min"`
	EstimatedPopulation int     `json:"estimated_population"`
	Urgency             float64 `json:"urgency"`
	RecommendedAction   string  `json:"recommended_action"`
}

// FacilityDistance is one row of the flat distance table consumed by the
// reporting and export collaborators.
type FacilityDistance struct {
	FacilityID      string  `json:"facility_id"`
	Name            string  `json:"name"`
	Region          string  `json:"region"`
	NearestName     string  `json:"nearest_name,omitempty"`
	NearestKM       float64 `json:"nearest_km"`
	ResponseTimeMin float64 `json:"response_time_min"`
}
