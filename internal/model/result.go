package model

// OptimizationMetrics aggregates response-time and connectivity statistics
// for a single optimization run.
type OptimizationMetrics struct {
	TotalNodes            int     `json:"total_nodes"`
	TotalEdges            int     `json:"total_edges"`
	AvgResponseTimeMin    float64 `json:"avg_response_time_min"`
	MedianResponseTimeMin float64 `json:"median_response_time_min"`
	P95ResponseTimeMin    float64 `json:"p95_response_time_min"`
	CoveragePercent       float64 `json:"coverage_percent"`
	NetworkEfficiency     float64 `json:"network_efficiency"`
	AvgNearestKM          float64 `json:"avg_nearest_km"`
	MinNearestKM          float64 `json:"min_nearest_km"`
	MaxNearestKM          float64 `json:"max_nearest_km"`
	GapCount              int     `json:"gap_count"`
	// ParetoScore blends coverage, response time and a gap-driven equity
	// penalty. The equity term is deliberately unclamped and can drive the
	// score negative when many regions are underserved.
	ParetoScore int `json:"pareto_score"`
}

// StatisticalAnalysis is a one-sample test of the response-time sample
// against the access standard.
type StatisticalAnalysis struct {
	SampleSize    int     `json:"sample_size"`
	MeanMin       float64 `json:"mean_min"`
	StdDevMin     float64 `json:"std_dev_min"`
	StandardError float64 `json:"standard_error"`
	CI95Low       float64 `json:"ci95_low"`
	CI95High      float64 `json:"ci95_high"`
	EffectSize    float64 `json:"effect_size"`
	TStatistic    float64 `json:"t_statistic"`
	PValue        float64 `json:"p_value"`
	Significance  string  `json:"significance"`
}

// HubLocation is a ranked network anchor facility.
type HubLocation struct {
	NodeID           string  `json:"node_id"`
	Name             string  `json:"name"`
	Region           string  `json:"region"`
	Score            float64 `json:"score"`
	Connections      int     `json:"connections"`
	CoverageRadiusKM float64 `json:"coverage_radius_km"`
	PopulationServed int     `json:"population_served"`
}

// RecommendedFacility is a proposed new facility for an underserved region.
type RecommendedFacility struct {
	Region              string  `json:"region"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	FacilityType        string  `json:"facility_type"`
	EstimatedPopulation int     `json:"estimated_population"`
	Urgency             float64 `json:"urgency"`
	NearestExistingID   string  `json:"nearest_existing_id,omitempty"`
	NearestExistingName string  `json:"nearest_existing_name,omitempty"`
	NearestExistingKM   float64 `json:"nearest_existing_km"`
}

// PopulationCenter is an underserved population center derived from a
// coverage gap.
type PopulationCenter struct {
	Region              string  `json:"region"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	EstimatedPopulation int     `json:"estimated_population"`
	AvgTravelTimeMin    float64 `json:"avg_travel_time_min"`
	MeetsAccessStandard bool    `json:"meets_access_standard"`
}

// Bottleneck is a poorly connected facility that isolates part of the
// network.
type Bottleneck struct {
	NodeID      string  `json:"node_id"`
	Name        string  `json:"name"`
	Region      string  `json:"region"`
	Connections int     `json:"connections"`
	NearestKM   float64 `json:"nearest_km"`
}

// CriticalInsights is the synthesized view of a run: where the hubs are,
// where to build next, and where the network is weakest.
type CriticalInsights struct {
	HubLocations          []HubLocation         `json:"hub_locations"`
	RecommendedFacilities []RecommendedFacility `json:"recommended_facilities"`
	UnderservedCenters    []PopulationCenter    `json:"underserved_centers"`
	Bottlenecks           []Bottleneck          `json:"bottlenecks"`
	NetworkNotes          []string              `json:"network_notes,omitempty"`
}

// OptimizationResult bundles everything a single engine invocation
// produces. Callers may cache the result; the engine retains nothing.
type OptimizationResult struct {
	Nodes         []Node              `json:"nodes"`
	Edges         []Edge              `json:"edges"`
	HubIDs        []string            `json:"hub_ids"`
	Gaps          []CoverageGap       `json:"gaps"`
	Metrics       OptimizationMetrics `json:"metrics"`
	Statistics    StatisticalAnalysis `json:"statistics"`
	Insights      CriticalInsights    `json:"insights"`
	DistanceTable []FacilityDistance  `json:"distance_table"`
}
