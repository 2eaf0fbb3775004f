package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Engine    EngineConfig    `yaml:"engine" mapstructure:"engine"`
	Gazetteer GazetteerConfig `yaml:"gazetteer" mapstructure:"gazetteer"`
}

// StoreConfig configures the run-persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// ServerConfig configures the HTTP optimization server.
type ServerConfig struct {
	Port          int     `yaml:"port" mapstructure:"port"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// GazetteerConfig configures the region-centroid source. When Path is
// empty the built-in table is used. A .shp path is read as a point
// shapefile; anything else is read as YAML.
type GazetteerConfig struct {
	Path      string `yaml:"path" mapstructure:"path"`
	NameField string `yaml:"name_field" mapstructure:"name_field"`
}

// EngineConfig holds every tunable constant of the network optimization
// engine. The weighting constants are empirical and changing them changes
// computed outputs; the defaults below are the calibrated values.
type EngineConfig struct {
	// Spatial index.
	CellSizeDegrees   float64 `yaml:"cell_size_degrees" mapstructure:"cell_size_degrees"`
	SearchRadiusCells int     `yaml:"search_radius_cells" mapstructure:"search_radius_cells"`

	// Graph construction.
	MaxEdgeDistanceKM    float64 `yaml:"max_edge_distance_km" mapstructure:"max_edge_distance_km"`
	UrbanSpeedKmh        float64 `yaml:"urban_speed_kmh" mapstructure:"urban_speed_kmh"`
	RuralSpeedKmh        float64 `yaml:"rural_speed_kmh" mapstructure:"rural_speed_kmh"`
	UrbanCutoffKM        float64 `yaml:"urban_cutoff_km" mapstructure:"urban_cutoff_km"`
	MaxTravelTimeMin     float64 `yaml:"max_travel_time_min" mapstructure:"max_travel_time_min"`
	MaxDisplayDistanceKM float64 `yaml:"max_display_distance_km" mapstructure:"max_display_distance_km"`
	// QualityDiscount discounts edge weight toward higher-quality
	// endpoints: weight = time * (1 - qualityDelta * QualityDiscount).
	QualityDiscount float64 `yaml:"quality_discount" mapstructure:"quality_discount"`

	// Access standard.
	AccessStandardMin float64 `yaml:"access_standard_min" mapstructure:"access_standard_min"`

	// Hub scoring weights (sum = 1).
	HubConnectionWeight    float64 `yaml:"hub_connection_weight" mapstructure:"hub_connection_weight"`
	HubQualityWeight       float64 `yaml:"hub_quality_weight" mapstructure:"hub_quality_weight"`
	HubAccessibilityWeight float64 `yaml:"hub_accessibility_weight" mapstructure:"hub_accessibility_weight"`
	HubCount               int     `yaml:"hub_count" mapstructure:"hub_count"`
	HubDiverseTop          int     `yaml:"hub_diverse_top" mapstructure:"hub_diverse_top"`

	// Coverage gap tiers.
	MobileUnitThresholdMin float64 `yaml:"mobile_unit_threshold_min" mapstructure:"mobile_unit_threshold_min"`
	PermanentThresholdMin  float64 `yaml:"permanent_threshold_min" mapstructure:"permanent_threshold_min"`

	// Population heuristics. PopulationPerFacility scales a region's
	// expected facility count into a population estimate and
	// RegionBasePopulation is the floor for regions reporting no
	// facilities at all.
	PopulationPerFacility int `yaml:"population_per_facility" mapstructure:"population_per_facility"`
	RegionBasePopulation  int `yaml:"region_base_population" mapstructure:"region_base_population"`

	// New-facility type thresholds by population estimate.
	HospitalPopulation     int `yaml:"hospital_population" mapstructure:"hospital_population"`
	HealthCenterPopulation int `yaml:"health_center_population" mapstructure:"health_center_population"`

	// Hub coverage heuristics. HubRegionBonus carries dataset-specific
	// per-region population adjustments; injected here rather than
	// hard-coded so other datasets can supply their own.
	HubBasePopulation    int            `yaml:"hub_base_population" mapstructure:"hub_base_population"`
	HubPopulationPerLink int            `yaml:"hub_population_per_link" mapstructure:"hub_population_per_link"`
	HubMinRadiusKM       float64        `yaml:"hub_min_radius_km" mapstructure:"hub_min_radius_km"`
	HubRegionBonus       map[string]int `yaml:"hub_region_bonus" mapstructure:"hub_region_bonus"`

	// Bottleneck detection.
	BottleneckIsolationKM float64 `yaml:"bottleneck_isolation_km" mapstructure:"bottleneck_isolation_km"`
	BottleneckMaxResults  int     `yaml:"bottleneck_max_results" mapstructure:"bottleneck_max_results"`
	SparseNetworkAvgKM    float64 `yaml:"sparse_network_avg_km" mapstructure:"sparse_network_avg_km"`

	// Pareto score weights.
	ParetoCoverageWeight float64 `yaml:"pareto_coverage_weight" mapstructure:"pareto_coverage_weight"`
	ParetoResponseWeight float64 `yaml:"pareto_response_weight" mapstructure:"pareto_response_weight"`
	ParetoEquityWeight   float64 `yaml:"pareto_equity_weight" mapstructure:"pareto_equity_weight"`
	ParetoGapPenalty     float64 `yaml:"pareto_gap_penalty" mapstructure:"pareto_gap_penalty"`

	// Recommendation gate.
	RecommendUrgencyMin float64 `yaml:"recommend_urgency_min" mapstructure:"recommend_urgency_min"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CAREMESH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "caremesh.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 5)
	v.SetDefault("server.rate_burst", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("engine.cell_size_degrees", 0.5)
	v.SetDefault("engine.search_radius_cells", 4)
	v.SetDefault("engine.max_edge_distance_km", 100.0)
	v.SetDefault("engine.urban_speed_kmh", 30.0)
	v.SetDefault("engine.rural_speed_kmh", 60.0)
	v.SetDefault("engine.urban_cutoff_km", 20.0)
	v.SetDefault("engine.max_travel_time_min", 300.0)
	v.SetDefault("engine.max_display_distance_km", 999.9)
	v.SetDefault("engine.quality_discount", 0.2)
	v.SetDefault("engine.access_standard_min", 90.0)
	v.SetDefault("engine.hub_connection_weight", 0.4)
	v.SetDefault("engine.hub_quality_weight", 0.4)
	v.SetDefault("engine.hub_accessibility_weight", 0.2)
	v.SetDefault("engine.hub_count", 5)
	v.SetDefault("engine.hub_diverse_top", 3)
	v.SetDefault("engine.mobile_unit_threshold_min", 180.0)
	v.SetDefault("engine.permanent_threshold_min", 120.0)
	v.SetDefault("engine.population_per_facility", 30_000)
	v.SetDefault("engine.region_base_population", 50_000)
	v.SetDefault("engine.hospital_population", 200_000)
	v.SetDefault("engine.health_center_population", 75_000)
	v.SetDefault("engine.hub_base_population", 50_000)
	v.SetDefault("engine.hub_population_per_link", 25_000)
	v.SetDefault("engine.hub_min_radius_km", 25.0)
	v.SetDefault("engine.hub_region_bonus", map[string]int{
		"Nairobi": 250_000,
		"Mombasa": 120_000,
	})
	v.SetDefault("engine.bottleneck_isolation_km", 50.0)
	v.SetDefault("engine.bottleneck_max_results", 5)
	v.SetDefault("engine.sparse_network_avg_km", 80.0)
	v.SetDefault("engine.pareto_coverage_weight", 0.4)
	v.SetDefault("engine.pareto_response_weight", 0.4)
	v.SetDefault("engine.pareto_equity_weight", 0.2)
	v.SetDefault("engine.pareto_gap_penalty", 10.0)
	v.SetDefault("engine.recommend_urgency_min", 0.5)
}

// DefaultEngine returns the engine configuration with calibrated defaults,
// without touching files or the environment.
func DefaultEngine() EngineConfig {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults are static; a failure here is a programming error.
		panic(err)
	}
	return cfg.Engine
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
