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
	Warehouse WarehouseConfig `yaml:"warehouse" mapstructure:"warehouse"`
	Cluster   ClusterConfig   `yaml:"cluster" mapstructure:"cluster"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// WarehouseConfig configures the analytical warehouse the indicator tables
// are read from.
type WarehouseConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`             // sqlite or postgres
	Path        string `yaml:"path" mapstructure:"path"`                 // sqlite database file
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"` // postgres DSN
	Table       string `yaml:"table" mapstructure:"table"`               // municipality dimension table
}

// ClusterConfig configures the clustering pipeline.
type ClusterConfig struct {
	K             int      `yaml:"k" mapstructure:"k"`
	Seed          int64    `yaml:"seed" mapstructure:"seed"`
	Restarts      int      `yaml:"restarts" mapstructure:"restarts"`
	MaxIterations int      `yaml:"max_iterations" mapstructure:"max_iterations"`
	OutputPath    string   `yaml:"output_path" mapstructure:"output_path"`
	Labels        []string `yaml:"labels" mapstructure:"labels"` // ordered most to least developed
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultLabels is the development-tier label table, ordered from most to
// least developed. Position i labels ordered group i.
var DefaultLabels = []string{
	"Polos de Desenvolvimento",
	"Desenvolvimento Avancado",
	"Em Desenvolvimento",
	"Vulneraveis",
	"Criticos",
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MUNI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("warehouse.driver", "sqlite")
	v.SetDefault("warehouse.path", "data/warehouse/analytics.db")
	v.SetDefault("warehouse.table", "dim_municipality")
	v.SetDefault("cluster.k", 5)
	v.SetDefault("cluster.seed", 42)
	v.SetDefault("cluster.restarts", 10)
	v.SetDefault("cluster.max_iterations", 300)
	v.SetDefault("cluster.output_path", "dbt/seeds/seed_cluster_assignments.csv")
	v.SetDefault("cluster.labels", DefaultLabels)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	var errs []string

	switch c.Warehouse.Driver {
	case "sqlite":
		if c.Warehouse.Path == "" {
			errs = append(errs, "warehouse.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Warehouse.DatabaseURL == "" {
			errs = append(errs, "warehouse.database_url is required for the postgres driver")
		}
	default:
		errs = append(errs, "warehouse.driver must be sqlite or postgres")
	}
	if c.Warehouse.Table == "" {
		errs = append(errs, "warehouse.table must not be empty")
	}

	if c.Cluster.K < 2 {
		errs = append(errs, "cluster.k must be >= 2")
	}
	if c.Cluster.Restarts < 1 {
		errs = append(errs, "cluster.restarts must be >= 1")
	}
	if c.Cluster.MaxIterations < 1 {
		errs = append(errs, "cluster.max_iterations must be >= 1")
	}
	if c.Cluster.OutputPath == "" {
		errs = append(errs, "cluster.output_path must not be empty")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
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
