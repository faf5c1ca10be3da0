// Package config loads runtime configuration from a YAML file,
// environment variables and defaults, in that order of priority.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	DataDir         string `mapstructure:"data_dir" validate:"required"`
	ResultsDir      string `mapstructure:"results_dir" validate:"required"`
	MaxExactClients int    `mapstructure:"max_exact_clients" validate:"gte=0"`

	Server    ServerConfig    `mapstructure:"server"`
	Annealing AnnealingConfig `mapstructure:"annealing"`
	Weights   WeightsConfig   `mapstructure:"weights"`
}

// ServerConfig configures the HTTP solve service.
type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

// AnnealingConfig configures simulated annealing runs.
type AnnealingConfig struct {
	Seed       int64   `mapstructure:"seed"`
	Iterations int     `mapstructure:"iterations" validate:"gt=0"`
	T0         float64 `mapstructure:"t0" validate:"gt=0"`
	Alpha      float64 `mapstructure:"alpha" validate:"gt=0,lte=1"`
}

// WeightsConfig configures the scalarization used by the greedy
// heuristic and the annealer.
type WeightsConfig struct {
	Distance  float64 `mapstructure:"distance" validate:"gte=0"`
	Risk      float64 `mapstructure:"risk" validate:"gte=0"`
	Recharges float64 `mapstructure:"recharges" validate:"gte=0"`
}

var validate = validator.New()

// Load reads configuration with priority: environment variables
// (DRONE_ prefix), then the config file, then defaults. A missing config
// file is fine; a malformed one is not.
func Load(configPath string) (*Config, error) {
	// Pick up a .env file when present.
	_ = godotenv.Load()

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix("DRONE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("results_dir", "experiments/results")
	v.SetDefault("max_exact_clients", 12)

	v.SetDefault("server.address", ":3000")

	v.SetDefault("annealing.seed", 0)
	v.SetDefault("annealing.iterations", 5000)
	v.SetDefault("annealing.t0", 10.0)
	v.SetDefault("annealing.alpha", 0.995)

	v.SetDefault("weights.distance", 1.0)
	v.SetDefault("weights.risk", 100.0)
	v.SetDefault("weights.recharges", 1000.0)
}
