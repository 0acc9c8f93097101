package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the API server settings. The pipeline itself takes no
// configuration: its URL and paths are fixed constants in the run spec.
type Config struct {
	Server ServerConfig
}

type ServerConfig struct {
	Addr    string `envconfig:"TRACKER_ADDR" default:":8080"`
	DBPath  string `envconfig:"TRACKER_DB_PATH" default:"tracker.db"`
	DataDir string `envconfig:"TRACKER_DATA_DIR" default:"."`
}

// Load reads .env if present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
