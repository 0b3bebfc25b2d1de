package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const EnvAPIBaseURL = "CARDSNAP_API_URL"

type Config struct {
	APIBaseURL     string `yaml:"api_base_url"`
	PhotoSourceDir string `yaml:"photo_source_dir"`
	OutputDir      string `yaml:"output_dir"`
	RequestTimeout int    `yaml:"request_timeout_seconds"`
	WatchDebounce  int    `yaml:"watch_debounce_ms"`
}

func Load(path string) (*Config, error) {
	// A .env next to the binary may carry the API URL, same as the backend
	// does for its own keys. Its absence is not an error.
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if url := os.Getenv(EnvAPIBaseURL); url != "" {
		cfg.APIBaseURL = url
	}

	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:8000"
	}
	if cfg.PhotoSourceDir == "" {
		cfg.PhotoSourceDir = "./photos"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60
	}
	if cfg.WatchDebounce <= 0 {
		cfg.WatchDebounce = 500
	}
}
