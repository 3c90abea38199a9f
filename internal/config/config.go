package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the runtime settings of the service and its tools.
type Config struct {
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	RedisURL    string `mapstructure:"REDIS_URL"`
	SeedPath    string `mapstructure:"SEED_PATH"`

	OSRMBaseURL        string `mapstructure:"OSRM_BASE_URL"`
	OSRMProfile        string `mapstructure:"OSRM_PROFILE"`
	RoutingMaxAttempts int    `mapstructure:"ROUTING_MAX_ATTEMPTS"`

	NominatimBaseURL   string `mapstructure:"NOMINATIM_BASE_URL"`
	NominatimUserAgent string `mapstructure:"NOMINATIM_USER_AGENT"`

	HTTPClientTimeout  time.Duration `mapstructure:"HTTP_CLIENT_TIMEOUT"`
	RouteCacheTTL      time.Duration `mapstructure:"ROUTE_CACHE_TTL"`
	SessionIdleTimeout time.Duration `mapstructure:"SESSION_IDLE_TIMEOUT"`
}

var defaults = map[string]any{
	"PORT":                 "8080",
	"DATABASE_URL":         "",
	"REDIS_URL":            "",
	"SEED_PATH":            "data/seeds/reference.json",
	"OSRM_BASE_URL":        "https://router.project-osrm.org",
	"OSRM_PROFILE":         "driving",
	"ROUTING_MAX_ATTEMPTS": 1,
	"NOMINATIM_BASE_URL":   "https://nominatim.openstreetmap.org",
	"NOMINATIM_USER_AGENT": "mission-route-service/1.0",
	"HTTP_CLIENT_TIMEOUT":  "10s",
	"ROUTE_CACHE_TTL":      "168h",
	"SESSION_IDLE_TIMEOUT": "2h",
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.RoutingMaxAttempts < 1 {
		return errors.New("ROUTING_MAX_ATTEMPTS must be at least 1")
	}
	if strings.TrimSpace(c.NominatimUserAgent) == "" {
		return errors.New("NOMINATIM_USER_AGENT must not be empty")
	}
	return nil
}
