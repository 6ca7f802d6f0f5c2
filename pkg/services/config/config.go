package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "ATLAS"

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type StoreConfig struct {
	Backend    string `mapstructure:"backend"`
	Table      string `mapstructure:"table"`
	DuckDBPath string `mapstructure:"duckdb_path"`
	// Profile is the connection profile file of a warehouse backend.
	Profile string `mapstructure:"profile"`
}

type GeographyConfig struct {
	Source    string `mapstructure:"source"`
	AWSRegion string `mapstructure:"aws_region"`
}

type CacheConfig struct {
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Geography GeographyConfig `mapstructure:"geography"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
}

var defaults = map[string]any{
	"server.host":          "localhost",
	"server.port":          "8050",
	"store.backend":        "duckdb",
	"store.table":          "flows",
	"store.duckdb_path":    "./data/ClimFinBERT_DB.duckdb",
	"store.profile":        "",
	"geography.source":     "https://raw.githubusercontent.com/johan/world.geo.json/master/countries.geo.json",
	"geography.aws_region": "us-east-1",
	"cache.redis_url":      "",
	"cache.ttl":            "15m",
	"log.level":            "info",
}

// Load resolves the application config from defaults, the optional config
// file at path and ATLAS_* environment variables, in increasing priority.
// SERVER_HOST and SERVER_PORT are honoured as well.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.host", EnvPrefix+"_SERVER_HOST", "SERVER_HOST"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "SERVER_PORT"); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Server.Host == "" || cfg.Server.Port == "" {
		return nil, fmt.Errorf("server host and port are required")
	}
	return &cfg, nil
}

// Addr is the host:port the web server listens on.
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Target is what the backend factory opens: the DuckDB file, or the
// warehouse profile file.
func (s StoreConfig) Target() string {
	if s.Backend == "" || s.Backend == "duckdb" {
		return s.DuckDBPath
	}
	return s.Profile
}
