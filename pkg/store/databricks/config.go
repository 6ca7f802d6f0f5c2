package databricks

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/databricks/databricks-sql-go"
	"github.com/spf13/viper"
)

type Config struct {
	Host     string `mapstructure:"host" validate:"required"`
	Token    string `mapstructure:"token" validate:"required"`
	HTTPPath string `mapstructure:"http_path" validate:"required"`
	Catalog  string `mapstructure:"catalog"`
	Schema   string `mapstructure:"schema"`
}

func LoadConfig(profilePath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(profilePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse databricks config: %w", err)
	}
	if cfg.Host == "" || cfg.Token == "" || cfg.HTTPPath == "" {
		return nil, fmt.Errorf("databricks profile %s needs host, token and http_path", profilePath)
	}
	return &cfg, nil
}

// DSN renders the databricks-sql-go connection string.
func (c *Config) DSN() string {
	dsn := fmt.Sprintf("token:%s@%s%s", c.Token, c.Host, c.HTTPPath)

	params := url.Values{}
	if c.Catalog != "" {
		params.Set("catalog", c.Catalog)
	}
	if c.Schema != "" {
		params.Set("schema", c.Schema)
	}
	if qp := params.Encode(); qp != "" {
		dsn = dsn + "?" + qp
	}
	return dsn
}

// Open connects to a SQL warehouse described by the profile file.
func Open(ctx context.Context, profilePath string) (*sql.DB, error) {
	cfg, err := LoadConfig(profilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sql.Open("databricks", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Databricks: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach Databricks: %w", err)
	}
	return db, nil
}
