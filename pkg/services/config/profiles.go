package config

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"
)

// DataSource locates one edition of the flow dataset for the importer.
type DataSource struct {
	Name          string
	RawSource     string
	ParquetSource string
	DuckDBPath    string
	Table         string
}

type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetDataSource(ctx context.Context, profile string) (*DataSource, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetDataSource(_ context.Context, profile string) (*DataSource, error) {
	section, err := cr.cfg.GetSection(profile)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found", profile)
	}

	ds := &DataSource{
		Name:          profile,
		RawSource:     section.Key("raw_source").String(),
		ParquetSource: section.Key("parquet_source").String(),
		DuckDBPath:    section.Key("duckdb_path").String(),
		Table:         section.Key("table").MustString("flows"),
	}
	if ds.ParquetSource == "" || ds.DuckDBPath == "" {
		return nil, fmt.Errorf("profile %s needs parquet_source and duckdb_path", profile)
	}
	return ds, nil
}
