package source

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/climfin/finance-atlas/pkg/store/databricks"
	"github.com/climfin/finance-atlas/pkg/store/duckdb"
	"github.com/climfin/finance-atlas/pkg/store/snowflake"
)

const (
	BackendDuckDB     = "duckdb"
	BackendDatabricks = "databricks"
	BackendSnowflake  = "snowflake"
)

// Factory opens a flow database. target is backend specific: a database
// file for duckdb, a profile file for the warehouses.
type Factory func(ctx context.Context, target string) (*sql.DB, error)

// Registry manages flow backend factories
type Registry interface {
	// Register adds a new backend factory
	Register(backend string, factory Factory) error
	// Open connects to the backend using the given target
	Open(ctx context.Context, backend, target string) (*sql.DB, error)
	// ListBackends returns the registered backend names, sorted
	ListBackends() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() Registry {
	return &registry{
		factories: make(map[string]Factory),
	}
}

// NewDefaultRegistry registers the duckdb, databricks and snowflake
// backends. table is the flows table duckdb boots.
func NewDefaultRegistry(table string) (Registry, error) {
	r := NewRegistry()
	for backend, factory := range map[string]Factory{
		BackendDuckDB:     DuckDB(table),
		BackendDatabricks: databricks.Open,
		BackendSnowflake:  snowflake.Open,
	} {
		if err := r.Register(backend, factory); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DuckDB opens a local database file and boots the flows table.
func DuckDB(table string) Factory {
	return func(_ context.Context, target string) (*sql.DB, error) {
		return duckdb.NewDB(duckdb.Settings{DbPath: target, Table: table})
	}
}

func (r *registry) Register(backend string, factory Factory) error {
	if backend == "" {
		return fmt.Errorf("backend name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[backend]; exists {
		return fmt.Errorf("backend %q is already registered", backend)
	}

	r.factories[backend] = factory
	return nil
}

func (r *registry) Open(ctx context.Context, backend, target string) (*sql.DB, error) {
	r.mu.RLock()
	factory, exists := r.factories[backend]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("backend %q is not registered", backend)
	}

	db, err := factory(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", backend, err)
	}
	return db, nil
}

func (r *registry) ListBackends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	backends := make([]string, 0, len(r.factories))
	for backend := range r.factories {
		backends = append(backends, backend)
	}
	sort.Strings(backends)
	return backends
}
