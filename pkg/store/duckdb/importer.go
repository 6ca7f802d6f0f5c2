package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/climfin/finance-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

// Source describes one import: a raw CSV export and the Parquet file it is
// converted to. RawPath may be empty when the Parquet file already exists.
type Source struct {
	RawPath     string
	ParquetPath string
	// Replace clears the table before loading.
	Replace bool
}

type Importer interface {
	ConvertCSV(ctx context.Context, csvPath, parquetPath string) error
	LoadParquet(ctx context.Context, parquetPath string, replace bool) (int64, error)
	Import(ctx context.Context, src Source) (int64, error)
}

type importer struct {
	db    *sql.DB
	table string
}

func NewImporter(db *sql.DB, table string) (Importer, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if table == "" {
		table = DefaultTable
	}
	if !store.ValidTableName(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &importer{db: db, table: table}, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (i *importer) conn(ctx context.Context) execer {
	if tx := GetTransaction(ctx); tx != nil {
		return tx
	}
	return i.db
}

// ConvertCSV writes csvPath out as a Parquet file.
func (i *importer) ConvertCSV(ctx context.Context, csvPath, parquetPath string) error {
	logger := zerolog.Ctx(ctx)
	start := time.Now()
	logger.Info().Str("csv", csvPath).Str("parquet", parquetPath).Msg("converting csv to parquet")

	query := fmt.Sprintf("COPY (SELECT * FROM read_csv_auto(%s, header = true)) TO %s (FORMAT PARQUET)",
		quote(csvPath), quote(parquetPath))
	if _, err := i.conn(ctx).ExecContext(ctx, query); err != nil {
		return fmt.Errorf("convert %s to parquet: %w", csvPath, err)
	}

	logger.Info().Dur("elapsed", time.Since(start)).Msg("conversion completed")
	return nil
}

// LoadParquet inserts the flow schema columns of a Parquet file into the
// table and returns the number of rows added.
func (i *importer) LoadParquet(ctx context.Context, parquetPath string, replace bool) (int64, error) {
	conn := i.conn(ctx)

	if replace {
		if _, err := conn.ExecContext(ctx, "DELETE FROM "+i.table); err != nil {
			return 0, fmt.Errorf("clear %s: %w", i.table, err)
		}
	}

	cols := make([]string, len(store.FlowSchema))
	for n, c := range store.FlowSchema {
		cols[n] = c.Name
	}
	columns := strings.Join(cols, ", ")

	query := fmt.Sprintf("INSERT INTO %s (%s)\nSELECT %s\nFROM read_parquet(%s)",
		i.table, columns, columns, quote(parquetPath))
	res, err := conn.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("load %s into %s: %w", parquetPath, i.table, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	zerolog.Ctx(ctx).Info().Str("table", i.table).Int64("rows", n).Msg("parquet loaded")
	return n, nil
}

// Import converts the raw export when given and loads the Parquet file in a
// single transaction.
func (i *importer) Import(ctx context.Context, src Source) (int64, error) {
	if src.ParquetPath == "" {
		return 0, fmt.Errorf("parquet path is required")
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	ctx = WithTransaction(ctx, tx)

	n, err := i.importTx(ctx, src)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			zerolog.Ctx(ctx).Warn().Err(rbErr).Msg("failed to roll back import")
		}
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return n, nil
}

func (i *importer) importTx(ctx context.Context, src Source) (int64, error) {
	if src.RawPath != "" {
		if err := i.ConvertCSV(ctx, src.RawPath, src.ParquetPath); err != nil {
			return 0, err
		}
	}
	return i.LoadParquet(ctx, src.ParquetPath, src.Replace)
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
