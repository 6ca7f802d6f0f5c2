package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/climfin/finance-atlas/pkg/models/store"
	"github.com/marcboeker/go-duckdb/v2"
)

const DefaultTable = "flows"

type Settings struct {
	// DbPath is the database file; empty opens an in-memory database.
	DbPath string
	Table  string
}

// FlowsTableSchema returns the CREATE TABLE statement of the flows table.
func FlowsTableSchema(table string) (string, error) {
	if !store.ValidTableName(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	cols := make([]string, len(store.FlowSchema))
	for i, c := range store.FlowSchema {
		cols[i] = fmt.Sprintf("\t\t%s %s", c.Name, c.Type)
	}
	return fmt.Sprintf("\n\tCREATE TABLE IF NOT EXISTS %s (\n%s\n\t);\n", table, strings.Join(cols, ",\n")), nil
}

func NewDB(settings Settings) (*sql.DB, error) {
	table := settings.Table
	if table == "" {
		table = DefaultTable
	}
	schema, err := FlowsTableSchema(table)
	if err != nil {
		return nil, err
	}
	bootQueries := []string{schema}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
