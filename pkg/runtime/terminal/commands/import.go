package commands

import (
	"fmt"

	"github.com/climfin/finance-atlas/pkg/services/config"
	"github.com/climfin/finance-atlas/pkg/store/duckdb"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ImportCmd struct {
	profile     string
	sourcesPath string
	replace     bool
}

func NewImportCmd() *cobra.Command {
	ic := &ImportCmd{}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Convert a raw flow export to Parquet and load it into DuckDB",
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.profile, "profile", "development", "Data source profile")
	cmd.Flags().StringVar(&ic.sourcesPath, "sources", "", "Path to the data source profiles (ini)")
	cmd.Flags().BoolVar(&ic.replace, "replace", true, "Clear the table before loading")

	_ = cmd.MarkFlagRequired("sources")

	return cmd
}

func (ic *ImportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	registry, err := config.NewRegistry(ic.sourcesPath)
	if err != nil {
		return fmt.Errorf("failed to load data sources: %w", err)
	}
	ds, err := registry.GetDataSource(ctx, ic.profile)
	if err != nil {
		return err
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ds.DuckDBPath, Table: ds.Table})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", ds.DuckDBPath, err)
	}
	defer db.Close()

	importer, err := duckdb.NewImporter(db, ds.Table)
	if err != nil {
		return err
	}

	n, err := importer.Import(ctx, duckdb.Source{
		RawPath:     ds.RawSource,
		ParquetPath: ds.ParquetSource,
		Replace:     ic.replace,
	})
	if err != nil {
		return fmt.Errorf("failed to import profile %s: %w", ds.Name, err)
	}

	logger.Info().Str("profile", ds.Name).Int64("rows", n).Msg("import finished")
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows into %s (%s)\n", n, ds.Table, ds.DuckDBPath)
	return nil
}
