package commands

import (
	"fmt"
	"sort"

	"github.com/biter777/countries"
	"github.com/climfin/finance-atlas/pkg/models/domain"
	"github.com/climfin/finance-atlas/pkg/runtime/terminal/export"
	"github.com/climfin/finance-atlas/pkg/services/pipeline"
	"github.com/climfin/finance-atlas/pkg/services/query"
	"github.com/climfin/finance-atlas/pkg/store/flows"
	"github.com/climfin/finance-atlas/pkg/store/source"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type SummaryCmd struct {
	filters     filterFlags
	backend     string
	target      string
	table       string
	perspective string
	mode        string
	top         int
	sources     source.Registry
	reporter    *export.Reporter
}

func NewSummaryCmd(sources source.Registry, reporter *export.Reporter) *cobra.Command {
	sc := &SummaryCmd{sources: sources, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize climate finance per country for the given filters",
		RunE:  sc.run,
	}

	sc.filters.bind(cmd)
	cmd.Flags().StringVar(&sc.backend, "backend", source.BackendDuckDB, "Flow backend")
	cmd.Flags().StringVar(&sc.target, "target", "./data/ClimFinBERT_DB.duckdb",
		"DuckDB file, or the profile file of a warehouse backend")
	cmd.Flags().StringVar(&sc.table, "table", query.DefaultTable, "Flows table")
	cmd.Flags().StringVar(&sc.perspective, "type", string(domain.PerspectiveDonors), "donors or recipients")
	cmd.Flags().StringVar(&sc.mode, "mode", string(domain.ModeTotal), "Aggregation mode")
	cmd.Flags().IntVar(&sc.top, "top", 20, "Number of countries to list, 0 for all")

	return cmd
}

func (sc *SummaryCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	perspective, err := domain.ParsePerspective(sc.perspective)
	if err != nil {
		return err
	}
	mode, err := domain.ParseMode(sc.mode)
	if err != nil {
		return err
	}
	if mode == domain.ModeBase {
		return fmt.Errorf("%w: mode base has no values to summarize", domain.ErrInvalidMode)
	}
	filters, err := sc.filters.filters()
	if err != nil {
		return err
	}
	q, err := query.Build(sc.table, filters)
	if err != nil {
		return err
	}

	db, err := sc.sources.Open(ctx, sc.backend, sc.target)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := flows.NewStore(db)
	if err != nil {
		return err
	}
	records, err := store.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return fmt.Errorf("failed to query flows: %w", err)
	}
	rows, err := pipeline.ReshapeByType(records, perspective)
	if err != nil {
		return err
	}
	table, err := pipeline.BuildModeTable(rows, mode, filters.Categories, filters.Subcategories)
	if err != nil {
		return err
	}

	report := buildReport(rows, table, perspective, filters.Years, sc.top)
	zerolog.Ctx(ctx).Debug().Int("flows", len(records)).Int("countries", report.Countries).Msg("summary built")
	return sc.reporter.Handle(report)
}

// buildReport lists countries by value, largest first. Names come from the
// reshaped rows, falling back to the ISO country list.
func buildReport(rows []domain.CountryRecord, table pipeline.ModeTable, p domain.Perspective, years domain.YearSpec, top int) *export.Report {
	names := make(map[string]string, len(rows))
	for _, r := range rows {
		if r.CountryName != "" {
			names[r.CountryCode] = r.CountryName
		}
	}

	values := table.CountryValues()
	report := &export.Report{
		Title:       fmt.Sprintf("Climate finance by %s", p),
		Perspective: string(p),
		Mode:        table.Mode.Label(),
		Years:       years.String(),
		Countries:   len(values),
		Rows:        make([]export.Row, 0, len(values)),
	}
	for code, v := range values {
		report.Total += v
		report.Rows = append(report.Rows, export.Row{Code: code, Name: countryName(names, code), Value: v})
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		if report.Rows[i].Value != report.Rows[j].Value {
			return report.Rows[i].Value > report.Rows[j].Value
		}
		return report.Rows[i].Code < report.Rows[j].Code
	})
	if top > 0 && len(report.Rows) > top {
		report.Rows = report.Rows[:top]
	}
	return report
}

func countryName(names map[string]string, code string) string {
	if name, ok := names[code]; ok {
		return name
	}
	if c := countries.ByName(code); c != countries.Unknown {
		return c.String()
	}
	return code
}
