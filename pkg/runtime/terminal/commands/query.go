package commands

import (
	"fmt"

	"github.com/climfin/finance-atlas/pkg/services/query"
	"github.com/spf13/cobra"
)

type QueryCmd struct {
	filters    filterFlags
	table      string
	aggregated bool
}

func NewQueryCmd() *cobra.Command {
	qc := &QueryCmd{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the SQL selecting the filtered flows",
		RunE:  qc.run,
	}

	qc.filters.bind(cmd)
	cmd.Flags().StringVar(&qc.table, "table", query.DefaultTable, "Flows table")
	cmd.Flags().BoolVar(&qc.aggregated, "aggregated", false, "Print the summed variant")

	return cmd
}

func (qc *QueryCmd) run(cmd *cobra.Command, _ []string) error {
	filters, err := qc.filters.filters()
	if err != nil {
		return err
	}

	build := query.Build
	if qc.aggregated {
		build = query.BuildAggregated
	}
	q, err := build(qc.table, filters)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), q.Inline())
	return err
}
