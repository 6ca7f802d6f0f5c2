package dashboard

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/climfin/finance-atlas/pkg/models/domain"
	"github.com/climfin/finance-atlas/pkg/models/store"
	"github.com/climfin/finance-atlas/pkg/services/query"
	"github.com/rs/zerolog"
)

var summaryHeader = []string{
	store.ColYear,
	store.ColDonorName,
	store.ColDonorCode,
	store.ColRecipientName,
	store.ColRecipientCode,
	store.ColFlowName,
	store.ColMetaCategory,
	store.ColClimateClass,
	store.ColTotalDisbursement,
}

// Export writes the flows matching filters to w as CSV, either row by row or
// summed per donor, recipient, year, flow and category.
func (s *service) Export(ctx context.Context, filters domain.Filters, aggregated bool, w io.Writer) error {
	build := query.Build
	if aggregated {
		build = query.BuildAggregated
	}
	q, err := build(s.table, filters)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	var n int
	if aggregated {
		n, err = s.exportSummary(ctx, q, cw)
	} else {
		n, err = s.exportRows(ctx, q, cw)
	}
	if err != nil {
		return err
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	zerolog.Ctx(ctx).Info().Int("rows", n).Bool("aggregated", aggregated).Msg("flows exported")
	return nil
}

func (s *service) exportRows(ctx context.Context, q query.Query, cw *csv.Writer) (int, error) {
	records, err := s.store.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return 0, fmt.Errorf("failed to query flows: %w", err)
	}
	s.metrics.ObserveRows(len(records))

	if err := cw.Write(store.FlowColumns); err != nil {
		return 0, err
	}
	for _, r := range records {
		if err := cw.Write([]string{
			strconv.Itoa(r.Year),
			r.DonorCode,
			r.DonorName,
			r.RecipientCode,
			r.RecipientName,
			r.FlowName,
			r.DonorType,
			formatFloat(r.USDDisbursement),
			formatFloat(r.ClimateMitigation),
			formatFloat(r.ClimateAdaptation),
			formatFloat(r.Biodiversity),
			r.MetaCategory,
			r.ClimateClass,
		}); err != nil {
			return 0, err
		}
	}
	return len(records), nil
}

func (s *service) exportSummary(ctx context.Context, q query.Query, cw *csv.Writer) (int, error) {
	summaries, err := s.store.QueryAggregated(ctx, q.SQL, q.Args...)
	if err != nil {
		return 0, fmt.Errorf("failed to query flow summary: %w", err)
	}
	s.metrics.ObserveRows(len(summaries))

	if err := cw.Write(summaryHeader); err != nil {
		return 0, err
	}
	for _, r := range summaries {
		if err := cw.Write([]string{
			strconv.Itoa(r.Year),
			r.DonorName,
			r.DonorCode,
			r.RecipientName,
			r.RecipientCode,
			r.FlowName,
			r.MetaCategory,
			r.ClimateClass,
			formatFloat(r.TotalDisbursement),
		}); err != nil {
			return 0, err
		}
	}
	return len(summaries), nil
}

// formatFloat renders unset values as empty cells.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
