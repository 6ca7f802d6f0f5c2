package flows

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/climfin/finance-atlas/pkg/models/domain"
	"github.com/climfin/finance-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

// Store runs flow queries against any SQL backend.
type Store interface {
	Query(ctx context.Context, query string, args ...any) ([]domain.FlowRecord, error)
	QueryAggregated(ctx context.Context, query string, args ...any) ([]store.FlowSummary, error)
}

var summaryColumns = []string{
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

type flowStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &flowStore{db: db}, nil
}

func (s *flowStore) Query(ctx context.Context, query string, args ...any) ([]domain.FlowRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query flows: %w", err)
	}
	defer closeRows(ctx, rows)

	cols, err := columnIndex(rows, store.FlowColumns)
	if err != nil {
		return nil, err
	}

	records := make([]domain.FlowRecord, 0)
	for rows.Next() {
		r, err := scanRow(rows, cols)
		if err != nil {
			return nil, fmt.Errorf("scan flow: %w", err)
		}
		record, err := toFlowRecord(r)
		if err != nil {
			return nil, fmt.Errorf("decode flow: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flows: %w", err)
	}
	return records, nil
}

func (s *flowStore) QueryAggregated(ctx context.Context, query string, args ...any) ([]store.FlowSummary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query flow summary: %w", err)
	}
	defer closeRows(ctx, rows)

	cols, err := columnIndex(rows, summaryColumns)
	if err != nil {
		return nil, err
	}

	summaries := make([]store.FlowSummary, 0)
	for rows.Next() {
		r, err := scanRow(rows, cols)
		if err != nil {
			return nil, fmt.Errorf("scan flow summary: %w", err)
		}
		year, err := r.int(store.ColYear)
		if err != nil {
			return nil, err
		}
		total, err := r.float(store.ColTotalDisbursement, 0)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, store.FlowSummary{
			Year:              year,
			DonorName:         r.str(store.ColDonorName),
			DonorCode:         r.str(store.ColDonorCode),
			RecipientName:     r.str(store.ColRecipientName),
			RecipientCode:     r.str(store.ColRecipientCode),
			FlowName:          r.str(store.ColFlowName),
			MetaCategory:      r.str(store.ColMetaCategory),
			ClimateClass:      r.str(store.ColClimateClass),
			TotalDisbursement: total,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flow summary: %w", err)
	}
	return summaries, nil
}

func toFlowRecord(r row) (domain.FlowRecord, error) {
	year, err := r.int(store.ColYear)
	if err != nil {
		return domain.FlowRecord{}, err
	}
	amount, err := r.float(store.ColUSDDisbursement, 0)
	if err != nil {
		return domain.FlowRecord{}, err
	}
	markers, err := r.floats(nan, store.ColClimateMitigation, store.ColClimateAdaptation, store.ColBiodiversity)
	if err != nil {
		return domain.FlowRecord{}, err
	}

	return domain.FlowRecord{
		Year:              year,
		DonorCode:         r.str(store.ColDonorCode),
		DonorName:         r.str(store.ColDonorName),
		RecipientCode:     r.str(store.ColRecipientCode),
		RecipientName:     r.str(store.ColRecipientName),
		FlowName:          r.str(store.ColFlowName),
		DonorType:         r.str(store.ColDonorType),
		USDDisbursement:   amount,
		ClimateMitigation: markers[0],
		ClimateAdaptation: markers[1],
		Biodiversity:      markers[2],
		MetaCategory:      r.str(store.ColMetaCategory),
		ClimateClass:      r.str(store.ColClimateClass),
	}, nil
}

func closeRows(ctx context.Context, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close flow query rows")
	}
}
