package dashboard

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/climfin/finance-atlas/pkg/metrics"
	"github.com/climfin/finance-atlas/pkg/models/domain"
	"github.com/climfin/finance-atlas/pkg/services/geo"
	"github.com/climfin/finance-atlas/pkg/services/pipeline"
	"github.com/climfin/finance-atlas/pkg/services/query"
	"github.com/climfin/finance-atlas/pkg/services/styler"
	"github.com/climfin/finance-atlas/pkg/store/flows"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
)

// MapRequest is the filter state of one map interaction.
type MapRequest struct {
	Perspective domain.Perspective
	Filters     domain.Filters
	Mode        domain.Mode
	ColorMode   domain.ColorMode
}

type MapView struct {
	Collection *geojson.FeatureCollection
	Style      styler.StyleSpec
	Legend     []styler.LegendEntry
	Rows       int
}

type CountryInfo struct {
	Code  string
	Name  string
	Mode  domain.Mode
	Total float64
	// Available is false when the country has no value in the mode table.
	Available bool
}

type CategoryVolume struct {
	Category domain.Category
	Volume   float64
}

type Service interface {
	MapView(ctx context.Context, req MapRequest) (*MapView, error)
	CountryInfo(ctx context.Context, req MapRequest, code string) (*CountryInfo, error)
	// CategoryVolumes sums disbursements per meta category, for one country
	// when code is set.
	CategoryVolumes(ctx context.Context, req MapRequest, code string) ([]CategoryVolume, error)
	CountryFlows(ctx context.Context, req MapRequest, code string) ([]domain.CountryRecord, error)
	Export(ctx context.Context, filters domain.Filters, aggregated bool, w io.Writer) error
	SubcategoryOptions(categories []string) []string
}

type Dependencies struct {
	Store     flows.Store
	Geography *geo.Geography
	Table     string
	Metrics   *metrics.Metrics
}

type service struct {
	store     flows.Store
	geography *geo.Geography
	table     string
	metrics   *metrics.Metrics
}

func NewService(deps Dependencies) (Service, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("flow store is nil")
	}
	if deps.Geography == nil {
		return nil, fmt.Errorf("base geography is nil")
	}
	table := deps.Table
	if table == "" {
		table = query.DefaultTable
	}
	return &service{
		store:     deps.Store,
		geography: deps.Geography,
		table:     table,
		metrics:   deps.Metrics,
	}, nil
}

func (s *service) MapView(ctx context.Context, req MapRequest) (*MapView, error) {
	logger := zerolog.Ctx(ctx)
	start := time.Now()
	s.metrics.IncrementMapRequest(string(req.Mode))

	table, err := s.modeTable(ctx, req)
	if err != nil {
		return nil, err
	}

	t := time.Now()
	merged, err := geo.Merge(table, s.geography)
	if err != nil {
		return nil, err
	}
	s.observe(ctx, "merge", t, len(merged.Features))

	t = time.Now()
	spec, err := styler.StyleMap(req.Mode, req.ColorMode, merged)
	if err != nil {
		return nil, err
	}
	styler.Colorize(merged, spec)
	s.observe(ctx, "style", t, len(merged.Features))

	logger.Info().
		Str("mode", string(req.Mode)).
		Str("years", req.Filters.Years.String()).
		Int("features", len(merged.Features)).
		Dur("elapsed", time.Since(start)).
		Msg("map view built")

	return &MapView{
		Collection: merged,
		Style:      spec,
		Legend:     spec.Legend(),
		Rows:       table.Len(),
	}, nil
}

func (s *service) CountryInfo(ctx context.Context, req MapRequest, code string) (*CountryInfo, error) {
	table, err := s.modeTable(ctx, req)
	if err != nil {
		return nil, err
	}

	total, ok := table.CountryValues()[code]
	name, _ := s.geography.Name(code)
	return &CountryInfo{
		Code:      code,
		Name:      name,
		Mode:      req.Mode,
		Total:     total,
		Available: ok,
	}, nil
}

func (s *service) CategoryVolumes(ctx context.Context, req MapRequest, code string) ([]CategoryVolume, error) {
	rows, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64, len(domain.Categories))
	for _, r := range rows {
		if code != "" && r.CountryCode != code {
			continue
		}
		sums[r.MetaCategory] += r.USDDisbursement
	}

	volumes := make([]CategoryVolume, len(domain.Categories))
	for i, c := range domain.Categories {
		volumes[i] = CategoryVolume{Category: c, Volume: sums[string(c)]}
	}
	return volumes, nil
}

// CountryFlows lists a country's reshaped rows. A subcategory selection
// takes precedence over the category selection; with neither, every row of
// the country is returned.
func (s *service) CountryFlows(ctx context.Context, req MapRequest, code string) ([]domain.CountryRecord, error) {
	rows, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}

	var (
		column func(domain.CountryRecord) string
		keep   map[string]bool
	)
	switch {
	case len(req.Filters.Subcategories) > 0:
		column = func(r domain.CountryRecord) string { return r.ClimateClass }
		keep = setOf(req.Filters.Subcategories)
	case len(req.Filters.Categories) > 0:
		column = func(r domain.CountryRecord) string { return r.MetaCategory }
		keep = setOf(req.Filters.Categories)
	}

	out := make([]domain.CountryRecord, 0)
	for _, r := range rows {
		if r.CountryCode != code {
			continue
		}
		if column != nil && !keep[column(r)] {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *service) SubcategoryOptions(categories []string) []string {
	return domain.SubcategoriesOf(categories)
}

// modeTable runs query, reshape and mode building for req.
func (s *service) modeTable(ctx context.Context, req MapRequest) (pipeline.ModeTable, error) {
	rows, err := s.load(ctx, req)
	if err != nil {
		return pipeline.ModeTable{}, err
	}

	t := time.Now()
	table, err := pipeline.BuildModeTable(rows, req.Mode, req.Filters.Categories, req.Filters.Subcategories)
	if err != nil {
		return pipeline.ModeTable{}, err
	}
	s.observe(ctx, "mode", t, table.Len())
	return table, nil
}

// load queries the store and reshapes the result to req's perspective.
func (s *service) load(ctx context.Context, req MapRequest) ([]domain.CountryRecord, error) {
	q, err := query.Build(s.table, req.Filters)
	if err != nil {
		return nil, err
	}

	t := time.Now()
	records, err := s.store.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query flows: %w", err)
	}
	s.metrics.ObserveRows(len(records))
	s.observe(ctx, "query", t, len(records))

	t = time.Now()
	rows, err := pipeline.ReshapeByType(records, req.Perspective)
	if err != nil {
		return nil, err
	}
	s.observe(ctx, "reshape", t, len(rows))
	return rows, nil
}

func (s *service) observe(ctx context.Context, stage string, start time.Time, n int) {
	elapsed := time.Since(start)
	s.metrics.ObserveStage(stage, elapsed)
	zerolog.Ctx(ctx).Debug().
		Str("stage", stage).
		Int("rows", n).
		Dur("elapsed", elapsed).
		Msg("pipeline stage completed")
}

func setOf(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
