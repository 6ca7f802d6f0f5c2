package pipeline

import (
	"fmt"
	"sort"

	"github.com/climfin/finance-atlas/pkg/models/domain"
)

// ModeTable is the data behind one map mode. Exactly one of the slices is
// populated: Rows for base, Diffs for rio_diff, Aggregates otherwise.
type ModeTable struct {
	Mode       domain.Mode
	Rows       []domain.CountryRecord
	Aggregates []domain.CountryAggregate
	Diffs      []domain.CountryDiff
}

// BuildModeTable shapes country records for the given map mode.
func BuildModeTable(
	rows []domain.CountryRecord,
	mode domain.Mode,
	categories []string,
	subcategories []string,
) (ModeTable, error) {
	switch mode {
	case domain.ModeBase:
		return ModeTable{Mode: mode, Rows: rows}, nil
	case domain.ModeTotal:
		return ModeTable{Mode: mode, Aggregates: Aggregate(rows, GroupByFlow)}, nil
	case domain.ModeRioOECD:
		return ModeTable{Mode: mode, Aggregates: oecdTable(rows, categories)}, nil
	case domain.ModeRioClimFinBERT:
		return ModeTable{Mode: mode, Aggregates: climFinBERTTable(rows, categories, subcategories)}, nil
	case domain.ModeRioDiff:
		diffs := Difference(oecdTable(rows, categories), climFinBERTTable(rows, categories, nil))
		return ModeTable{Mode: mode, Diffs: diffs}, nil
	}
	return ModeTable{}, fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
}

func oecdTable(rows []domain.CountryRecord, categories []string) []domain.CountryAggregate {
	return Aggregate(FilterOECD(rows, categories), GroupByFlow)
}

func climFinBERTTable(rows []domain.CountryRecord, categories, subcategories []string) []domain.CountryAggregate {
	return Aggregate(FilterClimFinBERT(rows, categories, subcategories), GroupByFlow)
}

// FilterOECD keeps rows carrying a positive OECD marker for any of the
// selected categories. Unset markers count as absent. Categories without a
// marker column match nothing; an empty selection keeps every row.
func FilterOECD(rows []domain.CountryRecord, categories []string) []domain.CountryRecord {
	if len(categories) == 0 {
		return rows
	}

	selected := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		selected = append(selected, domain.Category(c))
	}

	out := make([]domain.CountryRecord, 0, len(rows))
	for _, r := range rows {
		for _, c := range selected {
			if r.Marker(c) > 0 {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// FilterClimFinBERT keeps rows whose predicted meta category is selected and
// whose climate class is selected. Either list may be empty to skip it.
func FilterClimFinBERT(rows []domain.CountryRecord, categories, subcategories []string) []domain.CountryRecord {
	if len(categories) == 0 && len(subcategories) == 0 {
		return rows
	}
	cats := toSet(categories)
	subs := toSet(subcategories)

	out := make([]domain.CountryRecord, 0, len(rows))
	for _, r := range rows {
		if len(cats) > 0 && !cats[r.MetaCategory] {
			continue
		}
		if len(subs) > 0 && !subs[r.ClimateClass] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Difference outer-joins two tables on CountryCode after summing each per
// country. A country missing from one side counts as 0 there.
func Difference(oecd, climFinBERT []domain.CountryAggregate) []domain.CountryDiff {
	byCountry := make(map[string]*domain.CountryDiff)
	row := func(code string) *domain.CountryDiff {
		d, ok := byCountry[code]
		if !ok {
			d = &domain.CountryDiff{CountryCode: code}
			byCountry[code] = d
		}
		return d
	}

	for _, a := range Reaggregate(oecd, GroupByCountry) {
		row(a.CountryCode).OECD = a.USDDisbursement
	}
	for _, a := range Reaggregate(climFinBERT, GroupByCountry) {
		row(a.CountryCode).ClimFinBERT = a.USDDisbursement
	}

	out := make([]domain.CountryDiff, 0, len(byCountry))
	for _, d := range byCountry {
		d.Diff = d.ClimFinBERT - d.OECD
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CountryCode < out[j].CountryCode })
	return out
}

// CountryValues returns the per-country value a map colors by: the summed
// disbursement, or the difference in rio_diff mode.
func (t ModeTable) CountryValues() map[string]float64 {
	values := make(map[string]float64)
	switch t.Mode {
	case domain.ModeBase:
		for _, r := range t.Rows {
			values[r.CountryCode] += r.USDDisbursement
		}
	case domain.ModeRioDiff:
		for _, d := range t.Diffs {
			values[d.CountryCode] = d.Diff
		}
	default:
		for _, a := range t.Aggregates {
			values[a.CountryCode] += a.USDDisbursement
		}
	}
	return values
}

// Len is the number of rows in the populated slice.
func (t ModeTable) Len() int {
	return len(t.Rows) + len(t.Aggregates) + len(t.Diffs)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
