package pipeline

import (
	"sort"

	"github.com/climfin/finance-atlas/pkg/models/domain"
)

// GroupBy selects the grouping key of an aggregation.
type GroupBy int

const (
	// GroupByFlow groups by (Year, CountryCode, MetaCategory, ClimateClass).
	GroupByFlow GroupBy = iota
	// GroupByCountry groups by CountryCode alone.
	GroupByCountry
)

type groupKey struct {
	year         int
	countryCode  string
	metaCategory string
	climateClass string
}

func (g GroupBy) key(year int, country, meta, class string) groupKey {
	if g == GroupByCountry {
		return groupKey{countryCode: country}
	}
	return groupKey{year: year, countryCode: country, metaCategory: meta, climateClass: class}
}

func (k groupKey) less(o groupKey) bool {
	if k.year != o.year {
		return k.year < o.year
	}
	if k.countryCode != o.countryCode {
		return k.countryCode < o.countryCode
	}
	if k.metaCategory != o.metaCategory {
		return k.metaCategory < o.metaCategory
	}
	return k.climateClass < o.climateClass
}

type accumulator struct {
	by   GroupBy
	sums map[groupKey]float64
}

func newAccumulator(by GroupBy) *accumulator {
	return &accumulator{by: by, sums: make(map[groupKey]float64)}
}

func (a *accumulator) add(year int, country, meta, class string, amount float64) {
	a.sums[a.by.key(year, country, meta, class)] += amount
}

func (a *accumulator) result() []domain.CountryAggregate {
	keys := make([]groupKey, 0, len(a.sums))
	for k := range a.sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	out := make([]domain.CountryAggregate, len(keys))
	for i, k := range keys {
		out[i] = domain.CountryAggregate{
			Year:            k.year,
			CountryCode:     k.countryCode,
			MetaCategory:    k.metaCategory,
			ClimateClass:    k.climateClass,
			USDDisbursement: a.sums[k],
		}
	}
	return out
}

// Aggregate sums USDDisbursement over the grouping key. The result holds
// one entry per distinct key, sorted by key.
func Aggregate(rows []domain.CountryRecord, by GroupBy) []domain.CountryAggregate {
	acc := newAccumulator(by)
	for _, r := range rows {
		acc.add(r.Year, r.CountryCode, r.MetaCategory, r.ClimateClass, r.USDDisbursement)
	}
	return acc.result()
}

// Reaggregate groups an aggregate table again. Regrouping by the key the
// table was built with returns an equal table.
func Reaggregate(aggs []domain.CountryAggregate, by GroupBy) []domain.CountryAggregate {
	acc := newAccumulator(by)
	for _, a := range aggs {
		acc.add(a.Year, a.CountryCode, a.MetaCategory, a.ClimateClass, a.USDDisbursement)
	}
	return acc.result()
}
