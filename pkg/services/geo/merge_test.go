package geo

import (
	"sync"
	"testing"

	"github.com/climfin/finance-atlas/pkg/models/domain"
	"github.com/climfin/finance-atlas/pkg/services/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func totalTable(values map[string]float64) pipeline.ModeTable {
	table := pipeline.ModeTable{Mode: domain.ModeTotal}
	for code, v := range values {
		table.Aggregates = append(table.Aggregates, domain.CountryAggregate{
			Year:            2020,
			CountryCode:     code,
			USDDisbursement: v,
		})
	}
	return table
}

func TestMerge_DropsUnmatchedFeatures(t *testing.T) {
	base := testGeography(t)

	merged, err := Merge(totalTable(map[string]float64{"DEU": 120}), base)
	require.NoError(t, err)

	require.Len(t, merged.Features, 1)
	f := merged.Features[0]
	assert.Equal(t, "DEU", f.ID)
	v, ok := Value(f)
	assert.True(t, ok)
	assert.Equal(t, 120.0, v)

	// geometry and other properties are carried over untouched
	expected := base.Copy().Features[1]
	expected.Properties[ValueProperty] = 120.0
	assert.Empty(t, cmp.Diff(expected, f))
}

func TestMerge_KeepsMatchedOnly(t *testing.T) {
	base := testGeography(t)

	merged, err := Merge(totalTable(map[string]float64{"USA": 1, "FRA": 2, "KEN": 3}), base)
	require.NoError(t, err)

	ids := make([]any, 0, len(merged.Features))
	for _, f := range merged.Features {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []any{"USA", "FRA"}, ids)
}

func TestMerge_DiffValues(t *testing.T) {
	table := pipeline.ModeTable{
		Mode: domain.ModeRioDiff,
		Diffs: []domain.CountryDiff{
			{CountryCode: "FRA", OECD: 30, ClimFinBERT: 10, Diff: -20},
		},
	}

	merged, err := Merge(table, testGeography(t))
	require.NoError(t, err)

	require.Len(t, merged.Features, 1)
	v, _ := Value(merged.Features[0])
	assert.Equal(t, -20.0, v)
}

func TestMerge_BaseReturnsCopy(t *testing.T) {
	base := testGeography(t)

	merged, err := Merge(pipeline.ModeTable{Mode: domain.ModeBase}, base)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(base.Copy(), merged))

	merged.Features[0].Properties[ValueProperty] = 5.0
	assert.NotContains(t, base.Copy().Features[0].Properties, ValueProperty)
}

func TestMerge_EmptyTable(t *testing.T) {
	merged, err := Merge(pipeline.ModeTable{Mode: domain.ModeRioOECD}, testGeography(t))
	require.NoError(t, err)
	assert.Empty(t, merged.Features)
}

func TestMerge_DoesNotMutateBase(t *testing.T) {
	base := testGeography(t)
	pristine := base.Copy()

	// Given two merges from the same base
	first, err := Merge(totalTable(map[string]float64{"DEU": 120, "USA": 7}), base)
	require.NoError(t, err)
	second, err := Merge(totalTable(map[string]float64{"DEU": 3}), base)
	require.NoError(t, err)

	// Then the first result keeps its own values
	v, _ := Value(first.Features[1])
	assert.Equal(t, 120.0, v)
	v, _ = Value(second.Features[0])
	assert.Equal(t, 3.0, v)

	// And the base never gains a value property
	assert.Empty(t, cmp.Diff(pristine, base.Copy()))
	for _, f := range base.Copy().Features {
		assert.NotContains(t, f.Properties, ValueProperty)
	}
}

func TestMerge_Concurrent(t *testing.T) {
	base := testGeography(t)

	var wg sync.WaitGroup
	results := make([]float64, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			merged, err := Merge(totalTable(map[string]float64{"DEU": float64(i)}), base)
			if err != nil || len(merged.Features) != 1 {
				results[i] = -1
				return
			}
			results[i], _ = Value(merged.Features[0])
		}(i)
	}
	wg.Wait()

	for i, v := range results {
		assert.Equal(t, float64(i), v)
	}
}

func TestMerge_InvalidMode(t *testing.T) {
	_, err := Merge(pipeline.ModeTable{Mode: "heatmap"}, testGeography(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}
