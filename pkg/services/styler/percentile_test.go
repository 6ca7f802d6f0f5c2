package styler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name     string
		sorted   []float64
		p        float64
		expected float64
	}{
		{name: "single", sorted: []float64{4}, p: 50, expected: 4},
		{name: "median even", sorted: []float64{1, 2, 3, 4}, p: 50, expected: 2.5},
		{name: "first quartile", sorted: []float64{1, 2, 3, 4}, p: 25, expected: 1.75},
		{name: "minimum", sorted: []float64{3, 9}, p: 0, expected: 3},
		{name: "maximum", sorted: []float64{3, 9}, p: 100, expected: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, percentile(tt.sorted, tt.p), 1e-9)
		})
	}

	assert.True(t, math.IsNaN(percentile(nil, 50)))
}

func TestGradientSample(t *testing.T) {
	g, err := newGradient([]string{"#000000", "#ffffff"})
	assert.NoError(t, err)

	assert.Equal(t, []string{"#000000", "#ffffff"}, g.sample(2))
	assert.Len(t, g.sample(4), 4)

	_, err = newGradient([]string{"blue"})
	assert.Error(t, err)
}
