package styler

import (
	"fmt"
	"math"

	"github.com/climfin/finance-atlas/pkg/models/domain"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	BaseColor   = "dodgerblue"
	NoDataColor = "#A9A9A9"
)

var palettes = map[domain.Mode][]string{
	domain.ModeTotal:          {"#00BFFF", "#FFFF00", "#FF4500"},
	domain.ModeRioOECD:        {"#d9f0a3", "#addd8e", "#31a354"},
	domain.ModeRioClimFinBERT: {"#ffffcc", "#ffeda0", "#f03b20"},
	domain.ModeRioDiff:        {"#0571b0", "#f7f7f7", "#ca0020"},
}

// Palette returns the colour stops of a mode's gradient.
func Palette(mode domain.Mode) ([]string, error) {
	stops, ok := palettes[mode]
	if !ok {
		return nil, fmt.Errorf("%w: no palette for %q", domain.ErrInvalidMode, mode)
	}
	return append([]string(nil), stops...), nil
}

// gradient interpolates evenly spaced colour stops in RGB space.
type gradient []colorful.Color

func newGradient(stops []string) (gradient, error) {
	g := make(gradient, 0, len(stops))
	for _, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("invalid colour stop %q: %w", s, err)
		}
		g = append(g, c)
	}
	return g, nil
}

// at returns the colour at t in [0, 1]; t is clamped.
func (g gradient) at(t float64) colorful.Color {
	if len(g) == 1 || math.IsNaN(t) {
		return g[0]
	}
	t = math.Min(math.Max(t, 0), 1)

	pos := t * float64(len(g)-1)
	i := int(math.Floor(pos))
	if i >= len(g)-1 {
		return g[len(g)-1]
	}
	return g[i].BlendRgb(g[i+1], pos-float64(i)).Clamped()
}

// sample picks n evenly spaced colours from the first to the last stop.
func (g gradient) sample(n int) []string {
	out := make([]string, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = g.at(t).Hex()
	}
	return out
}
