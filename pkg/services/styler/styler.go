package styler

import (
	"fmt"
	"math"

	"github.com/climfin/finance-atlas/pkg/models/domain"
	"github.com/climfin/finance-atlas/pkg/services/geo"
	"github.com/paulmach/orb/geojson"
)

// Handle names the client-side colouring rule a StyleSpec expects.
type Handle string

const (
	HandleFlat       Handle = "flat"
	HandleContinuous Handle = "continuous"
	HandleQuartile   Handle = "quartile"
)

// FillColorProperty is the feature property Colorize writes.
const FillColorProperty = "fillColor"

// Default bounds when no feature carries a value.
const (
	DefaultMin = 0
	DefaultMax = 1000
)

type Style struct {
	Weight      int
	Opacity     float64
	Color       string
	DashArray   string
	FillOpacity float64
	FillColor   string
}

// StyleSpec is the render parameter bundle for one map response.
type StyleSpec struct {
	Mode       domain.Mode
	ColorMode  domain.ColorMode
	Handle     Handle
	Style      Style
	Colorscale []string
	// Min and Max are unset in base mode.
	Min            *float64
	Max            *float64
	QuartileBreaks []float64
	QuartileColors []string
	NoDataColor    string

	gradient gradient
}

type LegendEntry struct {
	Label string
	Color string
	From  float64
	To    float64
}

// StyleMap derives colouring parameters for a merged collection. merged may
// be nil, in which case data-driven bounds fall back to the defaults.
// Quartile colouring needs at least 2 distinct values; with fewer the style
// is flat and filled with the first palette stop.
func StyleMap(mode domain.Mode, colorMode domain.ColorMode, merged *geojson.FeatureCollection) (StyleSpec, error) {
	if colorMode == "" {
		colorMode = domain.ColorContinuous
	}
	if colorMode != domain.ColorContinuous && colorMode != domain.ColorQuartile {
		return StyleSpec{}, fmt.Errorf("%w: color mode %q", domain.ErrInvalidArgument, colorMode)
	}

	if mode == domain.ModeBase {
		return StyleSpec{
			Mode:        mode,
			ColorMode:   colorMode,
			Handle:      HandleFlat,
			Style:       Style{FillColor: BaseColor, Color: BaseColor},
			Colorscale:  []string{},
			NoDataColor: NoDataColor,
		}, nil
	}

	stops, err := Palette(mode)
	if err != nil {
		return StyleSpec{}, err
	}
	g, err := newGradient(stops)
	if err != nil {
		return StyleSpec{}, err
	}

	spec := StyleSpec{
		Mode:           mode,
		ColorMode:      colorMode,
		Handle:         Handle(colorMode),
		Style:          Style{Weight: 2, Opacity: 1, Color: "white", DashArray: "3", FillOpacity: 0.7},
		Colorscale:     stops,
		QuartileBreaks: []float64{},
		QuartileColors: []string{},
		NoDataColor:    NoDataColor,
		gradient:       g,
	}

	values := Values(merged)
	lo, hi := float64(DefaultMin), float64(DefaultMax)
	if len(values) > 0 {
		lo, hi = bounds(values)
	}
	spec.Min, spec.Max = &lo, &hi

	if colorMode == domain.ColorQuartile {
		if distinct(values) < 2 {
			spec.Handle = HandleFlat
			spec.Style.FillColor = stops[0]
			return spec, nil
		}
		spec.QuartileBreaks = quartileBreaks(values)
		spec.QuartileColors = g.sample(4)
	}
	return spec, nil
}

// Values collects the merged values present in fc, skipping NaN.
func Values(fc *geojson.FeatureCollection) []float64 {
	if fc == nil {
		return nil
	}
	out := make([]float64, 0, len(fc.Features))
	for _, f := range fc.Features {
		if v, ok := geo.Value(f); ok && !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func bounds(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// FillColor is the colour a feature with the given value is drawn in.
func (s StyleSpec) FillColor(value float64) string {
	if s.Handle == HandleFlat {
		return s.Style.FillColor
	}
	if math.IsNaN(value) || len(s.gradient) == 0 {
		return s.NoDataColor
	}

	switch s.Handle {
	case HandleQuartile:
		return s.QuartileColors[s.bucket(value)]
	default:
		lo, hi := *s.Min, *s.Max
		if hi == lo {
			return s.gradient.at(0).Hex()
		}
		return s.gradient.at((value - lo) / (hi - lo)).Hex()
	}
}

// bucket is the index of the quartile holding value. Values above the last
// break fall into the top quartile.
func (s StyleSpec) bucket(value float64) int {
	for i := 1; i < len(s.QuartileBreaks); i++ {
		if value <= s.QuartileBreaks[i] {
			return i - 1
		}
	}
	return len(s.QuartileColors) - 1
}

// Colorize sets properties.fillColor on every feature of fc. fc must be a
// request-owned copy.
func Colorize(fc *geojson.FeatureCollection, spec StyleSpec) {
	if fc == nil {
		return
	}
	for _, f := range fc.Features {
		if f.Properties == nil {
			f.Properties = geojson.Properties{}
		}
		v, ok := geo.Value(f)
		if !ok {
			v = math.NaN()
		}
		if spec.Handle == HandleFlat {
			f.Properties[FillColorProperty] = spec.Style.FillColor
			continue
		}
		f.Properties[FillColorProperty] = spec.FillColor(v)
	}
}

// Legend describes the colour classes of s. Flat styling has none.
func (s StyleSpec) Legend() []LegendEntry {
	switch s.Handle {
	case HandleQuartile:
		out := make([]LegendEntry, 0, len(s.QuartileColors))
		for i, color := range s.QuartileColors {
			from, to := s.QuartileBreaks[i], s.QuartileBreaks[i+1]
			out = append(out, LegendEntry{
				Label: fmt.Sprintf("Q%d: %s - %s", i+1, formatAmount(from), formatAmount(to)),
				Color: color,
				From:  from,
				To:    to,
			})
		}
		return out
	case HandleContinuous:
		lo, hi := *s.Min, *s.Max
		return []LegendEntry{
			{Label: "min " + formatAmount(lo), Color: s.gradient.at(0).Hex(), From: lo, To: lo},
			{Label: "max " + formatAmount(hi), Color: s.gradient.at(1).Hex(), From: hi, To: hi},
		}
	}
	return []LegendEntry{}
}

func formatAmount(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	}
	return fmt.Sprintf("%.1f", v)
}
