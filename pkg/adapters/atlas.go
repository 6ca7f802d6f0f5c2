package adapters

import (
	"math"

	"github.com/climfin/finance-atlas/pkg/models/api"
	"github.com/climfin/finance-atlas/pkg/models/domain"
	"github.com/climfin/finance-atlas/pkg/services/dashboard"
	"github.com/climfin/finance-atlas/pkg/services/styler"
)

func MapStyleSpecToAPI(spec styler.StyleSpec) api.StyleSpec {
	return api.StyleSpec{
		Handle: string(spec.Handle),
		Style: api.Style{
			Weight:      spec.Style.Weight,
			Opacity:     spec.Style.Opacity,
			Color:       spec.Style.Color,
			DashArray:   spec.Style.DashArray,
			FillOpacity: spec.Style.FillOpacity,
			FillColor:   spec.Style.FillColor,
		},
		Colorscale:     spec.Colorscale,
		Min:            spec.Min,
		Max:            spec.Max,
		QuartileBreaks: spec.QuartileBreaks,
		QuartileColors: spec.QuartileColors,
		NoDataColor:    spec.NoDataColor,
	}
}

func MapLegendToAPI(entries []styler.LegendEntry) []api.LegendEntry {
	out := make([]api.LegendEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, api.LegendEntry{Label: e.Label, Color: e.Color, From: e.From, To: e.To})
	}
	return out
}

func MapViewToAPI(req dashboard.MapRequest, view *dashboard.MapView) api.MapResponse {
	return api.MapResponse{
		Mode:      string(req.Mode),
		ModeLabel: req.Mode.Label(),
		ColorMode: string(view.Style.ColorMode),
		Years:     req.Filters.Years.String(),
		Rows:      view.Rows,
		Style:     MapStyleSpecToAPI(view.Style),
		Legend:    MapLegendToAPI(view.Legend),
		GeoJSON:   view.Collection,
	}
}

func MapCountryInfoToAPI(info *dashboard.CountryInfo) api.CountryInfo {
	return api.CountryInfo{
		Code:      info.Code,
		Name:      info.Name,
		Mode:      string(info.Mode),
		Total:     info.Total,
		Available: info.Available,
	}
}

func MapVolumesToAPI(volumes []dashboard.CategoryVolume) []api.CategoryVolume {
	out := make([]api.CategoryVolume, 0, len(volumes))
	for _, v := range volumes {
		out = append(out, api.CategoryVolume{Category: string(v.Category), Volume: v.Volume})
	}
	return out
}

func MapCountryRecordToAPIFlow(r domain.CountryRecord) api.Flow {
	return api.Flow{
		Year:              r.Year,
		CountryCode:       r.CountryCode,
		CountryName:       r.CountryName,
		FlowName:          r.FlowName,
		DonorType:         r.DonorType,
		USDDisbursement:   r.USDDisbursement,
		ClimateMitigation: marker(r.ClimateMitigation),
		ClimateAdaptation: marker(r.ClimateAdaptation),
		Biodiversity:      marker(r.Biodiversity),
		MetaCategory:      r.MetaCategory,
		ClimateClass:      r.ClimateClass,
	}
}

// MapTaxonomyToAPI describes the filter choices. selected narrows the
// subcategory options when non-empty.
func MapTaxonomyToAPI(selected []string, options []string) api.Taxonomy {
	categories := make([]api.Category, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		categories = append(categories, api.Category{Name: string(c), Subcategories: domain.Subcategories[c]})
	}

	modes := make([]api.Mode, 0, len(domain.Modes))
	for _, m := range domain.Modes {
		modes = append(modes, api.Mode{Name: string(m), Label: m.Label()})
	}

	t := api.Taxonomy{
		Categories: categories,
		DonorTypes: domain.DonorTypes,
		FlowTypes:  domain.FlowTypes,
		Modes:      modes,
		Years:      api.YearRange{Min: domain.MinYear, Max: domain.MaxYear},
	}
	if len(selected) > 0 {
		t.Subcategories = options
	}
	return t
}

// encoding/json rejects NaN
func marker(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
