package api

import "github.com/paulmach/orb/geojson"

type Style struct {
	Weight      int     `json:"weight,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	Color       string  `json:"color,omitempty"`
	DashArray   string  `json:"dashArray,omitempty"`
	FillOpacity float64 `json:"fillOpacity,omitempty"`
	FillColor   string  `json:"fillColor,omitempty"`
}

// StyleSpec tells the map client how to colour the features. Features also
// carry a precomputed fillColor property.
type StyleSpec struct {
	Handle         string    `json:"handle"`
	Style          Style     `json:"style"`
	Colorscale     []string  `json:"colorscale"`
	Min            *float64  `json:"min"`
	Max            *float64  `json:"max"`
	QuartileBreaks []float64 `json:"quartile_breaks,omitempty"`
	QuartileColors []string  `json:"quartile_colors,omitempty"`
	NoDataColor    string    `json:"no_data_color"`
}

type LegendEntry struct {
	Label string  `json:"label"`
	Color string  `json:"color"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
}

type MapResponse struct {
	Mode      string                     `json:"mode"`
	ModeLabel string                     `json:"mode_label"`
	ColorMode string                     `json:"color_mode"`
	Years     string                     `json:"years"`
	Rows      int                        `json:"rows"`
	Style     StyleSpec                  `json:"style"`
	Legend    []LegendEntry              `json:"legend"`
	GeoJSON   *geojson.FeatureCollection `json:"geojson"`
}

type CountryInfo struct {
	Code      string  `json:"code"`
	Name      string  `json:"name,omitempty"`
	Mode      string  `json:"mode,omitempty"`
	Total     float64 `json:"total"`
	Available bool    `json:"available"`
	Message   string  `json:"message,omitempty"`
}

type CategoryVolume struct {
	Category string  `json:"category"`
	Volume   float64 `json:"volume"`
}

type VolumesResponse struct {
	Country   string           `json:"country,omitempty"`
	Available bool             `json:"available"`
	Message   string           `json:"message,omitempty"`
	Volumes   []CategoryVolume `json:"volumes"`
}

// Flow is one row of a country's flow table. Unreported markers are null.
type Flow struct {
	Year              int      `json:"year"`
	CountryCode       string   `json:"country_code"`
	CountryName       string   `json:"country_name"`
	FlowName          string   `json:"flow_name"`
	DonorType         string   `json:"donor_type"`
	USDDisbursement   float64  `json:"usd_disbursement"`
	ClimateMitigation *float64 `json:"climate_mitigation"`
	ClimateAdaptation *float64 `json:"climate_adaptation"`
	Biodiversity      *float64 `json:"biodiversity"`
	MetaCategory      string   `json:"meta_category"`
	ClimateClass      string   `json:"climate_class"`
}

type FlowsResponse struct {
	Country   string `json:"country"`
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
	Flows     []Flow `json:"flows"`
}

type Category struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type Taxonomy struct {
	Categories []Category `json:"categories"`
	// Subcategories is set when the request selected categories.
	Subcategories []string  `json:"subcategories,omitempty"`
	DonorTypes    []string  `json:"donor_types"`
	FlowTypes     []string  `json:"flow_types"`
	Modes         []Mode    `json:"modes"`
	Years         YearRange `json:"years"`
}

type Mode struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Health struct {
	Status   string `json:"status"`
	Features int    `json:"features"`
}
