package domain

import "math"

// FlowRecord is one reported disbursement between a donor and a recipient.
// OECD marker scores are NaN when the donor did not report them.
type FlowRecord struct {
	Year              int
	DonorCode         string
	DonorName         string
	RecipientCode     string
	RecipientName     string
	FlowName          string
	DonorType         string
	USDDisbursement   float64
	ClimateMitigation float64
	ClimateAdaptation float64
	Biodiversity      float64
	MetaCategory      string
	ClimateClass      string
}

// CountryRecord is a FlowRecord seen from one side of the flow. The other
// side's code and name are not carried.
type CountryRecord struct {
	Year              int
	CountryCode       string
	CountryName       string
	FlowName          string
	DonorType         string
	USDDisbursement   float64
	ClimateMitigation float64
	ClimateAdaptation float64
	Biodiversity      float64
	MetaCategory      string
	ClimateClass      string
}

// Marker returns the OECD Rio marker score backing the given category,
// with unset scores reported as 0.
func (r CountryRecord) Marker(c Category) float64 {
	var v float64
	switch c {
	case CategoryMitigation:
		v = r.ClimateMitigation
	case CategoryAdaptation:
		v = r.ClimateAdaptation
	case CategoryEnvironment:
		v = r.Biodiversity
	default:
		return 0
	}
	if math.IsNaN(v) {
		return 0
	}
	return v
}

type CountryAggregate struct {
	Year            int
	CountryCode     string
	MetaCategory    string
	ClimateClass    string
	USDDisbursement float64
}

// CountryDiff compares model-attributed and marker-reported finance for a
// country. Diff is ClimFinBERT - OECD.
type CountryDiff struct {
	CountryCode string
	OECD        float64
	ClimFinBERT float64
	Diff        float64
}
