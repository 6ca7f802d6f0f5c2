package store

import "regexp"

// Column names of the flows table.
const (
	ColYear              = "Year"
	ColDonorCode         = "DEDonorcode"
	ColDonorName         = "DonorName"
	ColRecipientCode     = "DERecipientcode"
	ColRecipientName     = "RecipientName"
	ColFlowName          = "FlowName"
	ColDonorType         = "DonorType"
	ColUSDDisbursement   = "USD_Disbursement"
	ColClimateMitigation = "ClimateMitigation"
	ColClimateAdaptation = "ClimateAdaptation"
	ColBiodiversity      = "Biodiversity"
	ColMetaCategory      = "meta_category"
	ColClimateClass      = "climate_class"
	ColTotalDisbursement = "total_disbursement"
)

// FlowColumns are the columns a flow query result must carry.
var FlowColumns = []string{
	ColYear,
	ColDonorCode,
	ColDonorName,
	ColRecipientCode,
	ColRecipientName,
	ColFlowName,
	ColDonorType,
	ColUSDDisbursement,
	ColClimateMitigation,
	ColClimateAdaptation,
	ColBiodiversity,
	ColMetaCategory,
	ColClimateClass,
}

// FlowSummary is a row of the aggregated flow query.
type FlowSummary struct {
	Year              int
	DonorName         string
	DonorCode         string
	RecipientName     string
	RecipientCode     string
	FlowName          string
	MetaCategory      string
	ClimateClass      string
	TotalDisbursement float64
}

// Column is a typed column of the flows table.
type Column struct {
	Name string
	Type string
}

// FlowSchema is the full column set imported from the source dataset.
var FlowSchema = []Column{
	{ColYear, "INTEGER"},
	{ColDonorCode, "VARCHAR"},
	{ColDonorName, "VARCHAR"},
	{ColRecipientCode, "VARCHAR"},
	{ColRecipientName, "VARCHAR"},
	{"FlowCode", "BIGINT"},
	{ColFlowName, "VARCHAR"},
	{"USD_Commitment", "DOUBLE"},
	{ColUSDDisbursement, "DOUBLE"},
	{"USD_Received", "DOUBLE"},
	{"USD_Commitment_Defl", "DOUBLE"},
	{"USD_Disbursement_Defl", "DOUBLE"},
	{"USD_Received_Defl", "DOUBLE"},
	{ColBiodiversity, "DOUBLE"},
	{ColClimateMitigation, "DOUBLE"},
	{ColClimateAdaptation, "DOUBLE"},
	{"Desertification", "DOUBLE"},
	{"climate_relevance", "DOUBLE"},
	{"climate_class_number", "DOUBLE"},
	{ColClimateClass, "VARCHAR"},
	{ColMetaCategory, "VARCHAR"},
	{ColDonorType, "VARCHAR"},
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// ValidTableName reports whether name is a plain, optionally qualified,
// SQL identifier that is safe to inline.
func ValidTableName(name string) bool {
	return tableNamePattern.MatchString(name)
}
