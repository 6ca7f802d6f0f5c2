package pipeline

import (
	"fmt"

	"github.com/climfin/finance-atlas/pkg/models/domain"
)

// ReshapeByType projects flows onto one side of the flow. For donors the
// donor code and name become CountryCode/CountryName and the recipient
// columns are dropped; recipients is the mirror image. The output has one
// record per input record, in input order.
func ReshapeByType(rows []domain.FlowRecord, perspective domain.Perspective) ([]domain.CountryRecord, error) {
	var side func(domain.FlowRecord) (string, string)
	switch perspective {
	case domain.PerspectiveDonors:
		side = func(r domain.FlowRecord) (string, string) { return r.DonorCode, r.DonorName }
	case domain.PerspectiveRecipients:
		side = func(r domain.FlowRecord) (string, string) { return r.RecipientCode, r.RecipientName }
	default:
		return nil, fmt.Errorf("%w: perspective %q, expected %q or %q",
			domain.ErrInvalidArgument, perspective, domain.PerspectiveDonors, domain.PerspectiveRecipients)
	}

	out := make([]domain.CountryRecord, len(rows))
	for i, r := range rows {
		code, name := side(r)
		out[i] = domain.CountryRecord{
			Year:              r.Year,
			CountryCode:       code,
			CountryName:       name,
			FlowName:          r.FlowName,
			DonorType:         r.DonorType,
			USDDisbursement:   r.USDDisbursement,
			ClimateMitigation: r.ClimateMitigation,
			ClimateAdaptation: r.ClimateAdaptation,
			Biodiversity:      r.Biodiversity,
			MetaCategory:      r.MetaCategory,
			ClimateClass:      r.ClimateClass,
		}
	}
	return out, nil
}
