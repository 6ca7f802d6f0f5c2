package commands

import (
	"github.com/climfin/finance-atlas/pkg/models/domain"
	"github.com/spf13/cobra"
)

// filterFlags binds the flow filters shared by the query and summary
// commands.
type filterFlags struct {
	year          int
	from          int
	to            int
	categories    []string
	subcategories []string
	donorTypes    []string
	flowTypes     []string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.year, "year", 0, "Single reporting year (overrides --from/--to)")
	cmd.Flags().IntVar(&f.from, "from", domain.MaxYear-2, "First year of the range")
	cmd.Flags().IntVar(&f.to, "to", domain.MaxYear, "Last year of the range")
	cmd.Flags().StringSliceVar(&f.categories, "categories", nil, "Meta categories (Adaptation, Mitigation, Environment)")
	cmd.Flags().StringSliceVar(&f.subcategories, "subcategories", nil, "Climate classes")
	cmd.Flags().StringSliceVar(&f.donorTypes, "donor-types", nil, "Donor types")
	cmd.Flags().StringSliceVar(&f.flowTypes, "flow-types", nil, "Flow types")
}

func (f *filterFlags) filters() (domain.Filters, error) {
	years := domain.YearRange(f.from, f.to)
	if f.year != 0 {
		years = domain.SingleYear(f.year)
	}
	if err := years.Validate(); err != nil {
		return domain.Filters{}, err
	}
	return domain.Filters{
		Years:         years,
		Categories:    f.categories,
		Subcategories: f.subcategories,
		DonorTypes:    f.donorTypes,
		FlowTypes:     f.flowTypes,
	}, nil
}
