package domain

// Categories are the meta categories predicted by ClimateFinanceBERT.
var Categories = []Category{CategoryAdaptation, CategoryMitigation, CategoryEnvironment}

// Subcategories lists climate classes grouped under their meta category.
var Subcategories = map[Category][]string{
	CategoryAdaptation: {
		"Adaptation",
	},
	CategoryMitigation: {
		"Solar-energy",
		"Other-mitigation-projects",
		"Renewables-multiple",
		"Hydro-energy",
		"Wind-energy",
		"Bioenergy",
		"Geothermal-energy",
		"Energy-efficiency",
		"Marine-energy",
	},
	CategoryEnvironment: {
		"Biodiversity",
		"Nature_conservation",
		"Other-environment-projects",
		"Sustainable-land-use",
	},
}

const (
	DonorTypeCountry      = "Donor Country"
	DonorTypeMultilateral = "Multilateral Donor"
	DonorTypePrivate      = "Private Donor"
)

var DonorTypes = []string{DonorTypeCountry, DonorTypeMultilateral, DonorTypePrivate}

var FlowTypes = []string{
	"ODA Grants",
	"ODA Loans",
	"Other Official Flows (non Export Credit)",
	"Private Development Finance",
	"Equity Investment",
}

// Reporting years covered by the dataset.
const (
	MinYear = 2000
	MaxYear = 2022
)

func IsDonorType(s string) bool {
	for _, dt := range DonorTypes {
		if dt == s {
			return true
		}
	}
	return false
}

// SubcategoriesOf returns the climate classes of the given categories in
// taxonomy order. Unknown categories contribute nothing.
func SubcategoriesOf(categories []string) []string {
	out := make([]string, 0)
	for _, c := range Categories {
		for _, selected := range categories {
			if string(c) == selected {
				out = append(out, Subcategories[c]...)
				break
			}
		}
	}
	return out
}
