package domain

import "fmt"

// YearSpec is an inclusive year range; From == To selects a single year.
type YearSpec struct {
	From int
	To   int
}

func SingleYear(year int) YearSpec {
	return YearSpec{From: year, To: year}
}

func YearRange(from, to int) YearSpec {
	return YearSpec{From: from, To: to}
}

func (y YearSpec) IsSingle() bool {
	return y.From == y.To
}

func (y YearSpec) Validate() error {
	if y.From > y.To {
		return fmt.Errorf("%w: year range %d-%d is reversed", ErrInvalidArgument, y.From, y.To)
	}
	return nil
}

func (y YearSpec) String() string {
	if y.IsSingle() {
		return fmt.Sprintf("%d", y.From)
	}
	return fmt.Sprintf("%d-%d", y.From, y.To)
}

// Filters is the user's filter selection. Empty lists do not filter.
type Filters struct {
	Years         YearSpec
	Categories    []string
	Subcategories []string
	DonorTypes    []string
	FlowTypes     []string
}
