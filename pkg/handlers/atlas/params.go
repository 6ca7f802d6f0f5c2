package atlas

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/climfin/finance-atlas/pkg/models/domain"
	"github.com/climfin/finance-atlas/pkg/services/dashboard"
)

// Defaults mirror the initial state of the dashboard controls.
const (
	defaultPerspective = domain.PerspectiveDonors
	defaultMode        = domain.ModeBase
	defaultSpan        = 2
)

func parseMapRequest(values url.Values) (dashboard.MapRequest, error) {
	perspective := defaultPerspective
	if v := values.Get("type"); v != "" {
		p, err := domain.ParsePerspective(v)
		if err != nil {
			return dashboard.MapRequest{}, err
		}
		perspective = p
	}

	mode := defaultMode
	if v := values.Get("mode"); v != "" {
		m, err := domain.ParseMode(v)
		if err != nil {
			return dashboard.MapRequest{}, err
		}
		mode = m
	}

	colorMode, err := domain.ParseColorMode(values.Get("color_mode"))
	if err != nil {
		return dashboard.MapRequest{}, err
	}

	filters, err := parseFilters(values)
	if err != nil {
		return dashboard.MapRequest{}, err
	}

	return dashboard.MapRequest{
		Perspective: perspective,
		Filters:     filters,
		Mode:        mode,
		ColorMode:   colorMode,
	}, nil
}

func parseFilters(values url.Values) (domain.Filters, error) {
	years, err := parseYears(values)
	if err != nil {
		return domain.Filters{}, err
	}
	return domain.Filters{
		Years:         years,
		Categories:    list(values, "categories"),
		Subcategories: list(values, "subcategories"),
		DonorTypes:    list(values, "donor_types"),
		FlowTypes:     list(values, "flow_types"),
	}, nil
}

// parseYears reads either a single year or a from/to range. Without either,
// the latest years of the dataset are selected.
func parseYears(values url.Values) (domain.YearSpec, error) {
	if v := values.Get("year"); v != "" {
		year, err := parseYear("year", v)
		if err != nil {
			return domain.YearSpec{}, err
		}
		return domain.SingleYear(year), nil
	}

	from, to := domain.MaxYear-defaultSpan, domain.MaxYear
	if v := values.Get("from"); v != "" {
		y, err := parseYear("from", v)
		if err != nil {
			return domain.YearSpec{}, err
		}
		from = y
	}
	if v := values.Get("to"); v != "" {
		y, err := parseYear("to", v)
		if err != nil {
			return domain.YearSpec{}, err
		}
		to = y
	}

	years := domain.YearRange(from, to)
	if err := years.Validate(); err != nil {
		return domain.YearSpec{}, err
	}
	return years, nil
}

func parseYear(name, v string) (int, error) {
	year, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a year", domain.ErrInvalidArgument, name, v)
	}
	return year, nil
}

// list accepts both repeated keys and comma-separated values.
func list(values url.Values, key string) []string {
	var out []string
	for _, raw := range values[key] {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
