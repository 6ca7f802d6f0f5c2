package domain

import (
	"fmt"
	"strings"
)

type Perspective string

const (
	PerspectiveDonors     Perspective = "donors"
	PerspectiveRecipients Perspective = "recipients"
)

func ParsePerspective(s string) (Perspective, error) {
	switch p := Perspective(s); p {
	case PerspectiveDonors, PerspectiveRecipients:
		return p, nil
	}
	return "", fmt.Errorf("%w: perspective %q, expected %q or %q",
		ErrInvalidArgument, s, PerspectiveDonors, PerspectiveRecipients)
}

// Mode selects how flows are aggregated and colored on the map.
type Mode string

const (
	ModeBase           Mode = "base"
	ModeTotal          Mode = "total"
	ModeRioOECD        Mode = "rio_oecd"
	ModeRioClimFinBERT Mode = "rio_climfinbert"
	ModeRioDiff        Mode = "rio_diff"
)

var Modes = []Mode{ModeBase, ModeTotal, ModeRioOECD, ModeRioClimFinBERT, ModeRioDiff}

func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q, expected one of %s", ErrInvalidMode, s, joinModes())
}

func (m Mode) Label() string {
	switch m {
	case ModeBase:
		return "Base"
	case ModeTotal:
		return "Total Flows"
	case ModeRioOECD:
		return "OECD Rio Markers"
	case ModeRioClimFinBERT:
		return "ClimateFinanceBERT Predictions"
	case ModeRioDiff:
		return "Difference"
	}
	return string(m)
}

func joinModes() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

type ColorMode string

const (
	ColorContinuous ColorMode = "continuous"
	ColorQuartile   ColorMode = "quartile"
)

func ParseColorMode(s string) (ColorMode, error) {
	switch c := ColorMode(s); c {
	case ColorContinuous, ColorQuartile:
		return c, nil
	case "":
		return ColorContinuous, nil
	}
	return "", fmt.Errorf("%w: color mode %q, expected %q or %q",
		ErrInvalidArgument, s, ColorContinuous, ColorQuartile)
}

// Category is a top-level (meta) climate finance category.
type Category string

const (
	CategoryAdaptation  Category = "Adaptation"
	CategoryMitigation  Category = "Mitigation"
	CategoryEnvironment Category = "Environment"
)
