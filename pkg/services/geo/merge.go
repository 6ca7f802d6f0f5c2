package geo

import (
	"fmt"

	"github.com/climfin/finance-atlas/pkg/models/domain"
	"github.com/climfin/finance-atlas/pkg/services/pipeline"
	"github.com/paulmach/orb/geojson"
)

// Merge attaches the table's per-country values to a private copy of base.
//
// In base mode the copy is returned as is. In every other mode features
// without a value are dropped and the rest get properties.value. base is
// never modified.
func Merge(table pipeline.ModeTable, base *Geography) (*geojson.FeatureCollection, error) {
	switch table.Mode {
	case domain.ModeBase:
		return base.Copy(), nil
	case domain.ModeTotal, domain.ModeRioOECD, domain.ModeRioClimFinBERT, domain.ModeRioDiff:
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMode, table.Mode)
	}

	values := table.CountryValues()
	fc := base.Copy()

	kept := fc.Features[:0]
	for _, f := range fc.Features {
		id, _ := FeatureID(f)
		v, ok := values[id]
		if !ok {
			continue
		}
		f.Properties[ValueProperty] = v
		kept = append(kept, f)
	}
	for i := len(kept); i < len(fc.Features); i++ {
		fc.Features[i] = nil
	}
	fc.Features = kept
	return fc, nil
}

// Value reads the merged value of a feature.
func Value(f *geojson.Feature) (float64, bool) {
	v, ok := f.Properties[ValueProperty].(float64)
	return v, ok
}
