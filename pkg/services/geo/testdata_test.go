package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/require"
)

const worldJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "USA", "properties": {"name": "United States of America"},
     "geometry": {"type": "Polygon", "coordinates": [[[-125,25],[-66,25],[-66,49],[-125,49],[-125,25]]]}},
    {"type": "Feature", "id": "DEU", "properties": {"name": "Germany"},
     "geometry": {"type": "Polygon", "coordinates": [[[6,47],[15,47],[15,55],[6,55],[6,47]]]}},
    {"type": "Feature", "id": "FRA", "properties": {"name": "France"},
     "geometry": {"type": "Polygon", "coordinates": [[[-5,42],[8,42],[8,51],[-5,51],[-5,42]]]}}
  ]
}`

func square(x, y float64) orb.Polygon {
	return orb.Polygon{orb.Ring{{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y}}}
}

func feature(id any, name string, x float64) *geojson.Feature {
	f := geojson.NewFeature(square(x, 0))
	f.ID = id
	f.Properties["name"] = name
	return f
}

func testGeography(t *testing.T) *Geography {
	t.Helper()
	g, err := Parse([]byte(worldJSON))
	require.NoError(t, err)
	return g
}
