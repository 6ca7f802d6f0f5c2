package geo

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ValueProperty is the feature property the merger writes.
const ValueProperty = "value"

var (
	ErrInvalidGeography = errors.New("invalid geography")
	ErrDuplicateID      = fmt.Errorf("%w: duplicate feature id", ErrInvalidGeography)
)

// Geography is the base country geography shared by every request. It is
// never mutated after New returns; callers that need to attach values work
// on Copy.
type Geography struct {
	collection *geojson.FeatureCollection
	names      map[string]string
}

// New validates fc and keeps a private deep copy of it. Every feature must
// carry a unique, non-empty string id.
func New(fc *geojson.FeatureCollection) (*Geography, error) {
	if fc == nil {
		return nil, fmt.Errorf("%w: nil feature collection", ErrInvalidGeography)
	}

	names := make(map[string]string, len(fc.Features))
	for i, f := range fc.Features {
		if f == nil {
			return nil, fmt.Errorf("%w: feature %d is null", ErrInvalidGeography, i)
		}
		id, ok := FeatureID(f)
		if !ok {
			return nil, fmt.Errorf("%w: feature %d has no string id", ErrInvalidGeography, i)
		}
		if _, dup := names[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		names[id] = f.Properties.MustString("name", "")
	}

	return &Geography{collection: cloneCollection(fc), names: names}, nil
}

// Parse decodes a GeoJSON FeatureCollection document and validates it.
func Parse(data []byte) (*Geography, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeography, err)
	}
	return New(fc)
}

// Copy returns a deep copy of the base collection.
func (g *Geography) Copy() *geojson.FeatureCollection {
	return cloneCollection(g.collection)
}

func (g *Geography) Len() int {
	return len(g.collection.Features)
}

// Name returns the display name of the feature with the given id.
func (g *Geography) Name(id string) (string, bool) {
	name, ok := g.names[id]
	return name, ok
}

// IDs lists feature ids in collection order.
func (g *Geography) IDs() []string {
	ids := make([]string, 0, len(g.collection.Features))
	for _, f := range g.collection.Features {
		id, _ := FeatureID(f)
		ids = append(ids, id)
	}
	return ids
}

// FeatureID reports the feature's id when it is a non-empty string.
func FeatureID(f *geojson.Feature) (string, bool) {
	id, ok := f.ID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

func cloneCollection(fc *geojson.FeatureCollection) *geojson.FeatureCollection {
	out := &geojson.FeatureCollection{
		Type:         fc.Type,
		BBox:         cloneBBox(fc.BBox),
		Features:     make([]*geojson.Feature, 0, len(fc.Features)),
		ExtraMembers: fc.ExtraMembers.Clone(),
	}
	for _, f := range fc.Features {
		out.Features = append(out.Features, cloneFeature(f))
	}
	return out
}

func cloneFeature(f *geojson.Feature) *geojson.Feature {
	out := &geojson.Feature{
		ID:         f.ID,
		Type:       f.Type,
		BBox:       cloneBBox(f.BBox),
		Properties: f.Properties.Clone(),
	}
	if f.Geometry != nil {
		out.Geometry = orb.Clone(f.Geometry)
	}
	if out.Properties == nil {
		out.Properties = geojson.Properties{}
	}
	return out
}

func cloneBBox(b geojson.BBox) geojson.BBox {
	if b == nil {
		return nil
	}
	return append(geojson.BBox(nil), b...)
}
