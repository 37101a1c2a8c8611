package layer

import (
	"sort"

	"github.com/tidwall/btree"
	"github.com/tidwall/geojson/geometry"
	"github.com/tidwall/hashmap"
	"github.com/tidwall/linesplit/internal/field"
	"github.com/tidwall/linesplit/internal/index"
	"github.com/tidwall/linesplit/internal/object"
)

// Layer is an in-memory vector line layer.
type Layer struct {
	name    string
	crs     string
	schema  field.Schema
	objs    btree.Map[int64, *object.Object] // sorted by id
	spatial *index.Index                     // built on first use
	points  int
}

// New creates an empty layer
func New(name, crs string) *Layer {
	return &Layer{name: name, crs: crs}
}

// Name returns the name of the layer, usually the path it was read from.
func (l *Layer) Name() string {
	return l.name
}

// CRS returns the coordinate reference system name, or an empty string
// when the source did not declare one.
func (l *Layer) CRS() string {
	return l.crs
}

// Fields returns the attribute schema of the layer.
func (l *Layer) Fields() field.Schema {
	return l.schema
}

// Count returns the number of features in the layer.
func (l *Layer) Count() int {
	return l.objs.Len()
}

// PointCount returns the number of vertices in the layer.
func (l *Layer) PointCount() int {
	return l.points
}

// Set adds or replaces a feature and returns the previous one. The spatial
// index is rebuilt on the next call to SpatialIndex.
func (l *Layer) Set(obj *object.Object) (prev *object.Object) {
	prev, _ = l.objs.Set(obj.ID(), obj)
	if prev != nil {
		l.points -= prev.Geo().NumPoints()
	}
	l.points += obj.Geo().NumPoints()
	l.schema = l.schema.Merge(obj.Fields())
	l.spatial = nil
	return prev
}

// Get returns a feature.
// If the feature does not exist then nil is returned.
func (l *Layer) Get(id int64) *object.Object {
	obj, _ := l.objs.Get(id)
	return obj
}

// Iterate calls iter for every feature in ascending id order until iter
// returns false.
func (l *Layer) Iterate(iter func(obj *object.Object) bool) bool {
	keepon := true
	l.objs.Scan(func(_ int64, obj *object.Object) bool {
		keepon = iter(obj)
		return keepon
	})
	return keepon
}

// SpatialIndex returns the index of all non-empty feature geometries.
func (l *Layer) SpatialIndex() *index.Index {
	if l.spatial == nil {
		items := make([]index.Item, 0, l.objs.Len())
		l.objs.Scan(func(id int64, obj *object.Object) bool {
			if !obj.Empty() {
				items = append(items, index.Item{ID: id, Rect: obj.Rect()})
			}
			return true
		})
		l.spatial = index.Load(items)
	}
	return l.spatial
}

// Bounds returns the bounding rectangle of all features.
func (l *Layer) Bounds() geometry.Rect {
	return l.SpatialIndex().Bounds()
}

// FetchByIDs returns the features with the provided ids in ascending id
// order. Unknown and repeated ids are ignored. When withFields is false the
// returned features carry no attributes.
func (l *Layer) FetchByIDs(ids []int64, withFields bool) []*object.Object {
	seen := hashmap.New[int64, struct{}](len(ids))
	objs := make([]*object.Object, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen.Get(id); ok {
			continue
		}
		seen.Set(id, struct{}{})
		obj := l.Get(id)
		if obj == nil {
			continue
		}
		if !withFields {
			obj = obj.WithoutFields()
		}
		objs = append(objs, obj)
	}
	sort.Slice(objs, func(i, j int) bool {
		return objs[i].ID() < objs[j].ID()
	})
	return objs
}
