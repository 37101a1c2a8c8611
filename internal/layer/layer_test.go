package layer

import (
	"errors"
	"strings"
	"testing"

	"github.com/tidwall/assert"
	"github.com/tidwall/geojson"
	"github.com/tidwall/geojson/geometry"
	"github.com/tidwall/linesplit/internal/field"
	"github.com/tidwall/linesplit/internal/object"
)

const roads = `{
	"type": "FeatureCollection",
	"crs": {"type": "name", "properties": {"name": "EPSG:3857"}},
	"features": [
		{"type": "Feature", "id": 10, "properties": {"name": "A", "lanes": 2},
		 "geometry": {"type": "LineString", "coordinates": [[0,0],[10,0]]}},
		{"type": "Feature", "properties": {"name": "B"},
		 "geometry": {"type": "LineString", "coordinates": [[5,-5],[5,5]]}},
		{"type": "Feature", "properties": {"name": "C"}, "geometry": null},
		{"type": "Feature", "properties": {"name": "D", "ref": "M1"},
		 "geometry": {"type": "MultiLineString",
		 "coordinates": [[[20,-5],[20,5]],[[30,-5],[30,5]]]}}
	]
}`

func load(t *testing.T, json string) *Layer {
	t.Helper()
	l, err := Load("roads.geojson", strings.NewReader(json), nil)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func R(minX, minY, maxX, maxY float64) geometry.Rect {
	return geometry.Rect{
		Min: geometry.Point{X: minX, Y: minY},
		Max: geometry.Point{X: maxX, Y: maxY},
	}
}

func TestLoad(t *testing.T) {
	l := load(t, roads)
	assert.Assert(l.Name() == "roads.geojson")
	assert.Assert(l.CRS() == "EPSG:3857")
	assert.Assert(l.Count() == 3)
	assert.Assert(l.Get(10).Fields().Get("name").Value().Data() == "A")
	assert.Assert(l.Get(1).Fields().Get("name").Value().Data() == "B")
	assert.Assert(l.Get(2) == nil)
	assert.Assert(len(l.Get(3).Lines()) == 2)
	assert.Assert(l.PointCount() == 8)
	assert.Assert(strings.Join(l.Fields().Names(), ",") == "name,lanes,ref")

	var ids []int64
	l.Iterate(func(obj *object.Object) bool {
		ids = append(ids, obj.ID())
		return true
	})
	assert.Assert(len(ids) == 3)
	assert.Assert(ids[0] == 1 && ids[1] == 3 && ids[2] == 10)
}

func TestLoadSingle(t *testing.T) {
	l := load(t, `{"type":"Feature","properties":{"a":1},
		"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}}`)
	assert.Assert(l.Count() == 1)
	assert.Assert(l.CRS() == "")
	l = load(t, `{"type":"LineString","coordinates":[[0,0],[1,1]]}`)
	assert.Assert(l.Count() == 1)
	assert.Assert(l.Get(0).Fields().Len() == 0)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("x", strings.NewReader(`{"type":`), nil)
	assert.Assert(errors.Is(err, errInvalidGeoJSON))
	_, err = Load("x", strings.NewReader(`{"type":"Point","coordinates":[1,1]}`), nil)
	assert.Assert(errors.Is(err, errNotLineLayer))
	_, err = Load("x", strings.NewReader(`{"type":"FeatureCollection","features":[
		{"type":"Feature","id":1,"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}},
		{"type":"Feature","id":1,"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}}
	]}`), nil)
	assert.Assert(errors.Is(err, errDuplicateID))
	_, err = LoadFile("testdata/does-not-exist.geojson", nil)
	assert.Assert(err != nil)
}

func TestSpatialIndex(t *testing.T) {
	l := load(t, roads)
	ix := l.SpatialIndex()
	assert.Assert(ix.Len() == 3)
	assert.Assert(ix == l.SpatialIndex())
	ids := ix.Query(R(0, 0, 10, 0))
	assert.Assert(len(ids) == 2)
	assert.Assert(len(ix.Query(R(100, 100, 101, 101))) == 0)
	assert.Assert(l.Bounds() == R(0, -5, 30, 5))

	// adding a feature rebuilds the index
	l.Set(object.New(99, geojson.NewLineString(geometry.NewLine(
		[]geometry.Point{{X: 100, Y: 100}, {X: 101, Y: 101}}, nil)), field.List{}))
	assert.Assert(len(l.SpatialIndex().Query(R(100, 100, 101, 101))) == 1)
}

func TestEmptyLayerIndex(t *testing.T) {
	l := New("empty", "")
	assert.Assert(l.SpatialIndex().Len() == 0)
	assert.Assert(len(l.SpatialIndex().Query(R(-1e9, -1e9, 1e9, 1e9))) == 0)
}

func TestFetchByIDs(t *testing.T) {
	l := load(t, roads)
	objs := l.FetchByIDs([]int64{10, 1, 10, 42}, false)
	assert.Assert(len(objs) == 2)
	assert.Assert(objs[0].ID() == 1 && objs[1].ID() == 10)
	assert.Assert(objs[0].Fields().Len() == 0)
	assert.Assert(len(objs[1].Lines()) == 1)

	objs = l.FetchByIDs([]int64{10}, true)
	assert.Assert(objs[0].Fields().Get("lanes").Value().Num() == 2)
}
