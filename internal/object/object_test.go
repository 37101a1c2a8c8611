package object

import (
	"testing"

	"github.com/tidwall/assert"
	"github.com/tidwall/geojson"
	"github.com/tidwall/geojson/geometry"
	"github.com/tidwall/linesplit/internal/field"
)

func L(points ...geometry.Point) *geometry.Line {
	return geometry.NewLine(points, nil)
}

func TestObject(t *testing.T) {
	ls := geojson.NewLineString(L(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}))
	o := New(7, ls, field.NewList(field.Make("name", "A")))
	assert.Assert(o.ID() == 7)
	assert.Assert(o.Fields().Get("name").Value().Data() == "A")
	assert.Assert(o.Rect().Max.X == 10)
	assert.Assert(len(o.Lines()) == 1)
	assert.Assert(!o.Empty())
	assert.Assert(o.WithoutFields().Fields().Len() == 0)
	assert.Assert(o.WithoutFields().ID() == 7)
}

func TestNilObject(t *testing.T) {
	var o *Object
	assert.Assert(o.ID() == 0)
	assert.Assert(o.Geo() == nil)
	assert.Assert(o.Fields().Len() == 0)
	assert.Assert(o.Lines() == nil)
	assert.Assert(o.String() == "")
}

func TestLines(t *testing.T) {
	a := L(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 1, Y: 1})
	b := L(geometry.Point{X: 5, Y: 5}, geometry.Point{X: 6, Y: 6})
	mls := geojson.NewMultiLineString([]*geometry.Line{a, b})
	assert.Assert(len(Lines(mls)) == 2)
	assert.Assert(len(Lines(geojson.NewFeature(mls, ""))) == 2)
	assert.Assert(IsLinear(mls))
	pt := geojson.NewPoint(geometry.Point{X: 1, Y: 1})
	assert.Assert(len(Lines(pt)) == 0)
	assert.Assert(!IsLinear(pt))
	assert.Assert(New(1, pt, field.List{}).Empty())
}
