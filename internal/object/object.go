package object

import (
	"github.com/tidwall/geojson"
	"github.com/tidwall/geojson/geometry"
	"github.com/tidwall/linesplit/internal/field"
)

// Object is a line feature of a layer. It is never modified once created.
type Object struct {
	id     int64
	geo    geojson.Object
	fields field.List
}

func New(id int64, geo geojson.Object, fields field.List) *Object {
	return &Object{
		id:     id,
		geo:    geo,
		fields: fields,
	}
}

func (o *Object) ID() int64 {
	if o == nil {
		return 0
	}
	return o.id
}

func (o *Object) Fields() field.List {
	if o == nil {
		return field.List{}
	}
	return o.fields
}

func (o *Object) Geo() geojson.Object {
	if o == nil || o.geo == nil {
		return nil
	}
	return o.geo
}

func (o *Object) Rect() geometry.Rect {
	if o == nil || o.geo == nil {
		return geometry.Rect{}
	}
	return o.geo.Rect()
}

func (o *Object) String() string {
	if o == nil || o.geo == nil {
		return ""
	}
	return o.geo.String()
}

// Empty returns true when the object has no line parts.
func (o *Object) Empty() bool {
	return len(o.Lines()) == 0
}

// Lines returns the line parts of the object geometry.
func (o *Object) Lines() []*geometry.Line {
	if o == nil {
		return nil
	}
	return Lines(o.geo)
}

// WithoutFields returns a copy of the object carrying no attributes.
func (o *Object) WithoutFields() *Object {
	return &Object{id: o.id, geo: o.geo}
}

// Lines returns the line parts of a LineString, MultiLineString or a
// Feature wrapping one of them. Other geometries have no line parts.
func Lines(geo geojson.Object) []*geometry.Line {
	switch g := geo.(type) {
	case *geojson.LineString:
		return []*geometry.Line{g.Base()}
	case *geojson.MultiLineString:
		var lines []*geometry.Line
		for _, child := range g.Children() {
			lines = append(lines, Lines(child)...)
		}
		return lines
	case *geojson.Feature:
		return Lines(g.Base())
	}
	return nil
}

// IsLinear returns true for the geometries Lines understands.
func IsLinear(geo geojson.Object) bool {
	switch g := geo.(type) {
	case *geojson.LineString, *geojson.MultiLineString:
		return true
	case *geojson.Feature:
		return IsLinear(g.Base())
	}
	return false
}

// Points returns a copy of the vertices of a line.
func Points(line *geometry.Line) []geometry.Point {
	if line == nil {
		return nil
	}
	points := make([]geometry.Point, line.NumPoints())
	for i := range points {
		points[i] = line.PointAt(i)
	}
	return points
}
