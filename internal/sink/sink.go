// Package sink writes split fragments to their destination.
package sink

import (
	"errors"
	"strings"

	"github.com/tidwall/geojson"
	"github.com/tidwall/linesplit/internal/field"
)

// GeometryType is the geometry type of every written feature.
const GeometryType = "LineString"

var errInvalidTarget = errors.New("invalid output target")

// Sink receives output features. Each feature is written once, failures
// are returned to the caller and never retried.
type Sink interface {
	AddFeature(line *geojson.LineString, fields field.List) error
	Close() error
}

// Options describe the layer a sink is created for.
type Options struct {
	// Schema of the input layer, written features carry these attributes
	// in this order.
	Schema field.Schema
	// CRS of the input layer.
	CRS string
	// Pretty indents GeoJSON output.
	Pretty bool
}

// Open opens a sink for a target:
//
//	path.geojson            GeoJSON FeatureCollection file, "-" for stdout
//	buntdb:path             buntdb database, "buntdb::memory:" in memory
//	tile38://host:port/key  Tile38 collection
func Open(target string, opts Options) (Sink, error) {
	switch {
	case target == "":
		return nil, errInvalidTarget
	case strings.HasPrefix(target, "buntdb:"):
		return OpenBuntDB(strings.TrimPrefix(target, "buntdb:"), opts)
	case strings.HasPrefix(target, "tile38://"):
		return DialTile38(target, opts)
	}
	return CreateGeoJSON(target, opts)
}

// properties returns the fields as a JSON object holding every schema
// attribute in schema order. Missing attributes are null.
func properties(schema field.Schema, fields field.List) string {
	if len(schema) == 0 {
		return fields.String()
	}
	var props field.List
	for _, desc := range schema {
		props = props.Set(field.New(desc.Name, fields.Get(desc.Name).Value()))
	}
	fields.Scan(func(f field.Field) bool {
		if schema.Index(f.Name()) < 0 {
			props = props.Set(f)
		}
		return true
	})
	return props.String()
}
