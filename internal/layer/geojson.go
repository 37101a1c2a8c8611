package layer

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/geojson"
	"github.com/tidwall/gjson"
	"github.com/tidwall/linesplit/internal/field"
	"github.com/tidwall/linesplit/internal/log"
	"github.com/tidwall/linesplit/internal/object"
)

var (
	errInvalidGeoJSON = errors.New("invalid geojson")
	errNotLineLayer   = errors.New("not a line layer")
	errDuplicateID    = errors.New("duplicate feature id")
)

// LoadFile reads a GeoJSON file into a layer named by its path.
func LoadFile(path string, opts *geojson.ParseOptions) (*Layer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(path, f, opts)
}

// Load reads a GeoJSON FeatureCollection, Feature or bare line geometry.
//
// Features with an integer "id" keep it. Others are numbered by their
// position in the collection. Features without a geometry are skipped.
func Load(name string, r io.Reader, opts *geojson.ParseOptions) (*Layer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	json := string(data)
	if !gjson.Valid(json) {
		return nil, fmt.Errorf("%s: %w", name, errInvalidGeoJSON)
	}
	if opts == nil {
		opts = geojson.DefaultParseOptions
	}
	l := New(name, gjson.Get(json, "crs.properties.name").String())
	switch gjson.Get(json, "type").String() {
	case "FeatureCollection":
		var i int64
		gjson.Get(json, "features").ForEach(func(_, feature gjson.Result) bool {
			err = l.loadFeature(i, feature, opts)
			i++
			return err == nil
		})
	case "Feature":
		err = l.loadFeature(0, gjson.Parse(json), opts)
	default:
		err = l.loadGeometry(0, json, field.List{}, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return l, nil
}

func (l *Layer) loadFeature(pos int64, feature gjson.Result,
	opts *geojson.ParseOptions,
) error {
	id := pos
	if fid := feature.Get("id"); fid.Type == gjson.Number &&
		float64(fid.Int()) == fid.Num {
		id = fid.Int()
	}
	geom := feature.Get("geometry")
	if !geom.Exists() || geom.Type == gjson.Null {
		log.Warnf("%s: feature %d has no geometry, skipped", l.name, id)
		return nil
	}
	return l.loadGeometry(id, geom.Raw,
		field.ParseJSON(feature.Get("properties").Raw), opts)
}

func (l *Layer) loadGeometry(id int64, raw string, fields field.List,
	opts *geojson.ParseOptions,
) error {
	geo, err := geojson.Parse(raw, opts)
	if err != nil {
		return fmt.Errorf("feature %d: %w", id, err)
	}
	if !object.IsLinear(geo) {
		return fmt.Errorf("feature %d: %w", id, errNotLineLayer)
	}
	if l.Get(id) != nil {
		return fmt.Errorf("feature %d: %w", id, errDuplicateID)
	}
	l.Set(object.New(id, geo, fields))
	return nil
}
