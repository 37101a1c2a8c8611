package sink

import (
	"strconv"

	"github.com/tidwall/buntdb"
	"github.com/tidwall/geojson"
	"github.com/tidwall/linesplit/internal/field"
	"github.com/tidwall/sjson"
)

// BuntDB keys
const (
	buntFragmentPrefix = "fragment:"
	buntRectPrefix     = "rect:"
	buntMetaCRS        = "meta:crs"
	buntMetaFields     = "meta:fields"
	buntMetaGeomType   = "meta:geometry_type"
	buntSpatialIndex   = "fragments"
)

// BuntDB stores each fragment as a GeoJSON feature keyed by its sequence
// number, along with a spatially indexed bounding rectangle.
type BuntDB struct {
	db    *buntdb.DB
	opts  Options
	count int64
}

// OpenBuntDB opens the database at path, use ":memory:" for a database
// that is not persisted.
func OpenBuntDB(path string, opts Options) (*BuntDB, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.CreateSpatialIndex(buntSpatialIndex, buntRectPrefix+"*",
		buntdb.IndexRect); err != nil {
		db.Close()
		return nil, err
	}
	s := &BuntDB{db: db, opts: opts}
	err = db.Update(func(tx *buntdb.Tx) error {
		names := `[]`
		for _, desc := range opts.Schema {
			names, _ = sjson.Set(names, "-1", desc.Name)
		}
		if _, _, err := tx.Set(buntMetaFields, names, nil); err != nil {
			return err
		}
		if _, _, err := tx.Set(buntMetaCRS, opts.CRS, nil); err != nil {
			return err
		}
		_, _, err := tx.Set(buntMetaGeomType, GeometryType, nil)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func fragmentKey(n int64) string {
	return buntFragmentPrefix + strconv.FormatInt(n, 10)
}

// AddFeature stores one feature and its rectangle in a single transaction.
func (s *BuntDB) AddFeature(line *geojson.LineString, fields field.List) error {
	feature := `{"type":"Feature"}`
	feature, _ = sjson.Set(feature, "id", s.count)
	feature, _ = sjson.SetRaw(feature, "geometry", line.JSON())
	feature, _ = sjson.SetRaw(feature, "properties", properties(s.opts.Schema, fields))
	rect := line.Rect()
	err := s.db.Update(func(tx *buntdb.Tx) error {
		if _, _, err := tx.Set(fragmentKey(s.count), feature, nil); err != nil {
			return err
		}
		n := strconv.FormatInt(s.count, 10)
		_, _, err := tx.Set(buntRectPrefix+n, buntdb.Rect(
			[]float64{rect.Min.X, rect.Min.Y},
			[]float64{rect.Max.X, rect.Max.Y},
		), nil)
		return err
	})
	if err != nil {
		return err
	}
	s.count++
	return nil
}

// Count returns the number of features written.
func (s *BuntDB) Count() int64 {
	return s.count
}

// Close closes the database.
func (s *BuntDB) Close() error {
	return s.db.Close()
}
