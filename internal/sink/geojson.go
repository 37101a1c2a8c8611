package sink

import (
	"bufio"
	"io"
	"os"

	"github.com/tidwall/geojson"
	"github.com/tidwall/linesplit/internal/field"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// GeoJSON writes a FeatureCollection.
type GeoJSON struct {
	opts   Options
	wr     *bufio.Writer
	closer io.Closer
	count  int64
	err    error
	closed bool
}

// CreateGeoJSON creates or truncates the file at path. A path of "-"
// writes to stdout.
func CreateGeoJSON(path string, opts Options) (*GeoJSON, error) {
	if path == "-" {
		return NewGeoJSON(os.Stdout, nil, opts), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return NewGeoJSON(f, f, opts), nil
}

// NewGeoJSON writes to w. The closer, if not nil, is closed by Close.
func NewGeoJSON(w io.Writer, closer io.Closer, opts Options) *GeoJSON {
	return &GeoJSON{opts: opts, wr: bufio.NewWriter(w), closer: closer}
}

func (s *GeoJSON) header() string {
	head := `{"type":"FeatureCollection"}`
	if s.opts.CRS != "" {
		head, _ = sjson.Set(head, "crs.type", "name")
		head, _ = sjson.Set(head, "crs.properties.name", s.opts.CRS)
	}
	// drop the closing brace, features follow
	return head[:len(head)-1] + `,"features":[`
}

// AddFeature writes one feature.
func (s *GeoJSON) AddFeature(line *geojson.LineString, fields field.List) error {
	if s.err != nil {
		return s.err
	}
	feature := `{"type":"Feature"}`
	feature, _ = sjson.Set(feature, "id", s.count)
	feature, _ = sjson.SetRaw(feature, "geometry", line.JSON())
	feature, _ = sjson.SetRaw(feature, "properties", properties(s.opts.Schema, fields))
	out := []byte(feature)
	if s.opts.Pretty {
		out = pretty.Pretty(out)
		out = out[:len(out)-1]
	}
	if s.count == 0 {
		_, s.err = s.wr.WriteString(s.header())
	} else {
		s.err = s.wr.WriteByte(',')
	}
	if s.err == nil {
		_, s.err = s.wr.Write(out)
	}
	if s.err != nil {
		return s.err
	}
	s.count++
	return nil
}

// Count returns the number of features written.
func (s *GeoJSON) Count() int64 {
	return s.count
}

// Close ends the collection and closes the file.
func (s *GeoJSON) Close() error {
	if s.closed {
		return s.err
	}
	s.closed = true
	if s.err == nil {
		if s.count == 0 {
			_, s.err = s.wr.WriteString(s.header())
		}
		if s.err == nil {
			_, s.err = s.wr.WriteString("]}\n")
		}
		if s.err == nil {
			s.err = s.wr.Flush()
		}
	}
	if s.closer != nil {
		if err := s.closer.Close(); err != nil && s.err == nil {
			s.err = err
		}
		s.closer = nil
	}
	return s.err
}
