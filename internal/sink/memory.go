package sink

import (
	"github.com/tidwall/geojson"
	"github.com/tidwall/linesplit/internal/field"
)

// Feature is a feature kept by Memory.
type Feature struct {
	Line   *geojson.LineString
	Fields field.List
}

// Memory keeps features in a slice.
type Memory struct {
	Features []Feature
	Closed   bool
}

func (s *Memory) AddFeature(line *geojson.LineString, fields field.List) error {
	s.Features = append(s.Features, Feature{Line: line, Fields: fields})
	return nil
}

func (s *Memory) Close() error {
	s.Closed = true
	return nil
}
