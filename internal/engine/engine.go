// Package engine answers repeated intersection tests of one subject
// geometry against many candidates. The subject segments are indexed once
// when the engine is prepared.
package engine

import (
	"fmt"

	"github.com/tidwall/geojson/geometry"
	"github.com/tidwall/linesplit/internal/object"
)

// DefaultOptions index every subject line with at least 16 points.
var DefaultOptions = &geometry.IndexOptions{
	Kind:      geometry.QuadTree,
	MinPoints: 16,
}

// Engine is a prepared subject geometry.
type Engine struct {
	lines []*geometry.Line
	rect  geometry.Rect
}

// Prepare builds an engine over the subject line parts. A nil opts uses
// DefaultOptions.
func Prepare(parts []*geometry.Line, opts *geometry.IndexOptions) *Engine {
	if opts == nil {
		opts = DefaultOptions
	}
	e := &Engine{lines: make([]*geometry.Line, 0, len(parts))}
	for _, part := range parts {
		if part == nil || part.NumPoints() == 0 {
			continue
		}
		line := geometry.NewLine(object.Points(part), opts)
		if len(e.lines) == 0 {
			e.rect = line.Rect()
		} else {
			e.rect = union(e.rect, line.Rect())
		}
		e.lines = append(e.lines, line)
	}
	return e
}

// Rect returns the bounding rectangle of the subject.
func (e *Engine) Rect() geometry.Rect {
	return e.rect
}

// Intersects returns true when any of the candidate parts touches or
// crosses the subject.
func (e *Engine) Intersects(parts ...*geometry.Line) bool {
	if len(e.lines) == 0 {
		return false
	}
	for _, part := range parts {
		if part == nil || part.NumPoints() == 0 {
			continue
		}
		if !part.Rect().IntersectsRect(e.rect) {
			continue
		}
		n := part.NumSegments()
		if n == 0 {
			p := part.PointAt(0)
			if e.intersectsSegment(geometry.Segment{A: p, B: p}) {
				return true
			}
			continue
		}
		for i := 0; i < n; i++ {
			if e.intersectsSegment(part.SegmentAt(i)) {
				return true
			}
		}
	}
	return false
}

func (e *Engine) intersectsSegment(seg geometry.Segment) bool {
	rect := seg.Rect()
	if !rect.IntersectsRect(e.rect) {
		return false
	}
	var hit bool
	for _, line := range e.lines {
		if !line.Rect().IntersectsRect(rect) {
			continue
		}
		line.Search(rect, func(other geometry.Segment, _ int) bool {
			if other.IntersectsSegment(seg) {
				hit = true
				return false
			}
			return true
		})
		if hit {
			return true
		}
	}
	return false
}

func union(a, b geometry.Rect) geometry.Rect {
	if b.Min.X < a.Min.X {
		a.Min.X = b.Min.X
	}
	if b.Min.Y < a.Min.Y {
		a.Min.Y = b.Min.Y
	}
	if b.Max.X > a.Max.X {
		a.Max.X = b.Max.X
	}
	if b.Max.Y > a.Max.Y {
		a.Max.Y = b.Max.Y
	}
	return a
}

// Options returns index options for a kind name, one of "None", "RTree"
// or "QuadTree", and the minimum number of points to index.
func Options(kind string, minPoints int) (*geometry.IndexOptions, error) {
	opts := &geometry.IndexOptions{MinPoints: minPoints}
	switch kind {
	case "", "QuadTree":
		opts.Kind = geometry.QuadTree
	case "RTree":
		opts.Kind = geometry.RTree
	case "None":
		opts.Kind = geometry.None
	default:
		return nil, fmt.Errorf("unknown index kind: %s", kind)
	}
	return opts, nil
}
