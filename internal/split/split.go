// Package split cuts a line with the vertices of a splitting line.
//
// Only the first intersection met while walking the splitter is used per
// call. A line crossed several times is fully split by calling Line again
// on the resulting fragments.
package split

import (
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/geojson/geometry"
	"github.com/tidwall/linesplit/internal/object"
)

// ErrGeometry is returned when the coordinates cannot be split, such as
// when they are not finite numbers.
var ErrGeometry = errors.New("geometry exception while splitting")

// Status of a split.
type Status byte

const (
	// Unchanged means the splitter does not divide the target.
	Unchanged Status = iota
	// Split means the target was divided into two or more fragments.
	Split
	// Error means the split failed, the target should be kept as is.
	Error
)

func (s Status) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Split:
		return "split"
	case Error:
		return "error"
	}
	return "unknown"
}

// Result of a split. On Split the first fragment is what remains of the
// target, followed by the pieces cut from it.
type Result struct {
	Status    Status
	Fragments []*geometry.Line
	Err       error
}

// Line splits the target at the first intersection with the splitter
// vertices. A nil opts builds fragments without a segment index.
func Line(target *geometry.Line, splitter []geometry.Point,
	opts *geometry.IndexOptions,
) Result {
	before := object.Points(target)
	head, tail, ok, err := splitGeometry(before, splitter)
	if err != nil {
		return Result{Status: Error, Err: err}
	}
	if !ok || samePoints(head, before) {
		// a reported split that leaves the vertices untouched did not
		// divide anything
		return Result{Status: Unchanged}
	}
	if opts == nil {
		opts = &geometry.IndexOptions{Kind: geometry.None}
	}
	fragments := make([]*geometry.Line, 0, 1+len(tail))
	fragments = append(fragments, geometry.NewLine(head, opts))
	for _, points := range tail {
		fragments = append(fragments, geometry.NewLine(points, opts))
	}
	return Result{Status: Split, Fragments: fragments}
}

// Parts splits the target with the first splitter part that divides it.
// An error from one part is returned only when no other part splits.
func Parts(target *geometry.Line, parts [][]geometry.Point,
	opts *geometry.IndexOptions,
) Result {
	var failed Result
	for _, splitter := range parts {
		res := Line(target, splitter, opts)
		switch res.Status {
		case Split:
			return res
		case Error:
			if failed.Err == nil {
				failed = res
			}
		}
	}
	if failed.Err != nil {
		return failed
	}
	return Result{Status: Unchanged}
}

// splitGeometry cuts points at the first intersection found along the
// splitter. The head keeps the start of the line, tail holds the rest.
func splitGeometry(points, splitter []geometry.Point,
) (head []geometry.Point, tail [][]geometry.Point, ok bool, err error) {
	defer func() {
		if v := recover(); v != nil {
			head, tail, ok = nil, nil, false
			err = fmt.Errorf("%w: %v", ErrGeometry, v)
		}
	}()
	if !finite(points) || !finite(splitter) {
		return nil, nil, false, ErrGeometry
	}
	if len(points) < 2 || len(splitter) < 2 {
		return points, nil, false, nil
	}
	first, last := points[0], points[len(points)-1]
	for i := 0; i < len(splitter)-1; i++ {
		s := geometry.Segment{A: splitter[i], B: splitter[i+1]}
		var found bool
		var bestT float64
		var bestJ int
		var bestP geometry.Point
		// a line end lying on the splitter was cut there already, hits
		// next to it on the end segment are rounding noise
		firstOn := onSplitter(first, s)
		lastOn := onSplitter(last, s)
		for j := 0; j < len(points)-1; j++ {
			seg := geometry.Segment{A: points[j], B: points[j+1]}
			hits, err := intersections(s, seg)
			if err != nil {
				return nil, nil, false, fmt.Errorf("%w: %v", ErrGeometry, err)
			}
			for _, hit := range hits {
				if near(hit.p, first) || near(hit.p, last) {
					continue
				}
				if !hit.overlap && ((j == 0 && firstOn) ||
					(j == len(points)-2 && lastOn)) {
					continue
				}
				if !found || hit.t < bestT {
					found, bestT, bestJ, bestP = true, hit.t, j, hit.p
				}
			}
		}
		if found {
			head, rest := cutAt(points, bestJ, bestP)
			return head, [][]geometry.Point{rest}, true, nil
		}
	}
	return points, nil, false, nil
}

// cutAt cuts points at p which lies on segment j.
func cutAt(points []geometry.Point, j int, p geometry.Point,
) (head, rest []geometry.Point) {
	switch {
	case near(p, points[j]):
		head = append(head, points[:j+1]...)
		rest = append(rest, points[j:]...)
	case near(p, points[j+1]):
		head = append(head, points[:j+2]...)
		rest = append(rest, points[j+1:]...)
	default:
		head = append(head, points[:j+1]...)
		head = append(head, p)
		rest = append(rest, p)
		rest = append(rest, points[j+1:]...)
	}
	return head, rest
}

func finite(points []geometry.Point) bool {
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) ||
			math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}

func samePoints(a, b []geometry.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
