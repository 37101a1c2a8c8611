package split

import (
	"errors"
	"math"
	"testing"

	"github.com/tidwall/assert"
	"github.com/tidwall/geojson/geometry"
	"github.com/tidwall/linesplit/internal/object"
)

func P(x, y float64) geometry.Point {
	return geometry.Point{X: x, Y: y}
}

func L(points ...geometry.Point) *geometry.Line {
	return geometry.NewLine(points, nil)
}

func expectPoints(t *testing.T, line *geometry.Line, points ...geometry.Point) {
	t.Helper()
	if !samePoints(object.Points(line), points) {
		t.Fatalf("expected %v, got %v", points, object.Points(line))
	}
}

func TestCrossing(t *testing.T) {
	res := Line(L(P(0, 0), P(10, 0)), []geometry.Point{P(5, -5), P(5, 5)}, nil)
	assert.Assert(res.Status == Split)
	assert.Assert(len(res.Fragments) == 2)
	expectPoints(t, res.Fragments[0], P(0, 0), P(5, 0))
	expectPoints(t, res.Fragments[1], P(5, 0), P(10, 0))
}

func TestNoIntersection(t *testing.T) {
	res := Line(L(P(0, 0), P(10, 0)), []geometry.Point{P(20, -5), P(20, 5)}, nil)
	assert.Assert(res.Status == Unchanged)
	assert.Assert(len(res.Fragments) == 0)
}

func TestEndpointTouch(t *testing.T) {
	target := L(P(0, 0), P(10, 0))
	for _, splitter := range [][]geometry.Point{
		{P(0, -5), P(0, 5)},
		{P(-5, -5), P(0, 0)},
		{P(10, 0), P(10, 5)},
	} {
		res := Line(target, splitter, nil)
		assert.Assert(res.Status == Unchanged)
	}
}

func TestOnlyFirstIntersection(t *testing.T) {
	// a zig-zag splitter that crosses the target at x=3 first, then x=7
	splitter := []geometry.Point{P(3, -5), P(3, 5), P(7, 5), P(7, -5)}
	res := Line(L(P(0, 0), P(10, 0)), splitter, nil)
	assert.Assert(res.Status == Split)
	assert.Assert(len(res.Fragments) == 2)
	expectPoints(t, res.Fragments[0], P(0, 0), P(3, 0))
	expectPoints(t, res.Fragments[1], P(3, 0), P(10, 0))

	// the remainder is split by the next call
	res = Line(res.Fragments[1], splitter, nil)
	assert.Assert(res.Status == Split)
	expectPoints(t, res.Fragments[0], P(3, 0), P(7, 0))
	expectPoints(t, res.Fragments[1], P(7, 0), P(10, 0))
}

func TestFirstAlongSplitterSegment(t *testing.T) {
	// the splitter segment crosses the target twice, the hit nearest to
	// the splitter start wins
	target := L(P(0, 0), P(10, 0), P(10, 10), P(0, 10))
	res := Line(target, []geometry.Point{P(5, 15), P(5, -5)}, nil)
	assert.Assert(res.Status == Split)
	expectPoints(t, res.Fragments[0], P(0, 0), P(10, 0), P(10, 10), P(5, 10))
	expectPoints(t, res.Fragments[1], P(5, 10), P(0, 10))
}

func TestSplitAtVertex(t *testing.T) {
	target := L(P(0, 0), P(5, 0), P(10, 0))
	res := Line(target, []geometry.Point{P(5, -5), P(5, 5)}, nil)
	assert.Assert(res.Status == Split)
	expectPoints(t, res.Fragments[0], P(0, 0), P(5, 0))
	expectPoints(t, res.Fragments[1], P(5, 0), P(10, 0))
}

func TestCollinearOverlap(t *testing.T) {
	res := Line(L(P(0, 0), P(10, 0)), []geometry.Point{P(4, 0), P(20, 0)}, nil)
	assert.Assert(res.Status == Split)
	expectPoints(t, res.Fragments[0], P(0, 0), P(4, 0))
	expectPoints(t, res.Fragments[1], P(4, 0), P(10, 0))

	// the overlapping remainder is only touched at its ends
	res = Line(res.Fragments[1], []geometry.Point{P(4, 0), P(20, 0)}, nil)
	assert.Assert(res.Status == Unchanged)
}

func TestError(t *testing.T) {
	res := Line(L(P(0, 0), P(10, 0)), []geometry.Point{P(math.NaN(), 0), P(5, 5)}, nil)
	assert.Assert(res.Status == Error)
	assert.Assert(errors.Is(res.Err, ErrGeometry))
}

func TestShortSplitter(t *testing.T) {
	res := Line(L(P(0, 0), P(10, 0)), []geometry.Point{P(5, 0)}, nil)
	assert.Assert(res.Status == Unchanged)
}

func TestParts(t *testing.T) {
	target := L(P(0, 0), P(10, 0))
	res := Parts(target, [][]geometry.Point{
		{P(20, -5), P(20, 5)},
		{P(5, -5), P(5, 5)},
	}, nil)
	assert.Assert(res.Status == Split)

	res = Parts(target, [][]geometry.Point{
		{P(math.Inf(1), 0), P(1, 1)},
		{P(20, -5), P(20, 5)},
	}, nil)
	assert.Assert(res.Status == Error)

	res = Parts(target, [][]geometry.Point{
		{P(math.Inf(1), 0), P(1, 1)},
		{P(5, -5), P(5, 5)},
	}, nil)
	assert.Assert(res.Status == Split)

	res = Parts(target, nil, nil)
	assert.Assert(res.Status == Unchanged)
}

func TestIntersections(t *testing.T) {
	hits, err := intersections(
		geometry.Segment{A: P(3, -5), B: P(3, 5)},
		geometry.Segment{A: P(0, 0), B: P(10, 0)},
	)
	assert.Assert(err == nil)
	assert.Assert(len(hits) == 1)
	assert.Assert(hits[0].p == P(3, 0))
	assert.Assert(hits[0].t == 0.5)

	// parallel
	hits, _ = intersections(
		geometry.Segment{A: P(0, 1), B: P(10, 1)},
		geometry.Segment{A: P(0, 0), B: P(10, 0)},
	)
	assert.Assert(len(hits) == 0)

	// collinear, disjoint
	hits, _ = intersections(
		geometry.Segment{A: P(20, 0), B: P(30, 0)},
		geometry.Segment{A: P(0, 0), B: P(10, 0)},
	)
	assert.Assert(len(hits) == 0)

	// collinear, overlapping
	hits, _ = intersections(
		geometry.Segment{A: P(-5, 0), B: P(5, 0)},
		geometry.Segment{A: P(0, 0), B: P(10, 0)},
	)
	assert.Assert(len(hits) == 2)
	assert.Assert(hits[0].overlap && hits[1].overlap)
}

// shallowCrossing returns a target and a splitter at UTM like
// coordinates that cross once, near the middle of both, at angle theta.
func shallowCrossing(i int, theta float64) (target, splitter []geometry.Point) {
	c := P(500000+float64(i)*37.5, 4000000+float64(i)*21.25)
	alpha := 0.7 + float64(i)*0.013
	at := func(length, angle float64) geometry.Point {
		return P(c.X+length*math.Cos(angle), c.Y+length*math.Sin(angle))
	}
	target = []geometry.Point{at(-1000, alpha), at(1000, alpha)}
	splitter = []geometry.Point{at(-800, alpha+theta), at(800, alpha+theta)}
	return target, splitter
}

func TestShallowCrossing(t *testing.T) {
	const n = 200
	for i := 0; i < n; i++ {
		theta := 1e-6 * math.Pow(1000, float64(i)/(n-1))
		target, splitter := shallowCrossing(i, theta)
		res := Line(L(target...), splitter, nil)
		if res.Status != Split || len(res.Fragments) != 2 {
			t.Fatalf("crossing %d (%g rad): expected 2 fragments, got %s %d",
				i, theta, res.Status, len(res.Fragments))
		}
		// the fragments only touch the splitter at the cut
		for _, frag := range res.Fragments {
			again := Line(frag, splitter, nil)
			if again.Status != Unchanged {
				t.Fatalf("crossing %d (%g rad): fragment %v split again into %d",
					i, theta, object.Points(frag), len(again.Fragments))
			}
		}
	}
}

func TestOnSplitter(t *testing.T) {
	s := geometry.Segment{A: P(500000, 4000000), B: P(501000, 4000000)}
	assert.Assert(onSplitter(P(500500, 4000000), s))
	assert.Assert(onSplitter(P(500500, 4000000.00000001), s))
	assert.Assert(!onSplitter(P(500500, 4000000.001), s))
	assert.Assert(!onSplitter(P(502000, 4000000), s))
}

func TestStatusString(t *testing.T) {
	assert.Assert(Unchanged.String() == "unchanged")
	assert.Assert(Split.String() == "split")
	assert.Assert(Error.String() == "error")
}
