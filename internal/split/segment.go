package split

import (
	"math"

	"github.com/peterstace/simplefeatures/geom"
	"github.com/tidwall/geojson/geometry"
)

// relEpsilon is the relative distance under which two points are the same.
const relEpsilon = 1e-12

// relTolerance is the relative distance under which a line end is taken
// to lie on a splitter segment.
const relTolerance = 1e-11

type hit struct {
	p       geometry.Point
	t       float64 // position along the splitter segment, 0..1
	overlap bool    // end of a collinear overlap
}

func cross(a, b geometry.Point) float64 {
	return a.X*b.Y - a.Y*b.X
}

func sub(a, b geometry.Point) geometry.Point {
	return geometry.Point{X: a.X - b.X, Y: a.Y - b.Y}
}

func near(a, b geometry.Point) bool {
	if a == b {
		return true
	}
	scale := math.Max(1, math.Max(
		math.Max(math.Abs(a.X), math.Abs(a.Y)),
		math.Max(math.Abs(b.X), math.Abs(b.Y)),
	))
	eps := scale * relEpsilon
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

// intersections returns where the splitter segment s meets the target
// segment seg. Crossing segments meet at one point, collinear overlapping
// segments at both ends of the overlap.
func intersections(s, seg geometry.Segment) ([]hit, error) {
	if !s.Rect().IntersectsRect(seg.Rect()) {
		return nil, nil
	}
	ds := sub(s.B, s.A)
	dt := sub(seg.B, seg.A)
	w := sub(s.A, seg.A)
	d := cross(dt, ds)
	if d == 0 {
		if cross(w, dt) != 0 {
			// parallel
			return nil, nil
		}
		return overlap(s, seg), nil
	}
	un := cross(w, ds) // position along seg, times d
	vn := cross(w, dt) // position along s, times d
	u, v := un/d, vn/d
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return nil, nil
	}
	switch {
	case vn == 0:
		return []hit{{p: s.A, t: 0}}, nil
	case vn == d:
		return []hit{{p: s.B, t: 1}}, nil
	case un == 0:
		return []hit{{p: seg.A, t: v}}, nil
	case un == d:
		return []hit{{p: seg.B, t: v}}, nil
	}
	return crossing(s, seg)
}

// crossing returns the point where two segments cross in their interiors.
func crossing(s, seg geometry.Segment) ([]hit, error) {
	g, err := geom.Intersection(lineString(s), lineString(seg))
	if err != nil {
		return nil, err
	}
	var best []hit
	for _, xy := range collectXY(g, nil) {
		p := geometry.Point{X: xy.X, Y: xy.Y}
		t := position(p, s)
		if len(best) == 0 || t < best[0].t {
			best = []hit{{p: p, t: t}}
		}
	}
	return best, nil
}

func lineString(seg geometry.Segment) geom.Geometry {
	seq := geom.NewSequence([]float64{seg.A.X, seg.A.Y, seg.B.X, seg.B.Y},
		geom.DimXY)
	return geom.NewLineString(seq).AsGeometry()
}

// collectXY appends every vertex of g.
func collectXY(g geom.Geometry, xys []geom.XY) []geom.XY {
	switch g.Type() {
	case geom.TypePoint:
		if xy, ok := g.MustAsPoint().XY(); ok {
			xys = append(xys, xy)
		}
	case geom.TypeMultiPoint:
		mp := g.MustAsMultiPoint()
		for i := 0; i < mp.NumPoints(); i++ {
			if xy, ok := mp.PointN(i).XY(); ok {
				xys = append(xys, xy)
			}
		}
	case geom.TypeLineString:
		seq := g.MustAsLineString().Coordinates()
		for i := 0; i < seq.Length(); i++ {
			xys = append(xys, seq.GetXY(i))
		}
	case geom.TypeGeometryCollection:
		gc := g.MustAsGeometryCollection()
		for i := 0; i < gc.NumGeometries(); i++ {
			xys = collectXY(gc.GeometryN(i), xys)
		}
	}
	return xys
}

// position returns where p projects on s, 0 at s.A and 1 at s.B.
func position(p geometry.Point, s geometry.Segment) float64 {
	ds := sub(s.B, s.A)
	dd := ds.X*ds.X + ds.Y*ds.Y
	if dd == 0 {
		return 0
	}
	r := sub(p, s.A)
	return math.Max(0, math.Min(1, (r.X*ds.X+r.Y*ds.Y)/dd))
}

// distance returns the distance from p to the segment s.
func distance(p geometry.Point, s geometry.Segment) float64 {
	ds := sub(s.B, s.A)
	r := sub(p, s.A)
	t := position(p, s)
	return math.Hypot(r.X-t*ds.X, r.Y-t*ds.Y)
}

// onSplitter returns true when the line end p lies on the splitter
// segment s, within a tolerance scaled to the coordinates.
func onSplitter(p geometry.Point, s geometry.Segment) bool {
	scale := math.Max(1, math.Max(
		math.Max(math.Abs(p.X), math.Abs(p.Y)),
		math.Max(
			math.Max(math.Abs(s.A.X), math.Abs(s.A.Y)),
			math.Max(math.Abs(s.B.X), math.Abs(s.B.Y)),
		),
	))
	return distance(p, s) <= scale*relTolerance
}

// overlap handles collinear segments.
func overlap(s, seg geometry.Segment) []hit {
	ds := sub(s.B, s.A)
	dd := ds.X*ds.X + ds.Y*ds.Y
	if dd == 0 {
		// the splitter segment is a single point
		if onSegment(s.A, seg) {
			return []hit{{p: s.A, t: 0, overlap: true}}
		}
		return nil
	}
	var hits []hit
	add := func(p geometry.Point) {
		if cross(sub(p, s.A), ds) != 0 || !onSegment(p, s) || !onSegment(p, seg) {
			return
		}
		for _, h := range hits {
			if h.p == p {
				return
			}
		}
		r := sub(p, s.A)
		hits = append(hits, hit{p: p, t: (r.X*ds.X + r.Y*ds.Y) / dd,
			overlap: true})
	}
	add(s.A)
	add(s.B)
	add(seg.A)
	add(seg.B)
	return hits
}

// onSegment returns true when a point known to be collinear with the
// segment lies within its bounds.
func onSegment(p geometry.Point, seg geometry.Segment) bool {
	return p.X >= math.Min(seg.A.X, seg.B.X) && p.X <= math.Max(seg.A.X, seg.B.X) &&
		p.Y >= math.Min(seg.A.Y, seg.B.Y) && p.Y <= math.Max(seg.A.Y, seg.B.Y)
}
