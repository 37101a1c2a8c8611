package index

import (
	"github.com/tidwall/geojson/geometry"
	"github.com/tidwall/rtree"
)

// Index is a spatial index of feature ids by bounding rectangle.
// Queries never miss an item whose rectangle overlaps the query.
type Index struct {
	r      rtree.RTreeGN[float32, int64]
	count  int
	bounds geometry.Rect
}

// Item is an entry for Load.
type Item struct {
	ID   int64
	Rect geometry.Rect
}

// New create a new index
func New() *Index {
	return &Index{}
}

// Load creates an index holding the items, inserted one at a time since
// the rtree has no bulk loader.
func Load(items []Item) *Index {
	ix := New()
	for _, item := range items {
		ix.Insert(item.ID, item.Rect)
	}
	return ix
}

// Insert inserts an item into the index
func (ix *Index) Insert(id int64, rect geometry.Rect) {
	min, max := rtreeRect(rect)
	ix.r.Insert(min, max, id)
	if ix.count == 0 {
		ix.bounds = rect
	} else {
		ix.bounds = expand(ix.bounds, rect)
	}
	ix.count++
}

// Len counts all items in the index.
func (ix *Index) Len() int {
	return ix.count
}

// Bounds returns the minimum bounding rectangle of all items in the index.
func (ix *Index) Bounds() geometry.Rect {
	return ix.bounds
}

// Search iterates over the ids of all items that intersect the rectangle.
func (ix *Index) Search(rect geometry.Rect, iter func(id int64) bool) bool {
	if ix == nil || ix.count == 0 {
		return true
	}
	alive := true
	min, max := rtreeRect(rect)
	ix.r.Search(min, max, func(_, _ [2]float32, id int64) bool {
		alive = iter(id)
		return alive
	})
	return alive
}

// Query returns the ids of all items that intersect the rectangle.
func (ix *Index) Query(rect geometry.Rect) []int64 {
	var ids []int64
	ix.Search(rect, func(id int64) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}

func expand(a, b geometry.Rect) geometry.Rect {
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

const dRNDTOWARDS = (1.0 - 1.0/8388608.0) /* Round towards zero */
const dRNDAWAY = (1.0 + 1.0/8388608.0)    /* Round away from zero */

func rtreeValueDown(d float64) float32 {
	f := float32(d)
	if float64(f) > d {
		if d < 0 {
			f = float32(d * dRNDAWAY)
		} else {
			f = float32(d * dRNDTOWARDS)
		}
	}
	return f
}

func rtreeValueUp(d float64) float32 {
	f := float32(d)
	if float64(f) < d {
		if d < 0 {
			f = float32(d * dRNDTOWARDS)
		} else {
			f = float32(d * dRNDAWAY)
		}
	}
	return f
}

// rtreeRect rounds the rect outwards so that float32 storage never shrinks
// an item.
func rtreeRect(rect geometry.Rect) (min, max [2]float32) {
	return [2]float32{
			rtreeValueDown(rect.Min.X),
			rtreeValueDown(rect.Min.Y),
		}, [2]float32{
			rtreeValueUp(rect.Max.X),
			rtreeValueUp(rect.Max.Y),
		}
}
