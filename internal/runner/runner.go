// Package runner splits the lines of an input layer with the lines of a
// split layer.
package runner

import (
	"errors"
	"fmt"

	"github.com/tidwall/geojson"
	"github.com/tidwall/geojson/geometry"
	"github.com/tidwall/linesplit/core"
	"github.com/tidwall/linesplit/internal/deadline"
	"github.com/tidwall/linesplit/internal/engine"
	"github.com/tidwall/linesplit/internal/field"
	"github.com/tidwall/linesplit/internal/index"
	"github.com/tidwall/linesplit/internal/log"
	"github.com/tidwall/linesplit/internal/metrics"
	"github.com/tidwall/linesplit/internal/object"
	"github.com/tidwall/linesplit/internal/sink"
	"github.com/tidwall/linesplit/internal/split"
	"github.com/tidwall/tinylru"
)

// ErrCanceled is returned by Run when the progress reporter asked to stop.
var ErrCanceled = errors.New("canceled")

// ErrTimeout is returned by Run when the deadline was reached.
var ErrTimeout = errors.New("timeout")

// SinkError is returned by Run when an output feature could not be
// written. Features written before the failure are kept.
type SinkError struct {
	ID  int64
	Err error
}

func (err *SinkError) Error() string {
	return fmt.Sprintf("feature %d: write failed: %v", err.ID, err.Err)
}

func (err *SinkError) Unwrap() error {
	return err.Err
}

// InputLayer is the layer whose lines are split.
type InputLayer interface {
	Iterate(iter func(obj *object.Object) bool) bool
	Count() int
	Fields() field.Schema
	CRS() string
}

// SplitLayer is the layer providing the splitting lines.
type SplitLayer interface {
	SpatialIndex() *index.Index
	FetchByIDs(ids []int64, withFields bool) []*object.Object
}

// Progress is told how far the run is, and may cancel it between features.
type Progress interface {
	SetPercentage(percent int)
	Canceled() bool
}

// Options of a run.
type Options struct {
	// SameLayer skips testing a feature against itself. It is set
	// automatically when the input and split layer are the same value.
	SameLayer bool
	// MaxIterations caps the worklist pops per splitter and feature.
	// Zero uses core.MaxIterations, negative disables the cap.
	MaxIterations int
	// IndexOptions used when preparing geometries.
	IndexOptions *geometry.IndexOptions
	// CacheSize is the number of prepared splitters kept between
	// features. Zero uses 256, negative disables the cache.
	CacheSize int
	// Deadline stops the run between features. Nil means no deadline.
	Deadline *deadline.Deadline
	Metrics  *metrics.Metrics
	Progress Progress
}

// Runner is the split orchestrator. It is not safe for concurrent use.
type Runner struct {
	input InputLayer
	split SplitLayer
	out   sink.Sink
	opts  Options
	same  bool
	cache *tinylru.LRU
	m     *metrics.Metrics
}

// prepared is a splitter ready for use.
type prepared struct {
	id    int64
	eng   *engine.Engine
	parts [][]geometry.Point
}

// New returns a runner writing to out. A nil opts uses defaults.
func New(input InputLayer, split SplitLayer, out sink.Sink, opts *Options) *Runner {
	r := &Runner{input: input, split: split, out: out}
	if opts != nil {
		r.opts = *opts
	}
	if r.opts.MaxIterations == 0 {
		r.opts.MaxIterations = core.MaxIterations
	}
	if r.opts.CacheSize == 0 {
		r.opts.CacheSize = 256
	}
	if r.opts.CacheSize > 0 {
		r.cache = new(tinylru.LRU)
		r.cache.Resize(r.opts.CacheSize)
	}
	r.m = r.opts.Metrics
	if r.m == nil {
		r.m = metrics.New()
	}
	r.same = r.opts.SameLayer || sameLayer(input, split)
	return r
}

func sameLayer(input InputLayer, split SplitLayer) bool {
	a, ok := input.(interface{ SpatialIndex() *index.Index })
	if !ok {
		return false
	}
	b, ok := split.(interface{ SpatialIndex() *index.Index })
	return ok && a == b
}

// Metrics returns the metrics of the run.
func (r *Runner) Metrics() *metrics.Metrics {
	return r.m
}

// Run processes every input feature, one at a time. A warning is logged
// for every split that fails, the run goes on. A sink failure stops the
// run and is returned as a *SinkError.
func (r *Runner) Run() error {
	total := r.input.Count()
	var current int
	var err error
	r.input.Iterate(func(obj *object.Object) bool {
		if r.opts.Progress != nil && r.opts.Progress.Canceled() {
			err = ErrCanceled
			return false
		}
		if r.opts.Deadline.Reached() {
			err = ErrTimeout
			return false
		}
		if err = r.processFeature(obj); err != nil {
			return false
		}
		current++
		if r.opts.Progress != nil {
			r.opts.Progress.SetPercentage(current * 100 / total)
		}
		return true
	})
	return err
}

func (r *Runner) processFeature(obj *object.Object) error {
	r.m.FeaturesRead.Inc()
	fragments := obj.Lines()
	for _, s := range r.splitters(obj) {
		r.m.SplittersApplied.Inc()
		fragments = r.splitWith(obj, s, fragments)
	}
	for _, frag := range fragments {
		if !valid(frag) {
			r.m.FragmentsDropped.Inc()
			continue
		}
		if err := r.out.AddFeature(geojson.NewLineString(frag),
			obj.Fields()); err != nil {
			return &SinkError{ID: obj.ID(), Err: err}
		}
		r.m.FragmentsEmitted.Inc()
	}
	return nil
}

// splitters returns the split layer features that intersect obj, in
// ascending id order.
func (r *Runner) splitters(obj *object.Object) []*prepared {
	lines := obj.Lines()
	if len(lines) == 0 {
		return nil
	}
	ids := r.split.SpatialIndex().Query(obj.Rect())
	if len(ids) == 0 {
		r.m.FeaturesSkipped.Inc()
		return nil
	}
	subject := engine.Prepare(lines, r.opts.IndexOptions)
	var splitters []*prepared
	for _, cand := range r.split.FetchByIDs(ids, false) {
		if r.same && cand.ID() == obj.ID() {
			continue
		}
		if subject.Intersects(cand.Lines()...) {
			splitters = append(splitters, r.prepare(cand))
		}
	}
	return splitters
}

func (r *Runner) prepare(obj *object.Object) *prepared {
	if r.cache != nil {
		if v, ok := r.cache.Get(obj.ID()); ok {
			return v.(*prepared)
		}
	}
	lines := obj.Lines()
	p := &prepared{
		id:    obj.ID(),
		eng:   engine.Prepare(lines, r.opts.IndexOptions),
		parts: make([][]geometry.Point, len(lines)),
	}
	for i, line := range lines {
		p.parts[i] = object.Points(line)
	}
	if r.cache != nil {
		r.cache.Set(obj.ID(), p)
	}
	return p
}

// splitWith splits the fragments with one splitter until no fragment is
// divided any further.
func (r *Runner) splitWith(obj *object.Object, s *prepared,
	fragments []*geometry.Line,
) []*geometry.Line {
	worklist := append([]*geometry.Line(nil), fragments...)
	next := make([]*geometry.Line, 0, len(fragments))
	var iterations int
	for len(worklist) > 0 {
		if r.opts.MaxIterations > 0 && iterations >= r.opts.MaxIterations {
			log.Warnf("feature %d: splitter %d stopped after %d iterations, "+
				"%d fragments left unsplit", obj.ID(), s.id, iterations,
				len(worklist))
			r.m.IterationOverflow.Inc()
			next = append(next, worklist...)
			break
		}
		iterations++
		frag := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		if !s.eng.Intersects(frag) {
			next = append(next, frag)
			continue
		}
		res := split.Parts(frag, s.parts, nil)
		switch res.Status {
		case split.Split:
			r.m.SplitCall(metrics.ResultSplit)
			// the head replaces frag, all pieces are tested again
			worklist = append(worklist, res.Fragments...)
		case split.Error:
			r.m.SplitCall(metrics.ResultError)
			log.Warnf("feature %d: splitter %d: %v", obj.ID(), s.id, res.Err)
			next = append(next, frag)
		default:
			r.m.SplitCall(metrics.ResultUnchanged)
			next = append(next, frag)
		}
	}
	return next
}

// valid returns true for fragments with more than two vertices, or with
// two distinct vertices.
func valid(frag *geometry.Line) bool {
	n := frag.NumPoints()
	return n > 2 || (n == 2 && frag.PointAt(0) != frag.PointAt(1))
}
