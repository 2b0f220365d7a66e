// kisscut - kiss-cut contour generation for sticker production
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package bridge closes narrow gaps in a traced outline. A gap is a pair
// of boundary points which are close together in space but far apart
// along the path, such as the mouth of a narrow channel. Closing a gap
// replaces the arc between the two points by a straight chord.
package bridge

import (
	"math"
	"slices"

	"github.com/buywitheze-droid/sticker-maker-sub001/outline"
	"seehuhn.de/go/geom/vec"
)

// Gap sizes selectable by the user, in inches.
const (
	SmallGapInches = 0.15
	BigGapInches   = 0.42
)

// Threshold returns the gap threshold in pixels for the given user
// choices. Big gaps take precedence; 0 means gap closing is disabled.
func Threshold(closeSmall, closeBig bool, dpi float64) float64 {
	switch {
	case closeBig:
		return BigGapInches * dpi
	case closeSmall:
		return SmallGapInches * dpi
	default:
		return 0
	}
}

// Config holds the tunables of the gap resolver.
type Config struct {
	// InwardRatio classifies a gap as inward if the mean centroid
	// distance of its arc is below this fraction of the path average.
	InwardRatio float64

	// ProtrusionRatio rejects a gap which is not inward if its arc
	// deviates from the chord by more than this multiple of the chord
	// length.
	ProtrusionRatio float64

	// MinSpan is the smallest number of path steps between the two end
	// points of a gap.
	MinSpan int

	// MaxSpanFraction bounds the span as a fraction of the path length.
	MaxSpanFraction float64

	// MinArcRatio is the smallest ratio between arc length and chord
	// length. Shallow concave corners stay below it.
	MinArcRatio float64

	// RefineRadius is how far, in path steps, the end points of a gap are
	// moved to find the narrowest chord.
	RefineRadius int

	// SmoothRadius is the number of points on either side of a closed gap
	// which are smoothed afterwards.
	SmoothRadius int

	// Outline holds the smoothing and corner settings used near a
	// closed gap.
	Outline outline.Config
}

// DefaultConfig returns the tuned settings.
func DefaultConfig() Config {
	return Config{
		InwardRatio:     0.95,
		ProtrusionRatio: 3,
		MinSpan:         15,
		MaxSpanFraction: 0.25,
		MinArcRatio:     2,
		RefineRadius:    20,
		SmoothRadius:    8,
		Outline:         outline.DefaultConfig(),
	}
}

// Gap describes a chord between path indices I and J, where J follows I
// by Span steps (modulo the path length).
type Gap struct {
	I, J     int
	Span     int
	Distance float64
	Inward   bool
}

// Report summarizes a Resolve call.
type Report struct {
	Candidates int
	Rejected   int
	Closed     []Gap
}

// Resolve closes the gaps of p which are narrower than threshold pixels.
// Inward gaps are preferred; other gaps are only closed if they do not
// overlap an inward one and if their arc is not a protrusion. Chords whose
// midpoint lies inside the outline are never used, since they would cut
// through the foreground.
func Resolve(p outline.Path, threshold float64, cfg Config) (outline.Path, Report) {
	var rep Report
	n := len(p)
	maxSpan := int(cfg.MaxSpanFraction * float64(n))
	if threshold <= 0 || cfg.MinSpan < 1 || maxSpan < cfg.MinSpan {
		return slices.Clone(p), rep
	}

	centroid := outline.Centroid(p)
	var meanRadius float64
	for _, q := range p {
		meanRadius += q.Sub(centroid).Length()
	}
	meanRadius /= float64(n)

	r := &resolver{p: p, n: n, cfg: cfg, threshold: threshold, minSpan: cfg.MinSpan, maxSpan: maxSpan}

	var candidates []Gap
	stride := max(1, n/800)
	for i := 0; i < n; i += stride {
		g, ok := r.widest(i, stride)
		if !ok {
			continue
		}
		g = r.refine(g)
		rep.Candidates++
		if !r.acceptable(g) {
			rep.Rejected++
			continue
		}
		g.Inward = r.arcMeanRadius(g, centroid) < cfg.InwardRatio*meanRadius
		if !g.Inward && r.deviation(g) > cfg.ProtrusionRatio*max(g.Distance, 1) {
			rep.Rejected++
			continue
		}
		candidates = append(candidates, g)
	}

	slices.SortStableFunc(candidates, func(a, b Gap) int {
		if a.Inward != b.Inward {
			if a.Inward {
				return -1
			}
			return 1
		}
		return b.Span - a.Span
	})
	var accepted []Gap
	for _, g := range candidates {
		if !slices.ContainsFunc(accepted, func(h Gap) bool { return r.overlap(g, h) }) {
			accepted = append(accepted, g)
		}
	}
	if len(accepted) == 0 {
		return slices.Clone(p), rep
	}
	slices.SortFunc(accepted, func(a, b Gap) int { return a.I - b.I })
	rep.Closed = accepted

	return r.apply(accepted), rep
}

type resolver struct {
	p         outline.Path
	n         int
	cfg       Config
	threshold float64
	minSpan   int
	maxSpan   int
}

func (r *resolver) at(i int) vec.Vec2 {
	return r.p[((i%r.n)+r.n)%r.n]
}

// widest finds the partner of point i with the largest span whose
// distance is below the threshold.
func (r *resolver) widest(i, stride int) (Gap, bool) {
	for span := r.maxSpan; span >= r.minSpan; span -= stride {
		d := r.at(i + span).Sub(r.p[i]).Length()
		if d < r.threshold {
			return Gap{I: i, J: (i + span) % r.n, Span: span, Distance: d}, true
		}
	}
	return Gap{}, false
}

// refine moves both end points of g by up to RefineRadius steps to find
// the shortest chord, preferring larger spans among equal chords.
func (r *resolver) refine(g Gap) Gap {
	best := g
	rad := r.cfg.RefineRadius
	for di := -rad; di <= rad; di++ {
		for dj := -rad; dj <= rad; dj++ {
			span := g.Span - di + dj
			if span < r.minSpan || span > r.maxSpan {
				continue
			}
			i := ((g.I+di)%r.n + r.n) % r.n
			d := r.at(i + span).Sub(r.p[i]).Length()
			if d < best.Distance || (d == best.Distance && span > best.Span) {
				best = Gap{I: i, J: (i + span) % r.n, Span: span, Distance: d}
			}
		}
	}
	return best
}

// acceptable rejects chords through the foreground and arcs which are
// too shallow to form a gap.
func (r *resolver) acceptable(g Gap) bool {
	a, b := r.p[g.I], r.p[g.J]
	if outline.Contains(r.p, a.Add(b).Mul(0.5)) {
		return false
	}
	var arc float64
	for k := range g.Span {
		arc += r.at(g.I + k + 1).Sub(r.at(g.I + k)).Length()
	}
	return arc >= r.cfg.MinArcRatio*g.Distance
}

func (r *resolver) arcMeanRadius(g Gap, centroid vec.Vec2) float64 {
	var sum float64
	for k := 0; k <= g.Span; k++ {
		sum += r.at(g.I + k).Sub(centroid).Length()
	}
	return sum / float64(g.Span+1)
}

// deviation returns the largest distance of an arc point from the line
// through the chord.
func (r *resolver) deviation(g Gap) float64 {
	a, b := r.p[g.I], r.p[g.J]
	dir := b.Sub(a)
	l := dir.Length()
	var dev float64
	for k := 1; k < g.Span; k++ {
		v := r.at(g.I + k).Sub(a)
		var d float64
		if l == 0 {
			d = v.Length()
		} else {
			d = math.Abs(v.X*dir.Y-v.Y*dir.X) / l
		}
		dev = max(dev, d)
	}
	return dev
}

// overlap reports whether the closed index ranges of two gaps intersect.
func (r *resolver) overlap(g, h Gap) bool {
	contains := func(g Gap, k int) bool {
		return ((k-g.I)%r.n+r.n)%r.n <= g.Span
	}
	return contains(g, h.I) || contains(g, h.J) || contains(h, g.I) || contains(h, g.J)
}

// apply removes the points strictly inside every gap, inserts the chord
// midpoints and smooths the neighbourhood of each chord.
func (r *resolver) apply(gaps []Gap) outline.Path {
	deleted := make([]bool, r.n)
	starts := make(map[int]vec.Vec2, len(gaps))
	for _, g := range gaps {
		for k := 1; k < g.Span; k++ {
			deleted[(g.I+k)%r.n] = true
		}
		starts[g.I] = r.p[g.I].Add(r.p[g.J]).Mul(0.5)
	}

	out := make(outline.Path, 0, r.n)
	var mids []int
	for k, q := range r.p {
		if deleted[k] {
			continue
		}
		out = append(out, q)
		if mid, ok := starts[k]; ok {
			mids = append(mids, len(out))
			out = append(out, mid)
		}
	}

	smoothed := outline.Smooth(out, r.cfg.Outline)
	res := slices.Clone(out)
	for _, m := range mids {
		for k := -r.cfg.SmoothRadius; k <= r.cfg.SmoothRadius; k++ {
			idx := ((m+k)%len(out) + len(out)) % len(out)
			res[idx] = smoothed[idx]
		}
	}
	return res
}
