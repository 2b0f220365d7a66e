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

// Package outline conditions traced contours into simple, consistently
// wound polygons. It smooths staircase artefacts, removes self-crossings,
// backtracking spurs and near-duplicate points.
//
// Coordinates are processing pixels with Y pointing down. A conditioned
// path has negative shoelace area.
package outline

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Path is a closed polygon. The last point connects back to the first.
type Path []vec.Vec2

// Config holds the tunables of the conditioning stages.
type Config struct {
	// CrossingWindow bounds how many segments ahead FixOffsetCrossings
	// looks for an intersection.
	CrossingWindow int

	// MergeDistance is the distance below which two points close a loop.
	MergeDistance float64

	// MergeWindow bounds how many points ahead a merge partner is sought.
	MergeWindow int

	// BacktrackCos is the cosine below which a vertex counts as a spur.
	BacktrackCos float64

	// Passes is the number of crossing/merge passes.
	Passes int

	// SmoothWindow is the half width of the moving average.
	SmoothWindow int

	// CornerOffset is the index distance used to measure turn angles.
	CornerOffset int

	// CornerAngle is the smallest turn angle, in radians, of a corner.
	CornerAngle float64

	// CornerFactor is how many times sharper than the local and global
	// median turn a corner must be.
	CornerFactor float64

	// MaxCrossingFixes bounds the crossings resolved in one pass. Zero
	// selects 4n+16 for a path of n points, which a path can not exhaust.
	MaxCrossingFixes int
}

// DefaultConfig returns the tuned settings.
func DefaultConfig() Config {
	return Config{
		CrossingWindow: 300,
		MergeDistance:  10,
		MergeWindow:    40,
		BacktrackCos:   -0.94,
		Passes:         3,
		SmoothWindow:   2,
		CornerOffset:   3,
		CornerAngle:    35 * math.Pi / 180,
		CornerFactor:   2,
	}
}

// Stats describes what a conditioning stage changed.
type Stats struct {
	CrossingsFixed    int
	PointsMerged      int
	BacktracksRemoved int
	Reversed          bool
	GuardTripped      bool
}

func (s *Stats) add(o Stats) {
	s.CrossingsFixed += o.CrossingsFixed
	s.PointsMerged += o.PointsMerged
	s.BacktracksRemoved += o.BacktracksRemoved
	s.Reversed = s.Reversed != o.Reversed
	s.GuardTripped = s.GuardTripped || o.GuardTripped
}

// SignedArea returns the shoelace area of p. Conditioned paths have
// negative area.
func SignedArea(p Path) float64 {
	if len(p) < 3 {
		return 0
	}
	var sum float64
	prev := p[len(p)-1]
	for _, q := range p {
		sum += prev.X*q.Y - q.X*prev.Y
		prev = q
	}
	return sum / 2
}

// Bounds returns the bounding box of the points of p.
func Bounds(p Path) rect.Rect {
	if len(p) == 0 {
		return rect.Rect{}
	}
	b := rect.Rect{LLx: p[0].X, LLy: p[0].Y, URx: p[0].X, URy: p[0].Y}
	for _, q := range p[1:] {
		b.LLx = min(b.LLx, q.X)
		b.LLy = min(b.LLy, q.Y)
		b.URx = max(b.URx, q.X)
		b.URy = max(b.URy, q.Y)
	}
	return b
}

// Centroid returns the mean of the points of p.
func Centroid(p Path) vec.Vec2 {
	var c vec.Vec2
	if len(p) == 0 {
		return c
	}
	for _, q := range p {
		c = c.Add(q)
	}
	return c.Mul(1 / float64(len(p)))
}

// Reverse returns a copy of p with the order of the points reversed.
func Reverse(p Path) Path {
	out := make(Path, len(p))
	for i, q := range p {
		out[len(p)-1-i] = q
	}
	return out
}

// Length returns the perimeter of p.
func Length(p Path) float64 {
	if len(p) < 2 {
		return 0
	}
	var l float64
	prev := p[len(p)-1]
	for _, q := range p {
		l += q.Sub(prev).Length()
		prev = q
	}
	return l
}

// SegmentIntersection reports whether the segments ab and cd have a point
// in common, and returns such a point. Touching end points and collinear
// overlaps count as intersections.
func SegmentIntersection(a, b, c, d vec.Vec2) (vec.Vec2, bool) {
	t, _, ok := intersect(a, b, c, d)
	if !ok {
		return vec.Vec2{}, false
	}
	return a.Add(b.Sub(a).Mul(t)), true
}

// intersect returns the parameters t (along ab) and u (along cd) of a
// common point of the two segments.
func intersect(a, b, c, d vec.Vec2) (t, u float64, ok bool) {
	r := b.Sub(a)
	s := d.Sub(c)
	qp := c.Sub(a)
	den := cross(r, s)

	if math.Abs(den) < parallelEps {
		if math.Abs(cross(qp, r)) > collinearEps*(1+r.Length()) {
			return 0, 0, false
		}
		rr := r.Dot(r)
		if rr == 0 {
			// ab is a single point
			ss := s.Dot(s)
			if ss == 0 {
				return 0, 0, qp.Length() <= touchEps
			}
			u = a.Sub(c).Dot(s) / ss
			if u < -touchEps || u > 1+touchEps {
				return 0, 0, false
			}
			return 0, clamp01(u), true
		}
		t0 := qp.Dot(r) / rr
		t1 := t0 + s.Dot(r)/rr
		lo, hi := min(t0, t1), max(t0, t1)
		if hi < -touchEps || lo > 1+touchEps {
			return 0, 0, false
		}
		t = clamp01(max(lo, 0))
		if ss := s.Dot(s); ss > 0 {
			u = clamp01(a.Add(r.Mul(t)).Sub(c).Dot(s) / ss)
		}
		return t, u, true
	}

	t = cross(qp, s) / den
	u = cross(qp, r) / den
	if t < -touchEps || t > 1+touchEps || u < -touchEps || u > 1+touchEps {
		return 0, 0, false
	}
	return clamp01(t), clamp01(u), true
}

// Contains reports whether pt lies inside p, using the even-odd rule.
func Contains(p Path, pt vec.Vec2) bool {
	inside := false
	j := len(p) - 1
	for i := range p {
		a, b := p[i], p[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if pt.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// IsSimple reports whether p is a valid simple polygon: at least three
// points, no zero-length edges, no two edges sharing a point except for
// the common vertex of neighbouring edges. It compares all pairs of
// edges.
func IsSimple(p Path) bool {
	n := len(p)
	if n < 3 {
		return false
	}
	for i := range n {
		a, b := p[i], p[(i+1)%n]
		if a == b {
			return false
		}
		// neighbouring edges may only share their common vertex
		c := p[(i+2)%n]
		if math.Abs(cross(b.Sub(a), c.Sub(b))) < collinearEps && b.Sub(a).Dot(c.Sub(b)) < 0 {
			return false
		}
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if _, _, hit := intersect(a, b, p[j], p[(j+1)%n]); hit {
				return false
			}
		}
	}
	return true
}

// PathData converts p to a closed geom path.
func PathData(p Path) *path.Data {
	d := &path.Data{}
	if len(p) == 0 {
		return d
	}
	d = d.MoveTo(p[0])
	for _, q := range p[1:] {
		d = d.LineTo(q)
	}
	return d.Close()
}

// Transform applies the affine map m to every point of p.
func Transform(p Path, m matrix.Matrix) Path {
	out := make(Path, len(p))
	for i, q := range p {
		out[i] = vec.Vec2{
			X: m[0]*q.X + m[2]*q.Y + m[4],
			Y: m[1]*q.X + m[3]*q.Y + m[5],
		}
	}
	return out
}

func cross(a, b vec.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}

// wrap maps an index into [0, n).
func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

const (
	parallelEps  = 1e-12
	collinearEps = 1e-9
	touchEps     = 1e-9
)
