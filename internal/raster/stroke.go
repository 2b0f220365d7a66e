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

package raster

import (
	"math"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// strokeSegment is one non-degenerate piece of a flattened subpath.
type strokeSegment struct {
	A, B vec.Vec2 // start and end point
	T    vec.Vec2 // unit tangent
	N    vec.Vec2 // unit normal, T rotated by 90°
}

// Stroke strokes the path using the current line width, caps, joins and
// dash pattern. The outline is built as a union of positively oriented
// polygons (segment bodies, joins and caps) and filled with the nonzero
// rule.
func (r *Rasterizer) Stroke(p *path.Data, emit func(y, xMin int, coverage []float32)) {
	r.flatten(p)
	r.polys = r.polys[:0]
	r.polyStarts = r.polyStarts[:0]

	d := r.Width / 2
	if d <= 0 {
		return
	}
	for _, s := range r.subs {
		pts := r.pts[s.start:s.end]
		if len(r.Dash) > 0 {
			r.strokeDashed(pts, s.closed, d)
		} else {
			r.strokePolyline(pts, s.closed, d)
		}
	}

	r.resetEdges()
	for i, start := range r.polyStarts {
		end := len(r.polys)
		if i+1 < len(r.polyStarts) {
			end = r.polyStarts[i+1]
		}
		r.addPolygon(r.polys[start:end])
	}
	r.scan(NonZero, emit)
}

// strokePolyline adds the outline polygons for one polyline.
func (r *Rasterizer) strokePolyline(pts []vec.Vec2, closed bool, d float64) {
	r.segs = r.segs[:0]
	n := len(pts)
	count := n - 1
	if closed {
		count = n
	}
	for i := 0; i < count; i++ {
		a, b := pts[i], pts[(i+1)%n]
		v := b.Sub(a)
		l := v.Length()
		if l < zeroLengthThreshold {
			continue
		}
		t := v.Mul(1 / l)
		r.segs = append(r.segs, strokeSegment{A: a, B: b, T: t, N: vec.Vec2{X: -t.Y, Y: t.X}})
	}

	if len(r.segs) == 0 {
		// PDF draws a dot for degenerate subpaths only with round caps.
		if r.Cap == graphics.LineCapRound && n > 0 {
			r.addCircle(pts[0], d)
		}
		return
	}

	for i := range r.segs {
		s := r.segs[i]
		off := s.N.Mul(d)
		r.addPoly(s.A.Add(off), s.B.Add(off), s.B.Sub(off), s.A.Sub(off))
		if i+1 < len(r.segs) {
			r.addJoin(s.B, s.T, r.segs[i+1].T, d)
		}
	}

	first, last := r.segs[0], r.segs[len(r.segs)-1]
	if closed {
		if len(r.segs) > 1 {
			r.addJoin(last.B, last.T, first.T, d)
		}
		return
	}
	r.addCap(first.A, first.T.Mul(-1), d)
	r.addCap(last.B, last.T, d)
}

// addJoin adds the join polygon at corner p between directions t1 and t2.
func (r *Rasterizer) addJoin(p, t1, t2 vec.Vec2, d float64) {
	cross := t1.X*t2.Y - t1.Y*t2.X
	cos := t1.Dot(t2)
	if math.Abs(cross) < collinearityThreshold && cos > 0 {
		return
	}

	if r.Join == graphics.LineJoinRound {
		r.addCircle(p, d)
		return
	}
	if cos < cuspCosineThreshold {
		return
	}

	// the outer side of the corner is where the offset lines diverge
	side := 1.0
	if cross > 0 {
		side = -1.0
	}
	n1 := vec.Vec2{X: -t1.Y, Y: t1.X}.Mul(side * d)
	n2 := vec.Vec2{X: -t2.Y, Y: t2.X}.Mul(side * d)

	if r.Join == graphics.LineJoinMiter {
		cosHalf := math.Sqrt((1 + cos) / 2)
		if cosHalf > 0 && 1/cosHalf <= r.MiterLimit {
			bisector := n1.Add(n2)
			if l := bisector.Length(); l > 0 {
				tip := p.Add(bisector.Mul(d / (l * cosHalf)))
				r.addPoly(p, p.Add(n1), tip, p.Add(n2))
				return
			}
		}
	}
	r.addPoly(p, p.Add(n1), p.Add(n2))
}

// addCap adds the cap polygon at end point p, where t points away from the
// stroke.
func (r *Rasterizer) addCap(p, t vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.addCircle(p, d)
	case graphics.LineCapSquare:
		n := vec.Vec2{X: -t.Y, Y: t.X}.Mul(d)
		ext := t.Mul(d)
		r.addPoly(p.Add(n), p.Add(ext).Add(n), p.Add(ext).Sub(n), p.Sub(n))
	}
}

// addCircle adds a polygon approximating the circle with the given centre
// and radius, accurate to r.Flatness in device space.
func (r *Rasterizer) addCircle(c vec.Vec2, radius float64) {
	devRadius := r.transformLinear(vec.Vec2{X: radius}).Length()
	steps := 8
	if devRadius > r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/devRadius)
		steps = max(steps, int(math.Ceil(2*math.Pi/step)))
	}
	start := len(r.polys)
	for i := range steps {
		phi := 2 * math.Pi * float64(i) / float64(steps)
		r.polys = append(r.polys, vec.Vec2{
			X: c.X + radius*math.Cos(phi),
			Y: c.Y + radius*math.Sin(phi),
		})
	}
	r.closePoly(start)
}

func (r *Rasterizer) addPoly(pts ...vec.Vec2) {
	start := len(r.polys)
	r.polys = append(r.polys, pts...)
	r.closePoly(start)
}

// closePoly finishes the polygon starting at index start of r.polys,
// making its orientation positive so that overlapping pieces add up under
// the nonzero rule.
func (r *Rasterizer) closePoly(start int) {
	poly := r.polys[start:]
	if len(poly) < 3 {
		r.polys = r.polys[:start]
		return
	}
	var area float64
	for i := range poly {
		a, b := poly[i], poly[(i+1)%len(poly)]
		area += a.X*b.Y - b.X*a.Y
	}
	if area < 0 {
		slices.Reverse(poly)
	}
	r.polyStarts = append(r.polyStarts, start)
}

// strokeDashed splits a polyline according to the dash pattern and strokes
// every "on" piece as an open polyline.
func (r *Rasterizer) strokeDashed(pts []vec.Vec2, closed bool, d float64) {
	var total float64
	for _, v := range r.Dash {
		total += max(v, 0)
	}
	if total <= 0 {
		r.strokePolyline(pts, closed, d)
		return
	}
	if len(r.Dash)%2 == 1 {
		total *= 2
	}

	idx := 0
	phase := math.Mod(r.DashPhase, total)
	if phase < 0 {
		phase += total
	}
	for phase > 0 {
		l := max(r.Dash[idx%len(r.Dash)], 0)
		if phase < l {
			break
		}
		phase -= l
		idx++
	}
	remaining := max(r.Dash[idx%len(r.Dash)], 0) - phase
	on := idx%2 == 0

	cur := r.dashPts[:0]
	flush := func() {
		if on && len(cur) >= 2 {
			r.strokePolyline(cur, false, d)
		}
		cur = cur[:0]
	}

	n := len(pts)
	count := n - 1
	if closed {
		count = n
	}
	for i := 0; i < count; i++ {
		a, b := pts[i], pts[(i+1)%n]
		segLen := b.Sub(a).Length()
		if segLen < zeroLengthThreshold {
			continue
		}
		pos := 0.0
		for pos < segLen {
			step := min(remaining, segLen-pos)
			next := pos + step
			if on {
				if len(cur) == 0 {
					cur = append(cur, lerp(a, b, pos/segLen))
				}
				cur = append(cur, lerp(a, b, next/segLen))
			}
			remaining -= step
			pos = next
			if remaining <= 0 {
				flush()
				idx++
				remaining = max(r.Dash[idx%len(r.Dash)], 0)
				on = idx%2 == 0
			}
		}
	}
	flush()
	r.dashPts = cur
}

func lerp(a, b vec.Vec2, t float64) vec.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}
