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

// Package raster computes anti-aliased pixel coverage for filled and stroked
// paths. It is used to paint cut lines and bleed regions onto preview
// images, and to draw the synthetic test shapes.
package raster

import (
	"cmp"
	"image"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// FillRule selects how the winding number of a point maps to coverage.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// edge is a non-horizontal line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

// subpath locates one flattened subpath inside Rasterizer.pts.
type subpath struct {
	start, end int
	closed     bool
}

// Rasterizer converts paths to pixel coverage values: the fraction of each
// pixel's area covered by the filled or stroked path, from 0 (outside) to 1
// (inside). Internal buffers grow as needed and are reused between calls.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM transforms from user space to device space. Must be non-singular.
	CTM matrix.Matrix

	// Clip bounds output to this device-coordinate rectangle.
	// Coordinates must be integer-aligned.
	Clip rect.Rect

	// Flatness controls curve and arc approximation accuracy in device
	// pixels. Must be positive.
	Flatness float64

	// Width sets stroke thickness in user-space units.
	Width float64

	// Cap sets the style for the ends of open subpaths and dashes.
	Cap graphics.LineCapStyle

	// Join sets the style for corners.
	Join graphics.LineJoinStyle

	// MiterLimit caps miter join length. Must be at least 1.0.
	MiterLimit float64

	// Dash specifies alternating on/off lengths in user-space units.
	// Nil means solid.
	Dash []float64

	// DashPhase offsets into the dash pattern in user-space units.
	DashPhase float64

	// flattened input
	pts  []vec.Vec2
	subs []subpath

	// stroke outline polygons, all with positive orientation
	polys      []vec.Vec2
	polyStarts []int
	segs       []strokeSegment
	dashPts    []vec.Vec2

	// scan conversion state
	edges     []edge
	active    []int
	cover     []float32
	area      []float32
	bboxEmpty bool
	bbox      rect.Rect
}

// NewRasterizer returns a Rasterizer with the given clip rectangle and PDF
// default values for the other parameters.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	return &Rasterizer{
		CTM:        matrix.Identity,
		Clip:       clip,
		Flatness:   defaultFlatness,
		Width:      1.0,
		Cap:        graphics.LineCapButt,
		Join:       graphics.LineJoinMiter,
		MiterLimit: defaultMiterLimit,
	}
}

// Fill fills the path using the given rule. Open subpaths are closed
// implicitly. The emit callback receives coverage row by row; its slice
// argument is valid only during the call.
func (r *Rasterizer) Fill(p *path.Data, rule FillRule, emit func(y, xMin int, coverage []float32)) {
	r.flatten(p)
	r.resetEdges()
	for _, s := range r.subs {
		r.addPolygon(r.pts[s.start:s.end])
	}
	r.scan(rule, emit)
}

// transformLinear applies only the 2×2 linear part of CTM to a vector.
func (r *Rasterizer) transformLinear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// flatten walks the path, replaces curves by line segments and stores the
// resulting polylines in r.pts and r.subs.
func (r *Rasterizer) flatten(p *path.Data) {
	r.pts = r.pts[:0]
	r.subs = r.subs[:0]

	start := -1
	var current, first vec.Vec2
	finish := func(closed bool) {
		if start >= 0 && len(r.pts)-start > 1 {
			r.subs = append(r.subs, subpath{start: start, end: len(r.pts), closed: closed})
		} else if start >= 0 {
			// a lone point, kept so that round caps can draw a dot
			r.subs = append(r.subs, subpath{start: start, end: len(r.pts)})
		}
		start = -1
	}
	lineTo := func(pt vec.Vec2) {
		if start < 0 {
			start = len(r.pts)
			r.pts = append(r.pts, current)
		}
		r.pts = append(r.pts, pt)
		current = pt
	}

	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			finish(false)
			current = p.Coords[k]
			first = current
			start = len(r.pts)
			r.pts = append(r.pts, current)
			k++
		case path.CmdLineTo:
			lineTo(p.Coords[k])
			k++
		case path.CmdQuadTo:
			r.flattenQuadratic(current, p.Coords[k], p.Coords[k+1], lineTo)
			k += 2
		case path.CmdCubeTo:
			r.flattenCubic(current, p.Coords[k], p.Coords[k+1], p.Coords[k+2], lineTo)
			k += 3
		case path.CmdClose:
			if start >= 0 && r.pts[len(r.pts)-1] == first && len(r.pts)-start > 1 {
				r.pts = r.pts[:len(r.pts)-1]
			}
			finish(true)
			current = first
		}
	}
	finish(false)
}

// flattenQuadratic approximates a quadratic Bézier by line segments,
// calling emit for each end point after p0.
func (r *Rasterizer) flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(vec.Vec2)) {
	e := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25))
	n := 1
	if errDev := e.Length(); errDev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(errDev / r.Flatness)))
	}
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		emit(p0.Mul(omt * omt).Add(p1.Mul(2 * omt * t)).Add(p2.Mul(t * t)))
	}
}

// flattenCubic approximates a cubic Bézier by line segments using Wang's
// formula for the segment count.
func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(vec.Vec2)) {
	d1 := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2))
	d2 := r.transformLinear(p1.Sub(p2.Mul(2)).Add(p3))
	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		if nf := math.Sqrt(3 * m / (4 * r.Flatness)); nf > 1 {
			n = int(math.Ceil(nf))
		}
	}
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		emit(p0.Mul(omt * omt * omt).
			Add(p1.Mul(3 * omt * omt * t)).
			Add(p2.Mul(3 * omt * t * t)).
			Add(p3.Mul(t * t * t)))
	}
}

func (r *Rasterizer) resetEdges() {
	r.edges = r.edges[:0]
	r.bboxEmpty = true
}

// addPolygon adds the edges of a closed polygon.
func (r *Rasterizer) addPolygon(poly []vec.Vec2) {
	if len(poly) < 2 {
		return
	}
	for i := 1; i < len(poly); i++ {
		r.addEdge(poly[i-1], poly[i])
	}
	r.addEdge(poly[len(poly)-1], poly[0])
}

// addEdge adds an edge given in user space coordinates.
func (r *Rasterizer) addEdge(p0, p1 vec.Vec2) {
	dx0 := r.CTM[0]*p0.X + r.CTM[2]*p0.Y + r.CTM[4]
	dy0 := r.CTM[1]*p0.X + r.CTM[3]*p0.Y + r.CTM[5]
	dx1 := r.CTM[0]*p1.X + r.CTM[2]*p1.Y + r.CTM[4]
	dy1 := r.CTM[1]*p1.X + r.CTM[3]*p1.Y + r.CTM[5]

	dy := dy1 - dy0
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{
		x0: dx0, y0: dy0,
		x1: dx1, y1: dy1,
		dxdy: (dx1 - dx0) / dy,
	})

	box := rect.Rect{
		LLx: min(dx0, dx1), LLy: min(dy0, dy1),
		URx: max(dx0, dx1), URy: max(dy0, dy1),
	}
	if r.bboxEmpty {
		r.bbox = box
		r.bboxEmpty = false
		return
	}
	r.bbox.LLx = min(r.bbox.LLx, box.LLx)
	r.bbox.LLy = min(r.bbox.LLy, box.LLy)
	r.bbox.URx = max(r.bbox.URx, box.URx)
	r.bbox.URy = max(r.bbox.URy, box.URy)
}

// scan converts the collected edges to coverage, one scanline at a time,
// keeping a list of the edges which intersect the current scanline.
func (r *Rasterizer) scan(rule FillRule, emit func(y, xMin int, coverage []float32)) {
	if len(r.edges) == 0 {
		return
	}
	xMin := max(int(math.Floor(r.bbox.LLx)), int(r.Clip.LLx))
	xMax := min(int(math.Floor(r.bbox.URx))+1, int(r.Clip.URx))
	yMin := max(int(math.Floor(r.bbox.LLy)), int(r.Clip.LLy))
	yMax := min(int(math.Floor(r.bbox.URy))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return
	}

	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(min(a.y0, a.y1), min(b.y0, b.y1))
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		top := float64(y)
		bottom := float64(y + 1)
		for next < len(r.edges) && min(r.edges[next].y0, r.edges[next].y1) < bottom {
			r.active = append(r.active, next)
			next++
		}
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		for i := 0; i < len(r.active); {
			e := &r.edges[r.active[i]]
			if max(e.y0, e.y1) <= top {
				r.active[i] = r.active[len(r.active)-1]
				r.active = r.active[:len(r.active)-1]
				continue
			}
			if accumulate(e, y, r.cover, r.area, xMin, xMax) {
				touched = true
			}
			i++
		}
		if !touched {
			continue
		}

		if rule == NonZero {
			integrateNonZero(r.cover, r.area)
		} else {
			integrateEvenOdd(r.cover, r.area)
		}
		if trimmed, offset := trimZeros(r.cover); trimmed != nil {
			emit(y, xMin+offset, trimmed)
		}
	}
}

// Coverage accumulation model:
//
// For each pixel of a scanline we track
//   cover: signed vertical extent of the edges crossing the pixel column
//   area:  cover weighted by how far left inside the pixel the crossing is
//
// Integrating from left to right, the coverage of pixel i is the running
// sum of cover over pixels left of i, plus area[i].

// accumulate adds the contribution of e to scanline y. Edges left of the
// buffer are folded into the first pixel. It reports whether the edge
// touched the scanline inside or left of the buffer.
func accumulate(e *edge, y int, cover, area []float32, xMin, xMax int) bool {
	yTop := max(float64(y), min(e.y0, e.y1))
	yBot := min(float64(y+1), max(e.y0, e.y1))
	if yBot <= yTop {
		return false
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xa := e.x0 + e.dxdy*(yTop-e.y0)
	xb := e.x0 + e.dxdy*(yBot-e.y0)
	left, right := min(xa, xb), max(xa, xb)
	pixLeft := int(math.Floor(left))
	pixRight := int(math.Floor(right))
	if pixLeft >= xMax {
		return false
	}

	if pixLeft == pixRight || pixRight < xMin {
		deposit(cover, area, sign*float32(yBot-yTop), (left+right)/2, pixLeft, xMin, xMax)
		return true
	}

	dydx := 1 / e.dxdy
	for pix := pixLeft; pix <= pixRight; pix++ {
		ya := e.y0 + dydx*(float64(pix)-e.x0)
		yb := e.y0 + dydx*(float64(pix+1)-e.x0)
		lo := max(min(ya, yb), yTop)
		hi := min(max(ya, yb), yBot)
		if hi <= lo {
			continue
		}
		xMid := e.x0 + e.dxdy*((lo+hi)/2-e.y0)
		deposit(cover, area, sign*float32(hi-lo), xMid, pix, xMin, xMax)
	}
	return true
}

// deposit records a piece of edge with signed height c crossing pixel
// column pix at mean horizontal position xMid.
func deposit(cover, area []float32, c float32, xMid float64, pix, xMin, xMax int) {
	switch {
	case pix < xMin:
		cover[0] += c
		area[0] += c
	case pix < xMax:
		i := pix - xMin
		cover[i] += c
		area[i] += c * float32(1-(xMid-float64(pix)))
	}
}

// integrateNonZero converts accumulated cover/area to coverage using the
// nonzero winding rule. The cover slice is overwritten.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		raw := acc + area[i]
		acc += cover[i]
		cover[i] = min(abs32(raw), 1)
	}
}

// integrateEvenOdd converts accumulated cover/area to coverage using the
// even-odd rule. The cover slice is overwritten.
func integrateEvenOdd(cover, area []float32) {
	var acc float32
	for i := range cover {
		raw := abs32(acc + area[i])
		acc += cover[i]
		mod := raw - 2*float32(int(raw/2))
		cover[i] = 1 - abs32(1-mod)
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// trimZeros returns the non-zero portion of coverage and its offset.
func trimZeros(coverage []float32) (trimmed []float32, offset int) {
	lo, hi := 0, len(coverage)
	for lo < hi && coverage[lo] == 0 {
		lo++
	}
	if lo == hi {
		return nil, 0
	}
	for coverage[hi-1] == 0 {
		hi--
	}
	return coverage[lo:hi], lo
}

// AlphaEmitter returns an emit callback which writes coverage into dst.
// Existing values are only ever increased, so several shapes can be
// painted into the same mask.
func AlphaEmitter(dst *image.Alpha) func(y, xMin int, coverage []float32) {
	return func(y, xMin int, coverage []float32) {
		if y < dst.Rect.Min.Y || y >= dst.Rect.Max.Y {
			return
		}
		for i, c := range coverage {
			x := xMin + i
			if x < dst.Rect.Min.X || x >= dst.Rect.Max.X {
				continue
			}
			v := uint8(c*255 + 0.5)
			j := dst.PixOffset(x, y)
			if v > dst.Pix[j] {
				dst.Pix[j] = v
			}
		}
	}
}

// Default values for rasterizer parameters.
const (
	// defaultFlatness is the curve flattening tolerance in device pixels.
	defaultFlatness = 0.25

	// defaultMiterLimit matches PDF/PostScript.
	defaultMiterLimit = 10.0
)

// Numerical tolerances.
const (
	// horizontalEdgeThreshold is the minimum vertical extent for an edge
	// to contribute to coverage.
	horizontalEdgeThreshold = 1e-10

	// zeroLengthThreshold is the minimum length for a stroke segment.
	zeroLengthThreshold = 1e-10

	// collinearityThreshold detects nearly collinear segments where no
	// join is needed.
	collinearityThreshold = 1e-6

	// cuspCosineThreshold detects a path doubling back on itself.
	cuspCosineThreshold = -0.9999
)
