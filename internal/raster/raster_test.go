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
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// collect renders into a dense w×h coverage buffer.
func collect(w, h int) ([]float32, func(y, xMin int, coverage []float32)) {
	buf := make([]float32, w*h)
	return buf, func(y, xMin int, coverage []float32) {
		for i, c := range coverage {
			x := xMin + i
			if x >= 0 && x < w && y >= 0 && y < h {
				buf[y*w+x] = c
			}
		}
	}
}

func total(buf []float32) float64 {
	var sum float64
	for _, c := range buf {
		sum += float64(c)
	}
	return sum
}

func rectPath(x0, y0, x1, y1 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(vec.Vec2{X: x0, Y: y0}).
		LineTo(vec.Vec2{X: x1, Y: y0}).
		LineTo(vec.Vec2{X: x1, Y: y1}).
		LineTo(vec.Vec2{X: x0, Y: y1}).
		Close()
}

// The triangle (0,0)→(10,0)→(10,1)→close has a diagonal edge y = x/10.
// Each pixel X should have coverage (2X+1)/20: 0.05, 0.15, ..., 0.95.
func TestTriangleCoverage(t *testing.T) {
	trianglePath := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 1}).
		Close()

	r := NewRasterizer(rect.Rect{LLx: 0, LLy: 0, URx: 10, URy: 1})
	buf, emit := collect(10, 1)
	r.Fill(trianglePath, NonZero, emit)

	const epsilon = 1e-6
	for x := range 10 {
		expected := float32(2*x+1) / 20.0
		if math.Abs(float64(buf[x]-expected)) > epsilon {
			t.Errorf("pixel %d: expected coverage %.4f, got %.4f", x, expected, buf[x])
		}
	}
}

func TestFillRectangle(t *testing.T) {
	r := NewRasterizer(rect.Rect{URx: 10, URy: 10})
	buf, emit := collect(10, 10)
	r.Fill(rectPath(2, 2, 8, 8), NonZero, emit)

	assert.InDelta(t, 36, total(buf), 1e-4)
	assert.InDelta(t, 1, buf[5*10+5], 1e-6)
	assert.Zero(t, buf[1*10+1])
}

func TestFillHalfPixelEdges(t *testing.T) {
	r := NewRasterizer(rect.Rect{URx: 4, URy: 4})
	buf, emit := collect(4, 4)
	r.Fill(rectPath(0.5, 0.5, 3.5, 3.5), NonZero, emit)

	assert.InDelta(t, 9, total(buf), 1e-4)
	assert.InDelta(t, 0.25, buf[0], 1e-5, "corner pixel")
	assert.InDelta(t, 0.5, buf[1], 1e-5, "edge pixel")
	assert.InDelta(t, 1, buf[1*4+1], 1e-5, "interior pixel")
}

func TestFillRules(t *testing.T) {
	// outer and inner square with the same orientation
	p := rectPath(0, 0, 10, 10)
	inner := rectPath(3, 3, 7, 7)
	p.Cmds = append(p.Cmds, inner.Cmds...)
	p.Coords = append(p.Coords, inner.Coords...)

	r := NewRasterizer(rect.Rect{URx: 10, URy: 10})

	nonZero, emit := collect(10, 10)
	r.Fill(p, NonZero, emit)
	assert.InDelta(t, 100, total(nonZero), 1e-3)

	evenOdd, emit := collect(10, 10)
	r.Fill(p, EvenOdd, emit)
	assert.InDelta(t, 84, total(evenOdd), 1e-3)
	assert.Zero(t, evenOdd[5*10+5])
}

func TestFillImplicitClose(t *testing.T) {
	open := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).
		LineTo(vec.Vec2{X: 4, Y: 0}).
		LineTo(vec.Vec2{X: 4, Y: 4}).
		LineTo(vec.Vec2{X: 0, Y: 4})

	r := NewRasterizer(rect.Rect{URx: 4, URy: 4})
	buf, emit := collect(4, 4)
	r.Fill(open, NonZero, emit)
	assert.InDelta(t, 16, total(buf), 1e-4)
}

func TestFillCTM(t *testing.T) {
	r := NewRasterizer(rect.Rect{URx: 20, URy: 20})
	r.CTM = matrix.Matrix{2, 0, 0, 2, 0, 0}
	buf, emit := collect(20, 20)
	r.Fill(rectPath(1, 1, 6, 6), NonZero, emit)
	assert.InDelta(t, 100, total(buf), 1e-3)
}

func TestFillClipped(t *testing.T) {
	r := NewRasterizer(rect.Rect{URx: 5, URy: 5})
	buf, emit := collect(5, 5)
	r.Fill(rectPath(-10, -10, 3, 20), NonZero, emit)
	assert.InDelta(t, 15, total(buf), 1e-4)
}

func TestFillCircleArea(t *testing.T) {
	const k = 0.5522847498 // cubic approximation of a quarter circle
	c := vec.Vec2{X: 25, Y: 25}
	rad := 20.0
	p := (&path.Data{}).MoveTo(vec.Vec2{X: c.X + rad, Y: c.Y})
	p = p.CubeTo(vec.Vec2{X: c.X + rad, Y: c.Y + k*rad}, vec.Vec2{X: c.X + k*rad, Y: c.Y + rad}, vec.Vec2{X: c.X, Y: c.Y + rad})
	p = p.CubeTo(vec.Vec2{X: c.X - k*rad, Y: c.Y + rad}, vec.Vec2{X: c.X - rad, Y: c.Y + k*rad}, vec.Vec2{X: c.X - rad, Y: c.Y})
	p = p.CubeTo(vec.Vec2{X: c.X - rad, Y: c.Y - k*rad}, vec.Vec2{X: c.X - k*rad, Y: c.Y - rad}, vec.Vec2{X: c.X, Y: c.Y - rad})
	p = p.CubeTo(vec.Vec2{X: c.X + k*rad, Y: c.Y - rad}, vec.Vec2{X: c.X + rad, Y: c.Y - k*rad}, vec.Vec2{X: c.X + rad, Y: c.Y})
	p = p.Close()

	r := NewRasterizer(rect.Rect{URx: 50, URy: 50})
	buf, emit := collect(50, 50)
	r.Fill(p, NonZero, emit)
	assert.InEpsilon(t, math.Pi*rad*rad, total(buf), 0.01)
}

func TestStrokeButt(t *testing.T) {
	line := (&path.Data{}).
		MoveTo(vec.Vec2{X: 2, Y: 5}).
		LineTo(vec.Vec2{X: 12, Y: 5})

	r := NewRasterizer(rect.Rect{URx: 20, URy: 10})
	r.Width = 2
	buf, emit := collect(20, 10)
	r.Stroke(line, emit)

	assert.InDelta(t, 20, total(buf), 1e-3)
	assert.InDelta(t, 1, buf[4*20+5], 1e-6)
	assert.Zero(t, buf[4*20+1], "butt cap must not extend past the end")
}

func TestStrokeCaps(t *testing.T) {
	line := (&path.Data{}).
		MoveTo(vec.Vec2{X: 5, Y: 5}).
		LineTo(vec.Vec2{X: 15, Y: 5})

	cases := []struct {
		cap  graphics.LineCapStyle
		area float64
		tol  float64
	}{
		{graphics.LineCapButt, 20, 1e-3},
		{graphics.LineCapSquare, 24, 1e-3},
		{graphics.LineCapRound, 20 + math.Pi, 0.4},
	}
	for _, tc := range cases {
		t.Run(tc.cap.String(), func(t *testing.T) {
			r := NewRasterizer(rect.Rect{URx: 20, URy: 10})
			r.Width = 2
			r.Cap = tc.cap
			buf, emit := collect(20, 10)
			r.Stroke(line, emit)
			assert.InDelta(t, tc.area, total(buf), tc.tol)
		})
	}
}

func TestStrokeClosedSquare(t *testing.T) {
	r := NewRasterizer(rect.Rect{URx: 20, URy: 20})
	r.Width = 2
	r.Join = graphics.LineJoinMiter
	buf, emit := collect(20, 20)
	r.Stroke(rectPath(5, 5, 15, 15), emit)

	// 12×12 outer square minus 8×8 hole
	assert.InDelta(t, 80, total(buf), 1e-3)
	assert.InDelta(t, 1, buf[4*20+4], 1e-6, "miter corner")
	assert.Zero(t, buf[10*20+10])
}

func TestStrokeBevelAndRoundJoins(t *testing.T) {
	r := NewRasterizer(rect.Rect{URx: 20, URy: 20})
	r.Width = 2

	// each bevel cuts half a pixel off the outer corner
	r.Join = graphics.LineJoinBevel
	buf, emit := collect(20, 20)
	r.Stroke(rectPath(5, 5, 15, 15), emit)
	assert.InDelta(t, 78, total(buf), 1e-3)

	r.Join = graphics.LineJoinRound
	buf, emit = collect(20, 20)
	r.Stroke(rectPath(5, 5, 15, 15), emit)
	sum := total(buf)
	assert.Greater(t, sum, 79.0)
	assert.Less(t, sum, 80.0)
}

func TestStrokeDash(t *testing.T) {
	line := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 5}).
		LineTo(vec.Vec2{X: 20, Y: 5})

	r := NewRasterizer(rect.Rect{URx: 20, URy: 10})
	r.Width = 2
	r.Dash = []float64{4, 6}
	buf, emit := collect(20, 10)
	r.Stroke(line, emit)

	// dashes at [0,4] and [10,14]
	assert.InDelta(t, 16, total(buf), 1e-3)
	assert.InDelta(t, 1, buf[4*20+2], 1e-6)
	assert.Zero(t, buf[4*20+7])
	assert.InDelta(t, 1, buf[4*20+12], 1e-6)

	r.DashPhase = 4
	buf, emit = collect(20, 10)
	r.Stroke(line, emit)
	assert.Zero(t, buf[4*20+2])
	assert.InDelta(t, 1, buf[4*20+7], 1e-6)
}

func TestStrokeZeroWidth(t *testing.T) {
	r := NewRasterizer(rect.Rect{URx: 10, URy: 10})
	r.Width = 0
	called := false
	r.Stroke(rectPath(1, 1, 8, 8), func(int, int, []float32) { called = true })
	assert.False(t, called)
}

func TestAlphaEmitter(t *testing.T) {
	dst := image.NewAlpha(image.Rect(0, 0, 10, 10))
	r := NewRasterizer(rect.Rect{URx: 10, URy: 10})
	emit := AlphaEmitter(dst)

	r.Fill(rectPath(0, 0, 5, 10), NonZero, emit)
	r.Fill(rectPath(4.5, 0, 10, 10), NonZero, emit)

	require.Equal(t, uint8(255), dst.AlphaAt(2, 2).A)
	require.Equal(t, uint8(255), dst.AlphaAt(4, 2).A, "values only increase")
	require.Equal(t, uint8(255), dst.AlphaAt(8, 2).A)
}

func BenchmarkFillStroke(b *testing.B) {
	r := NewRasterizer(rect.Rect{URx: 500, URy: 500})
	r.Width = 5
	r.Join = graphics.LineJoinRound
	p := (&path.Data{}).MoveTo(vec.Vec2{X: 10, Y: 10})
	for i := 1; i < 200; i++ {
		phi := float64(i) / 200 * 2 * math.Pi
		rad := 200 + 30*math.Sin(7*phi)
		p = p.LineTo(vec.Vec2{X: 250 + rad*math.Cos(phi), Y: 250 + rad*math.Sin(phi)})
	}
	p = p.Close()
	emit := func(y, xMin int, coverage []float32) {}

	b.ResetTimer()
	for b.Loop() {
		r.Fill(p, NonZero, emit)
		r.Stroke(p, emit)
	}
}
