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

// Package shapes generates synthetic sticker artwork with known geometry.
// The images exercise the contour pipeline: plain blocks, narrow channels,
// thin protrusions, disconnected parts, holes and empty input.
package shapes

import (
	"image"
	"image/color"
	"math"

	"github.com/buywitheze-droid/sticker-maker-sub001/internal/raster"
	"github.com/lucasb-eyer/go-colorful"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Square returns a fully opaque size×size square surrounded by a
// transparent margin.
func Square(size, margin int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size+2*margin, size+2*margin))
	fillRect(img, image.Rect(margin, margin, margin+size, margin+size), hue(210))
	return img
}

// C returns a size×size block with a square cave of side cave near its
// right edge. A horizontal channel of the given width connects the cave
// to the outside.
func C(size, cave, channel int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	fillRect(img, img.Rect, hue(20))

	lip := size / 8
	x1 := size - lip
	x0 := x1 - cave
	y0 := (size - cave) / 2
	clearRect(img, image.Rect(x0, y0, x1, y0+cave))

	c0 := (size - channel) / 2
	clearRect(img, image.Rect(x0+cave/2, c0, size, c0+channel))
	return img
}

// Star returns a star with the given number of spikes. The spikes reach
// out to radius outer and the valleys between them are at radius inner,
// both measured from the image centre.
func Star(size, spikes int, outer, inner float64) *image.NRGBA {
	c := vec.Vec2{X: float64(size) / 2, Y: float64(size) / 2}
	p := &path.Data{}
	for k := range 2 * spikes {
		r := outer
		if k%2 == 1 {
			r = inner
		}
		phi := -math.Pi/2 + float64(k)*math.Pi/float64(spikes)
		q := vec.Vec2{X: c.X + r*math.Cos(phi), Y: c.Y + r*math.Sin(phi)}
		if k == 0 {
			p = p.MoveTo(q)
		} else {
			p = p.LineTo(q)
		}
	}
	p = p.Close()
	return paint(size, size, hue(50), func(r *raster.Rasterizer, emit func(int, int, []float32)) {
		r.Fill(p, raster.NonZero, emit)
	})
}

// DottedI returns a lower case "i": a vertical stem and, separated by a
// transparent gap, a round dot.
func DottedI(size int) *image.NRGBA {
	s := float64(size)
	stem := rectPath(0.4*s, 0.35*s, 0.6*s, 0.95*s)
	dot := circlePath(vec.Vec2{X: 0.5 * s, Y: 0.15 * s}, 0.125*s)
	return paint(size, size, hue(280), func(r *raster.Rasterizer, emit func(int, int, []float32)) {
		r.Fill(stem, raster.NonZero, emit)
		r.Fill(dot, raster.NonZero, emit)
	})
}

// Ring returns an annulus centred in a size×size image.
func Ring(size int, outer, inner float64) *image.NRGBA {
	c := vec.Vec2{X: float64(size) / 2, Y: float64(size) / 2}
	p := circlePath(c, outer)
	hole := circlePath(c, inner)
	p.Cmds = append(p.Cmds, hole.Cmds...)
	p.Coords = append(p.Coords, hole.Coords...)
	return paint(size, size, hue(130), func(r *raster.Rasterizer, emit func(int, int, []float32)) {
		r.Fill(p, raster.EvenOdd, emit)
	})
}

// Transparent returns a fully transparent image.
func Transparent(width, height int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

// hue returns a saturated opaque colour with the given hue in degrees.
func hue(h float64) color.NRGBA {
	r, g, b := colorful.Hsv(h, 0.65, 0.85).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

func fillRect(img *image.NRGBA, r image.Rectangle, col color.NRGBA) {
	r = r.Intersect(img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, col)
		}
	}
}

func clearRect(img *image.NRGBA, r image.Rectangle) {
	fillRect(img, r, color.NRGBA{})
}

// paint rasterizes the shapes drawn by draw and colours the covered
// pixels, using the coverage as alpha.
func paint(width, height int, col color.NRGBA, draw func(r *raster.Rasterizer, emit func(int, int, []float32))) *image.NRGBA {
	cover := image.NewAlpha(image.Rect(0, 0, width, height))
	r := raster.NewRasterizer(rect.Rect{URx: float64(width), URy: float64(height)})
	draw(r, raster.AlphaEmitter(cover))

	img := image.NewNRGBA(cover.Rect)
	for i, a := range cover.Pix {
		if a == 0 {
			continue
		}
		img.Pix[4*i+0] = col.R
		img.Pix[4*i+1] = col.G
		img.Pix[4*i+2] = col.B
		img.Pix[4*i+3] = uint8(uint16(a) * uint16(col.A) / 0xff)
	}
	return img
}

func rectPath(x0, y0, x1, y1 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(vec.Vec2{X: x0, Y: y0}).
		LineTo(vec.Vec2{X: x1, Y: y0}).
		LineTo(vec.Vec2{X: x1, Y: y1}).
		LineTo(vec.Vec2{X: x0, Y: y1}).
		Close()
}

// circlePath approximates a circle by four cubic Bézier curves.
func circlePath(c vec.Vec2, r float64) *path.Data {
	const k = 0.5522847498
	p := (&path.Data{}).MoveTo(vec.Vec2{X: c.X + r, Y: c.Y})
	p = p.CubeTo(vec.Vec2{X: c.X + r, Y: c.Y + k*r}, vec.Vec2{X: c.X + k*r, Y: c.Y + r}, vec.Vec2{X: c.X, Y: c.Y + r})
	p = p.CubeTo(vec.Vec2{X: c.X - k*r, Y: c.Y + r}, vec.Vec2{X: c.X - r, Y: c.Y + k*r}, vec.Vec2{X: c.X - r, Y: c.Y})
	p = p.CubeTo(vec.Vec2{X: c.X - r, Y: c.Y - k*r}, vec.Vec2{X: c.X - k*r, Y: c.Y - r}, vec.Vec2{X: c.X, Y: c.Y - r})
	p = p.CubeTo(vec.Vec2{X: c.X + k*r, Y: c.Y - r}, vec.Vec2{X: c.X + r, Y: c.Y - k*r}, vec.Vec2{X: c.X + r, Y: c.Y})
	return p.Close()
}
