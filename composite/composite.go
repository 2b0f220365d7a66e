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


// Package composite renders the preview of a sticker: the bleed area, the
// cut line and the original image on a padded canvas. It also converts the
// cut line to inches for the PDF assembly stage.
//
// All inputs are given in canvas coordinates, the coordinate system of the
// mask the contour was traced from: pixel centres sit at integer positions
// and y points down. The output canvas adds a margin of Padding(opts)
// pixels on all sides.
package composite

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf/graphics"

	"github.com/buywitheze-droid/sticker-maker-sub001/internal/raster"
	"github.com/buywitheze-droid/sticker-maker-sub001/mask"
	"github.com/buywitheze-droid/sticker-maker-sub001/outline"
)

// BleedMode selects how the area around the image is filled.
type BleedMode string

const (
	// BleedEdge extends the colours at the edge of the image outwards.
	BleedEdge BleedMode = "edge"

	// BleedCustom fills the bleed area with a flat colour.
	BleedCustom BleedMode = "custom"
)

// EdgeBleed is the background colour value reported for edge bleed.
const EdgeBleed = "edge-bleed"

// DefaultBleedInches is the width of the bleed area outside the cut line.
const DefaultBleedInches = 0.05

// Join selects the shape of the cut line at the corners of the contour.
type Join string

const (
	// JoinRound rounds the corners. The empty Join means JoinRound.
	JoinRound Join = "round"

	// JoinMiter extends the outer edges of the line until they meet.
	// Very sharp corners fall back to JoinBevel.
	JoinMiter Join = "miter"

	// JoinBevel cuts the corners off straight.
	JoinBevel Join = "bevel"
)

// ParseJoin returns the join with the given name. The empty string
// selects JoinRound.
func ParseJoin(s string) (Join, error) {
	switch j := Join(s); j {
	case "":
		return JoinRound, nil
	case JoinRound, JoinMiter, JoinBevel:
		return j, nil
	default:
		return "", fmt.Errorf("unknown line join %q", s)
	}
}

func (j Join) style() graphics.LineJoinStyle {
	switch j {
	case JoinMiter:
		return graphics.LineJoinMiter
	case JoinBevel:
		return graphics.LineJoinBevel
	default:
		return graphics.LineJoinRound
	}
}

// opaque is the alpha value from which image pixels seed the edge bleed
// and count towards the bleed region.
const opaque = 128

// Options controls the rendering.
type Options struct {
	DPI         float64 // pixels per inch of the canvas; must be positive
	BleedInches float64
	Bleed       BleedMode
	BleedColor  color.NRGBA // used for BleedCustom

	// CutWidth is the width of the cut line in pixels. 0 hides the line.
	CutWidth float64
	CutColor color.NRGBA
	CutJoin  Join

	// Raw, if not nil, is drawn as a dashed overlay. It is used to show
	// the unconditioned boundary for debugging.
	Raw outline.Path
}

// Point is a point of the cut line in inches.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Data describes the cut line in physical units. The origin is the
// bottom-left corner of the padded canvas and y points up. ImageX and
// ImageY give the position of the bottom-left corner of the original
// image, so that the image can be placed under the cut line.
type Data struct {
	Points          []Point `json:"points"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	ImageX          float64 `json:"imageX"`
	ImageY          float64 `json:"imageY"`
	BackgroundColor string  `json:"backgroundColor"`
	BleedMode       string  `json:"bleedMode"`
}

// Padding returns the margin, in pixels, which Render adds around the
// canvas. It leaves room for the bleed and for half the cut line.
func Padding(opts Options) int {
	return bleedRadius(opts) + int(math.Ceil(opts.CutWidth/2)) + 1
}

func bleedRadius(opts Options) int {
	return max(0, int(math.Round(opts.BleedInches*opts.DPI)))
}

// Render draws the preview for the contour p. The image src is placed
// with its top-left pixel at offset on a canvas of the given size, and the
// result is enlarged by Padding(opts) on every side.
func Render(src image.Image, offset image.Point, canvas image.Point, p outline.Path, opts Options) (*image.NRGBA, Data) {
	pad := Padding(opts)
	w, h := canvas.X+2*pad, canvas.Y+2*pad
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	sb := src.Bounds()
	placed := image.NewNRGBA(dst.Rect)
	at := offset.Add(image.Pt(pad, pad))
	draw.Draw(placed, image.Rectangle{Min: at, Max: at.Add(sb.Size())}, src, sb.Min, draw.Src)

	// device pixel (x, y) covers the square [x, x+1]×[y, y+1]
	ctm := matrix.Matrix{1, 0, 0, 1, float64(pad) + 0.5, float64(pad) + 0.5}

	if len(p) >= 3 {
		region := bleedRegion(p, ctm, w, h, bleedRadius(opts))
		switch opts.Bleed {
		case BleedCustom:
			fillFlat(dst, region, opts.BleedColor)
		default:
			fillEdge(dst, region, placed)
		}
		if opts.CutWidth > 0 {
			strokePath(dst, p, ctm, opts.CutWidth, opts.CutColor, opts.CutJoin.style(), nil)
		}
	}
	over(dst, placed)
	if len(opts.Raw) >= 2 {
		strokePath(dst, opts.Raw, ctm, 1, debugColor, graphics.LineJoinRound, []float64{4, 3})
	}

	toInches := matrix.Matrix{
		1 / opts.DPI, 0,
		0, -1 / opts.DPI,
		(float64(pad) + 0.5) / opts.DPI, (float64(h-pad) - 0.5) / opts.DPI,
	}
	data := describe(opts, w, h)
	data.Points = points(outline.Transform(p, toInches))
	data.ImageX = float64(at.X) / opts.DPI
	data.ImageY = float64(h-at.Y-sb.Dy()) / opts.DPI
	return dst, data
}

// Plain renders src without a cut line, for inputs which have no usable
// contour. The canvas is the image itself.
func Plain(src image.Image, opts Options) (*image.NRGBA, Data) {
	sb := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, sb.Dx(), sb.Dy()))
	draw.Draw(dst, dst.Rect, src, sb.Min, draw.Src)

	data := describe(opts, sb.Dx(), sb.Dy())
	data.Points = []Point{}
	return dst, data
}

func describe(opts Options, w, h int) Data {
	d := Data{
		Width:           float64(w) / opts.DPI,
		Height:          float64(h) / opts.DPI,
		BackgroundColor: EdgeBleed,
		BleedMode:       string(BleedEdge),
	}
	if opts.Bleed == BleedCustom {
		d.BackgroundColor = hex(opts.BleedColor)
		d.BleedMode = string(BleedCustom)
	}
	return d
}

func points(p outline.Path) []Point {
	res := make([]Point, len(p))
	for i, q := range p {
		res[i] = Point{X: q.X, Y: q.Y}
	}
	return res
}

func hex(c color.NRGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

var debugColor = color.NRGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}

// bleedRegion returns the pixels inside p, grown by radius.
func bleedRegion(p outline.Path, ctm matrix.Matrix, w, h, radius int) *mask.Mask {
	cover := image.NewAlpha(image.Rect(0, 0, w, h))
	r := raster.NewRasterizer(rect.Rect{URx: float64(w), URy: float64(h)})
	r.CTM = ctm
	r.Fill(outline.PathData(p), raster.NonZero, raster.AlphaEmitter(cover))

	m := mask.FromImage(cover, opaque)
	if radius > 0 {
		m = mask.Dilate(m, radius).Crop(image.Rect(radius, radius, radius+w, radius+h))
	}
	return m
}

func fillFlat(dst *image.NRGBA, region *mask.Mask, col color.NRGBA) {
	for i, v := range region.Pix {
		if v != 0 {
			copy(dst.Pix[4*i:4*i+4], []uint8{col.R, col.G, col.B, col.A})
		}
	}
}

// fillEdge gives every pixel of the region the colour of the nearest
// opaque image pixel, found by a breadth-first search started from all
// opaque pixels at the edge of the image. Pixels which cannot be reached
// are painted white.
func fillEdge(dst *image.NRGBA, region *mask.Mask, img *image.NRGBA) {
	w, h := region.Width, region.Height
	solid := func(x, y int) bool {
		return x >= 0 && x < w && y >= 0 && y < h && img.Pix[4*(y*w+x)+3] >= opaque
	}

	src := make([]int32, w*h)
	for i := range src {
		src[i] = -1
	}
	var queue []int
	for y := range h {
		for x := range w {
			if !solid(x, y) {
				continue
			}
			i := y*w + x
			src[i] = int32(i)
			if !solid(x-1, y) || !solid(x+1, y) || !solid(x, y-1) || !solid(x, y+1) {
				queue = append(queue, i)
			}
		}
	}

	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		x, y := i%w, i/w
		for _, n := range [4]image.Point{image.Pt(x-1, y), image.Pt(x+1, y), image.Pt(x, y-1), image.Pt(x, y+1)} {
			if !region.At(n.X, n.Y) {
				continue
			}
			j := n.Y*w + n.X
			if src[j] >= 0 {
				continue
			}
			src[j] = src[i]
			queue = append(queue, j)
		}
	}

	for i, v := range region.Pix {
		if v == 0 {
			continue
		}
		d := dst.Pix[4*i : 4*i+4]
		if s := src[i]; s >= 0 {
			copy(d, img.Pix[4*s:4*s+3])
		} else {
			copy(d, []uint8{0xff, 0xff, 0xff})
		}
		d[3] = 0xff
	}
}

// strokePath draws p as a closed line on dst. Dashes get butt caps.
func strokePath(dst *image.NRGBA, p outline.Path, ctm matrix.Matrix, width float64, col color.NRGBA, join graphics.LineJoinStyle, dash []float64) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	r := raster.NewRasterizer(rect.Rect{URx: float64(w), URy: float64(h)})
	r.CTM = ctm
	r.Width = width
	r.Join = join
	r.Cap = graphics.LineCapButt
	r.Dash = dash
	r.Stroke(outline.PathData(p), func(y, xMin int, coverage []float32) {
		if y < 0 || y >= h {
			return
		}
		for k, c := range coverage {
			x := xMin + k
			if x < 0 || x >= w || c <= 0 {
				continue
			}
			a := float64(c) * float64(col.A) / 255
			blend(dst.Pix[dst.PixOffset(x, y):], col.R, col.G, col.B, a)
		}
	})
}

// over composites src onto dst. Both images must have the same bounds.
func over(dst, src *image.NRGBA) {
	for i := 0; i < len(src.Pix); i += 4 {
		s := src.Pix[i : i+4]
		if s[3] == 0 {
			continue
		}
		blend(dst.Pix[i:], s[0], s[1], s[2], float64(s[3])/255)
	}
}

// blend applies the "over" operator to the non-premultiplied pixel
// d[0:4], using the colour (r, g, b) with alpha a in [0, 1].
func blend(d []uint8, r, g, b uint8, a float64) {
	da := float64(d[3]) / 255
	oa := a + da*(1-a)
	if oa <= 0 {
		return
	}
	mix := func(s, d uint8) uint8 {
		v := (float64(s)*a + float64(d)*da*(1-a)) / oa
		return uint8(min(255, v+0.5))
	}
	d[0] = mix(r, d[0])
	d[1] = mix(g, d[1])
	d[2] = mix(b, d[2])
	d[3] = uint8(min(255, oa*255+0.5))
}
