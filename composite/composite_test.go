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


package composite

import (
	"encoding/json"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buywitheze-droid/sticker-maker-sub001/outline"
)

var (
	red   = color.NRGBA{R: 0xff, A: 0xff}
	blue  = color.NRGBA{B: 0xff, A: 0xff}
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

func solidImage(w, h int, col color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, col)
		}
	}
	return img
}

// squareSetup places a 10×10 image on a 10×10 canvas, with the contour
// through the centres of its corner pixels. The padding is 5+1+1 pixels.
func squareSetup(bleed BleedMode) (image.Image, outline.Path, Options) {
	p := outline.Path{{X: 0, Y: 0}, {X: 9, Y: 0}, {X: 9, Y: 9}, {X: 0, Y: 9}}
	opts := Options{
		DPI:         100,
		BleedInches: 0.05,
		Bleed:       bleed,
		BleedColor:  white,
		CutWidth:    2,
		CutColor:    blue,
	}
	return solidImage(10, 10, red), p, opts
}

func TestPadding(t *testing.T) {
	assert.Equal(t, 7, Padding(Options{DPI: 100, BleedInches: 0.05, CutWidth: 2}))
	assert.Equal(t, 8, Padding(Options{DPI: 100, BleedInches: 0.05, CutWidth: 3}))
	assert.Equal(t, 1, Padding(Options{DPI: 100}))
}

func TestRenderRegistration(t *testing.T) {
	src, p, opts := squareSetup(BleedEdge)
	img, data := Render(src, image.Point{}, image.Pt(10, 10), p, opts)

	require.Equal(t, image.Rect(0, 0, 24, 24), img.Rect)
	assert.InDelta(t, 0.24, data.Width, 1e-12)
	assert.InDelta(t, 0.24, data.Height, 1e-12)
	assert.InDelta(t, 0.07, data.ImageX, 1e-12)
	assert.InDelta(t, 0.07, data.ImageY, 1e-12)

	require.Len(t, data.Points, 4)
	assert.InDelta(t, 0.075, data.Points[0].X, 1e-12)
	assert.InDelta(t, 0.165, data.Points[0].Y, 1e-12)
	assert.InDelta(t, 0.165, data.Points[2].X, 1e-12)
	assert.InDelta(t, 0.075, data.Points[2].Y, 1e-12)

	// the contour passes through the centre of the image's corner pixels
	assert.InDelta(t, data.ImageX+0.005, data.Points[0].X, 1e-12)
	assert.InDelta(t, data.ImageY+0.005, data.Points[3].Y, 1e-12)
	assert.Equal(t, EdgeBleed, data.BackgroundColor)
	assert.Equal(t, "edge", data.BleedMode)
}

func TestRenderImageOffset(t *testing.T) {
	src := solidImage(4, 6, red)
	p := outline.Path{{X: 3, Y: 2}, {X: 6, Y: 2}, {X: 6, Y: 7}, {X: 3, Y: 7}}
	opts := Options{DPI: 50, Bleed: BleedEdge}
	img, data := Render(src, image.Pt(3, 2), image.Pt(10, 10), p, opts)

	pad := Padding(opts)
	require.Equal(t, 1, pad)
	assert.Equal(t, red, img.NRGBAAt(3+pad, 2+pad))
	assert.Equal(t, uint8(0), img.NRGBAAt(2+pad, 2+pad).A)
	assert.InDelta(t, float64(3+pad)/50, data.ImageX, 1e-12)
	assert.InDelta(t, float64(12-2-pad-6)/50, data.ImageY, 1e-12)
}

func TestRenderEdgeBleed(t *testing.T) {
	src, p, opts := squareSetup(BleedEdge)
	img, _ := Render(src, image.Point{}, image.Pt(10, 10), p, opts)

	assert.Equal(t, red, img.NRGBAAt(3, 12), "bleed")
	assert.Equal(t, red, img.NRGBAAt(12, 20), "bleed")
	assert.Equal(t, uint8(0), img.NRGBAAt(1, 12).A, "outside the bleed")
	assert.Equal(t, uint8(0), img.NRGBAAt(0, 0).A, "corner")
	assert.Equal(t, red, img.NRGBAAt(7, 12), "image over the cut line")
}

func TestRenderCustomBleed(t *testing.T) {
	src, p, opts := squareSetup(BleedCustom)
	img, data := Render(src, image.Point{}, image.Pt(10, 10), p, opts)

	assert.Equal(t, white, img.NRGBAAt(3, 12))
	assert.Equal(t, uint8(0), img.NRGBAAt(1, 12).A)

	cut := img.NRGBAAt(6, 12)
	assert.Equal(t, uint8(0xff), cut.B)
	assert.Equal(t, uint8(0xff), cut.A)
	assert.InDelta(t, 128, int(cut.R), 3)

	assert.Equal(t, "#ffffff", data.BackgroundColor)
	assert.Equal(t, "custom", data.BleedMode)
}

func TestRenderCutJoin(t *testing.T) {
	// pixel (17, 17) lies just outside the corner at (9, 9); a miter
	// covers a quarter of it, a round join less, a bevel nothing
	corner := func(j Join) color.NRGBA {
		src, p, opts := squareSetup(BleedCustom)
		opts.CutJoin = j
		img, _ := Render(src, image.Point{}, image.Pt(10, 10), p, opts)
		return img.NRGBAAt(17, 17)
	}
	round, miter, bevel := corner(JoinRound), corner(JoinMiter), corner(JoinBevel)
	assert.Equal(t, round, corner(""))
	assert.InDelta(t, 191, int(miter.R), 8)
	assert.Less(t, miter.R, round.R)
	assert.Less(t, round.R, bevel.R)
	assert.InDelta(t, 0xff, int(bevel.R), 1)

	// straight parts of the line do not depend on the join
	src, p, opts := squareSetup(BleedCustom)
	opts.CutJoin = JoinMiter
	img, _ := Render(src, image.Point{}, image.Pt(10, 10), p, opts)
	assert.InDelta(t, 128, int(img.NRGBAAt(6, 12).R), 3)
}

func TestParseJoin(t *testing.T) {
	for _, j := range []Join{JoinRound, JoinMiter, JoinBevel} {
		got, err := ParseJoin(string(j))
		require.NoError(t, err)
		assert.Equal(t, j, got)
	}
	j, err := ParseJoin("")
	require.NoError(t, err)
	assert.Equal(t, JoinRound, j)
	_, err = ParseJoin("arcs")
	assert.Error(t, err)
}

func TestRenderEdgeBleedTranslucent(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	_, p, opts := squareSetup(BleedEdge)
	img, _ := Render(src, image.Point{}, image.Pt(10, 10), p, opts)

	// nothing to extend: the bleed falls back to white
	assert.Equal(t, white, img.NRGBAAt(3, 12))
	assert.Equal(t, white, img.NRGBAAt(12, 12))
}

func TestRenderRawOverlay(t *testing.T) {
	src, p, opts := squareSetup(BleedEdge)
	plain, _ := Render(src, image.Point{}, image.Pt(10, 10), p, opts)

	opts.Raw = outline.Path{{X: -3, Y: -3}, {X: 12, Y: -3}, {X: 12, Y: 12}, {X: -3, Y: 12}}
	debug, _ := Render(src, image.Point{}, image.Pt(10, 10), p, opts)
	assert.NotEqual(t, plain.Pix, debug.Pix)
	assert.Equal(t, plain.NRGBAAt(12, 12), debug.NRGBAAt(12, 12))
}

func TestRenderEmptyContour(t *testing.T) {
	src, _, opts := squareSetup(BleedEdge)
	img, data := Render(src, image.Point{}, image.Pt(10, 10), nil, opts)
	assert.Equal(t, red, img.NRGBAAt(7, 7))
	assert.Equal(t, uint8(0), img.NRGBAAt(3, 12).A)
	assert.Empty(t, data.Points)
}

func TestPlain(t *testing.T) {
	src := solidImage(30, 20, red)
	img, data := Plain(src, Options{DPI: 10, Bleed: BleedEdge})
	assert.Equal(t, src.Pix, img.Pix)
	assert.InDelta(t, 3, data.Width, 1e-12)
	assert.InDelta(t, 2, data.Height, 1e-12)
	assert.Zero(t, data.ImageX)
	assert.Zero(t, data.ImageY)

	buf, err := json.Marshal(data)
	require.NoError(t, err)
	assert.Contains(t, string(buf), `"points":[]`)
}

func TestDataJSON(t *testing.T) {
	data := Data{
		Points:          []Point{{X: 1, Y: 2}},
		Width:           3,
		Height:          4,
		ImageX:          0.5,
		ImageY:          0.25,
		BackgroundColor: EdgeBleed,
		BleedMode:       string(BleedEdge),
	}
	buf, err := json.Marshal(data)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"points": [{"x": 1, "y": 2}],
		"width": 3,
		"height": 4,
		"imageX": 0.5,
		"imageY": 0.25,
		"backgroundColor": "edge-bleed",
		"bleedMode": "edge"
	}`, string(buf))
}

func TestBlend(t *testing.T) {
	d := []uint8{0xff, 0xff, 0xff, 0xff}
	blend(d, 0, 0, 0, 0.5)
	assert.Equal(t, []uint8{128, 128, 128, 0xff}, d)

	d = []uint8{0, 0, 0, 0}
	blend(d, 10, 20, 30, 0.5)
	assert.Equal(t, []uint8{10, 20, 30, 128}, d)

	d = []uint8{1, 2, 3, 4}
	blend(d, 10, 20, 30, 0)
	assert.Equal(t, []uint8{1, 2, 3, 4}, d)
}
