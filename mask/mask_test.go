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

package mask

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fromRows builds a mask from strings, '#' marking foreground.
func fromRows(rows ...string) *Mask {
	m := New(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, c := range row {
			m.Set(x, y, c == '#')
		}
	}
	return m
}

func rectMask(w, h int, r image.Rectangle) *Mask {
	m := New(w, h)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Set(x, y, true)
		}
	}
	return m
}

func TestFromImageThreshold(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	for x, a := range []uint8{0, 127, 128, 255} {
		img.SetNRGBA(x, 0, color.NRGBA{R: 10, G: 20, B: 30, A: a})
	}

	m := FromImage(img, 128)
	assert.Equal(t, []uint8{0, 0, 1, 1}, m.Pix)

	m = FromImage(img, 0)
	assert.Equal(t, 4, m.Count())
}

func TestFromImageFormats(t *testing.T) {
	b := image.Rect(3, 5, 7, 8)
	rgba := image.NewRGBA(b)
	nrgba := image.NewNRGBA(b)
	alpha := image.NewAlpha(b)
	paletted := image.NewPaletted(b, color.Palette{color.Transparent, color.White})

	for _, p := range []image.Point{{3, 5}, {6, 7}, {4, 6}} {
		rgba.Set(p.X, p.Y, color.White)
		nrgba.Set(p.X, p.Y, color.White)
		alpha.Set(p.X, p.Y, color.Alpha{A: 255})
		paletted.SetColorIndex(p.X, p.Y, 1)
	}

	for name, img := range map[string]image.Image{
		"rgba": rgba, "nrgba": nrgba, "alpha": alpha, "generic": paletted,
	} {
		t.Run(name, func(t *testing.T) {
			m := FromImage(img, 1)
			require.Equal(t, 4, m.Width)
			require.Equal(t, 3, m.Height)
			assert.Equal(t, 3, m.Count())
			assert.True(t, m.At(0, 0))
			assert.True(t, m.At(3, 2))
			assert.True(t, m.At(1, 1))
			assert.False(t, m.At(1, 0))
		})
	}
}

func TestAtOutside(t *testing.T) {
	m := fromRows("##", "##")
	assert.False(t, m.At(-1, 0))
	assert.False(t, m.At(0, 2))
	m.Set(5, 5, true)
	assert.Equal(t, 4, m.Count())
}

func TestBoundsAndCrop(t *testing.T) {
	m := fromRows(
		".....",
		"..#..",
		".###.",
		".....",
	)
	assert.Equal(t, image.Rect(1, 1, 4, 3), m.Bounds())
	assert.Equal(t, image.Rectangle{}, New(3, 3).Bounds())
	assert.True(t, New(3, 3).Empty())
	assert.False(t, m.Empty())

	c := m.Crop(image.Rect(1, 1, 4, 3))
	assert.Equal(t, fromRows(".#.", "###"), c)

	// regions outside the mask read as background
	c = m.Crop(image.Rect(-1, -1, 2, 2))
	assert.Equal(t, 0, c.Count())
}

func TestGray(t *testing.T) {
	g := fromRows("#.", ".#").Gray()
	assert.Equal(t, []uint8{255, 0, 0, 255}, g.Pix)
}

func TestDilateSinglePixel(t *testing.T) {
	m := fromRows("#")
	d := Dilate(m, 2)
	require.Equal(t, 5, d.Width)
	require.Equal(t, 5, d.Height)
	assert.Equal(t, fromRows(
		"..#..",
		".###.",
		"#####",
		".###.",
		"..#..",
	), d)
}

func TestDilateCanvasGrowth(t *testing.T) {
	// foreground touching the border must not be truncated
	m := rectMask(10, 6, image.Rect(0, 0, 10, 6))
	for _, r := range []int{1, 3, 7} {
		d := Dilate(m, r)
		assert.Equal(t, 10+2*r, d.Width)
		assert.Equal(t, 6+2*r, d.Height)
		assert.True(t, d.At(r, 0), "top edge grown by r")
		assert.True(t, d.At(0, r+2), "left edge grown by r")
		assert.False(t, d.At(0, 0), "corners are rounded")
		assert.Greater(t, d.Count(), m.Count())
	}
}

func TestDilateZeroRadius(t *testing.T) {
	m := fromRows("#.", ".#")
	d := Dilate(m, 0)
	assert.Equal(t, m, d)
	d.Set(1, 0, true)
	assert.False(t, m.At(1, 0), "result must not alias the input")
}

func TestDilateMatchesBruteForce(t *testing.T) {
	m := fromRows(
		"..........",
		"..####....",
		"..####..#.",
		"..####....",
		"......##..",
		"..........",
	)
	const r = 3
	d := Dilate(m, r)
	for y := range d.Height {
		for x := range d.Width {
			want := false
			for dy := -r; dy <= r && !want; dy++ {
				for dx := -r; dx <= r; dx++ {
					if dx*dx+dy*dy <= r*r && m.At(x-r+dx, y-r+dy) {
						want = true
						break
					}
				}
			}
			assert.Equal(t, want, d.At(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestErodeInvertsDilate(t *testing.T) {
	m := rectMask(12, 9, image.Rect(2, 2, 9, 7))
	for _, r := range []int{1, 2, 4} {
		e := Erode(Dilate(m, r), r)
		assert.Equal(t, m, e, "radius %d", r)
	}
}

func TestErodeTooSmall(t *testing.T) {
	e := Erode(fromRows("###", "###"), 2)
	assert.Equal(t, 0, e.Width)
	assert.True(t, e.Empty())
}

func TestFill(t *testing.T) {
	m := fromRows(
		".......",
		".#####.",
		".#...#.",
		".#.#.#.",
		".#...#.",
		".#####.",
		".......",
	)
	f := Fill(m)
	assert.Equal(t, rectMask(7, 7, image.Rect(1, 1, 6, 6)), f)

	// a hole opening to the border stays open
	open := fromRows(
		"#####",
		"#...#",
		"#...#",
		"##.##",
	)
	assert.Equal(t, open, Fill(open))
}

func TestFillDiagonalLeak(t *testing.T) {
	// background is 4-connected: a diagonal gap does not let it escape
	m := fromRows(
		".#...",
		"#.#..",
		".#...",
	)
	f := Fill(m)
	assert.True(t, f.At(1, 1))
}

func TestCloseBridgesNarrowGap(t *testing.T) {
	m := New(30, 12)
	for y := 2; y < 10; y++ {
		for x := 2; x < 13; x++ {
			m.Set(x, y, true)
		}
		for x := 15; x < 28; x++ {
			m.Set(x, y, true)
		}
	}
	_, n := Largest(m)
	require.Equal(t, 2, n)

	c := Close(m, 2)
	require.Equal(t, m.Width, c.Width)
	require.Equal(t, m.Height, c.Height)
	_, n = Largest(c)
	assert.Equal(t, 1, n)
	assert.True(t, c.At(13, 5))
	assert.True(t, c.At(14, 5))

	// the outer shape is preserved
	assert.Equal(t, m.Bounds(), c.Bounds())
}

func TestCloseKeepsWideGap(t *testing.T) {
	m := New(40, 12)
	for y := 2; y < 10; y++ {
		for x := 2; x < 12; x++ {
			m.Set(x, y, true)
		}
		for x := 28; x < 38; x++ {
			m.Set(x, y, true)
		}
	}
	_, n := Largest(Close(m, 2))
	assert.Equal(t, 2, n)
}

func TestLargest(t *testing.T) {
	m := fromRows(
		"##.....",
		"##...#.",
		"......#",
		"...###.",
		"#......",
	)
	l, n := Largest(m)
	assert.Equal(t, 3, n)
	assert.Equal(t, fromRows(
		".......",
		".....#.",
		"......#",
		"...###.",
		".......",
	), l)

	empty, n := Largest(New(4, 4))
	assert.Equal(t, 0, n)
	assert.True(t, empty.Empty())
}

func TestDiskHalfWidths(t *testing.T) {
	assert.Equal(t, []int{0}, diskHalfWidths(0))
	assert.Equal(t, []int{3, 2, 2, 0}, diskHalfWidths(3))
	assert.Equal(t, []int{5, 4, 4, 4, 3, 0}, diskHalfWidths(5))
}
