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

// Package mask holds binary foreground masks and the morphological
// operations which grow, fill and clean them up.
package mask

import (
	"image"
	"image/color"
)

// Mask is a binary raster. A pixel value of 1 marks foreground, 0 marks
// background. Pixels are stored row by row.
type Mask struct {
	Width, Height int
	Pix           []uint8
}

// New allocates an empty mask.
func New(width, height int) *Mask {
	width = max(width, 0)
	height = max(height, 0)
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At reports whether (x, y) is foreground. Pixels outside the mask are
// background.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x] != 0
}

// Set marks (x, y) as foreground or background. Coordinates outside the
// mask are ignored.
func (m *Mask) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	var v uint8
	if on {
		v = 1
	}
	m.Pix[y*m.Width+x] = v
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Empty reports whether the mask has no foreground pixels.
func (m *Mask) Empty() bool {
	for _, v := range m.Pix {
		if v != 0 {
			return false
		}
	}
	return true
}

// Bounds returns the smallest rectangle containing all foreground pixels.
// The result is empty if the mask is empty.
func (m *Mask) Bounds() image.Rectangle {
	xMin, yMin := m.Width, m.Height
	xMax, yMax := -1, -1
	for y := range m.Height {
		row := m.Pix[y*m.Width : (y+1)*m.Width]
		for x, v := range row {
			if v == 0 {
				continue
			}
			xMin = min(xMin, x)
			xMax = max(xMax, x)
			yMin = min(yMin, y)
			yMax = max(yMax, y)
		}
	}
	if xMax < 0 {
		return image.Rectangle{}
	}
	return image.Rect(xMin, yMin, xMax+1, yMax+1)
}

// Crop returns a copy of the region r. Parts of r outside the mask read as
// background.
func (m *Mask) Crop(r image.Rectangle) *Mask {
	out := New(r.Dx(), r.Dy())
	for y := range out.Height {
		sy := r.Min.Y + y
		if sy < 0 || sy >= m.Height {
			continue
		}
		for x := range out.Width {
			sx := r.Min.X + x
			if sx < 0 || sx >= m.Width {
				continue
			}
			out.Pix[y*out.Width+x] = m.Pix[sy*m.Width+sx]
		}
	}
	return out
}

// Clone returns a deep copy of m.
func (m *Mask) Clone() *Mask {
	out := &Mask{Width: m.Width, Height: m.Height, Pix: make([]uint8, len(m.Pix))}
	copy(out.Pix, m.Pix)
	return out
}

// Gray renders the mask as an 8-bit image, foreground white.
func (m *Mask) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		if v != 0 {
			img.Pix[i] = 0xff
		}
	}
	return img
}

// isBoundary reports whether the foreground pixel at (x, y) has a
// 4-neighbour which is background or outside the mask.
func (m *Mask) isBoundary(x, y int) bool {
	return !m.At(x-1, y) || !m.At(x+1, y) || !m.At(x, y-1) || !m.At(x, y+1)
}

// FromImage builds a mask from the alpha channel of img: a pixel is
// foreground if its alpha value is at least threshold. A threshold of 0
// marks every pixel as foreground. The mask origin is img.Bounds().Min.
func FromImage(img image.Image, threshold uint8) *Mask {
	b := img.Bounds()
	m := New(b.Dx(), b.Dy())

	switch src := img.(type) {
	case *image.NRGBA:
		for y := range m.Height {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := range m.Width {
				if row[4*x+3] >= threshold {
					m.Pix[y*m.Width+x] = 1
				}
			}
		}
	case *image.RGBA:
		// premultiplied, but the alpha channel is stored as is
		for y := range m.Height {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := range m.Width {
				if row[4*x+3] >= threshold {
					m.Pix[y*m.Width+x] = 1
				}
			}
		}
	case *image.Alpha:
		for y := range m.Height {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := range m.Width {
				if row[x] >= threshold {
					m.Pix[y*m.Width+x] = 1
				}
			}
		}
	default:
		for y := range m.Height {
			for x := range m.Width {
				a := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA).A
				if a >= threshold {
					m.Pix[y*m.Width+x] = 1
				}
			}
		}
	}
	return m
}
