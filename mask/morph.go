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

import "math"

// Dilate grows the foreground by a disk of radius r (all offsets with
// dx²+dy² ≤ r²). The result is (Width+2r)×(Height+2r) pixels so that
// nothing is cut off; input pixel (x, y) maps to (x+r, y+r).
//
// Only boundary pixels stamp the disk: the foreground pixel nearest to any
// background point is always a boundary pixel, so interior stamps would
// not change the result.
func Dilate(m *Mask, r int) *Mask {
	if r <= 0 {
		return m.Clone()
	}
	out := New(m.Width+2*r, m.Height+2*r)
	half := diskHalfWidths(r)
	for y := range m.Height {
		for x := range m.Width {
			if m.Pix[y*m.Width+x] == 0 {
				continue
			}
			cx, cy := x+r, y+r
			if !m.isBoundary(x, y) {
				out.Pix[cy*out.Width+cx] = 1
				continue
			}
			for dy := -r; dy <= r; dy++ {
				hw := half[abs(dy)]
				row := out.Pix[(cy+dy)*out.Width:]
				for xx := cx - hw; xx <= cx+hw; xx++ {
					row[xx] = 1
				}
			}
		}
	}
	return out
}

// Erode shrinks the foreground by a disk of radius r and removes the r
// pixel margin which Dilate adds: the result is (Width−2r)×(Height−2r)
// pixels and output pixel (x, y) corresponds to input (x+r, y+r).
func Erode(m *Mask, r int) *Mask {
	if r <= 0 {
		return m.Clone()
	}
	w, h := m.Width-2*r, m.Height-2*r
	if w <= 0 || h <= 0 {
		return New(0, 0)
	}
	out := New(w, h)
	for y := range h {
		copy(out.Pix[y*w:(y+1)*w], m.Pix[(y+r)*m.Width+r:])
	}

	half := diskHalfWidths(r)
	for y := range m.Height {
		for x := range m.Width {
			if m.Pix[y*m.Width+x] != 0 {
				continue
			}
			if !m.At(x-1, y) && !m.At(x+1, y) && !m.At(x, y-1) && !m.At(x, y+1) {
				continue
			}
			// clear the disk around (x, y), in output coordinates
			cx, cy := x-r, y-r
			for dy := -r; dy <= r; dy++ {
				yy := cy + dy
				if yy < 0 || yy >= h {
					continue
				}
				hw := half[abs(dy)]
				lo := max(cx-hw, 0)
				hi := min(cx+hw, w-1)
				row := out.Pix[yy*w:]
				for xx := lo; xx <= hi; xx++ {
					row[xx] = 0
				}
			}
		}
	}
	return out
}

// Fill returns a copy of m in which every background region that is not
// 4-connected to the mask border has been turned into foreground.
func Fill(m *Mask) *Mask {
	out := m.Clone()
	w, h := m.Width, m.Height
	if w == 0 || h == 0 {
		return out
	}

	reached := make([]bool, w*h)
	queue := make([]int, 0, 2*(w+h))
	push := func(x, y int) {
		i := y*w + x
		if m.Pix[i] != 0 || reached[i] {
			return
		}
		reached[i] = true
		queue = append(queue, i)
	}
	for x := range w {
		push(x, 0)
		push(x, h-1)
	}
	for y := range h {
		push(0, y)
		push(w-1, y)
	}
	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		x, y := i%w, i/w
		if x > 0 {
			push(x-1, y)
		}
		if x < w-1 {
			push(x+1, y)
		}
		if y > 0 {
			push(x, y-1)
		}
		if y < h-1 {
			push(x, y+1)
		}
	}

	for i, v := range m.Pix {
		if v == 0 && !reached[i] {
			out.Pix[i] = 1
		}
	}
	return out
}

// Close bridges gaps narrower than about 2r: the mask is dilated by r,
// enclosed holes are filled, and the result is eroded by r again. The
// output has the same size and registration as the input.
func Close(m *Mask, r int) *Mask {
	if r <= 0 {
		return m.Clone()
	}
	return Erode(Fill(Dilate(m, r)), r)
}

// Largest keeps only the largest 8-connected foreground component of m.
// It also returns the number of components found. Ties are broken in
// favour of the component found first in raster order.
func Largest(m *Mask) (*Mask, int) {
	w, h := m.Width, m.Height
	labels := make([]int32, w*h)
	var sizes []int
	var stack []int

	for start, v := range m.Pix {
		if v == 0 || labels[start] != 0 {
			continue
		}
		sizes = append(sizes, 0)
		label := int32(len(sizes))
		labels[start] = label
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			sizes[label-1]++
			x, y := i%w, i/w
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					j := ny*w + nx
					if m.Pix[j] != 0 && labels[j] == 0 {
						labels[j] = label
						stack = append(stack, j)
					}
				}
			}
		}
	}

	out := New(w, h)
	if len(sizes) == 0 {
		return out, 0
	}
	best := 0
	for i, s := range sizes {
		if s > sizes[best] {
			best = i
		}
	}
	keep := int32(best + 1)
	for i, l := range labels {
		if l == keep {
			out.Pix[i] = 1
		}
	}
	return out, len(sizes)
}

// diskHalfWidths returns, for each |dy| ≤ r, the largest dx with
// dx²+dy² ≤ r².
func diskHalfWidths(r int) []int {
	half := make([]int, r+1)
	for dy := range half {
		rem := r*r - dy*dy
		hw := int(math.Sqrt(float64(rem)))
		for hw*hw > rem {
			hw--
		}
		for (hw+1)*(hw+1) <= rem {
			hw++
		}
		half[dy] = hw
	}
	return half
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
