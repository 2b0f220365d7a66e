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

package trace

import (
	"github.com/buywitheze-droid/sticker-maker-sub001/mask"
	"github.com/buywitheze-droid/sticker-maker-sub001/outline"
)

// followDirs lists the four axis directions in clockwise order (Y down).
var followDirs = [4][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

type followTracer struct {
	maxSteps int
}

// Trace implements the Tracer interface. The walk moves between
// 4-connected boundary pixels, preferring to turn left, then to go
// straight, then right, then back. If no boundary pixel is available, any
// foreground neighbour is accepted in the same order.
func (t followTracer) Trace(m *mask.Mask) (outline.Path, error) {
	x0, y0, ok := firstPixel(m)
	if !ok {
		return nil, nil
	}

	// a pixel is on the boundary if one of its eight neighbours is
	// background
	boundary := func(x, y int) bool {
		if !m.At(x, y) {
			return false
		}
		for _, d := range mooreDirs {
			if !m.At(x+d[0], y+d[1]) {
				return true
			}
		}
		return false
	}
	choose := func(x, y, heading int) int {
		for _, accept := range []func(x, y int) bool{boundary, m.At} {
			for _, turn := range [4]int{3, 0, 1, 2} {
				d := (heading + turn) % 4
				if accept(x+followDirs[d][0], y+followDirs[d][1]) {
					return d
				}
			}
		}
		return -1
	}

	p := outline.Path{centre(x0, y0)}
	x, y := x0, y0
	heading := 0 // the first pixel is entered from the west
	firstDir := -1
	limit := guardSteps(m, t.maxSteps)
	for range limit {
		dir := choose(x, y, heading)
		if dir < 0 {
			return p, nil
		}
		if x == x0 && y == y0 && dir == firstDir {
			return p[:len(p)-1], nil
		}
		if firstDir < 0 {
			firstDir = dir
		}
		x += followDirs[dir][0]
		y += followDirs[dir][1]
		heading = dir
		p = append(p, centre(x, y))
	}
	return p, ErrGuardTripped
}
