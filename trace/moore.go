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

// mooreDirs lists the eight neighbours in clockwise order (Y down),
// starting with east.
var mooreDirs = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

type mooreTracer struct {
	maxSteps int
}

// Trace implements the Tracer interface. Each step scans the neighbours
// of the current pixel clockwise, starting at (last+5) mod 8, where last
// is the direction of the previous move. Tracing ends when the start
// pixel is about to be left in the same direction as the first time.
func (t mooreTracer) Trace(m *mask.Mask) (outline.Path, error) {
	x0, y0, ok := firstPixel(m)
	if !ok {
		return nil, nil
	}

	p := outline.Path{centre(x0, y0)}
	x, y := x0, y0
	last := 7 // pretend the start pixel was entered moving north-east
	firstDir := -1
	limit := guardSteps(m, t.maxSteps)
	for range limit {
		dir := -1
		for k := range 8 {
			d := (last + 5 + k) % 8
			if m.At(x+mooreDirs[d][0], y+mooreDirs[d][1]) {
				dir = d
				break
			}
		}
		if dir < 0 {
			// isolated pixel
			return p, nil
		}
		if x == x0 && y == y0 && dir == firstDir {
			// the start pixel was appended on arrival
			return p[:len(p)-1], nil
		}
		if firstDir < 0 {
			firstDir = dir
		}
		x += mooreDirs[dir][0]
		y += mooreDirs[dir][1]
		last = dir
		p = append(p, centre(x, y))
	}
	return p, ErrGuardTripped
}
