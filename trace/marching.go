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
	"seehuhn.de/go/geom/vec"
)

// cellEdge names a side of a marching squares cell.
type cellEdge int8

const (
	edgeTop cellEdge = iota
	edgeRight
	edgeBottom
	edgeLeft

	edgeNone cellEdge = -1
)

// transitions gives the exit edge for every cell configuration and entry
// edge. The configuration has bit 8 for the top-left sample, 4 for
// top-right, 2 for bottom-right and 1 for bottom-left. In the saddle cases
// 5 and 10 the two foreground samples are treated as connected.
var transitions = [16][4]cellEdge{
	//     top        right      bottom      left
	0:  {edgeNone, edgeNone, edgeNone, edgeNone},
	1:  {edgeNone, edgeNone, edgeLeft, edgeBottom},
	2:  {edgeNone, edgeBottom, edgeRight, edgeNone},
	3:  {edgeNone, edgeLeft, edgeNone, edgeRight},
	4:  {edgeRight, edgeTop, edgeNone, edgeNone},
	5:  {edgeLeft, edgeBottom, edgeRight, edgeTop},
	6:  {edgeBottom, edgeNone, edgeTop, edgeNone},
	7:  {edgeLeft, edgeNone, edgeNone, edgeTop},
	8:  {edgeLeft, edgeNone, edgeNone, edgeTop},
	9:  {edgeBottom, edgeNone, edgeTop, edgeNone},
	10: {edgeRight, edgeTop, edgeLeft, edgeBottom},
	11: {edgeRight, edgeTop, edgeNone, edgeNone},
	12: {edgeNone, edgeLeft, edgeNone, edgeRight},
	13: {edgeNone, edgeBottom, edgeRight, edgeNone},
	14: {edgeNone, edgeNone, edgeLeft, edgeBottom},
	15: {edgeNone, edgeNone, edgeNone, edgeNone},
}

type marchingTracer struct {
	maxSteps int
}

// Trace implements the Tracer interface. Cell (cx, cy) has the samples
// (cx, cy), (cx+1, cy), (cx+1, cy+1) and (cx, cy+1) as corners; cells
// range over a grid one larger than the mask on every side, so that the
// boundary always closes.
func (t marchingTracer) Trace(m *mask.Mask) (outline.Path, error) {
	x0, y0, ok := firstPixel(m)
	if !ok {
		return nil, nil
	}

	// In the cell up and left of the first pixel only the bottom-right
	// sample is set (configuration 2).
	startX, startY := x0-1, y0-1
	startEntry := edgeBottom

	cx, cy, entry := startX, startY, startEntry
	var p outline.Path
	limit := guardSteps(m, t.maxSteps)
	for range limit {
		exit := transitions[config(m, cx, cy)][entry]
		if exit == edgeNone {
			// unreachable for a consistent table
			return p, ErrGuardTripped
		}
		p = append(p, midpoint(cx, cy, exit))

		switch exit {
		case edgeTop:
			cy--
			entry = edgeBottom
		case edgeRight:
			cx++
			entry = edgeLeft
		case edgeBottom:
			cy++
			entry = edgeTop
		case edgeLeft:
			cx--
			entry = edgeRight
		}
		if cx == startX && cy == startY && entry == startEntry {
			return p, nil
		}
	}
	return p, ErrGuardTripped
}

// config returns the 4-bit sample configuration of cell (cx, cy).
func config(m *mask.Mask, cx, cy int) int {
	c := 0
	if m.At(cx, cy) {
		c |= 8
	}
	if m.At(cx+1, cy) {
		c |= 4
	}
	if m.At(cx+1, cy+1) {
		c |= 2
	}
	if m.At(cx, cy+1) {
		c |= 1
	}
	return c
}

// midpoint returns the centre of the given side of cell (cx, cy).
func midpoint(cx, cy int, e cellEdge) vec.Vec2 {
	x, y := float64(cx), float64(cy)
	switch e {
	case edgeTop:
		return vec.Vec2{X: x + 0.5, Y: y}
	case edgeRight:
		return vec.Vec2{X: x + 1, Y: y + 0.5}
	case edgeBottom:
		return vec.Vec2{X: x + 0.5, Y: y + 1}
	default:
		return vec.Vec2{X: x, Y: y + 0.5}
	}
}
