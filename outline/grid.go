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

package outline

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// segmentGrid is a uniform grid over the bounding box of a path. Each
// cell lists the segments whose bounding box overlaps the cell.
type segmentGrid struct {
	x0, y0     float64
	cell       float64
	cols, rows int
	cells      [][]int32

	seen  []uint32
	epoch uint32
}

func newSegmentGrid(p Path) *segmentGrid {
	n := len(p)
	b := Bounds(p)
	w, h := b.URx-b.LLx, b.URy-b.LLy

	side := math.Ceil(math.Sqrt(float64(n)))
	cell := max(w, h) / side
	cell = max(cell, Length(p)/float64(max(n, 1)), 1e-6)

	g := &segmentGrid{
		x0:   b.LLx,
		y0:   b.LLy,
		cell: cell,
		cols: int(w/cell) + 1,
		rows: int(h/cell) + 1,
		seen: make([]uint32, n),
	}
	g.cells = make([][]int32, g.cols*g.rows)
	for i := range n {
		cx0, cy0, cx1, cy1 := g.span(p[i], p[(i+1)%n])
		for cy := cy0; cy <= cy1; cy++ {
			for cx := cx0; cx <= cx1; cx++ {
				c := cy*g.cols + cx
				g.cells[c] = append(g.cells[c], int32(i))
			}
		}
	}
	return g
}

// span returns the range of cells overlapped by the bounding box of ab.
func (g *segmentGrid) span(a, b vec.Vec2) (cx0, cy0, cx1, cy1 int) {
	clampCol := func(x float64) int {
		return min(max(int((x-g.x0)/g.cell), 0), g.cols-1)
	}
	clampRow := func(y float64) int {
		return min(max(int((y-g.y0)/g.cell), 0), g.rows-1)
	}
	return clampCol(min(a.X, b.X)), clampRow(min(a.Y, b.Y)),
		clampCol(max(a.X, b.X)), clampRow(max(a.Y, b.Y))
}

// query calls fn once for every segment sharing a cell with ab.
func (g *segmentGrid) query(a, b vec.Vec2, fn func(j int)) {
	g.epoch++
	cx0, cy0, cx1, cy1 := g.span(a, b)
	for cy := cy0; cy <= cy1; cy++ {
		for cx := cx0; cx <= cx1; cx++ {
			for _, j := range g.cells[cy*g.cols+cx] {
				if g.seen[j] == g.epoch {
					continue
				}
				g.seen[j] = g.epoch
				fn(int(j))
			}
		}
	}
}
