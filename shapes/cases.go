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

package shapes

import "image"

// Case is a synthetic input together with the settings to process it
// with.
type Case struct {
	Name         string // lowercase a-z and _ only
	Image        *image.NRGBA
	DPI          float64 // effective resolution of Image
	StrokeInches float64 // offset of the cut line
}

// All contains all test inputs, grouped by category.
var All = map[string][]Case{
	"basic": {
		{Name: "square", Image: Square(100, 0), DPI: 100, StrokeInches: 0.1},
		{Name: "square_margin", Image: Square(80, 30), DPI: 100, StrokeInches: 0.05},
		{Name: "ring", Image: Ring(200, 80, 40), DPI: 150, StrokeInches: 0.05},
	},
	"gaps": {
		{Name: "c_narrow", Image: C(160, 24, 8), DPI: 100, StrokeInches: 0},
		{Name: "c_wide", Image: C(160, 24, 30), DPI: 100, StrokeInches: 0},
		{Name: "dotted_i", Image: DottedI(200), DPI: 150, StrokeInches: 0.02},
	},
	"protrusions": {
		{Name: "star", Image: Star(240, 5, 110, 45), DPI: 300, StrokeInches: 0.02},
		{Name: "spiky_star", Image: Star(240, 12, 115, 70), DPI: 300, StrokeInches: 0.02},
	},
	"degenerate": {
		{Name: "transparent", Image: Transparent(50, 50), DPI: 100, StrokeInches: 0.1},
		{Name: "dot", Image: Square(1, 2), DPI: 100, StrokeInches: 0},
	},
}
