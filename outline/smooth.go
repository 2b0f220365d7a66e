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
	"slices"

	"seehuhn.de/go/geom/vec"
)

// Smooth applies a corner-preserving moving average. Corners are found by
// comparing the turn angle at each point with the median turn angle of
// its neighbourhood and of the whole path. Corner points stay where they
// are, and the average at other points only uses non-corner neighbours.
func Smooth(p Path, cfg Config) Path {
	out := slices.Clone(p)
	n := len(p)
	if n < 5 || cfg.SmoothWindow <= 0 {
		return out
	}

	isCorner := Corners(p, cfg)
	w := min(cfg.SmoothWindow, (n-1)/2)
	for i := range p {
		if isCorner[i] {
			continue
		}
		var sum vec.Vec2
		count := 0
		for j := -w; j <= w; j++ {
			q := wrap(i+j, n)
			if isCorner[q] {
				continue
			}
			sum = sum.Add(p[q])
			count++
		}
		out[i] = sum.Mul(1 / float64(count))
	}
	return out
}

// Corners flags the points of p at which the path turns sharply.
func Corners(p Path, cfg Config) []bool {
	n := len(p)
	flags := make([]bool, n)
	if n < 3 {
		return flags
	}
	k := max(cfg.CornerOffset, 1)
	if 2*k+1 > n {
		k = max((n-1)/2, 1)
	}

	angles := make([]float64, n)
	for i := range p {
		angles[i] = turnAngle(p[i].Sub(p[wrap(i-k, n)]), p[wrap(i+k, n)].Sub(p[i]))
	}
	global := median(slices.Clone(angles))

	w := min(4*k, (n-1)/2)
	window := make([]float64, 0, 2*w+1)
	for i, a := range angles {
		if a < cfg.CornerAngle {
			continue
		}
		window = window[:0]
		for j := -w; j <= w; j++ {
			window = append(window, angles[wrap(i+j, n)])
		}
		local := median(window)
		flags[i] = a >= cfg.CornerFactor*max(local, global)
	}
	return flags
}

// turnAngle returns the angle between the directions a and b, in [0, π].
func turnAngle(a, b vec.Vec2) float64 {
	la, lb := a.Length(), b.Length()
	if la == 0 || lb == 0 {
		return 0
	}
	return math.Acos(min(max(a.Dot(b)/(la*lb), -1), 1))
}

// median sorts xs in place and returns its middle element.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	slices.Sort(xs)
	return xs[len(xs)/2]
}
