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

// FixOffsetCrossings repairs the defects which offsetting and tracing
// leave in a contour. It runs up to cfg.Passes passes of crossing removal
// (only segments at most cfg.CrossingWindow indices apart are compared)
// and close-point merging, then removes backtracking spurs and
// normalizes the winding.
func FixOffsetCrossings(p Path, cfg Config) (Path, Stats) {
	var st Stats
	p = dedupe(p)
	for range max(cfg.Passes, 1) {
		var fixed, merged int
		var tripped bool
		p, fixed, tripped = fixCrossings(p, cfg.CrossingWindow, cfg.MaxCrossingFixes)
		st.CrossingsFixed += fixed
		st.GuardTripped = st.GuardTripped || tripped

		p, merged = mergeClosePoints(p, cfg)
		st.PointsMerged += merged
		if fixed == 0 && merged == 0 {
			break
		}
	}
	p, st.BacktracksRemoved = removeBacktracks(p, cfg.BacktrackCos)
	p, st.Reversed = normalizeWinding(p)
	return p, st
}

// fixCrossings removes self-intersections. If window is positive, only
// segments at most window indices apart (cyclically) are compared. On a
// hit, the loop with the smaller area is replaced by the intersection
// point. At most limit crossings are resolved, or 4n+16 if limit is zero.
// The boolean result reports that the limit was reached.
func fixCrossings(p Path, window, limit int) (Path, int, bool) {
	fixed := 0
	budget := limit
	if budget <= 0 {
		budget = 4*len(p) + 16
	}
	var grid *segmentGrid

	for i := 0; i < len(p); {
		n := len(p)
		if n < 4 {
			break
		}
		if grid == nil {
			grid = newSegmentGrid(p)
		}

		a, b := p[i], p[(i+1)%n]
		hitJ := -1
		var hitT float64
		grid.query(a, b, func(j int) {
			if j < i+2 || (i == 0 && j == n-1) {
				return
			}
			if window > 0 {
				if d := j - i; d > window && n-d > window {
					return
				}
			}
			if hitJ >= 0 && j > hitJ {
				return
			}
			if t, _, ok := intersect(a, b, p[j], p[(j+1)%n]); ok {
				hitJ, hitT = j, t
			}
		})
		if hitJ < 0 {
			i++
			continue
		}
		if budget == 0 {
			return p, fixed, true
		}
		budget--

		x := a.Add(b.Sub(a).Mul(hitT))
		var restart int
		p, restart = collapse(p, i, hitJ, x)
		fixed++
		grid = nil
		i = restart
	}
	return p, fixed, false
}

// collapse resolves the crossing of segments i and j (i < j) at x. Either
// the points i+1..j or the points j+1..i (wrapping) are replaced by x,
// whichever loop encloses less area. It returns the index at which the
// search should continue.
func collapse(p Path, i, j int, x vec.Vec2) (Path, int) {
	inner := append(Path{x}, p[i+1:j+1]...)
	outer := append(append(Path{x}, p[j+1:]...), p[:i+1]...)

	if math.Abs(SignedArea(inner)) <= math.Abs(SignedArea(outer)) {
		out := slices.Concat(p[:i+1], Path{x}, p[j+1:])
		return dedupe(out), i
	}
	return dedupe(inner), 0
}

// mergeClosePoints cuts off narrow loops: when two points less than
// cfg.MergeDistance apart are joined by a longer arc which is inverted or
// has almost no area, the arc is replaced by the midpoint of the two
// points. Lobes with the orientation of the path are kept.
func mergeClosePoints(p Path, cfg Config) (Path, int) {
	if cfg.MergeDistance <= 0 || len(p) < 4 {
		return p, 0
	}
	sign := math.Copysign(1, SignedArea(p))
	d2 := cfg.MergeDistance * cfg.MergeDistance
	merged := 0

	for i := 0; i < len(p); {
		n := len(p)
		if n < 4 {
			break
		}
		found := false
		for j := i + 2; j <= min(i+cfg.MergeWindow, n-1); j++ {
			d := p[j].Sub(p[i])
			if d.Dot(d) >= d2 {
				continue
			}
			loop := p[i : j+1]
			var arc float64
			for k := 1; k < len(loop); k++ {
				arc += loop[k].Sub(loop[k-1]).Length()
			}
			if arc <= 2*cfg.MergeDistance {
				continue
			}
			if a := SignedArea(loop); a*sign > 0 && math.Abs(a) >= arc/2 {
				continue
			}
			mid := p[i].Add(p[j]).Mul(0.5)
			p = slices.Concat(p[:i], Path{mid}, p[j+1:])
			merged += j - i
			found = true
			break
		}
		if !found {
			i++
		}
	}
	return p, merged
}

// removeBacktracks deletes vertices at which the path reverses direction
// (turn cosine below cosThreshold) until none are left.
func removeBacktracks(p Path, cosThreshold float64) (Path, int) {
	removed := 0
	isSpur := func(a, b, c vec.Vec2) bool {
		u, v := b.Sub(a), c.Sub(b)
		lu, lv := u.Length(), v.Length()
		if lu == 0 || lv == 0 {
			return true
		}
		return u.Dot(v)/(lu*lv) < cosThreshold
	}

	changed := true
	for changed && len(p) >= 3 {
		changed = false
		out := make(Path, 0, len(p))
		for _, q := range p {
			out = append(out, q)
			for len(out) >= 3 && isSpur(out[len(out)-3], out[len(out)-2], out[len(out)-1]) {
				out = slices.Delete(out, len(out)-2, len(out)-1)
				removed++
				changed = true
			}
		}
		for len(out) >= 3 {
			n := len(out)
			if isSpur(out[n-2], out[n-1], out[0]) {
				out = out[:n-1]
			} else if isSpur(out[n-1], out[0], out[1]) {
				out = out[1:]
			} else {
				break
			}
			removed++
			changed = true
		}
		p = out
	}
	return p, removed
}

// dedupe removes consecutive duplicate points, including a last point
// equal to the first.
func dedupe(p Path) Path {
	out := make(Path, 0, len(p))
	for _, q := range p {
		if len(out) > 0 && q.Sub(out[len(out)-1]).Length() <= touchEps {
			continue
		}
		out = append(out, q)
	}
	for len(out) > 1 && out[0].Sub(out[len(out)-1]).Length() <= touchEps {
		out = out[:len(out)-1]
	}
	return out
}

// removeCollinear drops points which lie on the straight segment between
// their neighbours.
func removeCollinear(p Path) Path {
	straight := func(a, b, c vec.Vec2) bool {
		u, v := b.Sub(a), c.Sub(b)
		return math.Abs(cross(u, v)) <= collinearEps*u.Length()*v.Length() && u.Dot(v) > 0
	}
	out := make(Path, 0, len(p))
	for _, q := range p {
		out = append(out, q)
		for len(out) >= 3 && straight(out[len(out)-3], out[len(out)-2], out[len(out)-1]) {
			out = slices.Delete(out, len(out)-2, len(out)-1)
		}
	}
	for len(out) >= 3 {
		n := len(out)
		if straight(out[n-2], out[n-1], out[0]) {
			out = out[:n-1]
		} else if straight(out[n-1], out[0], out[1]) {
			out = out[1:]
		} else {
			break
		}
	}
	return out
}

// normalizeWinding reverses p if its signed area is positive.
func normalizeWinding(p Path) (Path, bool) {
	if SignedArea(p) > 0 {
		return Reverse(p), true
	}
	return p, false
}
