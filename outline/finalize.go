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

// Finalize makes p a simple polygon with negative area. Unlike
// FixOffsetCrossings, every pair of segments is compared, using a grid
// index to skip distant ones. Duplicate and collinear points and
// backtracking spurs are removed as well. If nothing with positive area
// remains, the result is nil.
func Finalize(p Path, cfg Config) (Path, Stats) {
	var st Stats
	p = dedupe(p)
	for range maxFinalizeRounds {
		var fixed, spurs int
		var tripped bool
		p, fixed, tripped = fixCrossings(p, 0, cfg.MaxCrossingFixes)
		st.CrossingsFixed += fixed
		st.GuardTripped = st.GuardTripped || tripped

		p, spurs = removeBacktracks(p, cfg.BacktrackCos)
		st.BacktracksRemoved += spurs
		p = removeCollinear(dedupe(p))
		if fixed == 0 && spurs == 0 {
			break
		}
	}
	if len(p) < 3 || SignedArea(p) == 0 {
		return nil, st
	}
	p, st.Reversed = normalizeWinding(p)
	return p, st
}

// maxFinalizeRounds bounds the alternation between crossing removal and
// spur removal.
const maxFinalizeRounds = 4
