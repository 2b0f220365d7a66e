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

import (
	"maps"
	"regexp"
	"slices"
	"testing"

	"github.com/buywitheze-droid/sticker-maker-sub001/mask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquare(t *testing.T) {
	img := Square(10, 3)
	require.Equal(t, 16, img.Rect.Dx())
	m := mask.FromImage(img, 1)
	assert.Equal(t, 100, m.Count())
	assert.True(t, m.At(3, 3))
	assert.False(t, m.At(2, 3))
	assert.Equal(t, uint8(0xff), img.NRGBAAt(5, 5).A)
}

func TestC(t *testing.T) {
	img := C(160, 24, 8)
	m := mask.FromImage(img, 128)

	assert.False(t, m.At(150, 80), "channel")
	assert.True(t, m.At(150, 70), "upper lip")
	assert.True(t, m.At(150, 90), "lower lip")
	assert.False(t, m.At(120, 70), "cave")
	assert.True(t, m.At(100, 80), "solid block")

	// the cave is open to the outside
	assert.Equal(t, m, mask.Fill(m))

	_, n := mask.Largest(m)
	assert.Equal(t, 1, n)
}

func TestStar(t *testing.T) {
	img := Star(240, 5, 110, 45)
	m := mask.FromImage(img, 128)
	assert.True(t, m.At(120, 120))
	assert.True(t, m.At(120, 15), "top spike")
	assert.False(t, m.At(120, 5), "beyond the tip")
	assert.False(t, m.At(60, 20), "between spikes")

	b := m.Bounds()
	assert.InDelta(t, 10, b.Min.Y, 2)
}

func TestDottedI(t *testing.T) {
	m := mask.FromImage(DottedI(200), 128)
	_, n := mask.Largest(m)
	assert.Equal(t, 2, n)
	assert.True(t, m.At(100, 30), "dot")
	assert.True(t, m.At(100, 150), "stem")
	assert.False(t, m.At(100, 62), "gap")
}

func TestRing(t *testing.T) {
	m := mask.FromImage(Ring(200, 80, 40), 128)
	assert.False(t, m.At(100, 100))
	assert.True(t, m.At(100, 40))
	assert.False(t, m.At(100, 10))
	assert.True(t, mask.Fill(m).At(100, 100))
}

func TestTransparent(t *testing.T) {
	assert.True(t, mask.FromImage(Transparent(7, 5), 1).Empty())
}

func TestAllCases(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z_]+$`)
	seen := map[string]bool{}
	for _, category := range slices.Sorted(maps.Keys(All)) {
		for _, tc := range All[category] {
			assert.Regexp(t, valid, tc.Name)
			assert.False(t, seen[tc.Name], "duplicate name %q", tc.Name)
			seen[tc.Name] = true
			assert.NotNil(t, tc.Image)
			assert.Positive(t, tc.DPI)
			assert.GreaterOrEqual(t, tc.StrokeInches, 0.0)
		}
	}
}
