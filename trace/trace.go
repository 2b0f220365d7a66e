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

// Package trace follows the outer boundary of the foreground in a mask.
//
// Three algorithms are available. All of them start at the first
// foreground pixel in raster order and return the boundary as a closed
// polygon in pixel coordinates, with pixel centres at integer positions.
// The winding direction of the result is not normalized.
package trace

import (
	"errors"
	"fmt"

	"github.com/buywitheze-droid/sticker-maker-sub001/mask"
	"github.com/buywitheze-droid/sticker-maker-sub001/outline"
	"seehuhn.de/go/geom/vec"
)

// ErrGuardTripped is returned, together with the partial boundary, when a
// tracer stops because it exceeded its step limit.
var ErrGuardTripped = errors.New("trace: step limit reached")

// Tracer extracts the outer boundary of the foreground of a mask.
// An empty mask gives an empty path and no error.
type Tracer interface {
	Trace(m *mask.Mask) (outline.Path, error)
}

// Algorithm selects a boundary tracing strategy.
type Algorithm int

const (
	// MarchingSquares walks the grid of 2×2 pixel windows and emits edge
	// midpoints, giving a sub-pixel boundary around 8-connected
	// foreground.
	MarchingSquares Algorithm = iota

	// MooreNeighbor follows 8-connected boundary pixels.
	MooreNeighbor

	// ContourFollowing follows 4-connected boundary pixels.
	ContourFollowing
)

var algorithmNames = map[Algorithm]string{
	MarchingSquares:  "marching-squares",
	MooreNeighbor:    "moore-neighbor",
	ContourFollowing: "contour-following",
}

func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// ParseAlgorithm returns the algorithm with the given name.
// The empty string selects MarchingSquares.
func ParseAlgorithm(s string) (Algorithm, error) {
	if s == "" {
		return MarchingSquares, nil
	}
	for a, name := range algorithmNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown tracing algorithm %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if _, ok := algorithmNames[a]; !ok {
		return nil, fmt.Errorf("invalid tracing algorithm %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// New returns the tracer implementing a, with the default step limit.
// Unknown values give the marching squares tracer.
func New(a Algorithm) Tracer {
	return NewLimited(a, 0)
}

// NewLimited is like New, but the returned tracer gives up after maxSteps
// steps. A value of zero or less selects the default limit of
// 2·(W+2)·(H+2) steps for a W×H mask.
func NewLimited(a Algorithm, maxSteps int) Tracer {
	switch a {
	case MooreNeighbor:
		return mooreTracer{maxSteps: maxSteps}
	case ContourFollowing:
		return followTracer{maxSteps: maxSteps}
	default:
		return marchingTracer{maxSteps: maxSteps}
	}
}

// Trace traces m with the given algorithm. Masks less than three pixels
// wide or high are always traced with MooreNeighbor.
func Trace(m *mask.Mask, a Algorithm) (outline.Path, error) {
	return TraceLimited(m, a, 0)
}

// TraceLimited is like Trace, but with the step limit of NewLimited.
func TraceLimited(m *mask.Mask, a Algorithm, maxSteps int) (outline.Path, error) {
	if m.Width < 3 || m.Height < 3 {
		a = MooreNeighbor
	}
	return NewLimited(a, maxSteps).Trace(m)
}

// firstPixel returns the first foreground pixel in raster order.
func firstPixel(m *mask.Mask) (x, y int, ok bool) {
	for i, v := range m.Pix {
		if v != 0 {
			return i % m.Width, i / m.Width, true
		}
	}
	return 0, 0, false
}

// guardSteps is the step limit for a mask of the given size.
func guardSteps(m *mask.Mask, maxSteps int) int {
	if maxSteps > 0 {
		return maxSteps
	}
	return 2 * (m.Width + 2) * (m.Height + 2)
}

func centre(x, y int) vec.Vec2 {
	return vec.Vec2{X: float64(x), Y: float64(y)}
}
