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


package contour

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/sirupsen/logrus"

	"github.com/buywitheze-droid/sticker-maker-sub001/bridge"
	"github.com/buywitheze-droid/sticker-maker-sub001/composite"
	"github.com/buywitheze-droid/sticker-maker-sub001/outline"
	"github.com/buywitheze-droid/sticker-maker-sub001/trace"
)

// StrokeSettings are the user's choices for the cut line.
type StrokeSettings struct {
	// WidthInches is the distance between the artwork and the cut line.
	WidthInches float64

	// Color is the colour of the cut line in the preview, as a hex string.
	// The empty string selects red.
	Color string

	// Join is the shape of the cut line at sharp corners of the contour.
	// The empty value selects composite.JoinRound.
	Join composite.Join

	// Enabled switches the user offset and the visible cut line on. The
	// contour is computed in either case.
	Enabled bool

	// AlphaThreshold is the smallest alpha value which counts as artwork.
	// Zero makes every pixel count.
	AlphaThreshold uint8

	CloseSmallGaps bool
	CloseBigGaps   bool

	// BackgroundColor is a hex colour or composite.EdgeBleed.
	BackgroundColor     string
	UseCustomBackground bool
}

// DebugSettings select the tracer and switch individual stages off.
type DebugSettings struct {
	Tracer             trace.Algorithm
	DisableAutoBridge  bool
	DisableSmoothing   bool
	DisableCrossingFix bool
	DisableGapBridge   bool
	ShowRawContour     bool
}

// Request is one contour computation.
type Request struct {
	Image        image.Image
	Stroke       StrokeSettings
	EffectiveDPI float64

	// PreviewMode limits the processing resolution, trading accuracy for
	// speed.
	PreviewMode bool

	Debug *DebugSettings
}

// Status describes the outcome of a successful Process call.
type Status int

const (
	// StatusOK means that a contour was found.
	StatusOK Status = iota

	// StatusNoForeground means that no pixel reached the alpha threshold.
	StatusNoForeground

	// StatusTraceFailure means that the boundary could not be turned into
	// a usable polygon.
	StatusTraceFailure
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoForeground:
		return "no-foreground"
	case StatusTraceFailure:
		return "trace-failure"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of a contour computation. If Status is not
// StatusOK, Image shows the input without a cut line and Data has no
// points.
type Result struct {
	Image  *image.NRGBA
	Data   composite.Data
	Status Status

	// GuardTripped is set if a stage hit its step limit. The contour is
	// still usable but may be less accurate.
	GuardTripped bool
}

// Options holds the parts of the configuration which are not per request.
type Options struct {
	// Logger receives stage diagnostics. Nil discards them.
	Logger logrus.FieldLogger

	// Progress, if not nil, is called with increasing values from 0 to
	// 100.
	Progress func(percent int)

	Outline     outline.Config
	Bridge      bridge.Config
	BleedInches float64

	// TraceSteps caps the boundary walk. Zero selects a limit which
	// depends on the mask size and is never reached by a closed boundary.
	TraceSteps int
}

// DefaultOptions returns the tuned settings with logging disabled.
func DefaultOptions() Options {
	return Options{
		Outline:     outline.DefaultConfig(),
		Bridge:      bridge.DefaultConfig(),
		BleedInches: composite.DefaultBleedInches,
	}
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var defaultCutColor = color.NRGBA{R: 0xff, A: 0xff}

// ParseColor parses a hex colour such as "#ff8800".
func ParseColor(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// bleed resolves the background settings to a bleed mode and colour.
func (s StrokeSettings) bleed() (composite.BleedMode, color.NRGBA, error) {
	if !s.UseCustomBackground || s.BackgroundColor == composite.EdgeBleed || s.BackgroundColor == "" {
		return composite.BleedEdge, color.NRGBA{}, nil
	}
	c, err := ParseColor(s.BackgroundColor)
	if err != nil {
		return "", color.NRGBA{}, invalidRequest("background colour: %w", err)
	}
	return composite.BleedCustom, c, nil
}

func (s StrokeSettings) join() (composite.Join, error) {
	j, err := composite.ParseJoin(string(s.Join))
	if err != nil {
		return "", invalidRequest("stroke join: %w", err)
	}
	return j, nil
}

func (s StrokeSettings) cutColor() (color.NRGBA, error) {
	if s.Color == "" {
		return defaultCutColor, nil
	}
	c, err := ParseColor(s.Color)
	if err != nil {
		return color.NRGBA{}, invalidRequest("stroke colour: %w", err)
	}
	return c, nil
}
