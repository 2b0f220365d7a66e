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


package config

import (
	"errors"
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strings"

	"github.com/buywitheze-droid/sticker-maker-sub001/composite"
	"github.com/buywitheze-droid/sticker-maker-sub001/contour"
)

// ErrInvalidPreset marks validation failures of preset fields.
var ErrInvalidPreset = errors.New("invalid preset")

// Default values for fields missing from a preset.
const (
	DefaultDPI            = 300
	DefaultWidthInches    = 0.1
	DefaultAlphaThreshold = 128
)

// Preset holds everything needed to process an image except the image
// itself.
type Preset struct {
	Name        string
	DPI         float64
	PreviewMode bool
	Stroke      contour.StrokeSettings
	Debug       *contour.DebugSettings
	Options     contour.Options
}

// Default returns the preset used when no file is given.
func Default() Preset {
	return Preset{
		Name: "default",
		DPI:  DefaultDPI,
		Stroke: contour.StrokeSettings{
			WidthInches:     DefaultWidthInches,
			Enabled:         true,
			AlphaThreshold:  DefaultAlphaThreshold,
			BackgroundColor: composite.EdgeBleed,
		},
		Options: contour.DefaultOptions(),
	}
}

// Request builds the processing request for img.
func (p Preset) Request(img image.Image) contour.Request {
	return contour.Request{
		Image:        img,
		Stroke:       p.Stroke,
		EffectiveDPI: p.DPI,
		PreviewMode:  p.PreviewMode,
		Debug:        p.Debug,
	}
}

// MapPreset validates dto and applies it on top of Default().
func MapPreset(path string, dto YAMLPreset) (Preset, error) {
	p := Default()
	p.Name = strings.TrimSpace(dto.Name)
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	p.PreviewMode = dto.Preview

	if dto.DPI != nil {
		if !(*dto.DPI > 0) {
			return Preset{}, invalidField(path, "dpi", "must be positive")
		}
		p.DPI = *dto.DPI
	}
	if dto.BleedInches != nil {
		if *dto.BleedInches < 0 {
			return Preset{}, invalidField(path, "bleed_inches", "must not be negative")
		}
		p.Options.BleedInches = *dto.BleedInches
	}

	if err := mapStroke(path, dto.Stroke, &p.Stroke); err != nil {
		return Preset{}, err
	}

	if dto.Debug != nil {
		p.Debug = &contour.DebugSettings{
			Tracer:             dto.Debug.Tracer,
			DisableAutoBridge:  dto.Debug.DisableAutoBridge,
			DisableSmoothing:   dto.Debug.DisableSmoothing,
			DisableCrossingFix: dto.Debug.DisableCrossingFix,
			DisableGapBridge:   dto.Debug.DisableGapBridge,
			ShowRawContour:     dto.Debug.ShowRawContour,
		}
	}

	if err := mapTunables(path, dto, &p.Options); err != nil {
		return Preset{}, err
	}
	return p, nil
}

func mapStroke(path string, in YAMLStroke, out *contour.StrokeSettings) error {
	if in.Width != nil {
		if *in.Width < 0 {
			return invalidField(path, "stroke.width", "must not be negative")
		}
		out.WidthInches = *in.Width
	}
	if in.Enabled != nil {
		out.Enabled = *in.Enabled
	}
	if in.AlphaThreshold != nil {
		if *in.AlphaThreshold < 0 || *in.AlphaThreshold > 255 {
			return invalidField(path, "stroke.alpha_threshold", "must be between 0 and 255")
		}
		out.AlphaThreshold = uint8(*in.AlphaThreshold)
	}
	if c := strings.TrimSpace(in.Color); c != "" {
		if _, err := contour.ParseColor(c); err != nil {
			return invalidField(path, "stroke.color", err.Error())
		}
		out.Color = c
	}
	if j := strings.TrimSpace(in.Join); j != "" {
		join, err := composite.ParseJoin(j)
		if err != nil {
			return invalidField(path, "stroke.join", err.Error())
		}
		out.Join = join
	}
	out.CloseSmallGaps = in.CloseSmallGaps
	out.CloseBigGaps = in.CloseBigGaps

	switch bg := strings.TrimSpace(in.Background); bg {
	case "", composite.EdgeBleed:
		out.BackgroundColor = composite.EdgeBleed
		out.UseCustomBackground = false
	default:
		if _, err := contour.ParseColor(bg); err != nil {
			return invalidField(path, "stroke.background", err.Error())
		}
		out.BackgroundColor = bg
		out.UseCustomBackground = true
	}
	return nil
}

func mapTunables(path string, dto YAMLPreset, opts *contour.Options) error {
	o := dto.Outline
	if o.CrossingWindow != nil {
		if *o.CrossingWindow < 1 {
			return invalidField(path, "outline.crossing_window", "must be positive")
		}
		opts.Outline.CrossingWindow = *o.CrossingWindow
	}
	if o.MergeDistance != nil {
		opts.Outline.MergeDistance = *o.MergeDistance
	}
	if o.Passes != nil {
		opts.Outline.Passes = *o.Passes
	}
	if o.SmoothWindow != nil {
		if *o.SmoothWindow < 0 {
			return invalidField(path, "outline.smooth_window", "must not be negative")
		}
		opts.Outline.SmoothWindow = *o.SmoothWindow
	}
	if o.CornerAngle != nil {
		opts.Outline.CornerAngle = *o.CornerAngle * math.Pi / 180
	}

	b := dto.Bridge
	if b.InwardRatio != nil {
		opts.Bridge.InwardRatio = *b.InwardRatio
	}
	if b.ProtrusionRatio != nil {
		opts.Bridge.ProtrusionRatio = *b.ProtrusionRatio
	}
	if b.MinSpan != nil {
		if *b.MinSpan < 1 {
			return invalidField(path, "bridge.min_span", "must be positive")
		}
		opts.Bridge.MinSpan = *b.MinSpan
	}
	return nil
}

func invalidField(path, field, msg string) error {
	return &contour.OpError{
		Op:   "config.map",
		Kind: contour.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, ErrInvalidPreset),
	}
}
