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

import "github.com/buywitheze-droid/sticker-maker-sub001/trace"

// YAMLPreset is the file format of a processing preset. Unset optional
// fields keep their default values.
type YAMLPreset struct {
	Name        string      `yaml:"name"`
	DPI         *float64    `yaml:"dpi"`
	Preview     bool        `yaml:"preview"`
	BleedInches *float64    `yaml:"bleed_inches"`
	Stroke      YAMLStroke  `yaml:"stroke"`
	Debug       *YAMLDebug  `yaml:"debug"`
	Outline     YAMLOutline `yaml:"outline"`
	Bridge      YAMLBridge  `yaml:"bridge"`
}

type YAMLStroke struct {
	Width          *float64 `yaml:"width"`
	Color          string   `yaml:"color"`
	Join           string   `yaml:"join"`
	Enabled        *bool    `yaml:"enabled"`
	AlphaThreshold *int     `yaml:"alpha_threshold"`
	CloseSmallGaps bool     `yaml:"close_small_gaps"`
	CloseBigGaps   bool     `yaml:"close_big_gaps"`
	Background     string   `yaml:"background"`
}

type YAMLDebug struct {
	Tracer             trace.Algorithm `yaml:"tracer"`
	DisableAutoBridge  bool            `yaml:"disable_auto_bridge"`
	DisableSmoothing   bool            `yaml:"disable_smoothing"`
	DisableCrossingFix bool            `yaml:"disable_crossing_fix"`
	DisableGapBridge   bool            `yaml:"disable_gap_bridge"`
	ShowRawContour     bool            `yaml:"show_raw_contour"`
}

type YAMLOutline struct {
	CrossingWindow *int     `yaml:"crossing_window"`
	MergeDistance  *float64 `yaml:"merge_distance"`
	Passes         *int     `yaml:"passes"`
	SmoothWindow   *int     `yaml:"smooth_window"`
	CornerAngle    *float64 `yaml:"corner_angle"`
}

type YAMLBridge struct {
	InwardRatio     *float64 `yaml:"inward_ratio"`
	ProtrusionRatio *float64 `yaml:"protrusion_ratio"`
	MinSpan         *int     `yaml:"min_span"`
}
