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


package main

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/buywitheze-droid/sticker-maker-sub001/composite"
	"github.com/buywitheze-droid/sticker-maker-sub001/contour"
	"github.com/buywitheze-droid/sticker-maker-sub001/internal/config"
	"github.com/buywitheze-droid/sticker-maker-sub001/trace"
)

// processFlags are the options shared by the commands which compute a
// contour. Flags given on the command line override the preset.
type processFlags struct {
	config     string
	dpi        float64
	width      float64
	color      string
	join       string
	threshold  int
	closeSmall bool
	closeBig   bool
	background string
	preview    bool
	disabled   bool
	tracer     string
	raw        bool
}

func (f *processFlags) register(c *cobra.Command) {
	fl := c.Flags()
	fl.StringVar(&f.config, "config", "", "preset file (YAML)")
	fl.Float64Var(&f.dpi, "dpi", config.DefaultDPI, "resolution of the input image")
	fl.Float64Var(&f.width, "width", config.DefaultWidthInches, "distance between artwork and cut line, in inches")
	fl.StringVar(&f.color, "color", "", "cut line colour in the preview (hex)")
	fl.StringVar(&f.join, "join", "", "cut line corners in the preview: round|miter|bevel")
	fl.IntVar(&f.threshold, "threshold", config.DefaultAlphaThreshold, "smallest alpha value counted as artwork")
	fl.BoolVar(&f.closeSmall, "close-small-gaps", false, "bridge gaps up to 0.15in")
	fl.BoolVar(&f.closeBig, "close-big-gaps", false, "bridge gaps up to 0.42in")
	fl.StringVar(&f.background, "background", composite.EdgeBleed, "bleed colour (hex) or "+composite.EdgeBleed)
	fl.BoolVar(&f.preview, "preview", false, "process at reduced resolution")
	fl.BoolVar(&f.disabled, "no-stroke", false, "omit the user offset and the cut line")
	fl.StringVar(&f.tracer, "tracer", "", "boundary tracer: marching-squares|moore-neighbor|contour-following")
	fl.BoolVar(&f.raw, "raw", false, "overlay the raw traced boundary")
}

// preset loads the preset file, if any, and applies the flags which were
// set explicitly.
func (f *processFlags) preset(c *cobra.Command) (config.Preset, error) {
	p := config.Default()
	if f.config != "" {
		var err error
		p, err = config.LoadPreset(f.config)
		if err != nil {
			return config.Preset{}, err
		}
	}

	fl := c.Flags()
	if fl.Changed("dpi") {
		p.DPI = f.dpi
	}
	if fl.Changed("width") {
		p.Stroke.WidthInches = f.width
	}
	if fl.Changed("color") {
		p.Stroke.Color = f.color
	}
	if fl.Changed("join") {
		j, err := composite.ParseJoin(f.join)
		if err != nil {
			return config.Preset{}, err
		}
		p.Stroke.Join = j
	}
	if fl.Changed("threshold") {
		if f.threshold < 0 || f.threshold > 255 {
			return config.Preset{}, fmt.Errorf("threshold %d out of range 0..255", f.threshold)
		}
		p.Stroke.AlphaThreshold = uint8(f.threshold)
	}
	if fl.Changed("close-small-gaps") {
		p.Stroke.CloseSmallGaps = f.closeSmall
	}
	if fl.Changed("close-big-gaps") {
		p.Stroke.CloseBigGaps = f.closeBig
	}
	if fl.Changed("background") {
		p.Stroke.BackgroundColor = f.background
		p.Stroke.UseCustomBackground = f.background != composite.EdgeBleed
	}
	if fl.Changed("preview") {
		p.PreviewMode = f.preview
	}
	if fl.Changed("no-stroke") {
		p.Stroke.Enabled = !f.disabled
	}
	if fl.Changed("tracer") || fl.Changed("raw") {
		if p.Debug == nil {
			p.Debug = &contour.DebugSettings{}
		}
		if fl.Changed("tracer") {
			alg, err := trace.ParseAlgorithm(f.tracer)
			if err != nil {
				return config.Preset{}, err
			}
			p.Debug.Tracer = alg
		}
		if fl.Changed("raw") {
			p.Debug.ShowRawContour = f.raw
		}
	}
	return p, nil
}

// process runs the contour pipeline on the image stored at path.
func (a *app) process(c *cobra.Command, f *processFlags, path string) (*contour.Result, error) {
	p, err := f.preset(c)
	if err != nil {
		return nil, err
	}
	img, err := loadImage(path)
	if err != nil {
		return nil, err
	}

	log := a.log.WithFields(logrus.Fields{"image": path, "preset": p.Name})
	p.Options.Logger = log

	var res *contour.Result
	for msg := range contour.Stream(p.Request(img), p.Options) {
		switch {
		case msg.Err != nil:
			return nil, msg.Err
		case msg.Result != nil:
			res = msg.Result
		default:
			log.WithField("percent", msg.Progress).Debug("progress")
		}
	}

	switch res.Status {
	case contour.StatusOK:
		log.WithFields(logrus.Fields{
			"points": len(res.Data.Points),
			"width":  res.Data.Width,
			"height": res.Data.Height,
		}).Info("contour computed")
	default:
		log.WithField("status", res.Status.String()).Warn("no contour")
	}
	if res.GuardTripped {
		log.Warn("contour may be inaccurate")
	}
	return res, nil
}

func loadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return img, nil
}
