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


// Package contour turns the alpha channel of an image into a kiss-cut
// contour: a simple closed polygon around the artwork, offset by the
// user's stroke width, together with a preview of the finished sticker.
//
// The pipeline runs the following stages:
//
//  1. threshold the alpha channel into a mask,
//  2. close small gaps in the mask and grow it by a fixed base offset,
//  3. grow the mask by the user's offset and keep its largest component,
//  4. trace the boundary,
//  5. smooth it and remove self-intersections,
//  6. optionally bridge narrow gaps,
//  7. render the preview and convert the contour to inches.
package contour

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/buywitheze-droid/sticker-maker-sub001/bridge"
	"github.com/buywitheze-droid/sticker-maker-sub001/composite"
	"github.com/buywitheze-droid/sticker-maker-sub001/mask"
	"github.com/buywitheze-droid/sticker-maker-sub001/outline"
	"github.com/buywitheze-droid/sticker-maker-sub001/trace"
)

// Distances applied to every input, in inches.
const (
	autoBridgeInches = 0.02
	baseOffsetInches = 0.015
	cutLineInches    = 0.01
)

// Largest image dimension, in pixels, which is processed without
// downscaling.
const (
	previewMaxPixels    = 400
	productionMaxPixels = 4000
)

// Process computes the contour and preview for req.
//
// Inputs without usable artwork are not an error; they give a Result with
// a Status other than StatusOK. Errors are of type *OpError.
func Process(req Request, opts Options) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &OpError{Op: "contour.Process", Kind: KindUnhandled, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	job, err := newJob(req, opts)
	if err != nil {
		return nil, err
	}
	return job.run()
}

type job struct {
	req   Request
	opts  Options
	dbg   DebugSettings
	log   logrus.FieldLogger
	paint composite.Options
	done  int
}

func newJob(req Request, opts Options) (*job, error) {
	if req.Image == nil {
		return nil, invalidRequest("missing image")
	}
	if req.Image.Bounds().Empty() {
		return nil, invalidRequest("empty image")
	}
	if !(req.EffectiveDPI > 0) || math.IsInf(req.EffectiveDPI, 0) {
		return nil, invalidRequest("invalid resolution %g", req.EffectiveDPI)
	}
	if req.Stroke.WidthInches < 0 || math.IsNaN(req.Stroke.WidthInches) {
		return nil, invalidRequest("invalid stroke width %g", req.Stroke.WidthInches)
	}
	mode, background, err := req.Stroke.bleed()
	if err != nil {
		return nil, err
	}
	cut, err := req.Stroke.cutColor()
	if err != nil {
		return nil, err
	}
	join, err := req.Stroke.join()
	if err != nil {
		return nil, err
	}

	j := &job{
		req:  req,
		opts: opts,
		log:  opts.logger(),
		done: -1,
		paint: composite.Options{
			BleedInches: opts.BleedInches,
			Bleed:       mode,
			BleedColor:  background,
			CutColor:    cut,
			CutJoin:     join,
		},
	}
	if req.Debug != nil {
		j.dbg = *req.Debug
	}
	return j, nil
}

func (j *job) progress(percent int) {
	if percent <= j.done {
		return
	}
	j.done = percent
	if j.opts.Progress != nil {
		j.opts.Progress(percent)
	}
}

func (j *job) run() (*Result, error) {
	j.progress(0)

	limit := productionMaxPixels
	if j.req.PreviewMode {
		limit = previewMaxPixels
	}
	img, scale := downscale(j.req.Image, limit)
	dpi := j.req.EffectiveDPI * scale
	j.paint.DPI = dpi
	j.log.WithFields(logrus.Fields{
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
		"scale":  scale,
		"dpi":    dpi,
	}).Debug("input prepared")

	m := mask.FromImage(img, j.req.Stroke.AlphaThreshold)
	j.progress(10)
	if m.Empty() {
		j.log.Warn("no pixel reaches the alpha threshold")
		return j.plain(img, scale, StatusNoForeground), nil
	}

	if !j.dbg.DisableAutoBridge {
		if r := radius(autoBridgeInches, dpi); r > 0 {
			m = mask.Close(m, r)
		}
	}
	j.progress(25)

	base := radius(baseOffsetInches, dpi)
	m = mask.Fill(mask.Dilate(m, base))
	user := 0
	if j.req.Stroke.Enabled {
		user = radius(j.req.Stroke.WidthInches, dpi)
		m = mask.Dilate(m, user)
	}
	m, components := mask.Largest(m)
	j.log.WithFields(logrus.Fields{
		"canvas":     fmt.Sprintf("%dx%d", m.Width, m.Height),
		"pixels":     m.Count(),
		"base":       base,
		"offset":     user,
		"components": components,
		"tracer":     j.dbg.Tracer,
	}).Debug("mask prepared")
	j.progress(40)

	guard := false
	raw, err := trace.TraceLimited(m, j.dbg.Tracer, j.opts.TraceSteps)
	if errors.Is(err, trace.ErrGuardTripped) {
		j.log.WithError(err).Warn("boundary tracing stopped early")
		guard = true
	} else if err != nil {
		return nil, &OpError{Op: "trace", Kind: KindUnhandled, Err: err}
	}
	if len(raw) < 3 {
		j.log.WithField("points", len(raw)).Warn("boundary too short")
		return j.plain(img, scale, StatusTraceFailure), nil
	}
	j.progress(60)

	p, tripped := j.condition(raw, dpi)
	guard = guard || tripped
	if p == nil {
		j.log.Warn("contour degenerated during conditioning")
		return j.plain(img, scale, StatusTraceFailure), nil
	}
	j.progress(85)

	if j.req.Stroke.Enabled {
		j.paint.CutWidth = max(1, math.Round(cutLineInches*dpi))
	}
	if j.dbg.ShowRawContour {
		j.paint.Raw = raw
	}
	offset := base + user
	preview, data := composite.Render(img, image.Pt(offset, offset), image.Pt(m.Width, m.Height), p, j.paint)
	j.log.WithFields(logrus.Fields{
		"points": len(p),
		"width":  data.Width,
		"height": data.Height,
	}).Debug("contour rendered")

	res := &Result{
		Image:        upscale(preview, scale),
		Data:         data,
		Status:       StatusOK,
		GuardTripped: guard,
	}
	j.progress(100)
	return res, nil
}

// condition turns the traced boundary into a simple polygon. The result
// is nil if nothing usable is left.
func (j *job) condition(p outline.Path, dpi float64) (outline.Path, bool) {
	var guard bool
	if !j.dbg.DisableSmoothing {
		p = outline.Smooth(p, j.opts.Outline)
	}
	if !j.dbg.DisableCrossingFix {
		var st outline.Stats
		p, st = outline.FixOffsetCrossings(p, j.opts.Outline)
		guard = st.GuardTripped
		j.log.WithFields(logrus.Fields{
			"crossings":  st.CrossingsFixed,
			"merged":     st.PointsMerged,
			"backtracks": st.BacktracksRemoved,
			"reversed":   st.Reversed,
		}).Debug("crossings removed")
	}
	j.progress(70)

	threshold := bridge.Threshold(j.req.Stroke.CloseSmallGaps, j.req.Stroke.CloseBigGaps, dpi)
	if threshold > 0 && !j.dbg.DisableGapBridge {
		cfg := j.opts.Bridge
		cfg.Outline = j.opts.Outline
		var rep bridge.Report
		p, rep = bridge.Resolve(p, threshold, cfg)
		j.log.WithFields(logrus.Fields{
			"threshold":  threshold,
			"candidates": rep.Candidates,
			"rejected":   rep.Rejected,
			"closed":     len(rep.Closed),
		}).Debug("gaps bridged")
	}

	p, st := outline.Finalize(p, j.opts.Outline)
	if st.GuardTripped {
		guard = true
	}
	if guard {
		j.log.Warn("contour conditioning hit its step limit")
	}
	return p, guard
}

func (j *job) plain(img image.Image, scale float64, status Status) *Result {
	preview, data := composite.Plain(img, j.paint)
	res := &Result{
		Image:  upscale(preview, scale),
		Data:   data,
		Status: status,
	}
	j.progress(100)
	return res
}

func radius(inches, dpi float64) int {
	return int(math.Round(inches * dpi))
}

// downscale shrinks img so that neither side exceeds limit pixels. It
// returns the image used for processing and the scale factor applied.
func downscale(img image.Image, limit int) (image.Image, float64) {
	b := img.Bounds()
	size := max(b.Dx(), b.Dy())
	if size <= limit {
		return img, 1
	}
	s := float64(limit) / float64(size)
	w := max(1, int(math.Round(float64(b.Dx())*s)))
	h := max(1, int(math.Round(float64(b.Dy())*s)))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Rect, img, b, draw.Src, nil)
	return dst, float64(w) / float64(b.Dx())
}

// upscale undoes the effect of downscale on the preview.
func upscale(img *image.NRGBA, scale float64) *image.NRGBA {
	if scale == 1 {
		return img
	}
	w := max(1, int(math.Round(float64(img.Rect.Dx())/scale)))
	h := max(1, int(math.Round(float64(img.Rect.Dy())/scale)))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Rect, img, img.Rect, draw.Src, nil)
	return dst
}
