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
	"errors"

	"github.com/spf13/cobra"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"

	"github.com/buywitheze-droid/sticker-maker-sub001/composite"
	"github.com/buywitheze-droid/sticker-maker-sub001/contour"
)

// cutLineWidth is the width of the cut line in the PDF, in points.
const cutLineWidth = 0.25

func pdfCmd(a *app) *cobra.Command {
	var flags processFlags
	var out string

	c := &cobra.Command{
		Use:   "pdf IMAGE",
		Short: "Write the cut line of an image as a PDF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.process(cmd, &flags, args[0])
			if err != nil {
				return err
			}
			if res.Status != contour.StatusOK {
				return errors.New("no contour found: " + res.Status.String())
			}

			if out == "" {
				out = withSuffix(args[0], ".pdf")
			}
			if err := writePDF(out, res.Data); err != nil {
				return err
			}
			a.log.WithField("file", out).Info("PDF written")
			return nil
		},
	}
	flags.register(c)
	c.Flags().StringVarP(&out, "out", "o", "", "output file (default IMAGE.pdf)")
	return c
}

// writePDF writes a single page the size of the padded canvas, with the
// cut line as a stroked path. The contour data already uses the PDF
// orientation, so only the conversion from inches to points is needed.
func writePDF(fname string, data composite.Data) error {
	const pt = 72
	paper := &pdf.Rectangle{
		URx: data.Width * pt,
		URy: data.Height * pt,
	}
	page, err := document.CreateSinglePage(fname, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	page.SetStrokeColor(color.DeviceGray(0))
	page.SetLineWidth(cutLineWidth)
	page.SetLineJoin(graphics.LineJoinRound)
	page.SetLineCap(graphics.LineCapRound)
	for i, q := range data.Points {
		if i == 0 {
			page.MoveTo(q.X*pt, q.Y*pt)
		} else {
			page.LineTo(q.X*pt, q.Y*pt)
		}
	}
	if len(data.Points) > 0 {
		page.ClosePath()
		page.Stroke()
	}
	return page.Close()
}
