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
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/buywitheze-droid/sticker-maker-sub001/composite"
	"github.com/buywitheze-droid/sticker-maker-sub001/mask"
)

func traceCmd(a *app) *cobra.Command {
	var flags processFlags
	var out string
	var jsonOut string
	var maskOut string

	c := &cobra.Command{
		Use:   "trace IMAGE",
		Short: "Compute the contour of an image and write a preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.process(cmd, &flags, args[0])
			if err != nil {
				return err
			}

			if out == "" {
				out = withSuffix(args[0], ".cut.png")
			}
			if err := imaging.Save(res.Image, out); err != nil {
				return err
			}
			a.log.WithField("file", out).Info("preview written")

			if maskOut != "" {
				if err := a.writeMask(cmd, &flags, args[0], maskOut); err != nil {
					return err
				}
			}

			if jsonOut == "" || jsonOut == "-" {
				return writeData(cmd.OutOrStdout(), res.Data)
			}
			f, err := os.Create(jsonOut)
			if err != nil {
				return err
			}
			if err := writeData(f, res.Data); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	flags.register(c)
	c.Flags().StringVarP(&out, "out", "o", "", "preview file (default IMAGE.cut.png)")
	c.Flags().StringVar(&jsonOut, "json", "", "contour data file (default stdout)")
	c.Flags().StringVar(&maskOut, "mask", "", "also write the thresholded alpha mask to this file")
	return c
}

// writeMask saves the pixels of the image at path which reach the alpha
// threshold, as a black and white image.
func (a *app) writeMask(cmd *cobra.Command, f *processFlags, path, out string) error {
	p, err := f.preset(cmd)
	if err != nil {
		return err
	}
	img, err := loadImage(path)
	if err != nil {
		return err
	}
	m := mask.FromImage(img, p.Stroke.AlphaThreshold)
	if err := imaging.Save(m.Gray(), out); err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{
		"file":   out,
		"pixels": m.Count(),
	}).Info("mask written")
	return nil
}

func writeData(w io.Writer, data composite.Data) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// withSuffix replaces the extension of path by suffix.
func withSuffix(path, suffix string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix
}
