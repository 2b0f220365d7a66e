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
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/buywitheze-droid/sticker-maker-sub001/shapes"
)

func shapesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shapes DIR",
		Short: "Export the synthetic test shapes as PNG files",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			for _, category := range slices.Sorted(maps.Keys(shapes.All)) {
				for _, tc := range shapes.All[category] {
					name := filepath.Join(dir, category+"_"+tc.Name+".png")
					if err := imaging.Save(tc.Image, name); err != nil {
						return err
					}
					a.log.WithFields(logrus.Fields{
						"file":   name,
						"dpi":    tc.DPI,
						"stroke": tc.StrokeInches,
					}).Debug("shape written")
				}
			}
			return nil
		},
	}
}
