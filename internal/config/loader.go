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


// Package config reads processing presets from YAML files.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/buywitheze-droid/sticker-maker-sub001/contour"
)

// LoadPreset reads and validates the preset stored at path.
func LoadPreset(path string) (Preset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, &contour.OpError{
			Op:   "config.load_preset",
			Kind: contour.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLPreset
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return Preset{}, &contour.OpError{
			Op:   "config.load_preset",
			Kind: contour.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapPreset(path, dto)
}
