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
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var debug bool
	app := &app{}

	cmd := &cobra.Command{
		Use:          "kisscut",
		Short:        "Generate kiss-cut contours for sticker artwork",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			app.log = initLogger(cmd.ErrOrStderr(), debug)
		},
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging")

	cmd.AddCommand(
		traceCmd(app),
		pdfCmd(app),
		shapesCmd(app),
	)
	return cmd
}

// app carries state shared by the subcommands.
type app struct {
	log *logrus.Logger
}

func initLogger(w io.Writer, debug bool) *logrus.Logger {
	logger := logrus.New()
	if w == nil {
		w = os.Stderr
	}
	logger.SetOutput(w)

	if debug {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return logger
}
