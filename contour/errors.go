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
	"errors"
	"fmt"
)

// ErrorKind is a coarse classification of the errors returned by this
// package.
type ErrorKind string

const (
	KindInvalidRequest ErrorKind = "invalid_request"
	KindInvalidConfig  ErrorKind = "invalid_config"
	KindUnhandled      ErrorKind = "unhandled"
)

// OpError wraps an underlying error with the failed operation and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // optional: the file involved
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err is an *OpError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

func invalidRequest(format string, args ...any) error {
	return &OpError{Op: "contour.Process", Kind: KindInvalidRequest, Err: fmt.Errorf(format, args...)}
}
