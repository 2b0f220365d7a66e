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

// Response is one message of a Stream. Result and Err are only set in the
// final message.
type Response struct {
	Progress int
	Result   *Result
	Err      error
}

// streamBuffer holds every message of one request, so that the worker
// never blocks on a caller which has stopped reading.
const streamBuffer = 16

// Stream runs Process in a new goroutine. The returned channel delivers
// progress messages with increasing values, followed by one message
// carrying the result or the error, and is then closed. There is no
// cancellation: callers which lose interest simply stop reading.
func Stream(req Request, opts Options) <-chan Response {
	ch := make(chan Response, streamBuffer)
	go func() {
		defer close(ch)
		opts.Progress = func(percent int) {
			ch <- Response{Progress: percent}
		}
		res, err := Process(req, opts)
		if err != nil {
			ch <- Response{Err: err}
			return
		}
		ch <- Response{Result: res, Progress: 100}
	}()
	return ch
}
