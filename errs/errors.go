/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package errs

import (
	"fmt"
	"runtime"
)

// Error is the error type returned from every core package. It carries a
// Code, an optional message override, a source frame captured at
// construction, and zero or more parent errors (the cause chain).
type Error interface {
	error

	Code() Code
	IsCode(c Code) bool
	HasCode(c Code) bool

	Unwrap() []error
	Add(parents ...error)

	// Frame returns "file:line" of the call that built this error.
	Frame() string
}

type ers struct {
	code Code
	msg  string
	frm  runtime.Frame
	prnt []error
}

// New builds an Error from a code and optional parent errors. If msg is
// empty the code's registered Message() is used.
func New(c Code, msg string, parents ...error) Error {
	e := &ers{code: c, msg: msg, frm: caller(2)}
	e.Add(parents...)
	return e
}

// Newf is New with fmt.Sprintf-style formatting applied to msg.
func Newf(c Code, format string, args ...any) Error {
	e := &ers{code: c, msg: fmt.Sprintf(format, args...), frm: caller(2)}
	return e
}

func caller(skip int) runtime.Frame {
	pc := make([]uintptr, 1)
	n := runtime.Callers(skip+1, pc)
	if n == 0 {
		return runtime.Frame{}
	}
	frames := runtime.CallersFrames(pc[:n])
	f, _ := frames.Next()
	return f
}

func (e *ers) Error() string {
	m := e.msg
	if m == "" {
		m = e.code.Message()
	}
	return fmt.Sprintf("[%d] %s", int32(e.code), m)
}

func (e *ers) Code() Code { return e.code }

func (e *ers) IsCode(c Code) bool { return e.code == c }

func (e *ers) HasCode(c Code) bool {
	if e.IsCode(c) {
		return true
	}
	for _, p := range e.prnt {
		if ce, ok := p.(Error); ok && ce.HasCode(c) {
			return true
		}
	}
	return false
}

func (e *ers) Add(parents ...error) {
	for _, p := range parents {
		if p != nil {
			e.prnt = append(e.prnt, p)
		}
	}
}

func (e *ers) Unwrap() []error { return e.prnt }

func (e *ers) Frame() string {
	return fmt.Sprintf("%s:%d", e.frm.File, e.frm.Line)
}

// Is reports whether err carries the given Code, unwrapping parents.
func Is(err error, c Code) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(Error); ok {
		return e.HasCode(c)
	}
	return false
}

// CodeOf extracts the Code from err, or FAILURE if err is not an Error.
func CodeOf(err error) Code {
	if e, ok := err.(Error); ok {
		return e.Code()
	}
	return FAILURE
}
