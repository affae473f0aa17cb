/*
 * MIT License
 *
 * Copyright (c) 2026 The Mues Authors
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
 */

// Package muerr defines the tagged error value used across the event
// pipeline, modeled on a CodeError-style classification (an HTTP-status-like
// numeric tag plus a symbolic Kind) so that filters can decide, without type
// assertions on concrete error types, whether a failure is user-visible or
// internal.
package muerr

import (
	"fmt"
	"runtime"
)

// Kind classifies an error for the propagation policy of §7.
type Kind uint8

const (
	KindInternal Kind = iota
	KindProtocol
	KindInputValidation
	KindShellCommand
	KindPermission
	KindCommandNameConflict
	KindCommandParse
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindProtocol:
		return "ProtocolError"
	case KindInputValidation:
		return "InputValidationError"
	case KindShellCommand:
		return "ShellCommandError"
	case KindPermission:
		return "PermissionError"
	case KindCommandNameConflict:
		return "CommandNameConflict"
	case KindCommandParse:
		return "CommandParseError"
	case KindIO:
		return "IOError"
	default:
		return "Internal"
	}
}

// CodeError mirrors an HTTP-status-like numeric tag: 400 for validation, 403
// for permission, 409 for name conflicts, 422 for parse errors, 500 for
// internal/IO/protocol.
type CodeError uint16

func (k Kind) defaultCode() CodeError {
	switch k {
	case KindInputValidation:
		return 400
	case KindPermission:
		return 403
	case KindCommandNameConflict:
		return 409
	case KindCommandParse:
		return 422
	default:
		return 500
	}
}

// Visible reports whether this kind of error is meant to be rendered as an
// OutputEvent to the triggering user (as opposed to logged only).
func (k Kind) Visible() bool {
	switch k {
	case KindProtocol, KindInputValidation, KindShellCommand, KindPermission:
		return true
	default:
		return false
	}
}

// MuesError is the concrete error type produced by New/Wrap.
type MuesError struct {
	kind   Kind
	code   CodeError
	msg    string
	parent error
	frame  runtime.Frame
}

func (e *MuesError) Error() string {
	if e.parent != nil {
		return fmt.Sprintf("%s: %s: %s", e.kind, e.msg, e.parent.Error())
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *MuesError) Unwrap() error { return e.parent }

func (e *MuesError) Kind() Kind { return e.kind }

func (e *MuesError) Code() CodeError { return e.code }

// Frame returns the caller frame captured at construction time, trimmed to
// the call site that raised the error (the stream/filter invocation frame in
// the spec's "trim at the invocation frame" rule).
func (e *MuesError) Frame() runtime.Frame { return e.frame }

func captureFrame(skip int) runtime.Frame {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return runtime.Frame{}
	}
	fn := runtime.FuncForPC(pc)
	name := "unknown"
	if fn != nil {
		name = fn.Name()
	}
	return runtime.Frame{Function: name, File: file, Line: line}
}

// New builds a MuesError of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *MuesError {
	return &MuesError{
		kind:  kind,
		code:  kind.defaultCode(),
		msg:   fmt.Sprintf(format, args...),
		frame: captureFrame(2),
	}
}

// Wrap attaches kind/message context to an upstream error, preserving it in
// the parent chain for errors.Is/As.
func Wrap(kind Kind, parent error, format string, args ...interface{}) *MuesError {
	if parent == nil {
		return New(kind, format, args...)
	}
	return &MuesError{
		kind:   kind,
		code:   kind.defaultCode(),
		msg:    fmt.Sprintf(format, args...),
		parent: parent,
		frame:  captureFrame(2),
	}
}

// KindOf classifies an arbitrary error for the propagation policy: a
// *MuesError reports its own kind, anything else is Internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var me *MuesError
	if as(err, &me) {
		return me.kind
	}
	return KindInternal
}

// as is a tiny local shim over errors.As to avoid importing the standard
// errors package purely for this one call site elsewhere in the codebase.
func as(err error, target **MuesError) bool {
	for err != nil {
		if me, ok := err.(*MuesError); ok {
			*target = me
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
