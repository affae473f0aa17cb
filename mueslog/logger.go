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

// Package mueslog is the structured logging facade every component in the
// event pipeline is constructed with. It wraps logrus with a small
// field-composing interface, matching the shape (not the multi-hook weight)
// of a conventional component logger: SetLevel/GetLevel, WithFields, and
// leveled entry points.
package mueslog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Field is one structured key/value attached to a log entry.
type Field struct {
	Key string
	Val interface{}
}

func F(key string, val interface{}) Field { return Field{Key: key, Val: val} }

// Logger is the interface every filter, stream, and registry receives at
// construction. It is never a package-level global: tests construct their own
// Logger bound to a buffering sink.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	WithFields(fields ...Field) Logger
	SetLevel(lvl logrus.Level)
	GetLevel() logrus.Level
}

type logger struct {
	e *logrus.Entry
}

// New builds a Logger writing to w (os.Stderr if nil) at the given level.
func New(w io.Writer, lvl logrus.Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	base := logrus.New()
	base.SetOutput(w)
	base.SetLevel(lvl)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &logger{e: logrus.NewEntry(base)}
}

// NewNop returns a Logger that discards everything; used where a component is
// constructed without explicit logging wired in (tests, defaults).
func NewNop() Logger {
	return New(io.Discard, logrus.PanicLevel)
}

func withFields(e *logrus.Entry, fields []Field) *logrus.Entry {
	if len(fields) == 0 {
		return e
	}
	f := make(logrus.Fields, len(fields))
	for _, fl := range fields {
		f[fl.Key] = fl.Val
	}
	return e.WithFields(f)
}

func (l *logger) Debug(msg string, fields ...Field) { withFields(l.e, fields).Debug(msg) }
func (l *logger) Info(msg string, fields ...Field)  { withFields(l.e, fields).Info(msg) }
func (l *logger) Warn(msg string, fields ...Field)  { withFields(l.e, fields).Warn(msg) }
func (l *logger) Error(msg string, fields ...Field) { withFields(l.e, fields).Error(msg) }

func (l *logger) WithFields(fields ...Field) Logger {
	return &logger{e: withFields(l.e, fields)}
}

func (l *logger) SetLevel(lvl logrus.Level) { l.e.Logger.SetLevel(lvl) }
func (l *logger) GetLevel() logrus.Level    { return l.e.Logger.GetLevel() }
