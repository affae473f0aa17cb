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

package mueslog

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Entry is one captured log record, used by the Sink test helper.
type Entry struct {
	Level  logrus.Level
	Msg    string
	Fields map[string]interface{}
}

// Sink is an in-memory Logger for assertions in tests ("the internal error
// is logged" style properties from §7/§8).
type Sink struct {
	mu      sync.Mutex
	entries []Entry
	level   logrus.Level
}

func NewSink() *Sink {
	return &Sink{level: logrus.DebugLevel}
}

func (s *Sink) record(lvl logrus.Level, msg string, fields []Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := make(map[string]interface{}, len(fields))
	for _, fl := range fields {
		f[fl.Key] = fl.Val
	}
	s.entries = append(s.entries, Entry{Level: lvl, Msg: msg, Fields: f})
}

func (s *Sink) Debug(msg string, fields ...Field) { s.record(logrus.DebugLevel, msg, fields) }
func (s *Sink) Info(msg string, fields ...Field)  { s.record(logrus.InfoLevel, msg, fields) }
func (s *Sink) Warn(msg string, fields ...Field)  { s.record(logrus.WarnLevel, msg, fields) }
func (s *Sink) Error(msg string, fields ...Field) { s.record(logrus.ErrorLevel, msg, fields) }

func (s *Sink) WithFields(fields ...Field) Logger {
	// The sink is shared; fields are merged in at record time by wrapping.
	return &sinkWithFields{s: s, fields: fields}
}

func (s *Sink) SetLevel(lvl logrus.Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = lvl
}

func (s *Sink) GetLevel() logrus.Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// Entries returns a snapshot of everything recorded so far.
func (s *Sink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

type sinkWithFields struct {
	s      *Sink
	fields []Field
}

func (w *sinkWithFields) merge(fields []Field) []Field {
	out := make([]Field, 0, len(w.fields)+len(fields))
	out = append(out, w.fields...)
	out = append(out, fields...)
	return out
}

func (w *sinkWithFields) Debug(msg string, fields ...Field) { w.s.record(logrus.DebugLevel, msg, w.merge(fields)) }
func (w *sinkWithFields) Info(msg string, fields ...Field)  { w.s.record(logrus.InfoLevel, msg, w.merge(fields)) }
func (w *sinkWithFields) Warn(msg string, fields ...Field)  { w.s.record(logrus.WarnLevel, msg, w.merge(fields)) }
func (w *sinkWithFields) Error(msg string, fields ...Field) { w.s.record(logrus.ErrorLevel, msg, w.merge(fields)) }
func (w *sinkWithFields) WithFields(fields ...Field) Logger {
	return &sinkWithFields{s: w.s, fields: w.merge(fields)}
}
func (w *sinkWithFields) SetLevel(lvl logrus.Level) { w.s.SetLevel(lvl) }
func (w *sinkWithFields) GetLevel() logrus.Level    { return w.s.GetLevel() }
