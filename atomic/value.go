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

// Package atomic provides small generic atomic wrappers used throughout the
// event pipeline (filter finished flags, stream change bits, rotation
// counters) so that callers never need a bare sync.Mutex for a single scalar.
package atomic

import "sync/atomic"

// Value is a type-safe wrapper around atomic.Value for a comparable T.
type Value[T any] struct {
	v atomic.Value
	z T
}

// NewValue returns a Value with no stored content; Load returns the zero
// value of T until the first Store.
func NewValue[T any]() *Value[T] {
	return &Value[T]{}
}

// NewValueDefault returns a Value pre-populated with init.
func NewValueDefault[T any](init T) *Value[T] {
	r := &Value[T]{z: init}
	r.Store(init)
	return r
}

// Load returns the current value, or the zero value of T if never stored.
func (v *Value[T]) Load() T {
	i := v.v.Load()
	if i == nil {
		return v.z
	}
	return i.(T)
}

// Store atomically replaces the current value.
func (v *Value[T]) Store(val T) {
	v.v.Store(val)
}

// Swap atomically replaces the current value and returns the previous one.
func (v *Value[T]) Swap(val T) T {
	old := v.Load()
	v.Store(val)
	return old
}

// Bool is a convenience Value[bool] with named accessors for flag-like state
// (filter.finished, stream.paused, ...).
type Bool struct {
	v Value[bool]
}

func NewBool(init bool) *Bool {
	b := &Bool{}
	b.v.Store(init)
	return b
}

func (b *Bool) Get() bool     { return b.v.Load() }
func (b *Bool) Set(val bool)  { b.v.Store(val) }
func (b *Bool) SetTrue()      { b.v.Store(true) }
func (b *Bool) SetFalse()     { b.v.Store(false) }

// Counter is a simple wrapper over atomic.Int64 for rotation indices and
// connection counters.
type Counter struct {
	n atomic.Int64
}

func (c *Counter) Add(delta int64) int64 { return c.n.Add(delta) }
func (c *Counter) Get() int64            { return c.n.Load() }
func (c *Counter) Set(v int64)           { c.n.Store(v) }

// Next returns the next value in [0, mod) for round-robin selection (e.g. the
// default input filter's rotating error-message index).
func (c *Counter) Next(mod int64) int64 {
	if mod <= 0 {
		return 0
	}
	v := c.n.Add(1) - 1
	return v % mod
}
