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

package filters

import (
	"sync"

	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/filter"
	"github.com/nabbar/mues/mueslog"
)

// Handler receives the events of its direction along with the delegator
// itself, and returns the events that should replace them for the rest of
// the traversal.
type Handler func(d *Delegator, evs []event.Event) []event.Event

// Delegator binds a stream to an external receiver (§4.9): zero, one or
// two handlers intercept input and/or output events passing through.
type Delegator struct {
	filter.Base

	mu       sync.RWMutex
	onInput  Handler
	onOutput Handler
}

// NewDelegator constructs a delegator. Either handler may be nil.
func NewDelegator(pos filter.SortPos, onInput, onOutput Handler, log mueslog.Logger) *Delegator {
	return &Delegator{
		Base:     filter.NewBase(pos, log),
		onInput:  onInput,
		onOutput: onOutput,
	}
}

func (f *Delegator) Start(s filter.StreamHandle) []event.Event { f.Attach(s); return nil }
func (f *Delegator) Stop(s filter.StreamHandle) []event.Event  { f.Detach(); return nil }

func (f *Delegator) HandleInput(in []event.Event) []event.Event {
	f.mu.RLock()
	h := f.onInput
	f.mu.RUnlock()
	if h == nil {
		return in
	}
	return h(f, in)
}

func (f *Delegator) HandleOutput(out []event.Event) []event.Event {
	f.mu.RLock()
	h := f.onOutput
	f.mu.RUnlock()
	if h == nil {
		return out
	}
	return h(f, out)
}

// Disconnect clears both handlers and marks the delegator finished so the
// owning stream sweeps it on the next cycle.
func (f *Delegator) Disconnect() {
	f.mu.Lock()
	f.onInput = nil
	f.onOutput = nil
	f.mu.Unlock()
	f.MarkFinished()
}
