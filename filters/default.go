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

// Package filters holds the small, specialized filters that round out a
// connection's stream: the terminal catch-alls, the per-user macro
// expander, and the event delegator/snoop pair used for admin oversight
// (C10).
package filters

import (
	"fmt"
	"sync"

	muesatomic "github.com/nabbar/mues/atomic"
	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/filter"
	"github.com/nabbar/mues/mueslog"
)

var defaultUnhandledMessages = []string{
	"Huh? %q isn't a command I recognize.\r\n",
	"I don't understand %q.\r\n",
	"What do you mean by %q?\r\n",
}

// DefaultInput is the terminal input catch-all (§4.9): it sits at the
// lowest SortPos, the last filter any input pass reaches, and answers
// anything nobody else handled with a rotating error message.
type DefaultInput struct {
	filter.Base
	messages []string
	idx      muesatomic.Counter
}

// NewDefaultInput constructs the default input filter. A nil/empty
// messages list falls back to the built-in rotation.
func NewDefaultInput(messages []string, log mueslog.Logger) *DefaultInput {
	if len(messages) == 0 {
		messages = defaultUnhandledMessages
	}
	return &DefaultInput{
		Base:     filter.NewBase(filter.MinSortPos, log),
		messages: messages,
	}
}

func (f *DefaultInput) Start(s filter.StreamHandle) []event.Event { f.Attach(s); return nil }
func (f *DefaultInput) Stop(s filter.StreamHandle) []event.Event  { f.Detach(); return nil }

func (f *DefaultInput) HandleInput(in []event.Event) []event.Event {
	var out []event.Event
	for _, e := range in {
		ie, ok := e.(event.InputEvent)
		if !ok {
			continue
		}
		n := f.idx.Next(int64(len(f.messages)))
		out = append(out, event.OutputEvent{Data: fmt.Sprintf(f.messages[n], ie.Data)})
	}
	return out
}

func (f *DefaultInput) HandleOutput(out []event.Event) []event.Event { return out }

// DefaultOutput is the terminal output sink (§4.9): it sits at the highest
// SortPos, the last filter any output pass reaches, and keeps a bounded
// ring of recent payloads for reconnection replay.
type DefaultOutput struct {
	filter.Base

	mu   sync.Mutex
	ring []string
	size int
}

// NewDefaultOutput constructs the default output filter with a replay ring
// of the given size (10 if size <= 0, per the spec's default).
func NewDefaultOutput(size int, log mueslog.Logger) *DefaultOutput {
	if size <= 0 {
		size = 10
	}
	return &DefaultOutput{
		Base: filter.NewBase(filter.MaxSortPos, log),
		size: size,
	}
}

func (f *DefaultOutput) Start(s filter.StreamHandle) []event.Event { f.Attach(s); return nil }
func (f *DefaultOutput) Stop(s filter.StreamHandle) []event.Event  { f.Detach(); return nil }

func (f *DefaultOutput) HandleInput(in []event.Event) []event.Event { return in }

func (f *DefaultOutput) HandleOutput(out []event.Event) []event.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range out {
		oe, ok := e.(event.OutputEvent)
		if !ok {
			continue
		}
		f.ring = append(f.ring, oe.Data)
		if len(f.ring) > f.size {
			f.ring = f.ring[len(f.ring)-f.size:]
		}
	}
	return nil
}

// Replay returns a snapshot of the buffered output, oldest first.
func (f *DefaultOutput) Replay() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.ring))
	copy(out, f.ring)
	return out
}
