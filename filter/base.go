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

package filter

import (
	"sync"

	"github.com/google/uuid"

	muesatomic "github.com/nabbar/mues/atomic"
	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/mueslog"
)

// Base holds the bookkeeping every concrete filter needs: identity, sort
// position, the out-of-cycle injection queues, the finished flag, and a
// handle back to the owning stream once started. Concrete filters embed
// Base and implement only HandleInput/HandleOutput/Start/Stop for their own
// behavior; QueueInput, QueueOutput, ID, SortPos and Finished are inherited.
type Base struct {
	id       string
	sortPos  SortPos
	finished *muesatomic.Bool
	log      mueslog.Logger

	mu     sync.Mutex
	stream StreamHandle
	inQ    []event.Event
	outQ   []event.Event
}

// NewBase constructs a Base with a fresh random ID. Concrete filters call
// this from their own constructor.
func NewBase(pos SortPos, log mueslog.Logger) Base {
	if log == nil {
		log = mueslog.NewNop()
	}
	return Base{
		id:       uuid.NewString(),
		sortPos:  pos.Clamp(),
		finished: muesatomic.NewBool(false),
		log:      log,
	}
}

func (b *Base) ID() string      { return b.id }
func (b *Base) SortPos() SortPos { return b.sortPos }
func (b *Base) Finished() bool  { return b.finished.Get() }

// MarkFinished flags the filter for removal at the end of the current cycle
// (§8 Invariant 1). Concrete filters call this from their handlers.
func (b *Base) MarkFinished() { b.finished.SetTrue() }

// Logger exposes the filter's logger to embedding types.
func (b *Base) Logger() mueslog.Logger { return b.log }

// Attach records the owning stream handle; called by the default Start
// wiring in concrete filters (or directly by the stream on insertion).
func (b *Base) Attach(s StreamHandle) { b.mu.Lock(); b.stream = s; b.mu.Unlock() }

// Detach clears the stream handle; called on Stop.
func (b *Base) Detach() { b.mu.Lock(); b.stream = nil; b.mu.Unlock() }

func (b *Base) Stream() StreamHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stream
}

// QueueInput appends to the pending input queue and, if attached, asks the
// stream to schedule a new cycle.
func (b *Base) QueueInput(evs ...event.Event) {
	if len(evs) == 0 {
		return
	}
	b.mu.Lock()
	b.inQ = append(b.inQ, evs...)
	s := b.stream
	b.mu.Unlock()
	if s != nil {
		s.QueueInput(evs...)
	}
}

func (b *Base) QueueOutput(evs ...event.Event) {
	if len(evs) == 0 {
		return
	}
	b.mu.Lock()
	b.outQ = append(b.outQ, evs...)
	s := b.stream
	b.mu.Unlock()
	if s != nil {
		s.QueueOutput(evs...)
	}
}

// DrainInput returns and clears events queued via QueueInput since the last
// drain, for a concrete filter's HandleInput to fold into its own pass.
func (b *Base) DrainInput() []event.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := b.inQ
	b.inQ = nil
	return q
}

func (b *Base) DrainOutput() []event.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := b.outQ
	b.outQ = nil
	return q
}
