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

// Package stream implements the per-connection event stream (C3): an
// ordered container of filters that runs input/output passes over queued
// events, manages filter membership and lifecycle, and supports pause for
// the questionnaire's blocking protocol.
//
// Sort-position convention adopted here (the base specification leaves the
// exact traversal direction an implementation detail): lower SortPos values
// are closer to the wire, higher values closer to the application. The
// input pass walks filters from highest to lowest SortPos; the output pass
// walks from lowest to highest. The default input filter therefore sits at
// SortPos 0 (last to see an input event, i.e. the terminal catch-all) and
// the default output filter sits at SortPos 1000 (last to see an output
// event). Events an input handler produces mid-cycle are run through a
// fresh, full output pass rather than a partial one bounded by the
// producer's own position, so the terminal output filter always sees every
// output event regardless of which filter produced it (§8 Invariant on the
// terminal filters).
package stream

import (
	"sort"
	"sync"

	muesatomic "github.com/nabbar/mues/atomic"
	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/filter"
	"github.com/nabbar/mues/mueslog"
)

type entry struct {
	f   filter.Filter
	seq uint64
}

type workItem struct {
	dir event.Direction
	evs []event.Event
}

// Stream is the per-connection ordered filter chain.
type Stream struct {
	id  string
	log mueslog.Logger

	memMu   sync.Mutex
	entries []entry
	seq     uint64

	paused        *muesatomic.Bool
	pendingInput  []event.Event // buffered QueueInput events while paused

	cycleMu sync.Mutex
	queueMu sync.Mutex
	queue   []workItem

	finishedSweepMu sync.Mutex
}

// New constructs an empty stream. Callers insert the default input/output
// filters (and any others) via AddFilters immediately after construction.
func New(id string, log mueslog.Logger) *Stream {
	if log == nil {
		log = mueslog.NewNop()
	}
	return &Stream{
		id:     id,
		log:    log,
		paused: muesatomic.NewBool(false),
	}
}

func (s *Stream) StreamID() string { return s.id }

func (s *Stream) Paused() bool { return s.paused.Get() }

// Pause stops input-pass processing; queued outputs still flow.
func (s *Stream) Pause() { s.paused.SetTrue() }

// Unpause resumes input processing and flushes anything buffered while
// paused.
func (s *Stream) Unpause() {
	s.paused.SetFalse()
	s.memMu.Lock()
	buffered := s.pendingInput
	s.pendingInput = nil
	s.memMu.Unlock()
	if len(buffered) > 0 {
		s.enqueue(event.Input, buffered)
	}
}

// AddFilters inserts filters into the stream, calling Start on each and
// injecting whatever events it returns.
func (s *Stream) AddFilters(fs ...filter.Filter) {
	if len(fs) == 0 {
		return
	}
	var produced []event.Event
	s.memMu.Lock()
	for _, f := range fs {
		s.seq++
		s.entries = append(s.entries, entry{f: f, seq: s.seq})
	}
	s.sortLocked()
	s.memMu.Unlock()

	for _, f := range fs {
		if b, ok := f.(interface{ Attach(filter.StreamHandle) }); ok {
			b.Attach(s)
		}
		produced = append(produced, f.Start(s)...)
	}
	s.dispatchProduced(produced)
}

// RemoveFilters removes filters from the stream, calling Stop on each.
func (s *Stream) RemoveFilters(fs ...filter.Filter) {
	if len(fs) == 0 {
		return
	}
	remove := make(map[string]bool, len(fs))
	for _, f := range fs {
		remove[f.ID()] = true
	}

	s.memMu.Lock()
	kept := s.entries[:0:0]
	var removed []filter.Filter
	for _, e := range s.entries {
		if remove[e.f.ID()] {
			removed = append(removed, e.f)
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	s.memMu.Unlock()

	var produced []event.Event
	for _, f := range removed {
		produced = append(produced, f.Stop(s)...)
		if b, ok := f.(interface{ Detach() }); ok {
			b.Detach()
		}
	}
	s.dispatchProduced(produced)
}

func (s *Stream) sortLocked() {
	sort.SliceStable(s.entries, func(i, j int) bool {
		if s.entries[i].f.SortPos() != s.entries[j].f.SortPos() {
			return s.entries[i].f.SortPos() < s.entries[j].f.SortPos()
		}
		return s.entries[i].seq < s.entries[j].seq
	})
}

// ascending returns the current membership, lowest SortPos first.
func (s *Stream) ascending() []filter.Filter {
	s.memMu.Lock()
	defer s.memMu.Unlock()
	out := make([]filter.Filter, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.f
	}
	return out
}

// descending returns the current membership, highest SortPos first.
func (s *Stream) descending() []filter.Filter {
	asc := s.ascending()
	out := make([]filter.Filter, len(asc))
	for i, f := range asc {
		out[len(asc)-1-i] = f
	}
	return out
}

// QueueInput implements filter.StreamHandle: out-of-cycle input injection.
func (s *Stream) QueueInput(evs ...event.Event) {
	if len(evs) == 0 {
		return
	}
	if s.Paused() {
		s.memMu.Lock()
		s.pendingInput = append(s.pendingInput, evs...)
		s.memMu.Unlock()
		return
	}
	s.enqueue(event.Input, evs)
}

// QueueOutput implements filter.StreamHandle: accepted even while paused.
func (s *Stream) QueueOutput(evs ...event.Event) {
	if len(evs) == 0 {
		return
	}
	s.enqueue(event.Output, evs)
}

func (s *Stream) enqueue(dir event.Direction, evs []event.Event) {
	s.queueMu.Lock()
	s.queue = append(s.queue, workItem{dir: dir, evs: evs})
	s.queueMu.Unlock()
	s.drain()
}

func (s *Stream) dispatchProduced(produced []event.Event) {
	in, out := splitByDirection(produced)
	if len(in) > 0 {
		s.enqueue(event.Input, in)
	}
	if len(out) > 0 {
		s.enqueue(event.Output, out)
	}
}

func splitByDirection(evs []event.Event) (in, out []event.Event) {
	for _, e := range evs {
		if d, ok := e.(event.Directioned); ok && d.Direction() == event.Output {
			out = append(out, e)
		} else {
			in = append(in, e)
		}
	}
	return
}

// drain processes queued work items one cycle at a time until the queue is
// empty. cycleMu serializes this so a filter injecting events from within
// its own handler (reentrant QueueInput/QueueOutput) safely defers to the
// next loop iteration instead of recursing.
func (s *Stream) drain() {
	if !s.cycleMu.TryLock() {
		// another goroutine is already draining; it re-checks the queue
		// after releasing cycleMu, so it will pick up our item.
		return
	}
	defer func() {
		s.cycleMu.Unlock()
		s.queueMu.Lock()
		pending := len(s.queue) > 0
		s.queueMu.Unlock()
		if pending {
			s.drain()
		}
	}()

	for {
		s.queueMu.Lock()
		if len(s.queue) == 0 {
			s.queueMu.Unlock()
			return
		}
		item := s.queue[0]
		s.queue = s.queue[1:]
		s.queueMu.Unlock()

		if item.dir == event.Input {
			if s.Paused() {
				s.memMu.Lock()
				s.pendingInput = append(s.pendingInput, item.evs...)
				s.memMu.Unlock()
				continue
			}
			s.runInputPass(item.evs)
		} else {
			s.runOutputPass(item.evs)
		}
		s.sweepFinished()
	}
}

func (s *Stream) runInputPass(initial []event.Event) {
	working := initial
	for _, f := range s.descending() {
		if f.Finished() || len(working) == 0 {
			continue
		}
		result := s.safeHandleInput(f, working)

		var next []event.Event
		var toInsert []filter.Filter
		var producedOutput []event.Event
		for _, r := range result {
			switch v := r.(type) {
			case filter.Filter:
				toInsert = append(toInsert, v)
			default:
				if d, ok := r.(event.Directioned); ok && d.Direction() == event.Output {
					producedOutput = append(producedOutput, r)
				} else {
					next = append(next, r)
				}
			}
		}
		working = next
		if len(toInsert) > 0 {
			s.AddFilters(toInsert...)
		}
		if len(producedOutput) > 0 {
			s.runOutputPass(producedOutput)
		}
	}
}

func (s *Stream) runOutputPass(initial []event.Event) {
	working := initial
	for _, f := range s.ascending() {
		if f.Finished() || len(working) == 0 {
			continue
		}
		result := s.safeHandleOutput(f, working)

		var next []event.Event
		var toInsert []filter.Filter
		var producedInput []event.Event
		for _, r := range result {
			switch v := r.(type) {
			case filter.Filter:
				toInsert = append(toInsert, v)
			default:
				if d, ok := r.(event.Directioned); ok && d.Direction() == event.Input {
					producedInput = append(producedInput, r)
				} else {
					next = append(next, r)
				}
			}
		}
		working = next
		if len(toInsert) > 0 {
			s.AddFilters(toInsert...)
		}
		if len(producedInput) > 0 {
			// queued, not run synchronously, to avoid re-entering the output
			// pass mid-walk; it becomes the next cycle's input pass.
			s.QueueInput(producedInput...)
		}
	}
}

// safeHandleInput/safeHandleOutput recover a panicking filter handler,
// logging it and treating it as having consumed nothing (§4.1 failure
// semantics: an exception from a handler must not remove the filter unless
// the filter itself set its finished flag).
func (s *Stream) safeHandleInput(f filter.Filter, in []event.Event) (result []event.Event) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("filter handleInput panicked", mueslog.F("filter", f.ID()), mueslog.F("recover", r))
			result = nil
		}
	}()
	return f.HandleInput(in)
}

func (s *Stream) safeHandleOutput(f filter.Filter, out []event.Event) (result []event.Event) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("filter handleOutput panicked", mueslog.F("filter", f.ID()), mueslog.F("recover", r))
			result = nil
		}
	}()
	return f.HandleOutput(out)
}

// sweepFinished removes any filter whose Finished() flag is now set,
// calling Stop on each (§8 Invariant 1).
func (s *Stream) sweepFinished() {
	s.finishedSweepMu.Lock()
	defer s.finishedSweepMu.Unlock()

	s.memMu.Lock()
	var done []filter.Filter
	kept := s.entries[:0:0]
	for _, e := range s.entries {
		if e.f.Finished() {
			done = append(done, e.f)
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	s.memMu.Unlock()

	if len(done) == 0 {
		return
	}
	var produced []event.Event
	for _, f := range done {
		produced = append(produced, f.Stop(s)...)
		if b, ok := f.(interface{ Detach() }); ok {
			b.Detach()
		}
	}
	if len(produced) > 0 {
		in, out := splitByDirection(produced)
		if len(in) > 0 {
			s.queueMu.Lock()
			s.queue = append(s.queue, workItem{dir: event.Input, evs: in})
			s.queueMu.Unlock()
		}
		if len(out) > 0 {
			s.queueMu.Lock()
			s.queue = append(s.queue, workItem{dir: event.Output, evs: out})
			s.queueMu.Unlock()
		}
	}
}

// Active reports whether any non-default filter remains. Callers identify
// their default filters by ID and pass them here so the stream doesn't need
// to know which filters are "default" ones (§4.2 lifecycle: the stream is
// destroyed when the last non-default filter is finished).
func (s *Stream) Active(defaultIDs map[string]bool) bool {
	s.memMu.Lock()
	defer s.memMu.Unlock()
	for _, e := range s.entries {
		if !defaultIDs[e.f.ID()] {
			return true
		}
	}
	return false
}

// Filters returns a snapshot of current membership, ascending by SortPos.
func (s *Stream) Filters() []filter.Filter { return s.ascending() }
