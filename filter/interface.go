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

// Package filter defines the Filter contract (C2 of the design): every
// processor participating in an event stream, from the socket bridge to the
// command shell, implements this interface. Base provides the common
// bookkeeping (identity, sort position, pending queues, finished flag) so
// concrete filters only implement the handler methods that give them their
// behavior.
package filter

import "github.com/nabbar/mues/event"

// SortPos is a filter's position in the stream's ordering, in [0, 1000].
// Higher values sit closer to the input end; lower values sit closer to the
// output (wire) end.
type SortPos int

const (
	MinSortPos SortPos = 0
	MaxSortPos SortPos = 1000
)

func (s SortPos) Clamp() SortPos {
	if s < MinSortPos {
		return MinSortPos
	}
	if s > MaxSortPos {
		return MaxSortPos
	}
	return s
}

// StreamHandle is the narrow view of an event.Stream a filter needs: enough
// to inject events and add/remove sibling filters, without the filter
// package importing the stream package (which imports filter for Filter
// itself — this interface breaks that cycle the same way event.StreamRef
// does for control events).
type StreamHandle interface {
	StreamID() string
	QueueInput(evs ...event.Event)
	QueueOutput(evs ...event.Event)
	AddFilters(f ...Filter)
	RemoveFilters(f ...Filter)
	Pause()
	Unpause()
}

// Filter is the per-connection pipeline processor contract (§4.1).
type Filter interface {
	// ID is a stable opaque identity for the filter's lifetime.
	ID() string

	// SortPos is this filter's fixed position in [0,1000]. Immutable while
	// the filter is a stream member.
	SortPos() SortPos

	// Start is called exactly once when the filter is inserted into a
	// stream. Events it returns are injected by the stream.
	Start(s StreamHandle) []event.Event

	// Stop is called exactly once when the filter is removed or the stream
	// finalizes. Events it returns are injected by the stream.
	Stop(s StreamHandle) []event.Event

	// HandleInput consumes some/all of in and returns what it declines to
	// consume (plus anything it injects) for the next filter down the chain.
	HandleInput(in []event.Event) []event.Event

	// HandleOutput is the output-pass symmetric counterpart.
	HandleOutput(out []event.Event) []event.Event

	// QueueInput/QueueOutput inject events out-of-cycle; implementations
	// must notify their owning stream so a new I/O cycle is scheduled.
	QueueInput(evs ...event.Event)
	QueueOutput(evs ...event.Event)

	// Finished reports whether the stream should remove this filter at the
	// end of the current cycle.
	Finished() bool
}
