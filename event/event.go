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

// Package event defines the value objects carried on an event stream: the
// text-bearing InputEvent/OutputEvent family and the out-of-band control
// events (login, logout, listener cleanup, callbacks). Events are value
// types, freely copyable, and intentionally untyped at the collection level
// (Event is an alias for any) so that a filter's handler can return a mix of
// events and, per §4.2, bare filters to be inserted into the stream — the
// stream package is the only place that type-switches the union back apart.
package event

// Direction tags which side of the pipeline an event belongs to.
type Direction uint8

const (
	Input Direction = iota
	Output
	Control
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return "control"
	}
}

// Event is the wire type carried on a stream. It is intentionally `any`:
// the stream dispatches on concrete type (InputEvent, OutputEvent, a
// filter.Filter, ...), not on a shared method set, mirroring the reference
// codebase's use of a lightweight tagged union rather than a deep interface
// hierarchy for its wire-level event objects.
type Event = any

// Directioned is implemented by every concrete event type below so that
// generic stream bookkeeping (logging, counters) can ask an event what side
// of the pipeline it belongs to without a type switch.
type Directioned interface {
	Direction() Direction
}

// InputEvent carries one line of text that entered the pipeline from a
// socket, the console, or a filter re-queuing data for downstream
// re-processing.
type InputEvent struct {
	Data string
}

func (InputEvent) Direction() Direction { return Input }

// OutputEvent carries text flowing toward the wire.
type OutputEvent struct {
	Data string
}

func (OutputEvent) Direction() Direction { return Output }

// IOControlOutputEvent is implemented by OutputEvent subtypes that carry
// terminal-control instructions in addition to text (§6: "must not be copied
// into the snoop mirror").
type IOControlOutputEvent interface {
	Directioned
	ioControl()
}

// PromptEvent instructs the socket/console filter to suppress line-buffering
// conventions (no forced newline) when writing Data.
type PromptEvent struct {
	OutputEvent
}

func NewPrompt(data string) PromptEvent { return PromptEvent{OutputEvent{Data: data}} }
func (PromptEvent) ioControl()          {}

// HiddenInputPromptEvent additionally instructs the socket filter to mask
// local echo until the next InputEvent is queued.
type HiddenInputPromptEvent struct {
	OutputEvent
}

func NewHiddenPrompt(data string) HiddenInputPromptEvent {
	return HiddenInputPromptEvent{OutputEvent{Data: data}}
}
func (HiddenInputPromptEvent) ioControl() {}

// ErrorOutputEvent carries a user-visible error message, classified by kind
// so the shell can decide who gets to see it (§4.6, §7).
type ErrorOutputEvent struct {
	OutputEvent
	Kind string // mirrors muerr.Kind.String(); kept as string to avoid a
	// dependency edge from event (a leaf package) onto muerr for a single field.
}

func NewError(kind, data string) ErrorOutputEvent {
	return ErrorOutputEvent{OutputEvent: OutputEvent{Data: data}, Kind: kind}
}
