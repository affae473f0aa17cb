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
	"strings"

	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/filter"
	"github.com/nabbar/mues/mueslog"
)

const closedNotice = "Snoop connection closed.\r\n"

// Snoop attaches a watching user's stream to a target user's stream
// (§4.9): the target's input/output is mirrored into the watcher's output,
// each line prefixed with a sigil-plus-target-username key, and lines the
// watcher sends back prefixed with that same key are rerouted into the
// target's input.
type Snoop struct {
	filter.Base

	prefix    string // sigil+targetName, used for the reroute trigger and mirror tag
	target    filter.StreamHandle
	silent    bool
	delegator *Delegator
}

// NewSnoop constructs a snoop filter meant to be added to the watcher's
// stream. sigil is the marker character (conventionally "%"), targetName
// identifies the snooped-on user in the mirrored transcript.
func NewSnoop(pos filter.SortPos, sigil, targetName string, target filter.StreamHandle, silent bool, log mueslog.Logger) *Snoop {
	return &Snoop{
		Base:   filter.NewBase(pos, log),
		prefix: sigil + targetName,
		target: target,
		silent: silent,
	}
}

func (f *Snoop) Start(watcher filter.StreamHandle) []event.Event {
	f.Attach(watcher)

	f.delegator = NewDelegator(filter.MaxSortPos-1,
		func(d *Delegator, evs []event.Event) []event.Event {
			for _, e := range evs {
				if ie, ok := e.(event.InputEvent); ok {
					watcher.QueueOutput(event.OutputEvent{Data: f.prefix + " [Input]: " + ie.Data + "\r\n"})
				}
			}
			return evs
		},
		func(d *Delegator, evs []event.Event) []event.Event {
			for _, e := range evs {
				if oe, ok := e.(event.OutputEvent); ok {
					watcher.QueueOutput(event.OutputEvent{Data: f.prefix + " [Output]: " + oe.Data})
				}
			}
			return evs
		},
		f.Logger(),
	)
	f.target.AddFilters(f.delegator)
	return nil
}

func (f *Snoop) Stop(watcher filter.StreamHandle) []event.Event {
	if f.delegator != nil {
		f.delegator.Disconnect()
		f.target.RemoveFilters(f.delegator)
	}
	if !f.silent {
		watcher.QueueOutput(event.OutputEvent{Data: closedNotice})
		f.target.QueueOutput(event.OutputEvent{Data: closedNotice})
	}
	f.Detach()
	return nil
}

// HandleInput reroutes any watcher input addressed to the snooped target
// (a line starting with "sigil+targetName ") into the target's input
// stream, stripped of that trigger prefix; everything else passes through
// unchanged.
func (f *Snoop) HandleInput(in []event.Event) []event.Event {
	trigger := f.prefix + " "
	out := make([]event.Event, 0, len(in))
	for _, e := range in {
		ie, ok := e.(event.InputEvent)
		if !ok {
			out = append(out, e)
			continue
		}
		if strings.HasPrefix(ie.Data, trigger) {
			f.target.QueueInput(event.InputEvent{Data: strings.TrimPrefix(ie.Data, trigger)})
			continue
		}
		out = append(out, e)
	}
	return out
}

func (f *Snoop) HandleOutput(out []event.Event) []event.Event { return out }
