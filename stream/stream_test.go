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

package stream_test

import (
	"sync"
	"testing"
	"time"

	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/filter"
	"github.com/nabbar/mues/stream"
)

// recFilter is a test double recording the order in which it was visited
// and optionally transforming/consuming events.
type recFilter struct {
	filter.Base
	name    string
	visited *[]string
	mu      sync.Mutex
	onInput func(in []event.Event) []event.Event
}

func newRecFilter(name string, pos filter.SortPos, visited *[]string) *recFilter {
	return &recFilter{Base: filter.NewBase(pos, nil), name: name, visited: visited}
}

func (r *recFilter) Start(s filter.StreamHandle) []event.Event { r.Attach(s); return nil }
func (r *recFilter) Stop(s filter.StreamHandle) []event.Event  { r.Detach(); return nil }

func (r *recFilter) HandleInput(in []event.Event) []event.Event {
	r.mu.Lock()
	*r.visited = append(*r.visited, r.name)
	r.mu.Unlock()
	if r.onInput != nil {
		return r.onInput(in)
	}
	return in
}

func (r *recFilter) HandleOutput(out []event.Event) []event.Event { return out }

func TestInputPassOrderDescendingBySortPos(t *testing.T) {
	var order []string
	s := stream.New("conn-1", nil)

	low := newRecFilter("low", 10, &order)
	mid := newRecFilter("mid", 500, &order)
	high := newRecFilter("high", 900, &order)

	s.AddFilters(low, mid, high)
	s.QueueInput(event.InputEvent{Data: "hello"})

	// drain is synchronous under QueueInput's internal lock, but give any
	// incidental goroutine scheduling a beat for determinism in CI.
	deadline := time.Now().Add(time.Second)
	for len(order) < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	want := []string{"high", "mid", "low"}
	if len(order) != len(want) {
		t.Fatalf("visited %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("visited %v, want %v", order, want)
		}
	}
}

func TestDefaultInputFilterIsTerminalCatchAll(t *testing.T) {
	var order []string
	s := stream.New("conn-2", nil)

	caught := make(chan event.Event, 4)
	defaultIn := newRecFilter("default-input", filter.MinSortPos, &order)
	defaultIn.onInput = func(in []event.Event) []event.Event {
		for _, e := range in {
			caught <- e
		}
		return nil
	}
	shell := newRecFilter("shell", 500, &order)
	shell.onInput = func(in []event.Event) []event.Event { return in } // declines everything

	s.AddFilters(defaultIn, shell)
	s.QueueInput(event.InputEvent{Data: "unrecognized"})

	select {
	case e := <-caught:
		ie, ok := e.(event.InputEvent)
		if !ok || ie.Data != "unrecognized" {
			t.Fatalf("default input filter got %#v, want InputEvent{unrecognized}", e)
		}
	case <-time.After(time.Second):
		t.Fatal("default input filter never received the unconsumed event")
	}
}

func TestPauseBuffersInputUntilUnpause(t *testing.T) {
	var order []string
	s := stream.New("conn-3", nil)

	caught := make(chan event.Event, 4)
	sink := newRecFilter("sink", 0, &order)
	sink.onInput = func(in []event.Event) []event.Event {
		for _, e := range in {
			caught <- e
		}
		return nil
	}
	s.AddFilters(sink)

	s.Pause()
	s.QueueInput(event.InputEvent{Data: "while-paused"})

	select {
	case <-caught:
		t.Fatal("input must not be processed while paused")
	case <-time.After(100 * time.Millisecond):
		// expected: nothing delivered yet
	}

	s.Unpause()

	select {
	case e := <-caught:
		ie, _ := e.(event.InputEvent)
		if ie.Data != "while-paused" {
			t.Fatalf("got %#v, want the buffered event", e)
		}
	case <-time.After(time.Second):
		t.Fatal("buffered input was never delivered after Unpause")
	}
}

func TestRemoveFiltersCallsStop(t *testing.T) {
	var order []string
	s := stream.New("conn-4", nil)
	f := newRecFilter("transient", 100, &order)

	s.AddFilters(f)
	if len(s.Filters()) != 1 {
		t.Fatalf("expected 1 filter after AddFilters, got %d", len(s.Filters()))
	}

	s.RemoveFilters(f)
	if len(s.Filters()) != 0 {
		t.Fatalf("expected 0 filters after RemoveFilters, got %d", len(s.Filters()))
	}
}

func TestFinishedFilterSweptAtCycleEnd(t *testing.T) {
	var order []string
	s := stream.New("conn-5", nil)
	f := newRecFilter("one-shot", 100, &order)
	f.onInput = func(in []event.Event) []event.Event {
		f.MarkFinished()
		return nil
	}
	s.AddFilters(f)
	s.QueueInput(event.InputEvent{Data: "x"})

	deadline := time.Now().Add(time.Second)
	for len(s.Filters()) != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if len(s.Filters()) != 0 {
		t.Fatal("finished filter was not swept from the stream")
	}
}

func TestActiveIgnoresDefaultFilters(t *testing.T) {
	var order []string
	s := stream.New("conn-6", nil)
	def := newRecFilter("default-input", filter.MinSortPos, &order)
	s.AddFilters(def)

	defaults := map[string]bool{def.ID(): true}
	if s.Active(defaults) {
		t.Fatal("stream with only default filters must not be Active")
	}

	shell := newRecFilter("shell", 500, &order)
	s.AddFilters(shell)
	if !s.Active(defaults) {
		t.Fatal("stream with a non-default filter must be Active")
	}
}
