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

package filters_test

import (
	"fmt"
	"testing"

	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/filter"
	"github.com/nabbar/mues/filters"
)

func TestDefaultInputRotatesMessages(t *testing.T) {
	msgs := []string{"A: %s", "B: %s"}
	f := filters.NewDefaultInput(msgs, nil)

	out1 := f.HandleInput([]event.Event{event.InputEvent{Data: "x"}})
	out2 := f.HandleInput([]event.Event{event.InputEvent{Data: "y"}})
	out3 := f.HandleInput([]event.Event{event.InputEvent{Data: "z"}})

	want1 := fmt.Sprintf(msgs[0], "x")
	want2 := fmt.Sprintf(msgs[1], "y")
	want3 := fmt.Sprintf(msgs[0], "z")

	if out1[0].(event.OutputEvent).Data != want1 {
		t.Fatalf("first message = %q, want %q", out1[0].(event.OutputEvent).Data, want1)
	}
	if out2[0].(event.OutputEvent).Data != want2 {
		t.Fatalf("second message = %q, want %q", out2[0].(event.OutputEvent).Data, want2)
	}
	if out3[0].(event.OutputEvent).Data != want3 {
		t.Fatalf("third message = %q, want %q (rotation should wrap)", out3[0].(event.OutputEvent).Data, want3)
	}
}

func TestDefaultInputSitsAtMinSortPos(t *testing.T) {
	f := filters.NewDefaultInput(nil, nil)
	if f.SortPos() != filter.MinSortPos {
		t.Fatalf("SortPos() = %v, want MinSortPos", f.SortPos())
	}
}

func TestDefaultOutputBuffersRingAndConsumes(t *testing.T) {
	f := filters.NewDefaultOutput(2, nil)

	remaining := f.HandleOutput([]event.Event{
		event.OutputEvent{Data: "one"},
		event.OutputEvent{Data: "two"},
		event.OutputEvent{Data: "three"},
	})

	if remaining != nil {
		t.Fatalf("HandleOutput should consume everything, got %v", remaining)
	}

	replay := f.Replay()
	if len(replay) != 2 || replay[0] != "two" || replay[1] != "three" {
		t.Fatalf("Replay() = %v, want [two three]", replay)
	}
}

func TestDefaultOutputSitsAtMaxSortPos(t *testing.T) {
	f := filters.NewDefaultOutput(10, nil)
	if f.SortPos() != filter.MaxSortPos {
		t.Fatalf("SortPos() = %v, want MaxSortPos", f.SortPos())
	}
}
