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

// Package scheduler provides the two timer primitives the login filter
// (timeout) and the command registry (reload polling) need: a one-shot
// After and a repeating Every, both wrapping time.Timer/time.Ticker behind
// an idempotent Cancel. No third-party scheduling library appears anywhere
// in the retrieved example pack, so this stays on the standard library
// (documented in DESIGN.md).
package scheduler

import (
	"sync"
	"time"

	"github.com/nabbar/mues/duration"
)

// Task is a handle to a scheduled operation; Cancel is safe to call more
// than once and safe to call after the task has already fired.
type Task interface {
	Cancel()
}

type task struct {
	mu       sync.Mutex
	stop     chan struct{}
	canceled bool
}

func (t *task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.canceled {
		return
	}
	t.canceled = true
	close(t.stop)
}

// After runs fn once after d elapses, unless canceled first.
func After(d duration.Duration, fn func()) Task {
	t := &task{stop: make(chan struct{})}
	timer := time.NewTimer(d.Duration())
	go func() {
		select {
		case <-timer.C:
			fn()
		case <-t.stop:
			timer.Stop()
		}
	}()
	return t
}

// Every runs fn repeatedly every d until canceled. The first run happens
// after the first interval elapses, not immediately.
func Every(d duration.Duration, fn func()) Task {
	t := &task{stop: make(chan struct{})}
	ticker := time.NewTicker(d.Duration())
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-t.stop:
				return
			}
		}
	}()
	return t
}
