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

// Package console implements the console filter (C5): a singleton variant
// of the socket filter (C4) bound to the host process's standard
// input/output instead of a network connection. Output is colorized via
// github.com/fatih/color, following the same BuffPrintf-style
// color-or-plain fallback the retrieval pack's own console package uses,
// and is flushed by a dedicated writer goroutine synchronized with a
// condition variable rather than the socket filter's synchronous
// mutex-guarded write, since handleOutput here must not block the caller
// on a potentially slow terminal.
package console

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/filter"
	"github.com/nabbar/mues/mueslog"
	"github.com/nabbar/mues/socket"
)

// ColorType names one of the two styles the console filter writes with,
// mirroring the retrieval pack's own ColorPrint/ColorPrompt split.
type ColorType uint8

const (
	ColorOutput ColorType = iota
	ColorPrompt
)

// Filter is the console filter (C5).
type Filter struct {
	filter.Base

	r io.Reader
	w io.Writer

	colMu  sync.Mutex
	colors map[ColorType]*color.Color

	readBuf []byte

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []string
	closing bool
	done    chan struct{}
}

// New constructs a console filter bound to an arbitrary reader/writer pair,
// chiefly so tests can substitute pipes for a real terminal.
func New(pos filter.SortPos, r io.Reader, w io.Writer, log mueslog.Logger) *Filter {
	f := &Filter{
		Base:   filter.NewBase(pos, log),
		r:      r,
		w:      w,
		colors: make(map[ColorType]*color.Color),
		done:   make(chan struct{}),
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// NewStdio constructs the console filter bound to the host process's
// standard input and output.
func NewStdio(pos filter.SortPos, log mueslog.Logger) *Filter {
	return New(pos, os.Stdin, os.Stdout, log)
}

// SetColor configures the color attributes used when rendering text tagged
// with ct. A nil color falls back to plain, uncolored output.
func (f *Filter) SetColor(ct ColorType, c *color.Color) {
	f.colMu.Lock()
	f.colors[ct] = c
	f.colMu.Unlock()
}

func (f *Filter) Start(s filter.StreamHandle) []event.Event {
	f.Attach(s)
	go f.writerLoop()
	go f.readLoop()
	return nil
}

// Stop signals the writer task, joins it briefly, and marks the filter
// finished. The read goroutine is left to exit on its own EOF/error, since
// the standard streams it blocks on cannot generally be interrupted.
func (f *Filter) Stop(s filter.StreamHandle) []event.Event {
	f.mu.Lock()
	f.closing = true
	f.cond.Signal()
	f.mu.Unlock()

	<-f.done

	f.MarkFinished()
	f.Detach()
	return nil
}

func (f *Filter) HandleInput(in []event.Event) []event.Event { return in }

// HandleOutput renders OutputEvent/PromptEvent/HiddenInputPromptEvent
// payloads and hands them to the writer task. Plain output gets a trailing
// CRLF; prompt variants are written verbatim so the cursor stays on the
// prompt line, matching the socket filter's (C4) framing.
func (f *Filter) HandleOutput(out []event.Event) []event.Event {
	for _, e := range out {
		switch v := e.(type) {
		case event.HiddenInputPromptEvent:
			f.enqueue(ColorPrompt, v.Data)
		case event.PromptEvent:
			f.enqueue(ColorPrompt, v.Data)
		case event.OutputEvent:
			f.enqueue(ColorOutput, v.Data+"\r\n")
		}
	}
	return out
}

func (f *Filter) enqueue(ct ColorType, text string) {
	rendered := f.render(ct, text)

	f.mu.Lock()
	f.queue = append(f.queue, rendered)
	f.cond.Signal()
	f.mu.Unlock()
}

func (f *Filter) render(ct ColorType, text string) string {
	f.colMu.Lock()
	c := f.colors[ct]
	f.colMu.Unlock()

	if c != nil {
		return c.Sprint(text)
	}
	return text
}

// writerLoop is the dedicated writer task (§4.4): it blocks on the
// condition variable until HandleOutput queues new text or Stop signals
// shutdown, flushing whatever has accumulated each time it wakes.
func (f *Filter) writerLoop() {
	defer close(f.done)
	for {
		f.mu.Lock()
		for len(f.queue) == 0 && !f.closing {
			f.cond.Wait()
		}
		pending := f.queue
		f.queue = nil
		closing := f.closing
		f.mu.Unlock()

		for _, chunk := range pending {
			if _, err := io.WriteString(f.w, chunk); err != nil {
				f.Logger().Warn("console write failed", mueslog.F("filter", f.ID()), mueslog.F("err", err.Error()))
			}
		}

		if closing {
			return
		}
	}
}

func (f *Filter) readLoop() {
	buf := make([]byte, socket.MTU)
	for {
		n, err := f.r.Read(buf)
		if n > 0 {
			f.ingest(buf[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				f.Logger().Info("console read ended", mueslog.F("filter", f.ID()), mueslog.F("err", err.Error()))
			}
			if s := f.Stream(); s != nil {
				f.QueueInput(event.ListenerCleanupEvent{Stream: s, Reason: "read-error"})
			}
			return
		}
	}
}

func (f *Filter) ingest(raw []byte) {
	f.readBuf = append(f.readBuf, raw...)

	lines, rest := socket.SplitLines(f.readBuf)
	f.readBuf = rest
	for _, line := range lines {
		f.QueueInput(event.InputEvent{Data: line})
	}
}
