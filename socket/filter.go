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

// Package socket implements the non-TELNET socket filter (C4): it owns one
// connected stream, reads up to MTU bytes at a time, splits the read buffer
// into lines, and queues each as an InputEvent. Output events are written
// back to the connection as they arrive.
//
// The base reference design subscribes read/write/error readiness to a
// reactor; this port instead runs one blocking-read goroutine per
// connection (SPEC_FULL §5.1's documented idiom swap) and writes
// synchronously under a mutex, which discharges the same obligations
// (buffer→line parsing on read, flush-on-write, shutdown on error) without
// needing a registered-callback reactor object.
package socket

import (
	"errors"
	"io"
	"sync"

	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/filter"
	"github.com/nabbar/mues/mueslog"
)

// MTU bounds a single read per the base specification.
const MTU = 4096

// Conn is the narrow connection surface the filter needs; net.Conn and
// net.UnixConn both satisfy it, as does any io.ReadWriteCloser.
type Conn interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error
}

// Decoder pre-processes freshly read bytes before line splitting. The
// plain socket filter uses PassthroughDecoder; telnet.Filter supplies one
// that strips IAC sequences, answers option negotiation, and performs local
// echo, via the write callback.
type Decoder interface {
	Decode(raw []byte, write func([]byte)) []byte
}

// PassthroughDecoder hands read bytes straight to the line parser.
type PassthroughDecoder struct{}

func (PassthroughDecoder) Decode(raw []byte, _ func([]byte)) []byte { return raw }

// Filter is the non-TELNET socket filter.
type Filter struct {
	filter.Base

	conn    Conn
	decoder Decoder

	readBuf []byte

	writeMu sync.Mutex
	closed  bool
}

// New constructs a socket filter bound to conn. A nil decoder defaults to
// PassthroughDecoder.
func New(pos filter.SortPos, conn Conn, decoder Decoder, log mueslog.Logger) *Filter {
	if decoder == nil {
		decoder = PassthroughDecoder{}
	}
	return &Filter{
		Base:    filter.NewBase(pos, log),
		conn:    conn,
		decoder: decoder,
	}
}

func (f *Filter) Start(s filter.StreamHandle) []event.Event {
	f.Attach(s)
	go f.readLoop()
	return nil
}

func (f *Filter) Stop(s filter.StreamHandle) []event.Event {
	f.shutdown("stop")
	f.Detach()
	return nil
}

func (f *Filter) HandleInput(in []event.Event) []event.Event { return in }

// HandleOutput writes OutputEvent/PromptEvent/HiddenInputPromptEvent
// payloads to the connection. Plain OutputEvents get a trailing CRLF;
// prompt variants are written verbatim (no forced newline) so the client's
// cursor stays on the prompt line.
func (f *Filter) HandleOutput(out []event.Event) []event.Event {
	for _, e := range out {
		switch v := e.(type) {
		case event.HiddenInputPromptEvent:
			f.write([]byte(v.Data))
		case event.PromptEvent:
			f.write([]byte(v.Data))
		case event.OutputEvent:
			f.write([]byte(v.Data + "\r\n"))
		}
	}
	return out
}

// WriteRaw writes bytes directly to the connection under the same mutex
// HandleOutput uses, for callers (e.g. telnet.Filter's initial option
// negotiation) that need to send bytes not modeled as an OutputEvent.
func (f *Filter) WriteRaw(b []byte) { f.write(b) }

func (f *Filter) write(b []byte) {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	if f.closed {
		return
	}
	if _, err := f.conn.Write(b); err != nil {
		f.Logger().Warn("socket write failed", mueslog.F("filter", f.ID()), mueslog.F("err", err.Error()))
	}
}

func (f *Filter) readLoop() {
	buf := make([]byte, MTU)
	for {
		n, err := f.conn.Read(buf)
		if n > 0 {
			f.ingest(buf[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				f.Logger().Info("socket read ended", mueslog.F("filter", f.ID()), mueslog.F("err", err.Error()))
			}
			f.shutdown("read-error")
			return
		}
	}
}

func (f *Filter) ingest(raw []byte) {
	payload := f.decoder.Decode(raw, f.write)
	f.readBuf = append(f.readBuf, payload...)

	lines, rest := SplitLines(f.readBuf)
	f.readBuf = rest
	for _, line := range lines {
		f.QueueInput(event.InputEvent{Data: line})
	}
}

// shutdown flushes nothing further (writes are synchronous already),
// closes the connection, and marks the filter finished exactly once.
func (f *Filter) shutdown(reason string) {
	f.writeMu.Lock()
	alreadyClosed := f.closed
	f.closed = true
	f.writeMu.Unlock()
	if alreadyClosed {
		return
	}

	_ = f.conn.Close()
	f.MarkFinished()

	if s := f.Stream(); s != nil {
		f.QueueInput(event.ListenerCleanupEvent{Stream: streamRefOf(s), Reason: reason})
	}
}

// streamRef adapts a filter.StreamHandle to event.StreamRef (both are
// narrow single-method interfaces over StreamID, so any StreamHandle
// already satisfies StreamRef structurally; this helper exists purely for
// readability at the call site).
func streamRefOf(s filter.StreamHandle) event.StreamRef { return s }
