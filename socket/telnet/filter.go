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

package telnet

import (
	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/filter"
	"github.com/nabbar/mues/mueslog"
	"github.com/nabbar/mues/socket"
)

// Filter is the TELNET-aware socket filter (§4.3): a socket.Filter whose
// Decoder drives RFC 1143 option negotiation and local echo.
type Filter struct {
	*socket.Filter
	dec *Decoder
}

// NewFilter constructs a TELNET filter bound to conn.
func NewFilter(pos filter.SortPos, conn socket.Conn, log mueslog.Logger) *Filter {
	dec := NewDecoder(log)
	return &Filter{
		Filter: socket.New(pos, conn, dec, log),
		dec:    dec,
	}
}

func (f *Filter) Start(s filter.StreamHandle) []event.Event {
	evs := f.Filter.Start(s)
	if neg := f.dec.InitialNegotiation(); len(neg) > 0 {
		f.Filter.WriteRaw(neg)
	}
	return evs
}

// NAWS exposes the peer's negotiated terminal dimensions.
func (f *Filter) NAWS() (width, height int) { return f.dec.NAWS() }

// TermType exposes the peer's negotiated terminal type, if any.
func (f *Filter) TermType() string { return f.dec.TermType() }

// HandleOutput intercepts HiddenInputPromptEvent to raise the echo mask
// before delegating to the embedded socket filter for the actual write.
func (f *Filter) HandleOutput(out []event.Event) []event.Event {
	for _, e := range out {
		if _, ok := e.(event.HiddenInputPromptEvent); ok {
			f.dec.SetEchoMask(true)
		}
	}
	return f.Filter.HandleOutput(out)
}
