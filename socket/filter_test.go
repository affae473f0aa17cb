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

package socket_test

import (
	"net"
	"testing"
	"time"

	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/filter"
	"github.com/nabbar/mues/socket"
)

type fakeStream struct {
	in chan event.Event
}

func newFakeStream() *fakeStream { return &fakeStream{in: make(chan event.Event, 16)} }

func (f *fakeStream) StreamID() string              { return "fake" }
func (f *fakeStream) QueueInput(evs ...event.Event)  { for _, e := range evs { f.in <- e } }
func (f *fakeStream) QueueOutput(evs ...event.Event) {}
func (f *fakeStream) AddFilters(fs ...filter.Filter)    {}
func (f *fakeStream) RemoveFilters(fs ...filter.Filter) {}
func (f *fakeStream) Pause()                          {}
func (f *fakeStream) Unpause()                        {}

func TestSocketFilterParsesLinesFromReads(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	sock := socket.New(10, server, nil, nil)
	fs := newFakeStream()
	sock.Start(fs)

	go func() {
		_, _ = client.Write([]byte("hello\r\n"))
	}()

	select {
	case e := <-fs.in:
		ie, ok := e.(event.InputEvent)
		if !ok || ie.Data != "hello" {
			t.Fatalf("got %#v, want InputEvent{hello}", e)
		}
	case <-time.After(time.Second):
		t.Fatal("never received the parsed line")
	}
}

func TestSocketFilterWritesOutputEventWithCRLF(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()

	sock := socket.New(10, server, nil, nil)
	fs := newFakeStream()
	sock.Start(fs)

	readDone := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 64)
		n, _ := client.Read(buf)
		readDone <- buf[:n]
	}()

	sock.HandleOutput([]event.Event{event.OutputEvent{Data: "hi"}})

	select {
	case got := <-readDone:
		if string(got) != "hi\r\n" {
			t.Fatalf("wrote %q, want %q", got, "hi\r\n")
		}
	case <-time.After(time.Second):
		t.Fatal("never observed the write")
	}
}

func TestSocketFilterPromptHasNoForcedNewline(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()

	sock := socket.New(10, server, nil, nil)
	fs := newFakeStream()
	sock.Start(fs)

	readDone := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 64)
		n, _ := client.Read(buf)
		readDone <- buf[:n]
	}()

	sock.HandleOutput([]event.Event{event.NewPrompt("> ")})

	select {
	case got := <-readDone:
		if string(got) != "> " {
			t.Fatalf("wrote %q, want %q", got, "> ")
		}
	case <-time.After(time.Second):
		t.Fatal("never observed the write")
	}
}

func TestSocketFilterShutsDownOnConnClose(t *testing.T) {
	server, client := net.Pipe()

	sock := socket.New(10, server, nil, nil)
	fs := newFakeStream()
	sock.Start(fs)

	_ = client.Close()

	deadline := time.Now().Add(time.Second)
	for !sock.Finished() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !sock.Finished() {
		t.Fatal("socket filter did not mark itself finished after the peer closed")
	}
}
