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

package shell_test

import (
	"io"

	"github.com/nabbar/mues/command"
	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/filter"
	"github.com/nabbar/mues/shell"
	"github.com/nabbar/mues/user"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeStream struct {
	out []event.Event
}

func (f *fakeStream) StreamID() string                  { return "fake" }
func (f *fakeStream) QueueInput(evs ...event.Event)      {}
func (f *fakeStream) QueueOutput(evs ...event.Event)     { f.out = append(f.out, evs...) }
func (f *fakeStream) AddFilters(fs ...filter.Filter)     {}
func (f *fakeStream) RemoveFilters(fs ...filter.Filter)  {}
func (f *fakeStream) Pause()                             {}
func (f *fakeStream) Unpause()                           {}

type fakeSource struct {
	cmds []command.Command
}

func (s *fakeSource) BuildCommands(account user.AccountType) []command.Command { return s.cmds }
func (s *fakeSource) Observe(fn func())                                        {}

func outputText(evs []event.Event) string {
	var s string
	for _, e := range evs {
		if oe, ok := e.(event.OutputEvent); ok {
			s += oe.Data
		}
	}
	return s
}

var _ = Describe("Filter", func() {
	var (
		fs     *fakeStream
		src    *fakeSource
		f      *shell.Filter
	)

	BeforeEach(func() {
		fs = &fakeStream{}
		src = &fakeSource{cmds: []command.Command{
			command.New("hello", "say hello", func(ctx command.Context, out, err io.Writer, args []string) []event.Event {
				io.WriteString(out, "hello there")
				return nil
			}),
		}}
		f = shell.NewFilter(1, "/", user.New("tester", user.Player), src, nil)
		f.Start(fs)
		fs.out = nil
	})

	It("passes through a line without the command prefix", func() {
		remaining := f.HandleInput([]event.Event{event.InputEvent{Data: "just chatting"}})
		Expect(remaining).To(HaveLen(1))
	})

	It("dispatches a recognized command and emits its output", func() {
		f.HandleInput([]event.Event{event.InputEvent{Data: "/hello"}})
		Expect(outputText(fs.out)).To(ContainSubstring("hello there"))
	})

	It("reports no match for an unknown command", func() {
		f.HandleInput([]event.Event{event.InputEvent{Data: "/bogus"}})

		found := false
		for _, e := range fs.out {
			if ee, ok := e.(event.ErrorOutputEvent); ok && ee.Kind == "ShellCommandError" {
				found = true
			}
		}
		Expect(found).To(BeTrue())
	})

	It("queues a prompt after every handled input line", func() {
		f.HandleInput([]event.Event{event.InputEvent{Data: "/hello"}})

		sawPrompt := false
		for _, e := range fs.out {
			if _, ok := e.(event.PromptEvent); ok {
				sawPrompt = true
			}
		}
		Expect(sawPrompt).To(BeTrue())
	})

	It("supports the built-in set command for shell variables", func() {
		f.HandleInput([]event.Event{event.InputEvent{Data: "/set prompt $"}})
		fs.out = nil

		f.HandleInput([]event.Event{event.InputEvent{Data: "/hello"}})

		sawCustomPrompt := false
		for _, e := range fs.out {
			if pe, ok := e.(event.PromptEvent); ok && pe.Data == "$" {
				sawCustomPrompt = true
			}
		}
		Expect(sawCustomPrompt).To(BeTrue())
	})
})
