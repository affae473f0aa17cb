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

package shell

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	muesatomic "github.com/nabbar/mues/atomic"
	"github.com/nabbar/mues/command"
	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/filter"
	"github.com/nabbar/mues/muerr"
	"github.com/nabbar/mues/mueslog"
	"github.com/nabbar/mues/registry"
	"github.com/nabbar/mues/user"
)

const defaultPrompt = "> "

// CommandSource builds the command table a Filter dispatches against. The
// registry.Registry satisfies this directly; tests can supply a stub.
type CommandSource interface {
	BuildCommands(account user.AccountType) []command.Command
	Observe(fn func())
}

// Filter is the command-shell filter (C7).
type Filter struct {
	filter.Base

	user    user.User
	account user.AccountType
	source  CommandSource
	linePat *regexp.Regexp

	mu    sync.RWMutex
	table *Table
	vars  map[string]string

	needsReload *muesatomic.Bool
}

// NewFilter constructs a shell filter. prefix is the one-or-more-character
// command marker ('/' by default); u's account type gates which registry
// commands this user's table may contain, and u itself is carried in every
// command's Context.
func NewFilter(pos filter.SortPos, prefix string, u user.User, source CommandSource, log mueslog.Logger) *Filter {
	if prefix == "" {
		prefix = "/"
	}
	f := &Filter{
		Base:        filter.NewBase(pos, log),
		user:        u,
		account:     u.Account,
		source:      source,
		linePat:     regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `(\w+)\b(.*)$`),
		table:       NewTable(),
		vars:        map[string]string{"prompt": defaultPrompt},
		needsReload: muesatomic.NewBool(true),
	}
	f.table.Add("", command.New("set", "view or set a shell variable", f.runSet))
	if source != nil {
		source.Observe(func() { f.needsReload.SetTrue() })
	}
	return f
}

// Var and SetVar implement command.VarTarget, exposing the shell's own
// variable table as the mutable "evaluation target" a command's Context
// carries.
func (f *Filter) Var(name string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.vars[name]
	return v, ok
}

func (f *Filter) SetVar(name, value string) {
	f.mu.Lock()
	f.vars[name] = value
	f.mu.Unlock()
}

func (f *Filter) Start(s filter.StreamHandle) []event.Event {
	f.Attach(s)
	f.reloadTable()
	return []event.Event{event.NewPrompt(f.prompt())}
}

func (f *Filter) Stop(s filter.StreamHandle) []event.Event {
	f.Detach()
	return nil
}

func (f *Filter) prompt() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.vars["prompt"]
}

// reloadTable rebuilds the table from the command source, keeping the prior
// table (and logging) if the rebuild fails.
func (f *Filter) reloadTable() {
	if f.source == nil {
		return
	}
	cmds := f.source.BuildCommands(f.account)

	nt := NewTable()
	nt.Add("", command.New("set", "view or set a shell variable", f.runSet))
	nt.Add("", cmds...)

	f.mu.Lock()
	f.table = nt
	f.mu.Unlock()
	f.needsReload.SetFalse()
}

func (f *Filter) HandleInput(in []event.Event) []event.Event {
	if f.needsReload.Get() {
		f.reloadTable()
	}

	var passthrough []event.Event
	for _, e := range in {
		ie, ok := e.(event.InputEvent)
		if !ok {
			passthrough = append(passthrough, e)
			continue
		}

		m := f.linePat.FindStringSubmatch(ie.Data)
		if m == nil {
			passthrough = append(passthrough, e)
			continue
		}

		f.dispatch(m[1], strings.TrimSpace(m[2]))
		f.QueueOutput(event.NewPrompt(f.prompt()))
	}
	return passthrough
}

func (f *Filter) HandleOutput(out []event.Event) []event.Event { return out }

func (f *Filter) dispatch(name, argString string) {
	f.mu.RLock()
	table := f.table
	f.mu.RUnlock()

	cmd, matches, ok := table.Resolve(name)
	if cmd == nil && len(matches) > 1 {
		f.QueueOutput(event.NewError(muerr.KindShellCommand.String(),
			fmt.Sprintf("Ambiguous command '%s': Matches [%s]\r\n", name, strings.Join(matches, ", "))))
		return
	}
	if cmd == nil {
		f.QueueOutput(event.NewError(muerr.KindShellCommand.String(), fmt.Sprintf("No such command '%s'\r\n", name)))
		return
	}

	f.run(cmd, splitArgs(argString))
}

func splitArgs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

func (f *Filter) run(cmd command.Command, args []string) {
	var out, errw bytes.Buffer
	var produced []event.Event

	ctx := command.Context{Stream: f.Stream(), User: f.user, Vars: f}

	func() {
		defer func() {
			if r := recover(); r != nil {
				f.reportPanic(r)
			}
		}()
		produced = cmd.Run(ctx, &out, &errw, args)
	}()

	if out.Len() > 0 {
		f.QueueOutput(event.OutputEvent{Data: out.String()})
	}
	if errw.Len() > 0 {
		f.QueueOutput(event.NewError(muerr.KindShellCommand.String(), errw.String()))
	}

	f.routeEvents(produced)
}

// routeEvents dispatches the events a command body returned, per the
// shell's dispatch contract: output events queue toward the output side,
// input events are requeued for re-processing, filter objects are inserted
// into the stream via addFilters, and everything else is handed to the
// output side like any other event the shell doesn't itself interpret.
func (f *Filter) routeEvents(evs []event.Event) {
	if len(evs) == 0 {
		return
	}
	s := f.Stream()
	for _, e := range evs {
		switch v := e.(type) {
		case filter.Filter:
			if s != nil {
				s.AddFilters(v)
			}
		case event.InputEvent:
			f.QueueInput(v)
		default:
			f.QueueOutput(v)
		}
	}
}

func (f *Filter) reportPanic(r interface{}) {
	if me, ok := r.(*muerr.MuesError); ok {
		if me.Kind().Visible() {
			f.QueueOutput(event.NewError(me.Kind().String(), me.Error()+"\r\n"))
		} else {
			f.logInternal(me.Error())
		}
		return
	}
	f.logInternal(fmt.Sprint(r))
}

// logInternal logs an unclassified command failure and, per the restriction
// in §7, additionally surfaces it to implementor-or-higher accounts.
func (f *Filter) logInternal(msg string) {
	f.Logger().Error("shell command panicked", mueslog.F("error", msg))
	if f.account.Allows(user.Implementor) {
		f.QueueOutput(event.NewError(muerr.KindInternal.String(), "internal error: "+msg+"\r\n"))
	}
}

// runSet implements the built-in "set" command: with no arguments it lists
// every shell variable; with one argument it prints that variable's value;
// with two it assigns.
func (f *Filter) runSet(ctx command.Context, out, errw io.Writer, args []string) []event.Event {
	switch len(args) {
	case 0:
		f.mu.RLock()
		defer f.mu.RUnlock()
		for k, v := range f.vars {
			fmt.Fprintf(out, "%s=%s\r\n", k, v)
		}
	case 1:
		f.mu.RLock()
		v, ok := f.vars[args[0]]
		f.mu.RUnlock()
		if !ok {
			fmt.Fprintf(errw, "no such variable %q", args[0])
			return nil
		}
		fmt.Fprintf(out, "%s=%s\r\n", args[0], v)
	default:
		f.mu.Lock()
		f.vars[args[0]] = strings.Join(args[1:], " ")
		f.mu.Unlock()
		fmt.Fprintf(out, "%s=%s\r\n", args[0], strings.Join(args[1:], " "))
	}
	return nil
}
