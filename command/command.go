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

// Package command defines the unit the shell dispatches to: a named,
// describable, access-gated body parsed from a command-definition file or
// registered directly by the host process.
package command

import (
	"io"

	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/filter"
	"github.com/nabbar/mues/user"
)

// VarTarget is the mutable "evaluation target" a command body may read or
// write — the shell's own variable table, reached through Context rather
// than an import of the shell package (which already imports command).
type VarTarget interface {
	Var(name string) (string, bool)
	SetVar(name, value string)
}

// Context is the shell context a body runs in: a back-reference to the
// stream the invoking shell is attached to, the invoking user, and the
// mutable evaluation target. Created when the shell starts on a stream and
// passed to every dispatched command for that shell's lifetime.
type Context struct {
	Stream filter.StreamHandle
	User   user.User
	Vars   VarTarget
}

// Fn is a command body. It writes its result to out, any user-visible
// failure to err, receives the whitespace-split argument list, and returns
// zero or more events for the shell to route: output events queue toward
// the wire, input events are requeued for re-processing, filter objects are
// inserted into the stream, and anything else rides the output pass like
// any other control event.
type Fn func(ctx Context, out, err io.Writer, args []string) []event.Event

// Command is the read-only view the shell and registry operate on.
type Command interface {
	Name() string
	Describe() string
	Usage() string
	Synonyms() []string
	Restriction() user.AccountType
	Run(ctx Context, out, err io.Writer, args []string) []event.Event
}

type cmd struct {
	name        string
	desc        string
	usage       string
	synonyms    []string
	restriction user.AccountType
	fn          Fn
}

// New creates a command with no restriction and no synonyms, usable
// directly by any connected user.
func New(name, desc string, fn Fn) Command {
	return &cmd{name: name, desc: desc, fn: fn}
}

// NewWithMeta creates a command carrying the restriction level and synonym
// list a registry-parsed `.cmd` file supplies.
func NewWithMeta(name, desc, usage string, restriction user.AccountType, synonyms []string, fn Fn) Command {
	return &cmd{
		name:        name,
		desc:        desc,
		usage:       usage,
		synonyms:    synonyms,
		restriction: restriction,
		fn:          fn,
	}
}

func (c *cmd) Name() string                     { return c.name }
func (c *cmd) Describe() string                 { return c.desc }
func (c *cmd) Usage() string                    { return c.usage }
func (c *cmd) Synonyms() []string               { return c.synonyms }
func (c *cmd) Restriction() user.AccountType    { return c.restriction }

func (c *cmd) Run(ctx Context, out, err io.Writer, args []string) []event.Event {
	if c.fn == nil {
		return nil
	}
	return c.fn(ctx, out, err, args)
}
