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

// Package shell implements the command-shell filter (C7): a per-connection
// table of commands, looked up by exact name, synonym, or unambiguous
// abbreviation, with hot reload from a registry and access-level gating.
package shell

import (
	"sort"
	"sync"

	"github.com/nabbar/mues/command"
)

// Table is a named, walkable collection of commands — the per-user surface
// a Filter dispatches against. Sized and shaped after the reference
// codebase's own command table (a name/synonym-keyed prefix index built
// over the Add/Get/Walk triad), extended here with abbreviation lookup.
type Table struct {
	mu   sync.RWMutex
	byID map[string]command.Command
}

// NewTable builds an empty table.
func NewTable() *Table {
	return &Table{byID: make(map[string]command.Command)}
}

// Add registers cmds under their own name plus every declared synonym,
// each optionally namespaced with prefix (mirrors the reference's
// `sh.Add(prefix, cmd)` convention for grouping related commands).
func (t *Table) Add(prefix string, cmds ...command.Command) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range cmds {
		t.byID[prefix+c.Name()] = c
		for _, syn := range c.Synonyms() {
			t.byID[prefix+syn] = c
		}
	}
}

// Get resolves an exact name or synonym.
func (t *Table) Get(name string) (command.Command, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.byID[name]
	return c, ok
}

// Walk visits every registered (name, command) pair in name order, stopping
// early if fn returns false.
func (t *Table) Walk(fn func(name string, item command.Command) bool) {
	if fn == nil {
		return
	}
	t.mu.RLock()
	names := make([]string, 0, len(t.byID))
	for n := range t.byID {
		names = append(names, n)
	}
	t.mu.RUnlock()
	sort.Strings(names)

	for _, n := range names {
		t.mu.RLock()
		c, ok := t.byID[n]
		t.mu.RUnlock()
		if !ok {
			continue
		}
		if !fn(n, c) {
			return
		}
	}
}

// Desc returns the description of an exact name, or "" if not found.
func (t *Table) Desc(name string) string {
	if c, ok := t.Get(name); ok {
		return c.Describe()
	}
	return ""
}

// Resolve finds the command for name, allowing an unambiguous abbreviation:
// an exact match always wins; otherwise every registered name that name is
// a prefix of is collected, and a single match is accepted.
func (t *Table) Resolve(name string) (cmd command.Command, matches []string, ok bool) {
	if c, exact := t.Get(name); exact {
		return c, nil, true
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	seen := make(map[command.Command]bool)
	var names []string
	for n, c := range t.byID {
		if len(name) > 0 && len(n) > len(name) && n[:len(name)] == name {
			if !seen[c] {
				seen[c] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)

	if len(names) == 1 {
		return t.byID[names[0]], nil, true
	}
	return nil, names, len(names) > 1
}
