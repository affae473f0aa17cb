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

package filters

import (
	"strings"
	"sync"

	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/filter"
	"github.com/nabbar/mues/mueslog"
)

const defaultMacroDepth = 5

// Persist is called once on Stop with the macro table the user last held,
// so the host process can save it into that user's preferences.
type Persist func(prefix string, patterns map[string]string)

// Macro is the per-user macro-expansion filter (§4.9): input beginning
// with the macro prefix is iteratively substituted against a pattern table
// until nothing matches or the depth limit is hit.
type Macro struct {
	filter.Base

	mu       sync.RWMutex
	prefix   string
	patterns map[string]string
	depth    int
	persist  Persist
}

// NewMacro constructs a macro filter. depth <= 0 falls back to the spec's
// default of 5.
func NewMacro(pos filter.SortPos, prefix string, depth int, persist Persist, log mueslog.Logger) *Macro {
	if depth <= 0 {
		depth = defaultMacroDepth
	}
	return &Macro{
		Base:     filter.NewBase(pos, log),
		prefix:   prefix,
		patterns: make(map[string]string),
		depth:    depth,
		persist:  persist,
	}
}

func (f *Macro) Start(s filter.StreamHandle) []event.Event { f.Attach(s); return nil }

func (f *Macro) Stop(s filter.StreamHandle) []event.Event {
	f.Detach()
	if f.persist != nil {
		f.mu.RLock()
		patterns := make(map[string]string, len(f.patterns))
		for k, v := range f.patterns {
			patterns[k] = v
		}
		prefix := f.prefix
		f.mu.RUnlock()
		f.persist(prefix, patterns)
	}
	return nil
}

// Define adds or overwrites a macro pattern → expansion mapping.
func (f *Macro) Define(pattern, expansion string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patterns[pattern] = expansion
}

func (f *Macro) HandleInput(in []event.Event) []event.Event {
	out := make([]event.Event, 0, len(in))
	for _, e := range in {
		ie, ok := e.(event.InputEvent)
		if !ok {
			out = append(out, e)
			continue
		}

		f.mu.RLock()
		prefix := f.prefix
		f.mu.RUnlock()

		if prefix == "" || !strings.HasPrefix(ie.Data, prefix) {
			out = append(out, e)
			continue
		}

		out = append(out, event.InputEvent{Data: f.expand(ie.Data)})
	}
	return out
}

func (f *Macro) HandleOutput(out []event.Event) []event.Event { return out }

// expand iteratively substitutes every matching pattern, restarting the
// scan after each replacement, up to the configured depth.
func (f *Macro) expand(data string) string {
	f.mu.RLock()
	patterns := make(map[string]string, len(f.patterns))
	for k, v := range f.patterns {
		patterns[k] = v
	}
	f.mu.RUnlock()

	for i := 0; i < f.depth; i++ {
		replaced := false
		for pattern, expansion := range patterns {
			if strings.Contains(data, pattern) {
				data = strings.Replace(data, pattern, expansion, 1)
				replaced = true
				break
			}
		}
		if !replaced {
			break
		}
	}
	return data
}
