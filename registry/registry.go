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

package registry

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nabbar/mues/command"
	"github.com/nabbar/mues/duration"
	"github.com/nabbar/mues/muerr"
	"github.com/nabbar/mues/mueslog"
	"github.com/nabbar/mues/scheduler"
	"github.com/nabbar/mues/user"
)

// Builder turns one parsed Definition's Code body into a runnable command.
// The reference factory compiles/evals the body against its scripting
// engine; this port takes a builder function supplied by the host process
// instead, so the registry stays agnostic of any particular command
// language.
type Builder func(def *Definition) command.Fn

type fileEntry struct {
	path    string
	mtime   time.Time
	entries []*Definition
}

// Registry is the command factory (C8): it scans a search path of
// directories for `.cmd` files, reparses only what changed since the last
// scan, and hands out per-user command tables.
type Registry struct {
	log    mueslog.Logger
	build  Builder
	warn   Warner
	paths  []string
	reload duration.Duration
	sched  scheduler.Task

	mu     sync.RWMutex
	files  map[string]*fileEntry // keyed by absolute path
	byName map[string]*Definition

	obsMu     sync.Mutex
	observers []func()
}

// New constructs a Registry over the given search path. Call Rebuild once
// before serving traffic to perform the initial scan.
func New(paths []string, build Builder, reload duration.Duration, log mueslog.Logger) *Registry {
	if log == nil {
		log = mueslog.NewNop()
	}
	r := &Registry{
		log:    log,
		build:  build,
		paths:  paths,
		reload: reload,
		files:  make(map[string]*fileEntry),
		byName: make(map[string]*Definition),
	}
	r.warn = func(msg string) { r.log.Warn(msg) }
	return r
}

// StartScheduledReload schedules a periodic Rebuild every r.reload,
// matching the factory's "rescan every N seconds" policy (default 600s,
// set by the caller via config.ReloadInterval). A non-positive interval
// disables the schedule; the registry still rebuilds on construction and on
// demand via Rebuild.
func (r *Registry) StartScheduledReload() {
	if r.reload.Duration() <= 0 {
		return
	}
	r.sched = scheduler.Every(r.reload, func() {
		if err := r.Rebuild(); err != nil {
			r.log.Warn("scheduled command reload failed", mueslog.F("error", err.Error()))
		}
	})
}

// Stop cancels any scheduled reload.
func (r *Registry) Stop() {
	if r.sched != nil {
		r.sched.Cancel()
	}
}

// Observe registers fn to be called every time Rebuild succeeds and the
// registry actually changed. Used by shell filters to know when to request
// a fresh per-user table.
func (r *Registry) Observe(fn func()) {
	r.obsMu.Lock()
	r.observers = append(r.observers, fn)
	r.obsMu.Unlock()
}

func (r *Registry) notify() {
	r.obsMu.Lock()
	obs := append([]func(){}, r.observers...)
	r.obsMu.Unlock()
	for _, fn := range obs {
		fn()
	}
}

// Rebuild scans every `.cmd` file under the search path whose mtime exceeds
// what was last observed for it, reparses those, and merges the result with
// unchanged files. A name collision between two distinct source files aborts
// the scan and leaves the previous registry intact.
func (r *Registry) Rebuild() error {
	found := make(map[string]os.FileInfo)
	for _, dir := range r.paths {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) && path == dir {
					return filepath.SkipDir
				}
				return err
			}
			if d.IsDir() {
				if path != dir && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || !strings.HasSuffix(d.Name(), ".cmd") {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return nil
			}
			found[path] = fi
			return nil
		})
		if err != nil {
			return muerr.New(muerr.KindIO, "scanning %s: %s", dir, err)
		}
	}

	r.mu.RLock()
	newFiles := make(map[string]*fileEntry, len(r.files))
	for p, fe := range r.files {
		newFiles[p] = fe
	}
	r.mu.RUnlock()

	changed := false
	for path, fi := range found {
		existing, ok := newFiles[path]
		if ok && !fi.ModTime().After(existing.mtime) {
			continue
		}
		defs, err := r.parseFile(path)
		if err != nil {
			return err
		}
		newFiles[path] = &fileEntry{path: path, mtime: fi.ModTime(), entries: defs}
		changed = true
	}
	for path := range newFiles {
		if _, ok := found[path]; !ok {
			delete(newFiles, path)
			changed = true
		}
	}

	if !changed {
		return nil
	}

	byName := make(map[string]*Definition)
	for path, fe := range newFiles {
		for _, def := range fe.entries {
			if prior, ok := byName[def.Name]; ok && prior.File != path {
				return muerr.New(muerr.KindCommandNameConflict, "command %q defined in both %s and %s", def.Name, prior.File, path)
			}
			byName[def.Name] = def
		}
	}

	r.mu.Lock()
	r.files = newFiles
	r.byName = byName
	r.mu.Unlock()

	r.notify()
	return nil
}

func (r *Registry) parseFile(path string) ([]*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, muerr.New(muerr.KindIO, "opening %s: %s", path, err)
	}
	defer f.Close()
	return Parse(path, f, r.warn)
}

// AvailableTo returns every definition whose restriction is satisfied by the
// given account type, sorted by name for deterministic table construction.
func (r *Registry) AvailableTo(account user.AccountType) []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Definition, 0, len(r.byName))
	for _, def := range r.byName {
		if account.Allows(def.Restriction) {
			out = append(out, def)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// BuildCommands turns every definition available to account into runnable
// commands via the registry's Builder.
func (r *Registry) BuildCommands(account user.AccountType) []command.Command {
	defs := r.AvailableTo(account)
	out := make([]command.Command, 0, len(defs))
	for _, def := range defs {
		var fn command.Fn
		if r.build != nil {
			fn = r.build(def)
		}
		out = append(out, command.NewWithMeta(def.Name, def.Abstract, def.Usage, def.Restriction, def.Synonyms, fn))
	}
	return out
}
