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

package registry_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nabbar/mues/duration"
	"github.com/nabbar/mues/registry"
	"github.com/nabbar/mues/user"
)

func writeCmd(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestRebuildScansAndGatesByRestriction(t *testing.T) {
	dir := t.TempDir()
	writeCmd(t, dir, "look.cmd", "= look\n== restriction\nguest\n== code\nnoop()\n")
	writeCmd(t, dir, "shutdown.cmd", "= shutdown\n== restriction\nadmin\n== code\nnoop()\n")

	reg := registry.New([]string{dir}, nil, duration.Seconds(0), nil)
	if err := reg.Rebuild(); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	guestCmds := reg.BuildCommands(user.Guest)
	if len(guestCmds) != 1 {
		t.Fatalf("guest sees %d commands, want 1", len(guestCmds))
	}

	adminCmds := reg.BuildCommands(user.Admin)
	if len(adminCmds) != 2 {
		t.Fatalf("admin sees %d commands, want 2", len(adminCmds))
	}
}

func TestRebuildDetectsNameCollisionAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeCmd(t, dir, "a.cmd", "= dup\n== code\nnoop()\n")
	writeCmd(t, dir, "b.cmd", "= dup\n== code\nnoop()\n")

	reg := registry.New([]string{dir}, nil, duration.Seconds(0), nil)
	if err := reg.Rebuild(); err == nil {
		t.Fatal("expected a name-collision error across two source files")
	}
}

func TestRebuildOnlyReparsesChangedFiles(t *testing.T) {
	dir := t.TempDir()
	writeCmd(t, dir, "a.cmd", "= a\n== code\nnoop()\n")

	reg := registry.New([]string{dir}, nil, duration.Seconds(0), nil)
	if err := reg.Rebuild(); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if len(reg.BuildCommands(user.Guest)) != 1 {
		t.Fatal("expected command 'a' to be registered")
	}

	time.Sleep(10 * time.Millisecond)
	writeCmd(t, dir, "b.cmd", "= b\n== code\nnoop()\n")
	if err := reg.Rebuild(); err != nil {
		t.Fatalf("second Rebuild() error = %v", err)
	}
	if len(reg.BuildCommands(user.Guest)) != 2 {
		t.Fatal("expected both commands 'a' and 'b' after the second scan")
	}
}

func TestRebuildScansNestedDirectoriesSkippingDotfiles(t *testing.T) {
	dir := t.TempDir()
	writeCmd(t, dir, "top.cmd", "= top\n== code\nnoop()\n")

	sub := filepath.Join(dir, "rooms")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	writeCmd(t, sub, "nested.cmd", "= nested\n== code\nnoop()\n")
	writeCmd(t, sub, ".hidden.cmd", "= hidden\n== code\nnoop()\n")

	hiddenDir := filepath.Join(dir, ".git")
	if err := os.MkdirAll(hiddenDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	writeCmd(t, hiddenDir, "ignored.cmd", "= ignored\n== code\nnoop()\n")

	reg := registry.New([]string{dir}, nil, duration.Seconds(0), nil)
	if err := reg.Rebuild(); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	cmds := reg.BuildCommands(user.Guest)
	if len(cmds) != 2 {
		names := make([]string, 0, len(cmds))
		for _, c := range cmds {
			names = append(names, c.Name())
		}
		t.Fatalf("got %d commands %v, want 2 (top, nested)", len(cmds), names)
	}
}

func TestObserveFiresOnChange(t *testing.T) {
	dir := t.TempDir()
	writeCmd(t, dir, "a.cmd", "= a\n== code\nnoop()\n")

	reg := registry.New([]string{dir}, nil, duration.Seconds(0), nil)
	fired := 0
	reg.Observe(func() { fired++ })

	if err := reg.Rebuild(); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if fired != 1 {
		t.Fatalf("observer fired %d times, want 1", fired)
	}

	if err := reg.Rebuild(); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if fired != 1 {
		t.Fatalf("observer fired %d times after a no-op rebuild, want still 1", fired)
	}
}
