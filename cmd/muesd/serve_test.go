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

package main

import (
	"bufio"
	"bytes"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/nabbar/mues/command"
	"github.com/nabbar/mues/duration"
	"github.com/nabbar/mues/mueslog"
	"github.com/nabbar/mues/registry"
)

func TestCommandBuilderPrintsDefinitionCode(t *testing.T) {
	build := commandBuilder()
	fn := build(&registry.Definition{Name: "look", Code: "You see nothing special.\r\n"})

	var out bytes.Buffer
	fn(command.Context{}, &out, &out, nil)

	if out.String() != "You see nothing special.\r\n" {
		t.Fatalf("output = %q", out.String())
	}
}

func TestAdminEndpointReloadsRegistry(t *testing.T) {
	dir := t.TempDir()
	sock := filepath.Join(dir, "admin.sock")

	reg := registry.New([]string{dir}, commandBuilder(), duration.Seconds(0), mueslog.NewNop())

	ln, err := listenAdmin(sock, reg, mueslog.NewNop())
	if err != nil {
		t.Fatalf("listenAdmin: %v", err)
	}
	defer ln.Close()

	conn, err := net.DialTimeout("unix", sock, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("reload\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply != "ok: 0 commands\n" {
		t.Fatalf("reply = %q", reply)
	}
}

func TestAdminEndpointRejectsUnknownRequest(t *testing.T) {
	dir := t.TempDir()
	sock := filepath.Join(dir, "admin.sock")
	reg := registry.New([]string{dir}, commandBuilder(), duration.Seconds(0), mueslog.NewNop())

	ln, err := listenAdmin(sock, reg, mueslog.NewNop())
	if err != nil {
		t.Fatalf("listenAdmin: %v", err)
	}
	defer ln.Close()

	conn, err := net.DialTimeout("unix", sock, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("bogus\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply != "error: unknown request \"bogus\\n\"\n" {
		t.Fatalf("reply = %q", reply)
	}
}
