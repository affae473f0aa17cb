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
	"strings"
	"testing"

	"github.com/nabbar/mues/registry"
	"github.com/nabbar/mues/user"
)

const sampleFile = `# a comment line
= look
== abstract
Look around the room.
== restriction
guest
== synonyms
l, examine
== description
Shows the room's description
and its exits.
== usage
look [target]
== code
render_room(ctx)

= shutdown
== abstract
Halts the server.
== restriction
admin
== code
server.stop()
`

func TestParseExtractsAllSections(t *testing.T) {
	defs, err := registry.Parse("sample.cmd", strings.NewReader(sampleFile), nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("got %d definitions, want 2", len(defs))
	}

	look := defs[0]
	if look.Name != "look" {
		t.Fatalf("Name = %q, want look", look.Name)
	}
	if look.Restriction != user.Guest {
		t.Fatalf("Restriction = %v, want Guest", look.Restriction)
	}
	if len(look.Synonyms) != 2 || look.Synonyms[1] != "examine" {
		t.Fatalf("Synonyms = %v", look.Synonyms)
	}
	if look.Code == "" {
		t.Fatal("Code must not be empty")
	}

	shutdown := defs[1]
	if shutdown.Restriction != user.Admin {
		t.Fatalf("Restriction = %v, want Admin", shutdown.Restriction)
	}
}

func TestParseRejectsEmptyBody(t *testing.T) {
	src := "= broken\n== abstract\nno code here\n"
	_, err := registry.Parse("broken.cmd", strings.NewReader(src), nil)
	if err == nil {
		t.Fatal("expected an error for a command with an empty code body")
	}
}

func TestParseRejectsUnknownRestriction(t *testing.T) {
	src := "= x\n== restriction\nwizard\n== code\nnoop()\n"
	_, err := registry.Parse("bad.cmd", strings.NewReader(src), nil)
	if err == nil {
		t.Fatal("expected an error for an unknown restriction token")
	}
}

func TestParseWarnsOnUnknownSection(t *testing.T) {
	src := "= x\n== bogus\nstuff\n== code\nnoop()\n"
	var warned string
	_, err := registry.Parse("warn.cmd", strings.NewReader(src), func(msg string) { warned = msg })
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if warned == "" {
		t.Fatal("expected a warning for the unknown section")
	}
}

func TestSerializeThenParseRoundTrips(t *testing.T) {
	defs, err := registry.Parse("sample.cmd", strings.NewReader(sampleFile), nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	for _, want := range defs {
		src := registry.Serialize(want)
		got, err := registry.Parse(want.File, strings.NewReader(src), nil)
		if err != nil {
			t.Fatalf("Parse(Serialize(%q)) error = %v\nsource:\n%s", want.Name, err, src)
		}
		if len(got) != 1 {
			t.Fatalf("Parse(Serialize(%q)) produced %d definitions, want 1", want.Name, len(got))
		}

		g := got[0]
		if g.Name != want.Name {
			t.Fatalf("Name = %q, want %q", g.Name, want.Name)
		}
		if g.Abstract != want.Abstract {
			t.Fatalf("Abstract = %q, want %q", g.Abstract, want.Abstract)
		}
		if g.Restriction != want.Restriction {
			t.Fatalf("Restriction = %v, want %v", g.Restriction, want.Restriction)
		}
		if strings.Join(g.Synonyms, ",") != strings.Join(want.Synonyms, ",") {
			t.Fatalf("Synonyms = %v, want %v", g.Synonyms, want.Synonyms)
		}
		if g.Description != want.Description {
			t.Fatalf("Description = %q, want %q", g.Description, want.Description)
		}
		if g.Usage != want.Usage {
			t.Fatalf("Usage = %q, want %q", g.Usage, want.Usage)
		}
		if g.Code != want.Code {
			t.Fatalf("Code = %q, want %q", g.Code, want.Code)
		}
	}
}
