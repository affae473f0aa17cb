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

// Package registry parses `.cmd` command-definition files and maintains the
// reloadable, access-gated command table the shell filter dispatches
// against (C8).
package registry

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/nabbar/mues/command"
	"github.com/nabbar/mues/muerr"
	"github.com/nabbar/mues/user"
)

var (
	headerPattern  = regexp.MustCompile(`^=\s*(\w+)`)
	sectionPattern = regexp.MustCompile(`^==\s*(\w+)`)
)

var restrictionTable = map[string]user.AccountType{
	"guest":       user.Guest,
	"player":      user.Player,
	"builder":     user.Builder,
	"implementor": user.Implementor,
	"admin":       user.Admin,
}

// draft accumulates one command's sections while a file is being parsed.
type draft struct {
	name        string
	file        string
	line        int
	abstract    []string
	restriction string
	synonyms    []string
	description []string
	usage       []string
	code        []string
}

func newDraft(name, file string, line int) *draft {
	return &draft{name: name, file: file, line: line}
}

func (d *draft) finish() (*Definition, error) {
	if len(d.code) == 0 {
		return nil, muerr.New(muerr.KindCommandParse, "%s:%d: command %q has an empty body", d.file, d.line, d.name)
	}

	restriction := user.Guest
	if d.restriction != "" {
		rt, ok := restrictionTable[strings.ToLower(d.restriction)]
		if !ok {
			return nil, muerr.New(muerr.KindCommandParse, "%s:%d: unknown restriction %q", d.file, d.line, d.restriction)
		}
		restriction = rt
	}

	// Description lines are joined with spaces; each run of blank lines
	// becomes one paragraph break ("\n\n").
	var paras, cur []string
	for _, l := range append(d.description, "") {
		if l != "" {
			cur = append(cur, l)
		} else if len(cur) > 0 {
			paras = append(paras, strings.Join(cur, " "))
			cur = nil
		}
	}

	return &Definition{
		Name:        d.name,
		Abstract:    strings.Join(d.abstract, " "),
		Restriction: restriction,
		Synonyms:    d.synonyms,
		Description: strings.Join(paras, "\n\n"),
		Usage:       strings.Join(d.usage, "\n"),
		Code:        strings.Join(d.code, "\n"),
		File:        d.file,
		Line:        d.line,
	}, nil
}

// Definition is one parsed command entry, ready for a builder to turn its
// Code body into a runnable command.Command.
type Definition struct {
	Name        string
	Abstract    string
	Restriction user.AccountType
	Synonyms    []string
	Description string
	Usage       string
	Code        string
	File        string
	Line        int
}

type section uint8

const (
	secNone section = iota
	secAbstract
	secRestriction
	secSynonyms
	secDescription
	secUsage
	secCode
)

func sectionFromName(name string) section {
	switch strings.ToLower(name) {
	case "abstract":
		return secAbstract
	case "restriction":
		return secRestriction
	case "synonyms":
		return secSynonyms
	case "description":
		return secDescription
	case "usage":
		return secUsage
	case "code":
		return secCode
	default:
		return secNone
	}
}

// Warner receives a message for any recoverable parse oddity (unknown
// section, and so on) so the caller can log it without the parser itself
// depending on mueslog.
type Warner func(msg string)

// Parse reads one `.cmd` file from r and returns every command it defines.
func Parse(file string, r io.Reader, warn Warner) ([]*Definition, error) {
	if warn == nil {
		warn = func(string) {}
	}

	var (
		defs []*Definition
		cur  *draft
		sec  = secNone
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		trimmed := strings.TrimSpace(raw)

		if strings.HasPrefix(trimmed, "#") {
			continue
		}

		if m := headerPattern.FindStringSubmatch(trimmed); m != nil {
			if cur != nil {
				def, err := cur.finish()
				if err != nil {
					return nil, err
				}
				defs = append(defs, def)
			}
			cur = newDraft(m[1], file, lineNo)
			sec = secNone
			continue
		}

		if cur == nil {
			continue
		}

		if m := sectionPattern.FindStringSubmatch(trimmed); m != nil {
			sec = sectionFromName(m[1])
			if sec == secNone {
				warn(fmt.Sprintf("%s:%d: unknown section %q ignored", file, lineNo, m[1]))
			}
			continue
		}

		switch sec {
		case secAbstract:
			cur.abstract = append(cur.abstract, trimmed)
		case secRestriction:
			if cur.restriction == "" {
				cur.restriction = trimmed
			}
		case secSynonyms:
			for _, s := range splitSynonyms(trimmed) {
				if s != "" {
					cur.synonyms = append(cur.synonyms, s)
				}
			}
		case secDescription:
			if trimmed == "" {
				cur.description = append(cur.description, "")
			} else {
				cur.description = append(cur.description, trimmed)
			}
		case secUsage:
			cur.usage = append(cur.usage, raw)
		case secCode:
			cur.code = append(cur.code, raw)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, muerr.New(muerr.KindIO, "%s: %s", file, err)
	}

	if cur != nil {
		def, err := cur.finish()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	return defs, nil
}

func splitSynonyms(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.TrimSpace(f))
	}
	return out
}
