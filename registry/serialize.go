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
	"strings"

	"github.com/nabbar/mues/user"
)

var restrictionName = func() map[user.AccountType]string {
	m := make(map[user.AccountType]string, len(restrictionTable))
	for name, at := range restrictionTable {
		m[at] = name
	}
	return m
}()

// Serialize renders def back into the `.cmd` source text Parse accepts,
// inverting it section by section. For any def whose Abstract, Restriction,
// Synonyms, Description, Usage and Code hold what Parse would have produced
// (single block of printable ASCII, well-formed sections), Parse(Serialize(def))
// reproduces an equivalent Definition.
func Serialize(def *Definition) string {
	var b strings.Builder

	b.WriteString("= ")
	b.WriteString(def.Name)
	b.WriteString("\n")

	if def.Abstract != "" {
		b.WriteString("== abstract\n")
		b.WriteString(def.Abstract)
		b.WriteString("\n")
	}

	if name, ok := restrictionName[def.Restriction]; ok && def.Restriction != user.Guest {
		b.WriteString("== restriction\n")
		b.WriteString(name)
		b.WriteString("\n")
	}

	if len(def.Synonyms) > 0 {
		b.WriteString("== synonyms\n")
		b.WriteString(strings.Join(def.Synonyms, ", "))
		b.WriteString("\n")
	}

	if def.Description != "" {
		b.WriteString("== description\n")
		for _, line := range strings.Split(def.Description, "\n") {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if def.Usage != "" {
		b.WriteString("== usage\n")
		for _, line := range strings.Split(def.Usage, "\n") {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("== code\n")
	for _, line := range strings.Split(def.Code, "\n") {
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
