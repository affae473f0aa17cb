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

package socket

const (
	DEL = 0x7f
	BS  = 0x08
)

// SplitLines consumes buf for complete lines terminated by CR+LF or a NUL
// byte, returning the decoded lines and the unconsumed remainder. Embedded
// DEL/BS bytes are collapsed in a second pass per line: any non-DEL/BS byte
// immediately followed by a DEL/BS deletes both; leading DEL/BS bytes are
// discarded. Exported so the console filter (C5), whose line-parsing
// semantics are identical to this filter's minus TELNET processing, shares
// this instead of duplicating it.
func SplitLines(buf []byte) (lines []string, rest []byte) {
	start := 0
	for i := 0; i < len(buf); i++ {
		switch buf[i] {
		case '\r':
			if i+1 < len(buf) && buf[i+1] == '\n' {
				lines = append(lines, CollapseEditing(buf[start:i]))
				start = i + 2
				i++
				continue
			}
			// lone CR without a following LF yet available: wait for more data.
		case 0:
			lines = append(lines, CollapseEditing(buf[start:i]))
			start = i + 1
		}
	}
	rest = append([]byte(nil), buf[start:]...)
	return lines, rest
}

// CollapseEditing applies the DEL/BS editing collapse pass and returns the
// resulting text as a string.
func CollapseEditing(b []byte) string {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c == DEL || c == BS {
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
