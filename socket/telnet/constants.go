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

package telnet

// TELNET command bytes (RFC 854/855).
const (
	SE   = 240
	NOP  = 241
	DM   = 242
	BRK  = 243
	IP   = 244
	AO   = 245
	AYT  = 246
	EC   = 247
	EL   = 248
	GA   = 249
	SB   = 250
	WILL = 251
	WONT = 252
	DO   = 253
	DONT = 254
	IAC  = 255

	// Auxiliary commands beyond the base RFC 854 set (RFC 885/1184 linemode
	// and common BSD telnetd extensions), recognized but not independently
	// actioned: they are logged and otherwise no-ops in this server.
	EOR   = 239
	ABORT = 238
	SUSP  = 237
	EOF   = 236
)

// Option codes.
const (
	OptECHO  = 1
	OptSGA   = 3
	OptSTATUS = 5
	OptTTYPE = 24
	OptNAWS  = 31
	OptLFLOW = 33
)

// NAWS dimension bounds (§4.3).
const (
	NAWSMinWidth  = 15
	NAWSMaxWidth  = 1024
	NAWSMinHeight = 3
	NAWSMaxHeight = 1024
)

// inRange reports whether v falls in [lo, hi), the half-open bound NAWS
// dimensions are validated against. Values outside this range are discarded
// by the caller rather than clamped to lo/hi-1.
func inRange(v, lo, hi int) bool {
	return v >= lo && v < hi
}
