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

import "testing"

func TestDecodeStripsIACSequencesFromPlainText(t *testing.T) {
	d := NewDecoder(nil)
	raw := append([]byte("hi"), IAC, WILL, OptSGA)
	raw = append(raw, []byte(" there")...)

	out := d.Decode(raw, func(b []byte) {})
	if string(out) != "hi there" {
		t.Fatalf("Decode output = %q, want %q", out, "hi there")
	}
	if d.options[OptSGA].Them != Yes {
		t.Fatalf("SGA Them = %v, want Yes after WILL", d.options[OptSGA].Them)
	}
}

func TestDecodeNAWSSuboptionDiscardsOutOfRangeDimensions(t *testing.T) {
	d := NewDecoder(nil)
	prevW, prevH := d.NAWS()

	raw := []byte{IAC, SB, OptNAWS, 0, 5, 0, 2, IAC, SE} // width=5, height=2: both below minimum
	d.Decode(raw, func(b []byte) {})

	w, h := d.NAWS()
	if w != prevW {
		t.Fatalf("width = %d, want unchanged from %d (out-of-range update must be discarded)", w, prevW)
	}
	if h != prevH {
		t.Fatalf("height = %d, want unchanged from %d (out-of-range update must be discarded)", h, prevH)
	}
}

func TestDecodeTTYPEIsCapturesTerminalType(t *testing.T) {
	d := NewDecoder(nil)
	raw := []byte{IAC, SB, OptTTYPE, 0}
	raw = append(raw, []byte("xterm-256color")...)
	raw = append(raw, IAC, SE)

	d.Decode(raw, func(b []byte) {})
	if got := d.TermType(); got != "xterm-256color" {
		t.Fatalf("TermType() = %q, want xterm-256color", got)
	}
}

func TestEchoMaskReplacesPrintableRunsWithStars(t *testing.T) {
	d := NewDecoder(nil)
	d.options[OptECHO].Us = Yes
	d.SetEchoMask(true)

	var written []byte
	d.Decode([]byte("secret"), func(b []byte) { written = append(written, b...) })

	if string(written) != "******" {
		t.Fatalf("echoed %q, want 6 stars", written)
	}
}

func TestEchoRendersDelAsBackspaceSpaceBackspace(t *testing.T) {
	d := NewDecoder(nil)
	d.options[OptECHO].Us = Yes

	var written []byte
	d.Decode([]byte{'a', DEL}, func(b []byte) { written = append(written, b...) })

	want := []byte{'a', BS, ' ', BS}
	if string(written) != string(want) {
		t.Fatalf("echoed %v, want %v", written, want)
	}
}

func TestEchoLowersMaskAtCR(t *testing.T) {
	d := NewDecoder(nil)
	d.options[OptECHO].Us = Yes
	d.SetEchoMask(true)

	d.Decode([]byte("pw\r"), func(b []byte) {})
	if d.echoMasked {
		t.Fatal("echo mask must be lowered once CR (line end) is seen")
	}
}

func TestInitialNegotiationOffersAndAsks(t *testing.T) {
	d := NewDecoder(nil)
	neg := d.InitialNegotiation()

	if len(neg) != 6*3 {
		t.Fatalf("InitialNegotiation() produced %d bytes, want %d", len(neg), 6*3)
	}
	if d.options[OptNAWS].Them != WantYes {
		t.Fatalf("NAWS Them = %v, want WantYes (asked peer)", d.options[OptNAWS].Them)
	}
	if d.options[OptECHO].Us != WantYes {
		t.Fatalf("ECHO Us = %v, want WantYes (offered)", d.options[OptECHO].Us)
	}
}
