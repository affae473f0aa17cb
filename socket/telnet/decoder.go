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

import (
	"sync"

	"github.com/nabbar/mues/mueslog"
)

type parseState uint8

const (
	stText parseState = iota
	stIAC
	stNegotiate // saw IAC, then WILL/WONT/DO/DONT, awaiting option byte
	stSub       // inside IAC SB ... awaiting IAC SE
	stSubIAC    // inside a suboption, saw IAC, awaiting SE or escaped IAC
)

// Decoder implements socket.Decoder: it strips IAC sequences, drives the
// Q-method negotiation for each option, parses NAWS and TTYPE IS
// suboptions (it sends no suboption replies), and performs local echo
// (including password masking) for plain text bytes.
type Decoder struct {
	log mueslog.Logger

	mu      sync.Mutex
	state   parseState
	verb    byte // pending WILL/WONT/DO/DONT
	sub     []byte
	subOpt  byte

	options map[byte]*Option

	echoMasked bool

	width, height int
	termType      string
}

// NewDecoder constructs a Decoder with the six supported options
// pre-registered and no negotiation yet sent; call InitialNegotiation to
// kick that off.
func NewDecoder(log mueslog.Logger) *Decoder {
	if log == nil {
		log = mueslog.NewNop()
	}
	d := &Decoder{
		log:      log,
		options:  make(map[byte]*Option),
		width:    80,
		height:   23,
		termType: "dumb",
	}
	for _, code := range []byte{OptECHO, OptSGA, OptSTATUS, OptTTYPE, OptNAWS, OptLFLOW} {
		d.options[code] = &Option{Code: code, Supported: true}
	}
	return d
}

// InitialNegotiation returns the IAC bytes for the server's opening offer:
// ask the peer for NAWS/TTYPE/LFLOW, offer ECHO/SGA/STATUS ourselves.
func (d *Decoder) InitialNegotiation() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []byte
	out = append(out, d.options[OptNAWS].EnableThem()...)
	out = append(out, d.options[OptTTYPE].EnableThem()...)
	out = append(out, d.options[OptLFLOW].EnableThem()...)
	out = append(out, d.options[OptECHO].EnableUs()...)
	out = append(out, d.options[OptSGA].EnableUs()...)
	out = append(out, d.options[OptSTATUS].EnableUs()...)
	return out
}

func (d *Decoder) option(code byte) *Option {
	o, ok := d.options[code]
	if !ok {
		o = &Option{Code: code, Supported: false}
		d.options[code] = o
	}
	return o
}

// SetEchoMask toggles printable-run masking; raised when a
// HiddenInputPromptEvent is emitted.
func (d *Decoder) SetEchoMask(on bool) {
	d.mu.Lock()
	d.echoMasked = on
	d.mu.Unlock()
}

func (d *Decoder) NAWS() (width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

func (d *Decoder) TermType() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.termType
}

func (d *Decoder) echoEnabled() bool {
	return d.options[OptECHO].Us == Yes
}

// Decode implements socket.Decoder.
func (d *Decoder) Decode(raw []byte, write func([]byte)) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []byte
	for _, b := range raw {
		switch d.state {
		case stText:
			if b == IAC {
				d.state = stIAC
				continue
			}
			out = append(out, b)
			d.echoByte(b, write)

		case stIAC:
			switch b {
			case IAC:
				// escaped literal 0xff
				out = append(out, IAC)
				d.echoByte(IAC, write)
				d.state = stText
			case WILL, WONT, DO, DONT:
				d.verb = b
				d.state = stNegotiate
			case SB:
				d.sub = d.sub[:0]
				d.state = stSub
			default:
				// auxiliary command (GA, EL, EC, AYT, AO, IP, BREAK, DM, NOP,
				// EOR, ABORT, SUSP, EOF): acknowledged by logging only.
				d.log.Debug("telnet auxiliary command", mueslog.F("cmd", b))
				d.state = stText
			}

		case stNegotiate:
			d.handleNegotiate(b, write)
			d.state = stText

		case stSub:
			if b == IAC {
				d.state = stSubIAC
				continue
			}
			d.sub = append(d.sub, b)

		case stSubIAC:
			if b == SE {
				d.handleSuboption(write)
				d.state = stText
			} else if b == IAC {
				d.sub = append(d.sub, IAC)
				d.state = stSub
			} else {
				// malformed; abandon this suboption
				d.state = stText
			}
		}
	}
	return out
}

func (d *Decoder) handleNegotiate(code byte, write func([]byte)) {
	o := d.option(code)
	var reply []byte
	switch d.verb {
	case WILL:
		reply = o.PeerWill()
	case WONT:
		reply = o.PeerWont()
	case DO:
		reply = o.PeerDo()
	case DONT:
		reply = o.PeerDont()
	}
	if len(reply) > 0 {
		write(reply)
	}
}

func (d *Decoder) handleSuboption(write func([]byte)) {
	if len(d.sub) == 0 {
		return
	}
	opt := d.sub[0]
	body := d.sub[1:]

	switch opt {
	case OptNAWS:
		if len(body) >= 4 {
			w := int(body[0])<<8 | int(body[1])
			h := int(body[2])<<8 | int(body[3])
			// Out-of-range dimensions are discarded, not clamped to the
			// boundary: the previous window size is retained.
			if inRange(w, NAWSMinWidth, NAWSMaxWidth) {
				d.width = w
			}
			if inRange(h, NAWSMinHeight, NAWSMaxHeight) {
				d.height = h
			}
		}
	case OptTTYPE:
		if len(body) >= 1 && body[0] == 0 { // IS
			d.termType = string(body[1:])
		} else if len(body) >= 1 && body[0] == 1 { // SEND
			d.log.Warn("peer sent TTYPE SEND, which is not a valid server-bound message")
		}
	default:
		d.log.Debug("telnet suboption ignored", mueslog.F("opt", opt))
	}
}

// echoByte renders one plain-text byte back to the peer when ECHO is in
// state YES: DEL/BS become BS-space-BS, CR becomes CRLF (and lowers the
// mask, anticipating the line it terminates), everything else is either
// passed through or replaced by '*' while masked.
func (d *Decoder) echoByte(b byte, write func([]byte)) {
	if !d.echoEnabled() {
		return
	}
	switch b {
	case DEL, BS:
		write([]byte{BS, ' ', BS})
	case '\r':
		write([]byte{'\r', '\n'})
		d.echoMasked = false
	case 0:
		d.echoMasked = false
	default:
		if d.echoMasked && b >= 0x20 && b <= 0x7e {
			write([]byte{'*'})
		} else {
			write([]byte{b})
		}
	}
}
