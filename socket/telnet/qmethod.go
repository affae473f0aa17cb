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

// Package telnet implements TELNET option negotiation (RFC 1143's Q-method)
// and the IAC byte-stream parser layered on top of the socket filter.
package telnet

// QState is one of the six states of the RFC 1143 Q-method state machine.
type QState uint8

const (
	No QState = iota
	Yes
	WantNo
	WantYes
	WantNoQueued
	WantYesQueued
)

func (s QState) String() string {
	switch s {
	case Yes:
		return "YES"
	case WantNo:
		return "WANT_NO"
	case WantYes:
		return "WANT_YES"
	case WantNoQueued:
		return "WANT_NO_QUEUED"
	case WantYesQueued:
		return "WANT_YES_QUEUED"
	default:
		return "NO"
	}
}

// Side distinguishes the two independent Q-method machines an option has:
// whether WE (the server) do it, and whether THEY (the peer) do it.
type Side uint8

const (
	Us Side = iota
	Them
)

// Option tracks negotiation state for one TELNET option code, one machine
// per side as RFC 1143 requires (the "us" machine driven by WILL/WONT, the
// "them" machine driven by DO/DONT).
type Option struct {
	Code      byte
	Supported bool
	Us        QState
	Them      QState
}

// reply is a 3-byte IAC command sequence (or 0 bytes for "no reply").
type reply [3]byte

func cmd(verb, code byte) reply { return reply{IAC, verb, code} }

// PeerWill processes an incoming IAC WILL <code> and returns any reply
// bytes to send, per the RFC 1143 transition table (§4.3 transition
// summary).
func (o *Option) PeerWill() []byte {
	switch o.Us {
	case No:
		if o.Supported {
			o.Them = Yes
			return cmd(DO, o.Code).slice()
		}
		return cmd(DONT, o.Code).slice()
	case WantYes:
		o.Them = Yes
		return nil
	case WantNo:
		// protocol violation: peer claims WILL while we're mid-negotiation
		// toward NO. Transition conservatively and do not propagate.
		o.Them = No
		return nil
	case WantYesQueued:
		o.Them = Yes
		o.Us = WantYes
		return cmd(DO, o.Code).slice()
	case WantNoQueued:
		o.Them = No
		o.Us = WantNo
		return cmd(DONT, o.Code).slice()
	default: // Yes: peer re-asserting, no-op
		return nil
	}
}

// PeerWont processes an incoming IAC WONT <code>.
func (o *Option) PeerWont() []byte {
	switch o.Us {
	case Yes:
		o.Them = No
		return cmd(DONT, o.Code).slice()
	case WantYes, WantYesQueued:
		o.Them = No
		o.Us = No
		return nil
	case WantNo, WantNoQueued:
		o.Them = No
		o.Us = No
		return nil
	default:
		return nil
	}
}

// PeerDo processes an incoming IAC DO <code> (the peer wants US to enable
// the option locally).
func (o *Option) PeerDo() []byte {
	switch o.Them {
	case No:
		if o.Supported {
			o.Us = Yes
			return cmd(WILL, o.Code).slice()
		}
		return cmd(WONT, o.Code).slice()
	case WantYes:
		o.Us = Yes
		return nil
	case WantNo:
		o.Us = No
		return nil
	case WantYesQueued:
		o.Us = Yes
		o.Them = WantYes
		return cmd(WILL, o.Code).slice()
	case WantNoQueued:
		o.Us = No
		o.Them = WantNo
		return cmd(WONT, o.Code).slice()
	default:
		return nil
	}
}

// PeerDont processes an incoming IAC DONT <code>.
func (o *Option) PeerDont() []byte {
	switch o.Them {
	case Yes:
		o.Us = No
		return cmd(WONT, o.Code).slice()
	case WantYes, WantYesQueued:
		o.Us = No
		o.Them = No
		return nil
	case WantNo, WantNoQueued:
		o.Us = No
		o.Them = No
		return nil
	default:
		return nil
	}
}

// EnableThem begins a locally-initiated request for the peer to enable an
// option (sends DO), honoring the WANT_*_QUEUED deferral rule. Used for
// "ask peer" options (NAWS, TTYPE, LFLOW).
func (o *Option) EnableThem() []byte {
	switch o.Them {
	case No:
		o.Them = WantYes
		return cmd(DO, o.Code).slice()
	case WantNo:
		o.Them = WantNoQueued
		return nil
	case WantNoQueued:
		o.Them = WantYesQueued
		return nil
	default:
		return nil
	}
}

// EnableUs begins a locally-initiated offer to enable an option ourselves
// (sends WILL). Used for "offer" options (ECHO, SGA, STATUS).
func (o *Option) EnableUs() []byte {
	switch o.Us {
	case No:
		o.Us = WantYes
		return cmd(WILL, o.Code).slice()
	case WantNo:
		o.Us = WantNoQueued
		return nil
	case WantNoQueued:
		o.Us = WantYesQueued
		return nil
	default:
		return nil
	}
}

func (r reply) slice() []byte {
	if r == (reply{}) {
		return nil
	}
	return r[:]
}
