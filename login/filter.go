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

// Package login implements the credential-collection filter (C6): a small
// state machine that prompts for a username and password, delegates to an
// external Authenticator, and retries up to a configured limit before
// timing out or handing off to whatever the caller wants to do next.
package login

import (
	"regexp"
	"strings"
	"sync"

	"github.com/nabbar/mues/auth"
	"github.com/nabbar/mues/duration"
	"github.com/nabbar/mues/event"
	"github.com/nabbar/mues/filter"
	"github.com/nabbar/mues/mueslog"
	"github.com/nabbar/mues/scheduler"
	"github.com/nabbar/mues/user"
)

type state uint8

const (
	collectUsername state = iota
	collectPassword
	awaitingAuth
)

var usernamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]+`)

const (
	defaultBanner         = "Welcome.\r\n"
	usernamePromptText    = "login: "
	passwordPromptText    = "Password: "
)

// Filter is the login/authentication filter.
type Filter struct {
	filter.Base

	authn    auth.Authenticator
	onLogin  func(user.User)
	maxTries int
	timeout  duration.Duration

	mu       sync.Mutex
	st       state
	username string
	attempts int
	timeoutTask scheduler.Task
}

// New constructs a login filter. onLogin is called once, after the
// Authenticator's success callback fires, so the caller (typically the
// code that owns the listener) can install the next filter — usually the
// command shell — on the same stream.
func New(pos filter.SortPos, authn auth.Authenticator, maxTries int, timeout duration.Duration, onLogin func(user.User), log mueslog.Logger) *Filter {
	if maxTries < 1 {
		maxTries = 3
	}
	return &Filter{
		Base:     filter.NewBase(pos, log),
		authn:    authn,
		onLogin:  onLogin,
		maxTries: maxTries,
		timeout:  timeout,
	}
}

func (f *Filter) Start(s filter.StreamHandle) []event.Event {
	f.Attach(s)
	f.mu.Lock()
	f.st = collectUsername
	f.mu.Unlock()

	f.timeoutTask = scheduler.After(f.timeout, f.onTimeout)

	return []event.Event{
		event.OutputEvent{Data: defaultBanner},
		event.NewPrompt(usernamePromptText),
	}
}

func (f *Filter) Stop(s filter.StreamHandle) []event.Event {
	f.cancelTimeout()
	f.Detach()
	return nil
}

// HandleInput consumes every line while the login filter is active: a
// not-yet-authenticated connection must not reach the shell or any other
// downstream filter.
func (f *Filter) HandleInput(in []event.Event) []event.Event {
	for _, e := range in {
		ie, ok := e.(event.InputEvent)
		if !ok {
			continue
		}
		f.handleLine(ie.Data)
	}
	return nil
}

func (f *Filter) HandleOutput(out []event.Event) []event.Event { return out }

func (f *Filter) handleLine(line string) {
	f.mu.Lock()
	st := f.st
	f.mu.Unlock()

	switch st {
	case collectUsername:
		f.collectUsernameLine(line)
	case collectPassword:
		f.collectPasswordLine(line)
	case awaitingAuth:
		// dropped: a line arriving while the auth request is pending is
		// not buffered and is not replayed after it resolves.
	}
}

func (f *Filter) collectUsernameLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	m := usernamePattern.FindString(line)
	if m == "" {
		f.QueueOutput(event.NewError("InputValidation", "Invalid username.\r\n"), event.NewPrompt(usernamePromptText))
		return
	}

	f.mu.Lock()
	f.username = m
	f.st = collectPassword
	f.mu.Unlock()

	f.QueueOutput(event.NewHiddenPrompt(passwordPromptText))
}

func (f *Filter) collectPasswordLine(password string) {
	f.mu.Lock()
	uname := f.username
	f.username = ""
	f.st = awaitingAuth
	f.mu.Unlock()

	req := event.LoginAuthEvent{
		Stream:   f.Stream(),
		Username: uname,
		Password: password,
		Success:  f.onSuccess,
		Failure:  f.onFailure,
	}
	f.authn.Authenticate(req)
}

func (f *Filter) onSuccess(p event.Principal) {
	f.cancelTimeout()
	f.MarkFinished()

	u, _ := p.(user.User)
	if f.onLogin != nil {
		f.onLogin(u)
	}
	f.QueueInput(event.UserLoginEvent{User: p, Stream: f.Stream()})
}

func (f *Filter) onFailure(reason string) {
	f.mu.Lock()
	f.attempts++
	attempts := f.attempts
	f.mu.Unlock()

	if attempts >= f.maxTries {
		f.cancelTimeout()
		f.MarkFinished()
		f.QueueInput(event.LoginFailureEvent{Reason: reason})
		return
	}

	f.mu.Lock()
	f.st = collectUsername
	f.username = ""
	f.mu.Unlock()

	f.QueueOutput(event.NewError("Permission", "Login incorrect.\r\n"), event.NewPrompt(usernamePromptText))
}

func (f *Filter) onTimeout() {
	f.MarkFinished()
	f.QueueInput(event.LoginFailureEvent{Reason: "timeout"})
}

func (f *Filter) cancelTimeout() {
	f.mu.Lock()
	t := f.timeoutTask
	f.timeoutTask = nil
	f.mu.Unlock()
	if t != nil {
		t.Cancel()
	}
}
