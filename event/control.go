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

package event

// Principal is the narrow view of a user a control event needs to carry.
// Defined here (rather than imported from the user package) to keep event a
// leaf package with no dependency on anything above it in the import graph.
type Principal interface {
	Username() string
}

// StreamRef is the narrow view of an event stream a control event needs.
type StreamRef interface {
	StreamID() string
}

// UserLoginEvent is emitted by the login filter on successful authentication.
type UserLoginEvent struct {
	User   Principal
	Stream StreamRef
}

func (UserLoginEvent) Direction() Direction { return Control }

// UserLogoutEvent is emitted when a stream's connection filter tears down.
type UserLogoutEvent struct {
	User   Principal
	Stream StreamRef
}

func (UserLogoutEvent) Direction() Direction { return Control }

// LoginAuthEvent is the request the login filter hands to the external
// Authenticator collaborator (§6).
type LoginAuthEvent struct {
	Stream   StreamRef
	Username string
	Password string
	Success  func(Principal)
	Failure  func(reason string)
}

func (LoginAuthEvent) Direction() Direction { return Control }

// LoginFailureEvent finalizes a login filter: either retries were exhausted
// or the timeout fired.
type LoginFailureEvent struct {
	Reason string
}

func (LoginFailureEvent) Direction() Direction { return Control }

// ListenerCleanupEvent signals that a stream's owning connection has been
// torn down and any listener-side bookkeeping should be released.
type ListenerCleanupEvent struct {
	Stream StreamRef
	Reason string
}

func (ListenerCleanupEvent) Direction() Direction { return Control }

// CallbackEvent carries a deferred nullary callback to be invoked by the
// stream once it is safe to do so (used by the questionnaire's blocking
// restart protocol to re-enter the stream from an external goroutine).
type CallbackEvent struct {
	Fn func()
}

func (CallbackEvent) Direction() Direction { return Control }
