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

// Package user models the authenticated principal and its account-type
// ladder, used by the shell's restriction-level gating (§4.6) and carried
// on login/logout control events via event.Principal.
package user

// AccountType ranks a user's privilege level. Higher values can do
// everything a lower value can.
type AccountType uint8

const (
	Guest AccountType = iota
	Player
	Builder
	Implementor
	Admin
)

func (a AccountType) String() string {
	switch a {
	case Guest:
		return "guest"
	case Player:
		return "player"
	case Builder:
		return "builder"
	case Implementor:
		return "implementor"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// Allows reports whether this account type meets or exceeds the given
// restriction level required by a command.
func (a AccountType) Allows(required AccountType) bool {
	return a >= required
}

// User is the authenticated principal attached to a stream after a
// successful login.
type User struct {
	Name    string
	Account AccountType
}

func (u User) Username() string { return u.Name }

func New(name string, account AccountType) User {
	return User{Name: name, Account: account}
}
