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

package user_test

import (
	"testing"

	"github.com/nabbar/mues/user"
)

func TestAccountTypeLadder(t *testing.T) {
	if !user.Admin.Allows(user.Guest) {
		t.Fatal("Admin must allow Guest-level commands")
	}
	if user.Guest.Allows(user.Player) {
		t.Fatal("Guest must not allow Player-level commands")
	}
	if !user.Builder.Allows(user.Builder) {
		t.Fatal("exact match must be allowed")
	}
}

func TestAccountTypeString(t *testing.T) {
	want := map[user.AccountType]string{
		user.Guest:       "guest",
		user.Player:      "player",
		user.Builder:     "builder",
		user.Implementor: "implementor",
		user.Admin:       "admin",
	}
	for a, s := range want {
		if got := a.String(); got != s {
			t.Fatalf("AccountType(%d).String() = %q, want %q", a, got, s)
		}
	}
}

func TestNewUserSatisfiesUsername(t *testing.T) {
	u := user.New("wizard", user.Implementor)
	if u.Username() != "wizard" {
		t.Fatalf("Username() = %q, want wizard", u.Username())
	}
}
