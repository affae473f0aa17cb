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

package shell_test

import (
	"github.com/nabbar/mues/command"
	"github.com/nabbar/mues/shell"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Table", func() {
	var tbl *shell.Table

	BeforeEach(func() {
		tbl = shell.NewTable()
	})

	Describe("Add and Get", func() {
		It("registers a command under its own name", func() {
			tbl.Add("", command.New("look", "look around", nil))

			c, found := tbl.Get("look")
			Expect(found).To(BeTrue())
			Expect(c.Name()).To(Equal("look"))
		})

		It("registers a command with a prefix", func() {
			tbl.Add("sys:", command.New("info", "system info", nil))

			c, found := tbl.Get("sys:info")
			Expect(found).To(BeTrue())
			Expect(c.Name()).To(Equal("info"))
		})

		It("registers every declared synonym", func() {
			tbl.Add("", command.NewWithMeta("look", "look around", "", 0, []string{"l", "examine"}, nil))

			_, found := tbl.Get("l")
			Expect(found).To(BeTrue())
			_, found = tbl.Get("examine")
			Expect(found).To(BeTrue())
		})
	})

	Describe("Resolve (abbreviation lookup)", func() {
		BeforeEach(func() {
			tbl.Add("", command.New("look", "look around", nil))
			tbl.Add("", command.New("listen", "listen carefully", nil))
			tbl.Add("", command.New("inventory", "show inventory", nil))
		})

		It("resolves an exact match first", func() {
			c, _, ok := tbl.Resolve("look")
			Expect(ok).To(BeTrue())
			Expect(c.Name()).To(Equal("look"))
		})

		It("resolves an unambiguous abbreviation", func() {
			c, _, ok := tbl.Resolve("inv")
			Expect(ok).To(BeTrue())
			Expect(c.Name()).To(Equal("inventory"))
		})

		It("reports ambiguity when multiple commands share a prefix", func() {
			_, matches, ok := tbl.Resolve("l")
			Expect(ok).To(BeTrue())
			Expect(matches).To(ContainElements("look", "listen"))
		})

		It("reports no match for an unknown prefix", func() {
			_, _, ok := tbl.Resolve("zzz")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Walk", func() {
		It("visits every registered command in name order", func() {
			tbl.Add("", command.New("b", "b", nil))
			tbl.Add("", command.New("a", "a", nil))

			var seen []string
			tbl.Walk(func(name string, item command.Command) bool {
				seen = append(seen, name)
				return true
			})
			Expect(seen).To(Equal([]string{"a", "b"}))
		})

		It("stops early when fn returns false", func() {
			tbl.Add("", command.New("a", "a", nil))
			tbl.Add("", command.New("b", "b", nil))

			count := 0
			tbl.Walk(func(name string, item command.Command) bool {
				count++
				return false
			})
			Expect(count).To(Equal(1))
		})
	})
})
