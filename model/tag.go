/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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
 *
 *
 */

package model

import (
	"sync"

	"github.com/emqx/neuron-sub004/address"
)

// Attribute is one bit of a Tag's attribute_set.
type Attribute uint8

const (
	AttrRead Attribute = 1 << iota
	AttrWrite
	AttrSubscribe
)

// AttributeSet is the bitwise-OR of Attribute flags a Tag supports.
type AttributeSet uint8

func (s AttributeSet) Has(a Attribute) bool { return s&AttributeSet(a) != 0 }
func (s AttributeSet) Empty() bool          { return s == 0 }

// Tag is a readable/writable point within a Group.
type Tag struct {
	ID        TagID
	Name      string
	Address   string
	Type      ValueType
	Attribute AttributeSet

	once    sync.Once
	opt     address.Option
	optErr  error
}

// Validate enforces I3 (non-empty attribute_set) and that the address
// string is non-empty; suffix parsing itself is deferred (lazy, per
// §4.3) until the scheduler's first tick for this tag.
func (t *Tag) Validate() error {
	if t.Name == "" {
		return errParamWrong("tag name must not be empty")
	}
	if t.Address == "" {
		return errParamWrong("tag address must not be empty")
	}
	if t.Attribute.Empty() {
		return errTagAttributeEmpty()
	}
	return nil
}

// AddressOption lazily parses Address on first call and memoizes the
// result (and any parse error) for the lifetime of the Tag.
func (t *Tag) AddressOption() (address.Option, error) {
	t.once.Do(func() {
		t.opt, t.optErr = address.Parse(t.Address)
	})
	return t.opt, t.optErr
}
