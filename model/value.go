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
	"fmt"

	"github.com/emqx/neuron-sub004/errs"
)

// ValueType discriminates the Value tagged union.
type ValueType uint8

const (
	TypeI8 ValueType = iota
	TypeU8
	TypeI16
	TypeU16
	TypeI32
	TypeU32
	TypeI64
	TypeU64
	TypeF32
	TypeF64
	TypeBool
	TypeString
	TypeBytes
	TypeArray
	TypeError
)

// Value is the tagged union a tag reading carries: exactly one of the
// typed fields below is meaningful, selected by Type. TypeError means the
// read failed; Err holds the errno-like code and Raw/Array are unused.
type Value struct {
	Type ValueType

	I64 int64   // backs I8/U8/I16/U16/I32/U32/I64/U64 (sign-extended/zero-extended as appropriate)
	F64 float64 // backs F32/F64
	B   bool
	Str string
	Raw []byte
	Arr []Value

	Err errs.Code
}

// NewError builds a TypeError Value from a code.
func NewError(c errs.Code) Value { return Value{Type: TypeError, Err: c} }

// NewBool builds a TypeBool Value.
func NewBool(v bool) Value { return Value{Type: TypeBool, B: v} }

// NewString builds a TypeString Value.
func NewString(v string) Value { return Value{Type: TypeString, Str: v} }

// NewBytes builds a TypeBytes Value.
func NewBytes(v []byte) Value { return Value{Type: TypeBytes, Raw: v} }

// NewInt builds an integer Value of the given type from an int64.
func NewInt(t ValueType, v int64) Value { return Value{Type: t, I64: v} }

// NewFloat builds a float Value (F32 or F64) from a float64.
func NewFloat(t ValueType, v float64) Value { return Value{Type: t, F64: v} }

// NewArray builds a TypeArray Value.
func NewArray(items []Value) Value { return Value{Type: TypeArray, Arr: items} }

// IsError reports whether this reading is a per-tag device error (§4.3: a
// read failure surfaces per-tag, the tick itself is not suspended).
func (v Value) IsError() bool { return v.Type == TypeError }

func (v Value) String() string {
	switch v.Type {
	case TypeError:
		return fmt.Sprintf("error(%d)", int32(v.Err))
	case TypeBool:
		return fmt.Sprintf("%v", v.B)
	case TypeString:
		return v.Str
	case TypeBytes:
		return fmt.Sprintf("bytes[%d]", len(v.Raw))
	case TypeF32, TypeF64:
		return fmt.Sprintf("%v", v.F64)
	case TypeArray:
		return fmt.Sprintf("array[%d]", len(v.Arr))
	default:
		return fmt.Sprintf("%v", v.I64)
	}
}

// Plain renders v as a JSON-friendly value: the typed union collapses to
// whichever Go type encoding/json already knows how to marshal, and a
// TypeError reading becomes its negative/positive errs.Code so northbound
// consumers (e.g. the MQTT publish payload) see the same error-code space
// as the rest of the API (§6).
func (v Value) Plain() any {
	switch v.Type {
	case TypeError:
		return int32(v.Err)
	case TypeBool:
		return v.B
	case TypeString:
		return v.Str
	case TypeBytes:
		return v.Raw
	case TypeF32, TypeF64:
		return v.F64
	case TypeArray:
		out := make([]any, len(v.Arr))
		for i, e := range v.Arr {
			out[i] = e.Plain()
		}
		return out
	default:
		return v.I64
	}
}

// Reading is a short-lived per-tag result produced on each poll cycle:
// created by the scheduler, consumed by fan-out subscribers, then dropped.
type Reading struct {
	TagID       TagID
	TagName     string
	TimestampMS int64
	Value       Value
}
