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

// Package address parses a Tag's device-specific address string (e.g.
// "1!400001.10H" or "1!400002#BL") into a typed AddressOption once, lazily,
// and can re-render the canonical form for round-trip testing (P5). The
// original string is always kept alongside the parsed variant since the
// device-facing plugin still consumes the raw string; the variant only
// exists so the scheduler and connection layer can interpret suffix
// semantics without re-parsing on every tick.
package address

import (
	"fmt"
	"strconv"
	"strings"
)

// Endian16 is the byte order suffix for 16-bit integers ("#B"/"#L").
type Endian16 uint8

const (
	Endian16Little Endian16 = iota // default, suffix omitted or "#L"
	Endian16Big                    // "#B"
)

func (e Endian16) String() string {
	if e == Endian16Big {
		return "B"
	}
	return "L"
}

// Endian32 is the 4-byte word order suffix for 32-bit integers
// ("#BB"|"#BL"|"#LL"|"#LB").
type Endian32 uint8

const (
	Endian32LL Endian32 = iota // default
	Endian32BB
	Endian32BL
	Endian32LB
)

func (e Endian32) String() string {
	switch e {
	case Endian32BB:
		return "BB"
	case Endian32BL:
		return "BL"
	case Endian32LB:
		return "LB"
	default:
		return "LL"
	}
}

// StringSubType is the string-tag length/encoding suffix
// (".<len><H|L|D|E>").
type StringSubType uint8

const (
	StringHigh StringSubType = iota // "H", default
	StringLow                       // "L"
	StringDec                       // "D"
	StringExt                       // "E"
)

func (s StringSubType) String() string {
	switch s {
	case StringLow:
		return "L"
	case StringDec:
		return "D"
	case StringExt:
		return "E"
	default:
		return "H"
	}
}

// Kind discriminates which suffix form, if any, an address carries.
type Kind uint8

const (
	KindNone Kind = iota
	KindString
	KindU16
	KindU32
	KindBool
)

// Option is the tagged union parsed from a Tag's address suffix. The zero
// value (KindNone) means the address has no recognized suffix and should
// be consumed as-is by the device plugin.
type Option struct {
	Kind Kind

	// KindString
	StrLen     int
	StrSubType StringSubType

	// KindU16
	Endian16 Endian16

	// KindU32
	Endian32 Endian32

	// KindBool
	BitOffset int
}

// Parse splits addr at the first '.' or '#' suffix marker and decodes the
// remainder per spec §4.3. An address with no suffix marker returns
// KindNone and no error. Unknown or malformed suffixes are reported as
// errors so the caller (normally the scheduler, on first use of a tag) can
// surface a configuration fault instead of silently misreading the device.
func Parse(addr string) (Option, error) {
	i := strings.IndexAny(addr, ".#")
	if i < 0 {
		return Option{Kind: KindNone}, nil
	}

	marker := addr[i]
	suffix := addr[i+1:]

	switch marker {
	case '.':
		return parseDotSuffix(suffix)
	case '#':
		return parseHashSuffix(suffix)
	default:
		return Option{}, fmt.Errorf("address: unknown suffix marker %q", marker)
	}
}

func parseDotSuffix(suffix string) (Option, error) {
	if suffix == "" {
		return Option{}, fmt.Errorf("address: empty suffix after '.'")
	}

	// Bit offset form: all-digits => KindBool.
	if isAllDigits(suffix) {
		bit, _ := strconv.Atoi(suffix)
		return Option{Kind: KindBool, BitOffset: bit}, nil
	}

	// String form: "<len><H|L|D|E>".
	sub := suffix[len(suffix)-1]
	lenPart := suffix[:len(suffix)-1]
	n, err := strconv.Atoi(lenPart)
	if err != nil || n <= 0 {
		return Option{}, fmt.Errorf("address: string length must be > 0, got %q", lenPart)
	}

	st, err := parseStringSubType(sub)
	if err != nil {
		return Option{}, err
	}
	return Option{Kind: KindString, StrLen: n, StrSubType: st}, nil
}

func parseStringSubType(b byte) (StringSubType, error) {
	switch b {
	case 'H':
		return StringHigh, nil
	case 'L':
		return StringLow, nil
	case 'D':
		return StringDec, nil
	case 'E':
		return StringExt, nil
	default:
		return 0, fmt.Errorf("address: unknown string sub-type %q", string(b))
	}
}

func parseHashSuffix(suffix string) (Option, error) {
	switch suffix {
	case "B":
		return Option{Kind: KindU16, Endian16: Endian16Big}, nil
	case "L", "":
		return Option{Kind: KindU16, Endian16: Endian16Little}, nil
	case "BB":
		return Option{Kind: KindU32, Endian32: Endian32BB}, nil
	case "BL":
		return Option{Kind: KindU32, Endian32: Endian32BL}, nil
	case "LL":
		return Option{Kind: KindU32, Endian32: Endian32LL}, nil
	case "LB":
		return Option{Kind: KindU32, Endian32: Endian32LB}, nil
	default:
		return Option{}, fmt.Errorf("address: unknown '#' suffix %q", suffix)
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Render re-renders the canonical suffix for o, or "" for KindNone. Used by
// property tests to confirm Parse(Render(o)) reproduces o (P5).
func (o Option) Render() string {
	switch o.Kind {
	case KindString:
		return "." + strconv.Itoa(o.StrLen) + o.StrSubType.String()
	case KindU16:
		return "#" + o.Endian16.String()
	case KindU32:
		return "#" + o.Endian32.String()
	case KindBool:
		return "." + strconv.Itoa(o.BitOffset)
	default:
		return ""
	}
}
