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

package conn

import (
	libval "github.com/go-playground/validator/v10"
)

var validate = libval.New()

// Validate checks the fields relevant to cfg.Kind, mirroring the
// enumerated per-kind configuration in §4.2.
func (c Config) Validate() error {
	switch c.Kind {
	case TCPClient:
		if c.Port <= 0 || c.Port > 65535 {
			return errAddress(nil)
		}
	case TCPServer:
		if c.Port <= 0 || c.Port > 65535 || c.MaxLink <= 0 {
			return errAddress(nil)
		}
	case UDPConnected:
		if c.SrcPort <= 0 || c.DstPort <= 0 || c.DstIP == "" {
			return errAddress(nil)
		}
	case UDPTo:
		if c.SrcPort <= 0 {
			return errAddress(nil)
		}
	case TTYClient:
		if c.Device == "" {
			return errAddress(nil)
		}
		if _, ok := baudRates[c.Baud]; !ok {
			return errAddress(nil)
		}
		if c.DataBits < 5 || c.DataBits > 8 {
			return errAddress(nil)
		}
		if c.StopBits != 1 && c.StopBits != 2 {
			return errAddress(nil)
		}
	}
	return nil
}

var baudRates = map[int]struct{}{
	150: {}, 300: {}, 600: {}, 1200: {}, 2400: {}, 4800: {}, 9600: {},
	19200: {}, 38400: {}, 57600: {}, 115200: {},
}
