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
	"net"
	"strconv"
)

// NewTCPClient builds a tcp_client connection. Block-mode is implied by
// cfg.TimeoutMS > 0; IPv4/IPv6 are both supported via net.Dial's address
// resolution.
func NewTCPClient(cfg Config, userData any, onConn ConnectedFunc, onDisc DisconnectedFunc) (Conn, error) {
	cfg.Kind = TCPClient
	if cfg.Port <= 0 {
		return nil, errAddress(nil)
	}
	return newStreamConn(TCPClient, dialTCP, cfg, userData, onConn, onDisc), nil
}

func dialTCP(cfg Config) (net.Conn, error) {
	addr := net.JoinHostPort(cfg.IP, strconv.Itoa(cfg.Port))
	if cfg.blocking() {
		return net.DialTimeout("tcp", addr, cfg.timeout())
	}
	return net.Dial("tcp", addr)
}
