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

// Package conn implements the gateway's uniform transport abstraction: TCP
// client/server, UDP connected/to, and TTY serial, all sharing lazy
// connect, auto-reconnect, and streaming-framing semantics on top of a
// single recv scratch buffer per connection.
package conn

import "time"

// Kind enumerates the closed set of supported transport kinds.
type Kind uint8

const (
	TCPClient Kind = iota
	TCPServer
	UDPConnected
	UDPTo
	TTYClient
)

// InitialScratch is the recv buffer's starting capacity (§4.2).
const InitialScratch = 2 * 1024

// ConnectedFunc is invoked exactly once per successful (re)connect.
type ConnectedFunc func(userData any)

// DisconnectedFunc is invoked on every transition to disconnected.
type DisconnectedFunc func(userData any, cause error)

// FramerFunc is the stream_consume callback: given the accumulated bytes
// it returns the count consumed (>=1), 0 to wait for more data, or -1 to
// force a disconnect.
type FramerFunc func(buf []byte) int

// WaitMsgFunc is the wait_msg callback: given the accumulated bytes it
// returns how many were used and how many more are needed (0 = done,
// -1 = force disconnect).
type WaitMsgFunc func(buf []byte) (used int, need int)

// State reports the send/recv byte counters since the last start/reconfig.
type State struct {
	SendBytes uint64
	RecvBytes uint64
}

// Conn is the uniform surface shared by all non-server transport kinds.
type Conn interface {
	Kind() Kind

	// Start enables I/O and zeroes the byte counters.
	Start() error
	// Stop disables I/O without destroying the connection.
	Stop() error
	// Reconfig atomically tears down and rebuilds the transport with new
	// parameters, preserving user_data and callbacks (P7).
	Reconfig(cfg Config) error
	// Destroy releases all resources; the Conn is unusable afterward.
	Destroy() error

	// Send lazily connects on first call. A short non-blocking write is
	// retried up to 10 times with ~50ms back-off before being surfaced.
	Send(buf []byte) (int, error)
	Recv(buf []byte) (int, error)

	// StreamConsume appends newly read bytes into the recv scratch and
	// repeatedly invokes framer over the accumulated buffer, compacting
	// after each consumed frame.
	StreamConsume(framer FramerFunc) error
	// WaitMsg is the blocking request/response form: it issues reads of
	// framer's requested size until framer reports need == 0 or -1.
	WaitMsg(minBytes int, framer WaitMsgFunc) error

	State() State
	IsConnected() bool
}

// Config carries the per-kind parameters named in §4.2. Only the fields
// relevant to Kind are consulted; others are ignored.
type Config struct {
	Kind Kind

	IP        string
	Port      int
	TimeoutMS int

	MaxLink int

	SrcIP   string
	SrcPort int
	DstIP   string
	DstPort int

	Device   string
	Baud     int
	DataBits int
	Parity   Parity
	StopBits int
	Flow     FlowControl
	RS485    bool
}

// Parity enumerates serial parity modes.
type Parity uint8

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
	ParityMark
	ParitySpace
)

// FlowControl enumerates serial flow-control modes.
type FlowControl uint8

const (
	FlowOff FlowControl = iota
	FlowOn
)

func (c Config) timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func (c Config) blocking() bool {
	return c.TimeoutMS > 0
}
