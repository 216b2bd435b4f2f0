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

// Package reactor is the foundation of the gateway core: one background
// worker per Reactor dispatches timer ticks and fd readiness to user
// callbacks. Every other component (conn, scheduler, mqttclient) is built
// on top of a Reactor instance instead of spawning its own goroutines per
// timer or per socket.
package reactor

import "time"

// TimerMode controls whether a timer's callback may run concurrently with
// the next tick being armed.
type TimerMode uint8

const (
	// NonBlocking timers may invoke the callback concurrently with the
	// next tick arming.
	NonBlocking TimerMode = iota
	// Blocking timers arm the next tick only after the callback returns.
	Blocking
)

// IOEventKind distinguishes why an IO callback fired.
type IOEventKind uint8

const (
	Readable IOEventKind = iota
	HangUp
	PeerClosed
)

// TimerCallback is invoked on every tick. user is whatever was passed to
// AddTimer.
type TimerCallback func(user any)

// IOCallback is invoked on readiness. user is whatever was passed to AddIO.
type IOCallback func(fd int, kind IOEventKind, user any)

// TimerHandle identifies a registered timer for DelTimer.
type TimerHandle uint64

// IOHandle identifies a registered fd for DelIO.
type IOHandle uint64

// Reactor delivers timer ticks and fd readiness from a single background
// worker to user callbacks. All methods are safe for concurrent use.
type Reactor interface {
	// AddTimer arms a periodic callback. EINTERNAL is returned if the
	// underlying OS primitive cannot be created.
	AddTimer(interval time.Duration, mode TimerMode, cb TimerCallback, user any) (TimerHandle, error)

	// DelTimer disarms a timer. It is idempotent and synchronous: no
	// further invocation of cb begins after DelTimer returns, though an
	// already-in-flight callback is allowed to finish (P6).
	DelTimer(h TimerHandle) error

	// AddIO registers fd for readiness notification. fd must be a raw,
	// already non-blocking-capable file descriptor.
	AddIO(fd int, cb IOCallback, user any) (IOHandle, error)

	// DelIO unregisters fd.
	DelIO(h IOHandle) error

	// Close stops the worker, drains pending events, and frees all
	// handles owned by this Reactor. Close is idempotent.
	Close() error
}
