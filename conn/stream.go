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
	"sync"
	"sync/atomic"
	"time"
)

// dialFunc opens the underlying net.Conn for a streamConn's kind.
type dialFunc func(cfg Config) (net.Conn, error)

// streamConn implements Conn for the dial-based kinds: tcp_client and
// udp_connected. Both share lazy-connect, auto-reconnect, short-write
// retry, and the stream_consume/wait_msg framing surface.
type streamConn struct {
	kind Kind
	dial dialFunc

	mu        sync.Mutex
	cfg       Config
	nc        net.Conn
	connected bool
	started   bool

	userData     any
	onConnected  ConnectedFunc
	onDisconnect DisconnectedFunc

	sendBytes atomic.Uint64
	recvBytes atomic.Uint64

	scr *scratch
}

func newStreamConn(kind Kind, dial dialFunc, cfg Config, userData any, onConn ConnectedFunc, onDisc DisconnectedFunc) *streamConn {
	return &streamConn{
		kind:         kind,
		dial:         dial,
		cfg:          cfg,
		userData:     userData,
		onConnected:  onConn,
		onDisconnect: onDisc,
		scr:          newScratch(),
	}
}

func (c *streamConn) Kind() Kind { return c.kind }

func (c *streamConn) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = true
	c.sendBytes.Store(0)
	c.recvBytes.Store(0)
	return nil
}

func (c *streamConn) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = false
	return c.disconnectLocked(nil)
}

func (c *streamConn) Reconfig(cfg Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// P7 / Open Question #4: abort any active transport and rebuild with
	// the new parameters, preserving user_data and callbacks.
	_ = c.disconnectLocked(nil)
	c.cfg = cfg
	c.sendBytes.Store(0)
	c.recvBytes.Store(0)
	c.scr.reset()
	return nil
}

func (c *streamConn) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = false
	return c.disconnectLocked(nil)
}

func (c *streamConn) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *streamConn) State() State {
	return State{SendBytes: c.sendBytes.Load(), RecvBytes: c.recvBytes.Load()}
}

// connectLocked lazily dials if not already connected. Caller holds c.mu.
func (c *streamConn) connectLocked() error {
	if c.connected {
		return nil
	}
	nc, err := c.dial(c.cfg)
	if err != nil {
		return errConnection(err)
	}
	c.nc = nc
	c.connected = true
	return nil
}

// disconnectLocked tears down the live transport and fires the
// disconnected callback if it was connected. Caller holds c.mu.
func (c *streamConn) disconnectLocked(cause error) error {
	if !c.connected {
		return nil
	}
	c.connected = false
	err := c.nc.Close()
	c.nc = nil
	if c.onDisconnect != nil {
		c.onDisconnect(c.userData, cause)
	}
	if err != nil {
		return errConnection(err)
	}
	return nil
}

const (
	shortWriteMaxRetry = 10
	shortWriteBackoff  = 50 * time.Millisecond
)

func (c *streamConn) Send(buf []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	firstConnect := !c.connected
	if err := c.connectLocked(); err != nil {
		return 0, err
	}
	if c.cfg.blocking() {
		_ = c.nc.SetWriteDeadline(time.Now().Add(c.cfg.timeout()))
	} else {
		_ = c.nc.SetWriteDeadline(time.Time{})
	}

	total := 0
	for retry := 0; total < len(buf); retry++ {
		n, err := c.nc.Write(buf[total:])
		total += n
		if err != nil {
			_ = c.disconnectLocked(err)
			return total, errConnection(err)
		}
		if total == len(buf) {
			break
		}
		if retry >= shortWriteMaxRetry {
			return total, errShortWrite()
		}
		time.Sleep(shortWriteBackoff)
	}

	c.sendBytes.Add(uint64(total))
	if firstConnect && total > 0 && c.onConnected != nil {
		c.onConnected(c.userData)
	}
	return total, nil
}

func (c *streamConn) Recv(buf []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return 0, errClosed()
	}
	if c.cfg.blocking() {
		_ = c.nc.SetReadDeadline(time.Now().Add(c.cfg.timeout()))
	} else {
		_ = c.nc.SetReadDeadline(time.Time{})
	}

	n, err := c.nc.Read(buf)
	if err != nil {
		_ = c.disconnectLocked(err)
		return n, errConnection(err)
	}
	c.recvBytes.Add(uint64(n))
	return n, nil
}

func (c *streamConn) StreamConsume(framer FramerFunc) error {
	tmp := make([]byte, 4096)
	for {
		n, err := c.Recv(tmp)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if err := c.scr.append(tmp[:n]); err != nil {
			return err
		}
		for {
			used := framer(c.scr.data())
			if used == 0 {
				break
			}
			if used < 0 {
				c.mu.Lock()
				_ = c.disconnectLocked(nil)
				c.mu.Unlock()
				return errProtocol()
			}
			c.scr.consume(used)
		}
	}
}

func (c *streamConn) WaitMsg(minBytes int, framer WaitMsgFunc) error {
	need := minBytes
	for need > 0 {
		tmp := make([]byte, need)
		n, err := c.Recv(tmp)
		if err != nil {
			return err
		}
		if err := c.scr.append(tmp[:n]); err != nil {
			return err
		}
		used, nextNeed := framer(c.scr.data())
		if used < 0 || nextNeed < 0 {
			c.mu.Lock()
			_ = c.disconnectLocked(nil)
			c.mu.Unlock()
			return errProtocol()
		}
		c.scr.consume(used)
		need = nextNeed
	}
	return nil
}
