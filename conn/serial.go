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
	"sync"
	"sync/atomic"
	"time"
)

// TTYConn implements the tty_client kind: a POSIX serial line with
// canonical mode disabled, raw 8-bit framing, and optional RS-485
// direction control. Termios wiring itself is platform-specific (see
// serial_linux.go / serial_other.go).
type TTYConn struct {
	mu        sync.Mutex
	cfg       Config
	port      ttyPort
	connected bool

	userData     any
	onConnected  ConnectedFunc
	onDisconnect DisconnectedFunc

	sendBytes atomic.Uint64
	recvBytes atomic.Uint64
	scr       *scratch
}

// ttyPort is the platform hook opening and configuring the device file.
type ttyPort interface {
	open(cfg Config) error
	close() error
	read(buf []byte) (int, error)
	write(buf []byte) (int, error)
}

// NewTTYClient builds a tty_client connection for the given device.
func NewTTYClient(cfg Config, userData any, onConn ConnectedFunc, onDisc DisconnectedFunc) (*TTYConn, error) {
	cfg.Kind = TTYClient
	return &TTYConn{
		cfg:          cfg,
		port:         newTTYPort(),
		userData:     userData,
		onConnected:  onConn,
		onDisconnect: onDisc,
		scr:          newScratch(),
	}, nil
}

func (t *TTYConn) Kind() Kind { return TTYClient }

func (t *TTYConn) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sendBytes.Store(0)
	t.recvBytes.Store(0)
	return nil
}

func (t *TTYConn) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disconnectLocked()
}

func (t *TTYConn) Destroy() error { return t.Stop() }

func (t *TTYConn) Reconfig(cfg Config) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.disconnectLocked()
	t.cfg = cfg
	t.sendBytes.Store(0)
	t.recvBytes.Store(0)
	t.scr.reset()
	return nil
}

func (t *TTYConn) connectLocked() error {
	if t.connected {
		return nil
	}
	if err := t.port.open(t.cfg); err != nil {
		return errConnection(err)
	}
	t.connected = true
	return nil
}

func (t *TTYConn) disconnectLocked() error {
	if !t.connected {
		return nil
	}
	t.connected = false
	err := t.port.close()
	if t.onDisconnect != nil {
		t.onDisconnect(t.userData, err)
	}
	if err != nil {
		return errConnection(err)
	}
	return nil
}

func (t *TTYConn) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

func (t *TTYConn) State() State {
	return State{SendBytes: t.sendBytes.Load(), RecvBytes: t.recvBytes.Load()}
}

func (t *TTYConn) Send(buf []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	firstConnect := !t.connected
	if err := t.connectLocked(); err != nil {
		return 0, err
	}

	total := 0
	for retry := 0; total < len(buf); retry++ {
		n, err := t.port.write(buf[total:])
		total += n
		if err != nil {
			_ = t.disconnectLocked()
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

	t.sendBytes.Add(uint64(total))
	if firstConnect && total > 0 && t.onConnected != nil {
		t.onConnected(t.userData)
	}
	return total, nil
}

func (t *TTYConn) Recv(buf []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return 0, errClosed()
	}
	n, err := t.port.read(buf)
	if err != nil {
		_ = t.disconnectLocked()
		return n, errConnection(err)
	}
	t.recvBytes.Add(uint64(n))
	return n, nil
}

func (t *TTYConn) StreamConsume(framer FramerFunc) error {
	tmp := make([]byte, 512)
	for {
		n, err := t.Recv(tmp)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if err := t.scr.append(tmp[:n]); err != nil {
			return err
		}
		for {
			used := framer(t.scr.data())
			if used == 0 {
				break
			}
			if used < 0 {
				t.mu.Lock()
				_ = t.disconnectLocked()
				t.mu.Unlock()
				return errProtocol()
			}
			t.scr.consume(used)
		}
	}
}

func (t *TTYConn) WaitMsg(minBytes int, framer WaitMsgFunc) error {
	need := minBytes
	for need > 0 {
		tmp := make([]byte, need)
		n, err := t.Recv(tmp)
		if err != nil {
			return err
		}
		if err := t.scr.append(tmp[:n]); err != nil {
			return err
		}
		used, nextNeed := framer(t.scr.data())
		if used < 0 || nextNeed < 0 {
			t.mu.Lock()
			_ = t.disconnectLocked()
			t.mu.Unlock()
			return errProtocol()
		}
		t.scr.consume(used)
		need = nextNeed
	}
	return nil
}
