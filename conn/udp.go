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

	"golang.org/x/sys/unix"
)

// NewUDPConnected builds a udp_connected connection: a fixed peer pair
// with SO_BROADCAST enabled, using the ordinary Conn send/recv surface.
func NewUDPConnected(cfg Config, userData any, onConn ConnectedFunc, onDisc DisconnectedFunc) (Conn, error) {
	cfg.Kind = UDPConnected
	return newStreamConn(UDPConnected, dialUDPConnected, cfg, userData, onConn, onDisc), nil
}

func dialUDPConnected(cfg Config) (net.Conn, error) {
	laddr := &net.UDPAddr{IP: net.ParseIP(cfg.SrcIP), Port: cfg.SrcPort}
	raddr := &net.UDPAddr{IP: net.ParseIP(cfg.DstIP), Port: cfg.DstPort}

	conn, err := net.DialUDP("udp", laddr, raddr)
	if err != nil {
		return nil, err
	}

	if rc, err := conn.SyscallConn(); err == nil {
		_ = rc.Control(func(fd uintptr) {
			_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
		})
	}
	return conn, nil
}

// UDPToConn implements the udp_to kind: a socket bound to a local address
// whose destination is supplied per send (udp_sendto/udp_recvfrom).
type UDPToConn struct {
	mu   sync.Mutex
	cfg  Config
	pc   *net.UDPConn
	scr  *scratch
	send atomic.Uint64
	recv atomic.Uint64
}

// NewUDPTo builds a udp_to connection bound to {SrcIP, SrcPort}.
func NewUDPTo(cfg Config) (*UDPToConn, error) {
	cfg.Kind = UDPTo
	return &UDPToConn{cfg: cfg, scr: newScratch()}, nil
}

func (u *UDPToConn) ensureBound() error {
	if u.pc != nil {
		return nil
	}
	laddr := &net.UDPAddr{IP: net.ParseIP(u.cfg.SrcIP), Port: u.cfg.SrcPort}
	pc, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return errAddress(err)
	}
	u.pc = pc
	return nil
}

// SendTo writes buf to dstIP:dstPort, lazily binding the local socket.
func (u *UDPToConn) SendTo(buf []byte, dstIP string, dstPort int) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.ensureBound(); err != nil {
		return 0, err
	}
	if u.cfg.blocking() {
		_ = u.pc.SetWriteDeadline(time.Now().Add(u.cfg.timeout()))
	}
	n, err := u.pc.WriteToUDP(buf, &net.UDPAddr{IP: net.ParseIP(dstIP), Port: dstPort})
	if err != nil {
		return n, errConnection(err)
	}
	u.send.Add(uint64(n))
	return n, nil
}

// RecvFrom reads one datagram, reporting the sender's address.
func (u *UDPToConn) RecvFrom(buf []byte) (n int, srcIP string, srcPort int, err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if e := u.ensureBound(); e != nil {
		return 0, "", 0, e
	}
	if u.cfg.blocking() {
		_ = u.pc.SetReadDeadline(time.Now().Add(u.cfg.timeout()))
	}
	n, addr, e := u.pc.ReadFromUDP(buf)
	if e != nil {
		return n, "", 0, errConnection(e)
	}
	u.recv.Add(uint64(n))
	return n, addr.IP.String(), addr.Port, nil
}

func (u *UDPToConn) State() State {
	return State{SendBytes: u.send.Load(), RecvBytes: u.recv.Load()}
}

func (u *UDPToConn) Destroy() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.pc == nil {
		return nil
	}
	err := u.pc.Close()
	u.pc = nil
	return err
}
