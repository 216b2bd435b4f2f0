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
	"sync"
	"sync/atomic"
	"time"

	"github.com/emqx/neuron-sub004/gwlog"
)

// StartListenFunc/StopListenFunc bracket the server's accept loop.
type StartListenFunc func()
type StopListenFunc func()

type serverSlot struct {
	fd       int
	conn     net.Conn
	acceptAt time.Time
}

// TCPServer implements the tcp_server kind: a listener plus a fixed-
// capacity connection table (§4.2). When a new client arrives and the
// table is full, the oldest slot is evicted — its fd closed and replaced
// — and a warning is logged (Open Question #2: "oldest", not "first live
// slot").
type TCPServer struct {
	log gwlog.Logger
	cfg Config

	mu       sync.Mutex
	ln       net.Listener
	slots    []*serverSlot // ordered oldest-first
	byFD     map[int]*serverSlot
	nextFD   int32
	stopping bool
	wg       sync.WaitGroup

	onStart StartListenFunc
	onStop  StopListenFunc
}

// NewTCPServer builds a tcp_server bound to cfg.IP:cfg.Port with room for
// cfg.MaxLink simultaneous clients.
func NewTCPServer(cfg Config, log gwlog.Logger, onStart StartListenFunc, onStop StopListenFunc) *TCPServer {
	if log == nil {
		log = gwlog.Discard()
	}
	if cfg.MaxLink <= 0 {
		cfg.MaxLink = 1
	}
	cfg.Kind = TCPServer
	return &TCPServer{
		log:     log,
		cfg:     cfg,
		byFD:    make(map[int]*serverSlot),
		onStart: onStart,
		onStop:  onStop,
	}
}

// Start opens the listener and begins accepting in a background goroutine.
func (s *TCPServer) Start() error {
	addr := net.JoinHostPort(s.cfg.IP, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errAddress(err)
	}

	s.mu.Lock()
	s.ln = ln
	s.stopping = false
	s.mu.Unlock()

	if s.onStart != nil {
		s.onStart()
	}

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *TCPServer) acceptLoop() {
	defer s.wg.Done()
	for {
		c, err := s.ln.Accept()
		if err != nil {
			s.mu.Lock()
			stopping := s.stopping
			s.mu.Unlock()
			if stopping {
				return
			}
			s.log.WithField("error", err).Warn("tcp server accept failed")
			return
		}
		s.admit(c)
	}
}

// admit registers a newly accepted connection, evicting the oldest slot
// if the table is already at cfg.MaxLink capacity.
func (s *TCPServer) admit(c net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.slots) >= s.cfg.MaxLink {
		oldest := s.slots[0]
		s.slots = s.slots[1:]
		delete(s.byFD, oldest.fd)
		s.log.WithFields(gwlog.Fields{"fd": oldest.fd}).Warn("tcp server connection table full, evicting oldest client")
		_ = oldest.conn.Close()
	}

	fd := int(atomic.AddInt32(&s.nextFD, 1))
	slot := &serverSlot{fd: fd, conn: c, acceptAt: time.Now()}
	s.slots = append(s.slots, slot)
	s.byFD[fd] = slot
}

// Stop closes the listener and every client slot.
func (s *TCPServer) Stop() error {
	s.mu.Lock()
	s.stopping = true
	ln := s.ln
	slots := s.slots
	s.slots = nil
	s.byFD = make(map[int]*serverSlot)
	s.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	for _, sl := range slots {
		_ = sl.conn.Close()
	}
	s.wg.Wait()

	if s.onStop != nil {
		s.onStop()
	}
	return err
}

// Send writes buf to the client identified by fd.
func (s *TCPServer) Send(fd int, buf []byte) (int, error) {
	s.mu.Lock()
	slot, ok := s.byFD[fd]
	s.mu.Unlock()
	if !ok {
		return 0, errInstance()
	}
	n, err := slot.conn.Write(buf)
	if err != nil {
		return n, errConnection(err)
	}
	return n, nil
}

// Recv reads from the client identified by fd.
func (s *TCPServer) Recv(fd int, buf []byte) (int, error) {
	s.mu.Lock()
	slot, ok := s.byFD[fd]
	s.mu.Unlock()
	if !ok {
		return 0, errInstance()
	}
	n, err := slot.conn.Read(buf)
	if err != nil {
		return n, errConnection(err)
	}
	return n, nil
}

// CloseClient forcibly disconnects one client, removing its slot.
func (s *TCPServer) CloseClient(fd int) error {
	s.mu.Lock()
	slot, ok := s.byFD[fd]
	if ok {
		delete(s.byFD, fd)
		for i, sl := range s.slots {
			if sl.fd == fd {
				s.slots = append(s.slots[:i], s.slots[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return slot.conn.Close()
}

// ClientFDs returns the currently connected client fds, oldest first.
func (s *TCPServer) ClientFDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.slots))
	for i, sl := range s.slots {
		out[i] = sl.fd
	}
	return out
}
