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

package reactor

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/emqx/neuron-sub004/gwlog"
)

type ioReg struct {
	fd   int
	cb   IOCallback
	user any
}

type reactor struct {
	log gwlog.Logger
	p   poller

	mu      sync.Mutex
	timers  map[TimerHandle]*timer
	ios     map[IOHandle]*ioReg
	byFD    map[int]IOHandle
	nextTH  uint64
	nextIOH uint64

	closed   atomic.Bool
	closeCh  chan struct{}
	workerWG sync.WaitGroup
}

// New starts a Reactor backed by the OS-native readiness poller (epoll on
// Linux, kqueue on BSD/Darwin) and a single dispatch worker.
func New(log gwlog.Logger) (Reactor, error) {
	if log == nil {
		log = gwlog.Discard()
	}
	p, err := newPoller()
	if err != nil {
		return nil, errInternal(err)
	}
	r := &reactor{
		log:     log,
		p:       p,
		timers:  make(map[TimerHandle]*timer),
		ios:     make(map[IOHandle]*ioReg),
		byFD:    make(map[int]IOHandle),
		closeCh: make(chan struct{}),
	}
	r.workerWG.Add(1)
	go r.worker()
	return r, nil
}

func (r *reactor) AddTimer(interval time.Duration, mode TimerMode, cb TimerCallback, user any) (TimerHandle, error) {
	if r.closed.Load() {
		return 0, errClosed()
	}
	t := newTimer(interval, mode, cb, user)

	r.mu.Lock()
	r.nextTH++
	h := TimerHandle(r.nextTH)
	r.timers[h] = t
	r.mu.Unlock()

	go t.run()
	return h, nil
}

func (r *reactor) DelTimer(h TimerHandle) error {
	r.mu.Lock()
	t, ok := r.timers[h]
	if ok {
		delete(r.timers, h)
	}
	r.mu.Unlock()

	if !ok {
		return nil
	}
	t.del()
	return nil
}

func (r *reactor) AddIO(fd int, cb IOCallback, user any) (IOHandle, error) {
	if r.closed.Load() {
		return 0, errClosed()
	}
	if err := r.p.add(fd); err != nil {
		return 0, errInternal(err)
	}

	r.mu.Lock()
	r.nextIOH++
	h := IOHandle(r.nextIOH)
	r.ios[h] = &ioReg{fd: fd, cb: cb, user: user}
	r.byFD[fd] = h
	r.mu.Unlock()

	return h, nil
}

func (r *reactor) DelIO(h IOHandle) error {
	r.mu.Lock()
	reg, ok := r.ios[h]
	if ok {
		delete(r.ios, h)
		delete(r.byFD, reg.fd)
	}
	r.mu.Unlock()

	if !ok {
		return nil
	}
	if err := r.p.del(reg.fd); err != nil {
		return errInternal(err)
	}
	return nil
}

func (r *reactor) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(r.closeCh)
	r.workerWG.Wait()

	r.mu.Lock()
	timers := make([]*timer, 0, len(r.timers))
	for h, t := range r.timers {
		timers = append(timers, t)
		delete(r.timers, h)
	}
	r.mu.Unlock()
	for _, t := range timers {
		t.del()
	}

	return r.p.close()
}

// worker is the single goroutine per spec §4.1: it blocks on readiness for
// up to 1s per iteration (the poller backends enforce that timeout and
// retry on EINTR internally), dispatches per-event, and checks the
// shutdown flag between iterations.
func (r *reactor) worker() {
	defer r.workerWG.Done()
	for {
		select {
		case <-r.closeCh:
			return
		default:
		}

		ready, err := r.p.wait()
		if err != nil {
			r.log.WithField("error", err).Error("reactor poll failed")
			return
		}
		for _, rd := range ready {
			r.dispatch(rd)
		}
	}
}

func (r *reactor) dispatch(rd readyFD) {
	r.mu.Lock()
	h, ok := r.byFD[rd.fd]
	var reg *ioReg
	if ok {
		reg = r.ios[h]
	}
	r.mu.Unlock()

	if reg == nil {
		return
	}
	reg.cb(rd.fd, rd.kind, reg.user)
}
