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

//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package reactor

import (
	"golang.org/x/sys/unix"
)

const pollTimeoutSec = 1

type kqueuePoller struct {
	fd int
}

func newPoller() (poller, error) {
	fd, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	return &kqueuePoller{fd: fd}, nil
}

func (p *kqueuePoller) add(fd int) error {
	ev := []unix.Kevent_t{{
		Ident:  uint64(fd),
		Filter: unix.EVFILT_READ,
		Flags:  unix.EV_ADD | unix.EV_ENABLE,
	}}
	_, err := unix.Kevent(p.fd, ev, nil, nil)
	return err
}

func (p *kqueuePoller) del(fd int) error {
	ev := []unix.Kevent_t{{
		Ident:  uint64(fd),
		Filter: unix.EVFILT_READ,
		Flags:  unix.EV_DELETE,
	}}
	_, err := unix.Kevent(p.fd, ev, nil, nil)
	return err
}

func (p *kqueuePoller) wait() ([]readyFD, error) {
	events := make([]unix.Kevent_t, 64)
	ts := unix.Timespec{Sec: pollTimeoutSec, Nsec: 0}

	for {
		n, err := unix.Kevent(p.fd, nil, events, &ts)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return nil, err
		}

		out := make([]readyFD, 0, n)
		for i := 0; i < n; i++ {
			e := events[i]
			kind := Readable
			if e.Flags&unix.EV_EOF != 0 {
				kind = PeerClosed
			}
			out = append(out, readyFD{fd: int(e.Ident), kind: kind})
		}
		return out, nil
	}
}

func (p *kqueuePoller) close() error {
	return unix.Close(p.fd)
}
