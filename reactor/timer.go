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
	"time"
)

// timer owns one periodic callback. Blocking-mode timers re-arm only after
// the callback returns; non-blocking-mode timers re-arm immediately and
// may run the callback concurrently with the next tick (P1, P6).
type timer struct {
	interval time.Duration
	mode     TimerMode
	cb       TimerCallback
	user     any

	mu      sync.Mutex // guards stopped vs. wg.Add ordering
	stopped bool
	wg      sync.WaitGroup

	quit chan struct{}
}

func newTimer(interval time.Duration, mode TimerMode, cb TimerCallback, user any) *timer {
	return &timer{
		interval: interval,
		mode:     mode,
		cb:       cb,
		user:     user,
		quit:     make(chan struct{}),
	}
}

func (t *timer) run() {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	for {
		select {
		case <-t.quit:
			return
		case <-tk.C:
			if !t.tryInvoke() {
				return
			}
		}
	}
}

// tryInvoke atomically checks stopped and registers the invocation with wg
// before releasing the lock, so a concurrent del() that sets stopped under
// the same lock can never race past a started-but-unregistered callback.
func (t *timer) tryInvoke() bool {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return false
	}
	t.wg.Add(1)
	t.mu.Unlock()

	if t.mode == Blocking {
		defer t.wg.Done()
		t.cb(t.user)
	} else {
		go func() {
			defer t.wg.Done()
			t.cb(t.user)
		}()
	}
	return true
}

// del is synchronous: callers observe no further invocation once it
// returns, and any already-started invocation has completed (P6).
func (t *timer) del() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()

	close(t.quit)
	t.wg.Wait()
}
