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

package reactor_test

import (
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/emqx/neuron-sub004/reactor"
)

var _ = Describe("Reactor timers", func() {
	var r reactor.Reactor

	BeforeEach(func() {
		var err error
		r, err = reactor.New(nil)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(r.Close()).To(Succeed())
	})

	// P1: a timer armed with interval T fires between 9 and 11 times over
	// a 10*T window, in either scheduling mode.
	It("fires within the expected tick budget over a 10T window", func() {
		const interval = 20 * time.Millisecond
		var count int64

		h, err := r.AddTimer(interval, reactor.NonBlocking, func(user any) {
			atomic.AddInt64(&count, 1)
		}, nil)
		Expect(err).NotTo(HaveOccurred())

		time.Sleep(10 * interval)
		Expect(r.DelTimer(h)).To(Succeed())

		n := atomic.LoadInt64(&count)
		Expect(n).To(BeNumerically(">=", 9))
		Expect(n).To(BeNumerically("<=", 11))
	})

	// P6: after DelTimer returns, an in-flight blocking callback has
	// completed and no further invocation is observed.
	It("guarantees synchronous cancellation of a blocking timer", func() {
		var running atomic.Bool
		var deleted atomic.Bool
		var invokedAfterDel atomic.Bool
		started := make(chan struct{}, 1)

		h, err := r.AddTimer(50*time.Millisecond, reactor.Blocking, func(user any) {
			if deleted.Load() {
				invokedAfterDel.Store(true)
			}
			running.Store(true)
			select {
			case started <- struct{}{}:
			default:
			}
			time.Sleep(200 * time.Millisecond)
			running.Store(false)
		}, nil)
		Expect(err).NotTo(HaveOccurred())

		Eventually(started, time.Second).Should(Receive())
		Expect(running.Load()).To(BeTrue())

		Expect(r.DelTimer(h)).To(Succeed())
		deleted.Store(true)
		Expect(running.Load()).To(BeFalse())

		time.Sleep(200 * time.Millisecond)
		Expect(invokedAfterDel.Load()).To(BeFalse())
	})

	It("is idempotent when deleting an unknown or already-removed handle", func() {
		h, err := r.AddTimer(10*time.Millisecond, reactor.NonBlocking, func(any) {}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.DelTimer(h)).To(Succeed())
		Expect(r.DelTimer(h)).To(Succeed())
		Expect(r.DelTimer(reactor.TimerHandle(99999))).To(Succeed())
	})

	It("rejects new timers once closed", func() {
		Expect(r.Close()).To(Succeed())
		_, err := r.AddTimer(10*time.Millisecond, reactor.NonBlocking, func(any) {}, nil)
		Expect(err).To(HaveOccurred())
	})
})
