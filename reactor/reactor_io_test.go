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
	"os"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/emqx/neuron-sub004/reactor"
)

var _ = Describe("Reactor IO", func() {
	var r reactor.Reactor

	BeforeEach(func() {
		var err error
		r, err = reactor.New(nil)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(r.Close()).To(Succeed())
	})

	It("delivers a Readable event when a registered fd becomes ready", func() {
		rFile, wFile, err := os.Pipe()
		Expect(err).NotTo(HaveOccurred())
		defer rFile.Close()
		defer wFile.Close()

		var gotKind atomic.Int32
		var fired atomic.Bool

		_, err = r.AddIO(int(rFile.Fd()), func(fd int, kind reactor.IOEventKind, user any) {
			gotKind.Store(int32(kind))
			fired.Store(true)
		}, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = wFile.Write([]byte("x"))
		Expect(err).NotTo(HaveOccurred())

		Eventually(fired.Load, 2*time.Second).Should(BeTrue())
		Expect(reactor.IOEventKind(gotKind.Load())).To(Equal(reactor.Readable))
	})

	It("stops delivering events after DelIO", func() {
		rFile, wFile, err := os.Pipe()
		Expect(err).NotTo(HaveOccurred())
		defer rFile.Close()
		defer wFile.Close()

		var count atomic.Int32
		h, err := r.AddIO(int(rFile.Fd()), func(fd int, kind reactor.IOEventKind, user any) {
			count.Add(1)
		}, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(r.DelIO(h)).To(Succeed())

		_, err = wFile.Write([]byte("y"))
		Expect(err).NotTo(HaveOccurred())

		time.Sleep(1500 * time.Millisecond)
		Expect(count.Load()).To(Equal(int32(0)))
	})
})
