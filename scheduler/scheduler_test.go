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

package scheduler_test

import (
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/emqx/neuron-sub004/metrics"
	"github.com/emqx/neuron-sub004/model"
	"github.com/emqx/neuron-sub004/reactor"
	"github.com/emqx/neuron-sub004/scheduler"
)

type fakeSub struct {
	id      model.NodeID
	batches chan scheduler.Batch
	failN   int32
}

func (s *fakeSub) NodeID() model.NodeID { return s.id }
func (s *fakeSub) TransData(b scheduler.Batch) error {
	if atomic.AddInt32(&s.failN, -1) >= 0 {
		return errBoom
	}
	s.batches <- b
	return nil
}

var errBoom = &boomErr{}

type boomErr struct{}

func (*boomErr) Error() string { return "boom" }

var _ = Describe("Scheduler", func() {
	var (
		r   reactor.Reactor
		mtr *metrics.Registry
		s   *scheduler.Scheduler
	)

	BeforeEach(func() {
		var err error
		r, err = reactor.New(nil)
		Expect(err).NotTo(HaveOccurred())
		mtr = metrics.New()
		s = scheduler.New(r, mtr, nil)
	})

	AfterEach(func() {
		Expect(r.Close()).To(Succeed())
	})

	driverNode := func(name string) *model.Node {
		return &model.Node{ID: model.NextNodeID(), Name: name, Type: model.NodeTypeDriver}
	}
	appNode := func(name string) *model.Node {
		return &model.Node{ID: model.NextNodeID(), Name: name, Type: model.NodeTypeApp}
	}

	// P1: scheduler liveness over a 10T window.
	It("fires the group timer within the expected tick budget", func() {
		node := driverNode("mb1")
		group, err := model.NewGroup(node.ID, "g1", 100*time.Millisecond)
		Expect(err).NotTo(HaveOccurred())

		var ticks int64
		gr, err := s.AddGroup(node, group, func(h *scheduler.DriverHandle) {
			atomic.AddInt64(&ticks, 1)
			h.DriverUpdate(1, "t1", 0, model.NewInt(model.TypeU16, 0x1234))
		})
		Expect(err).NotTo(HaveOccurred())
		defer gr.Close()

		time.Sleep(10 * group.Interval)
		n := atomic.LoadInt64(&ticks)
		Expect(n).To(BeNumerically(">=", 9))
		Expect(n).To(BeNumerically("<=", 11))
	})

	It("fans a tick's readings out to every subscriber in order, best-effort on error", func() {
		node := driverNode("mb2")
		group, err := model.NewGroup(node.ID, "g1", 100*time.Millisecond)
		Expect(err).NotTo(HaveOccurred())

		sub1 := &fakeSub{id: appNode("mqtt1").ID, batches: make(chan scheduler.Batch, 4), failN: -1}
		sub2 := &fakeSub{id: appNode("mqtt2").ID, batches: make(chan scheduler.Batch, 4), failN: 1}

		gr, err := s.AddGroup(node, group, func(h *scheduler.DriverHandle) {
			h.DriverUpdate(1, "t1", 0, model.NewInt(model.TypeU16, 0x1234))
		})
		Expect(err).NotTo(HaveOccurred())
		defer gr.Close()

		gr.SetSubscribers([]scheduler.Subscriber{sub1, sub2})

		var b scheduler.Batch
		Eventually(sub1.batches, time.Second).Should(Receive(&b))
		Expect(b.GroupName).To(Equal("g1"))
		Expect(b.Readings).To(HaveLen(1))
		Expect(b.Readings[0].TagName).To(Equal("t1"))

		// sub2's first delivery fails (failN starts at 1, decremented to 0
		// on the first call); the error is logged and later ticks still
		// reach sub2.
		Eventually(sub2.batches, time.Second).Should(Receive())
	})

	It("increments tag_reads_total and tag_errors_total from tick results", func() {
		node := driverNode("mb3")
		group, err := model.NewGroup(node.ID, "g1", 100*time.Millisecond)
		Expect(err).NotTo(HaveOccurred())

		gr, err := s.AddGroup(node, group, func(h *scheduler.DriverHandle) {
			h.DriverUpdate(1, "ok", 0, model.NewInt(model.TypeU16, 1))
			h.DriverUpdate(2, "bad", 0, model.NewError(-5))
		})
		Expect(err).NotTo(HaveOccurred())
		defer gr.Close()

		Eventually(func() int64 {
			return mtr.Node(node.ID).TagReadsTotal.Load()
		}, time.Second).Should(BeNumerically(">=", 2))
		Eventually(func() int64 {
			return mtr.Node(node.ID).TagErrsTotal.Load()
		}, time.Second).Should(BeNumerically(">=", 1))
	})

	It("transitions the node to disconnected on an aggregate fault", func() {
		node := driverNode("mb4")
		node.LinkState = model.LinkConnected
		group, err := model.NewGroup(node.ID, "g1", 100*time.Millisecond)
		Expect(err).NotTo(HaveOccurred())

		gr, err := s.AddGroup(node, group, func(h *scheduler.DriverHandle) {
			h.Fail()
		})
		Expect(err).NotTo(HaveOccurred())
		defer gr.Close()

		Eventually(func() model.LinkState {
			return node.LinkState
		}, time.Second).Should(Equal(model.LinkDisconnected))
	})

	It("rejects a group owned by a non-driver node", func() {
		node := appNode("app1")
		group, err := model.NewGroup(node.ID, "g1", 100*time.Millisecond)
		Expect(err).NotTo(HaveOccurred())

		_, err = s.AddGroup(node, group, func(*scheduler.DriverHandle) {})
		Expect(err).To(HaveOccurred())
	})

	It("delivers a write_response exactly once to the awaiting caller", func() {
		ch := s.AwaitWrite("tok-1")
		s.WriteResponse("tok-1", -3)
		select {
		case code := <-ch:
			Expect(int32(code)).To(Equal(int32(-3)))
		case <-time.After(time.Second):
			Fail("write response not delivered")
		}
	})
})
