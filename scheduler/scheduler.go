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

package scheduler

import (
	"sync"

	"github.com/emqx/neuron-sub004/errs"
	"github.com/emqx/neuron-sub004/gwlog"
	"github.com/emqx/neuron-sub004/metrics"
	"github.com/emqx/neuron-sub004/model"
	"github.com/emqx/neuron-sub004/reactor"
)

// Scheduler owns every GroupRuntime in a process: the reactor that drives
// their timers, the metrics registry they report into, and the per-node
// cooperative locks that serialize device access across a node's groups
// (§5 "Shared-resource policy").
type Scheduler struct {
	react reactor.Reactor
	mtr   *metrics.Registry
	log   gwlog.Logger

	mu        sync.Mutex
	nodeLocks map[model.NodeID]*sync.Mutex
	pending   map[string]chan errs.Code
}

// New builds a Scheduler driven by r, reporting into mtr.
func New(r reactor.Reactor, mtr *metrics.Registry, log gwlog.Logger) *Scheduler {
	if log == nil {
		log = gwlog.Discard()
	}
	return &Scheduler{
		react:     r,
		mtr:       mtr,
		log:       log,
		nodeLocks: make(map[model.NodeID]*sync.Mutex),
		pending:   make(map[string]chan errs.Code),
	}
}

// nodeLock returns (creating if necessary) the cooperative lock serializing
// group_timer invocations for one node, so two groups on the same device
// never race its transport.
func (s *Scheduler) nodeLock(id model.NodeID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.nodeLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.nodeLocks[id] = l
	}
	return l
}

// ForgetNode drops a node's cooperative lock, called from del_node once all
// of its groups have been closed.
func (s *Scheduler) ForgetNode(id model.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodeLocks, id)
}

// AddGroup arms a reactor timer for (node, group) at group.Interval and
// returns a handle the caller uses to set subscribers and, eventually,
// close it. Blocking mode is used so ticks for one group are strictly
// serialised (§5 ordering guarantees); node is required to be a driver
// (I5/§4.3).
func (s *Scheduler) AddGroup(node *model.Node, group *model.Group, timerFn GroupTimerFunc) (*GroupRuntime, error) {
	if !node.IsSouthbound() {
		return nil, errNotDriver(node.Name)
	}
	if err := group.Validate(); err != nil {
		return nil, err
	}

	gr := &GroupRuntime{
		sched:   s,
		node:    node,
		group:   group,
		timerFn: timerFn,
	}
	gr.gen.Store(&generation{})

	h, err := s.react.AddTimer(group.Interval, reactor.Blocking, func(any) { gr.tick() }, nil)
	if err != nil {
		return nil, err
	}
	gr.th = h
	return gr, nil
}

// AwaitWrite registers a pending async write reply keyed by reqToken and
// returns the channel it will be delivered on (buffered, closed after the
// single send). Callers that time out should not read again.
func (s *Scheduler) AwaitWrite(reqToken string) <-chan errs.Code {
	ch := make(chan errs.Code, 1)
	s.mu.Lock()
	s.pending[reqToken] = ch
	s.mu.Unlock()
	return ch
}

// WriteResponse is the third driver-facing operation of §4.3: a plugin
// calls this (from any goroutine, not necessarily a tick) to answer an
// asynchronous write previously registered via AwaitWrite.
func (s *Scheduler) WriteResponse(reqToken string, status errs.Code) {
	s.mu.Lock()
	ch, ok := s.pending[reqToken]
	if ok {
		delete(s.pending, reqToken)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	ch <- status
	close(ch)
}

// fanOut walks subs in insertion order and delivers batch to each,
// best-effort: one subscriber's error or panic never stops delivery to the
// others (§4.6).
func (s *Scheduler) fanOut(subs []Subscriber, batch Batch) {
	for _, sub := range subs {
		s.deliverOne(sub, batch)
	}
}

func (s *Scheduler) deliverOne(sub Subscriber, batch Batch) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("node", sub.NodeID()).WithField("panic", r).Error("subscriber trans_data panicked")
		}
	}()
	if err := sub.TransData(batch); err != nil {
		s.log.WithField("node", sub.NodeID()).WithField("error", err).Warn("subscriber trans_data failed")
	}
}
