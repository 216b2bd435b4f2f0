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
	"sync/atomic"
	"time"

	"github.com/emqx/neuron-sub004/model"
	"github.com/emqx/neuron-sub004/reactor"
)

// generation is the copy-on-write subscriber snapshot a GroupRuntime reads
// once per tick (§4.3 "Subscription change semantics", §9's generation-
// anchor redesign of the source's pointer+anchor-flag pattern). Writers
// (SetSubscribers) publish a new *generation; readers already mid-tick keep
// using the one they loaded, so a tick is never torn by a concurrent
// subscription change.
type generation struct {
	subs []Subscriber
}

// GroupRuntime is one (driver node, group) tuple's live timer.
type GroupRuntime struct {
	sched   *Scheduler
	node    *model.Node
	group   *model.Group
	timerFn GroupTimerFunc

	gen atomic.Pointer[generation]
	th  reactor.TimerHandle
}

// SetSubscribers atomically republishes the subscriber generation
// subscribed to this group's readings, in insertion order.
func (g *GroupRuntime) SetSubscribers(subs []Subscriber) {
	cp := make([]Subscriber, len(subs))
	copy(cp, subs)
	g.gen.Store(&generation{subs: cp})
}

// Close disarms this group's reactor timer (P6: synchronous, no further
// tick after Close returns).
func (g *GroupRuntime) Close() error {
	return g.sched.react.DelTimer(g.th)
}

// Node and Group give the owning runtime's bound entities back to callers
// that only hold a *GroupRuntime (e.g. a REST handler resolving a group by
// name).
func (g *GroupRuntime) Node() *model.Node   { return g.node }
func (g *GroupRuntime) Group() *model.Group { return g.group }

// tick is the reactor timer callback (§4.3 Algorithm, steps 1-4).
func (g *GroupRuntime) tick() {
	lock := g.sched.nodeLock(g.node.ID)
	lock.Lock()

	nm := g.sched.mtr.Node(g.node.ID)
	h := &DriverHandle{node: g.node, group: g.group, nm: nm, log: g.sched.log}

	start := time.Now()
	g.timerFn(h)
	rtt := time.Since(start).Milliseconds()

	lock.Unlock()

	nm.LastRTTMs.Store(rtt)
	nm.TagReadsTotal.Add(int64(len(h.readings)))

	var errCount int64
	for _, r := range h.readings {
		if r.Value.IsError() {
			errCount++
		}
	}
	if errCount > 0 {
		nm.TagErrsTotal.Add(errCount)
	}

	if h.faulted {
		g.node.LinkState = model.LinkDisconnected
	}

	gen := g.gen.Load()
	if gen == nil || len(gen.subs) == 0 {
		return
	}
	g.sched.fanOut(gen.subs, Batch{
		Node:      g.node.ID,
		GroupName: g.group.Name,
		Readings:  h.readings,
	})
}
