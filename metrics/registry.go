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

// Package metrics holds the per-node counters and process-wide gauges of
// §3 ("Metrics"). It is an explicit SystemContext-owned registry (no
// package-level globals, per §9's "global mutable singletons" redesign
// flag) so multiple gateway instances in one process (as in tests) never
// share state.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/emqx/neuron-sub004/model"
)

// NodeMetrics is the per-node counter/gauge set.
type NodeMetrics struct {
	LastRTTMs     atomic.Int64
	TagReadsTotal atomic.Int64
	TagErrsTotal  atomic.Int64
	SendBytes     atomic.Int64
	RecvBytes     atomic.Int64
	CachedMsgs    atomic.Int64
}

// Registry is the process-wide metrics store: one NodeMetrics per node id,
// plus the process gauges from §3.
type Registry struct {
	mu    sync.RWMutex
	nodes map[model.NodeID]*NodeMetrics

	start time.Time

	CoreDumped           atomic.Bool
	NorthTotalNodes      atomic.Int64
	NorthRunningNodes    atomic.Int64
	NorthDisconnected    atomic.Int64
	SouthTotalNodes      atomic.Int64
	SouthRunningNodes    atomic.Int64
	SouthDisconnected    atomic.Int64
}

// New builds an empty Registry with the uptime clock started now.
func New() *Registry {
	return &Registry{
		nodes: make(map[model.NodeID]*NodeMetrics),
		start: time.Now(),
	}
}

// Node returns (creating if necessary) the NodeMetrics for id.
func (r *Registry) Node(id model.NodeID) *NodeMetrics {
	r.mu.RLock()
	m, ok := r.nodes[id]
	r.mu.RUnlock()
	if ok {
		return m
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok = r.nodes[id]; ok {
		return m
	}
	m = &NodeMetrics{}
	r.nodes[id] = m
	return m
}

// Forget drops a node's metrics, called from del_node.
func (r *Registry) Forget(id model.NodeID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.nodes, id)
}

// UptimeSeconds returns the process-wide uptime gauge.
func (r *Registry) UptimeSeconds() int64 {
	return int64(time.Since(r.start).Seconds())
}

// Snapshot is an immutable copy of a NodeMetrics, safe to hand to a
// northbound consumer (e.g. a REST /metrics DTO, out of this core's
// scope, but the shape it would serialize).
type Snapshot struct {
	LastRTTMs     int64
	TagReadsTotal int64
	TagErrsTotal  int64
	SendBytes     int64
	RecvBytes     int64
	CachedMsgs    int64
}

// Snapshot returns a point-in-time copy of m.
func (m *NodeMetrics) Snapshot() Snapshot {
	return Snapshot{
		LastRTTMs:     m.LastRTTMs.Load(),
		TagReadsTotal: m.TagReadsTotal.Load(),
		TagErrsTotal:  m.TagErrsTotal.Load(),
		SendBytes:     m.SendBytes.Load(),
		RecvBytes:     m.RecvBytes.Load(),
		CachedMsgs:    m.CachedMsgs.Load(),
	}
}
