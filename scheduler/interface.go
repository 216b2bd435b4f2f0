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

// Package scheduler is the driver scheduler & group runtime (spec component
// C): it arms one reactor timer per (driver node, group) tuple, invokes the
// driver plugin's group_timer callback under a per-node cooperative lock,
// updates metrics, and fans the resulting readings out to every node
// currently subscribed to that group.
package scheduler

import (
	"github.com/emqx/neuron-sub004/gwlog"
	"github.com/emqx/neuron-sub004/metrics"
	"github.com/emqx/neuron-sub004/model"
)

// GroupTimerFunc is the driver plugin's contract for one group tick: it
// reads its tags and reports each point through h.DriverUpdate before
// returning. It must not retain h past return.
type GroupTimerFunc func(h *DriverHandle)

// Subscriber is a northbound (app) node that can receive a published batch
// (§4.6 publish fan-out). Implementations are free to enqueue, drop, or
// transform; TransData errors are logged but never stop delivery to the
// other subscribers.
type Subscriber interface {
	NodeID() model.NodeID
	TransData(batch Batch) error
}

// Batch is the immutable set of readings produced by one group tick,
// together with the W3C trace context the fan-out carries through to
// northbound consumers (§4.4, §4.6).
type Batch struct {
	Node        model.NodeID
	GroupName   string
	Readings    []model.Reading
	TraceParent string
	TraceState  string
}

// DriverHandle is the per-tick consumer contract exposed to a driver
// plugin's GroupTimerFunc: driver_update and update_metric (§4.3
// "Operations exposed to drivers"). write_response lives on Scheduler
// itself since a write reply is not necessarily produced from within a
// tick.
type DriverHandle struct {
	node  *model.Node
	group *model.Group
	nm    *metrics.NodeMetrics
	log   gwlog.Logger

	readings []model.Reading
	faulted  bool
}

// DriverUpdate records one tag's point result for this tick.
func (h *DriverHandle) DriverUpdate(tagID model.TagID, tagName string, ts int64, v model.Value) {
	h.readings = append(h.readings, model.Reading{TagID: tagID, TagName: tagName, TimestampMS: ts, Value: v})
}

// UpdateMetric lets a driver set the standard gauge/counter set by name, or
// log a custom one. Only the registered names below map onto
// metrics.NodeMetrics; anything else is a structured log line, since the
// registry's counter set is fixed (§3).
func (h *DriverHandle) UpdateMetric(name string, value int64, label string) {
	if h.nm != nil {
		switch name {
		case "last_rtt_ms":
			h.nm.LastRTTMs.Store(value)
			return
		case "send_bytes":
			h.nm.SendBytes.Add(value)
			return
		case "recv_bytes":
			h.nm.RecvBytes.Add(value)
			return
		}
	}
	if h.log != nil {
		h.log.WithField("node", h.node.Name).WithField("metric", name).WithField("label", label).Info("driver metric update")
	}
}

// Fail signals an aggregate fault for this tick (distinct from a per-tag
// error): the owning node transitions to disconnected once the tick
// completes (§4.3 Failure model).
func (h *DriverHandle) Fail() { h.faulted = true }

// Node and Group expose read-only access to the tick's bound entities, for
// drivers that need the node/group identity (e.g. to build a log field or
// an address-option lookup) without mutating scheduler state directly.
func (h *DriverHandle) Node() *model.Node   { return h.node }
func (h *DriverHandle) Group() *model.Group { return h.group }
