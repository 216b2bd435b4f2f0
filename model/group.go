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

package model

import "time"

// MinGroupInterval is the scheduler's minimum tick (I4): no Group may be
// sampled faster than this.
const MinGroupInterval = 100 * time.Millisecond

// MaxGroupInterval bounds a Group's interval at one day.
const MaxGroupInterval = 24 * time.Hour

// Group is a poll unit within a driver Node: a set of Tags sampled together
// on a single timer, fanned out to whichever app nodes subscribe to it.
type Group struct {
	NodeID   NodeID
	Name     string
	Interval time.Duration

	// SubpipeSet holds the subscriber node ids in insertion order. It is
	// replaced wholesale (copy-on-write) by SetSubscribers so that an
	// in-flight fan-out can keep iterating its own snapshot.
	subpipe []NodeID
}

// NewGroup constructs a Group after validating its interval (I4).
func NewGroup(node NodeID, name string, interval time.Duration) (*Group, error) {
	g := &Group{NodeID: node, Name: name, Interval: interval}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate enforces the interval invariant (I4): 100ms <= interval <= 24h.
func (g *Group) Validate() error {
	if g.Name == "" {
		return errParamWrong("group name must not be empty")
	}
	if g.Interval < MinGroupInterval || g.Interval > MaxGroupInterval {
		return errGroupInterval()
	}
	return nil
}

// Subscribers returns the current subscriber snapshot. The returned slice
// must be treated as immutable by the caller (fan-out reads it without
// locking; see scheduler.Group's generation anchor for the write side).
func (g *Group) Subscribers() []NodeID { return g.subpipe }

// SetSubscribers atomically replaces the subscriber snapshot.
func (g *Group) SetSubscribers(ids []NodeID) {
	cp := make([]NodeID, len(ids))
	copy(cp, ids)
	g.subpipe = cp
}

// AddSubscriber appends a subscriber if not already present, preserving
// insertion order (subscriptions fan out in the order they were made).
func (g *Group) AddSubscriber(id NodeID) {
	for _, s := range g.subpipe {
		if s == id {
			return
		}
	}
	g.subpipe = append(g.subpipe, id)
}

// RemoveSubscriber drops a subscriber, preserving the relative order of the
// remainder.
func (g *Group) RemoveSubscriber(id NodeID) {
	out := g.subpipe[:0]
	for _, s := range g.subpipe {
		if s != id {
			out = append(out, s)
		}
	}
	g.subpipe = out
}

// Key identifies a Group uniquely within the registry (I2).
type GroupKey struct {
	NodeID NodeID
	Name   string
}

func (g *Group) Key() GroupKey { return GroupKey{NodeID: g.NodeID, Name: g.Name} }
