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

import "github.com/emqx/neuron-sub004/errs"

// Subscription is the relation publisher -> subscriber at group
// granularity (§3). ExtraBlob is an opaque per-subscription payload (e.g.
// a topic template) owned by the subscriber's plugin.
type Subscription struct {
	PublisherNode  NodeID
	SubscriberNode NodeID
	GroupName      string
	ExtraBlob      []byte
}

// ValidateAgainst enforces I5: the publisher must be a driver and the
// subscriber must be an app.
func (s *Subscription) ValidateAgainst(publisher, subscriber *Node) error {
	if publisher == nil || subscriber == nil {
		return errs.New(errs.ParamIsWrong, "subscription requires both publisher and subscriber nodes")
	}
	if !publisher.IsSouthbound() {
		return errs.New(errs.NodeTypeInvalid, "subscription publisher must be a driver node")
	}
	if !subscriber.IsNorthbound() {
		return errs.New(errs.NodeTypeInvalid, "subscription subscriber must be an app node")
	}
	return nil
}
