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

// Package model holds the core DTOs of the gateway: nodes, groups, tags,
// subscriptions, templates, tag readings, and the typed value union they
// carry. These types cross every component boundary (scheduler, store,
// mqttclient) unchanged, so they carry no behavior beyond validation.
package model

import "sync/atomic"

// NodeID is a monotonic identifier, stable across restarts (persisted by
// the store, never reused after a del_node).
type NodeID uint32

// idSeq is the process-local monotonic counter used when the store hands
// back the next available id for add_node. The store is the source of
// truth; this is only the in-memory fallback for a fresh, unpersisted id.
var idSeq uint32

// NextNodeID returns a fresh, never-zero NodeID for this process.
func NextNodeID() NodeID {
	return NodeID(atomic.AddUint32(&idSeq, 1))
}

// TagID uniquely identifies a Tag within its owning Node.
type TagID uint32
