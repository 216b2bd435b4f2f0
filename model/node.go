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

import "strings"

// NodeType classifies a Node as southbound (device-facing) or northbound
// (broker/API-facing), or a system-owned node.
type NodeType uint8

const (
	NodeTypeDriver NodeType = iota + 1
	NodeTypeApp
	NodeTypeSystem
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeDriver:
		return "driver"
	case NodeTypeApp:
		return "app"
	case NodeTypeSystem:
		return "system"
	default:
		return "unknown"
	}
}

// LinkState is the transport-level connectivity of a Node.
type LinkState uint8

const (
	LinkDisconnected LinkState = iota
	LinkConnecting
	LinkConnected
)

func (s LinkState) String() string {
	switch s {
	case LinkConnecting:
		return "connecting"
	case LinkConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// RunningState is the lifecycle state of a Node within the scheduler.
type RunningState uint8

const (
	RunningInit RunningState = iota
	RunningReady
	RunningRunning
	RunningStopped
)

func (s RunningState) String() string {
	switch s {
	case RunningReady:
		return "ready"
	case RunningRunning:
		return "running"
	case RunningStopped:
		return "stopped"
	default:
		return "init"
	}
}

// Node is an adapter instance: a driver (southbound), an app (northbound),
// or a system-owned node. Created by add_node, destroyed by del_node, and
// owned by the node registry; the scheduler only ever borrows a handle.
type Node struct {
	ID           NodeID
	Name         string
	Type         NodeType
	PluginName   string
	LinkState    LinkState
	RunningState RunningState

	// SettingsBlob is the plugin's opaque configuration, stored and
	// round-tripped as JSON but never interpreted by the core.
	SettingsBlob []byte
}

// Validate enforces I1's per-field shape (uniqueness of Name is enforced by
// the registry/store, not here, since it requires seeing siblings).
func (n *Node) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return errParamWrong("node name must not be empty")
	}
	if n.Type != NodeTypeDriver && n.Type != NodeTypeApp && n.Type != NodeTypeSystem {
		return errNodeTypeInvalid()
	}
	return nil
}

// IsSouthbound reports whether this node type can own Groups and publish
// tag readings (a "driver" in spec terms).
func (n *Node) IsSouthbound() bool { return n.Type == NodeTypeDriver }

// IsNorthbound reports whether this node type can subscribe to Groups (an
// "app" in spec terms).
func (n *Node) IsNorthbound() bool { return n.Type == NodeTypeApp }
