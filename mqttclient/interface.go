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

// Package mqttclient is the gateway's northbound MQTT client (spec
// component D): an asynchronous v3.1/3.1.1/v5 client, built on
// github.com/eclipse/paho.mqtt.golang, with a bounded memory-plus-disk
// store-and-forward Cache that replays unsent QoS>=1 publishes after
// reconnection.
package mqttclient

import (
	"time"

	"github.com/emqx/neuron-sub004/certs"
)

// Version selects the wire protocol level (§4.4, §6).
type Version uint8

const (
	V3_1 Version = iota
	V3_1_1
	V5
)

// State is the client's lifecycle state machine (§4.4): closed -> opening
// -> {connected <-> disconnected} -> closing -> closed.
type State uint8

const (
	StateClosed State = iota
	StateOpening
	StateConnected
	StateDisconnected
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	case StateClosing:
		return "closing"
	default:
		return "closed"
	}
}

// PublishCallback is invoked exactly once per non-nil callback per
// publish: on delivery (broker ack for QoS 1/2, local write for QoS 0) or
// on terminal failure (cache eviction, close) — never both (§4.4
// Contracts).
type PublishCallback func(err error)

// SubscribeCallback is invoked on each matching inbound publish.
// traceParent/traceState carry W3C trace context from MQTT v5 user
// properties when the client runs in V5 mode (§4.4, §6); they are empty
// otherwise, and also empty under V5 today because the underlying
// paho.mqtt.golang transport (see DESIGN.md) does not expose v5 user
// properties — the parameters are kept so a future transport swap needs no
// call-site changes.
type SubscribeCallback func(qos byte, topic string, payload []byte, traceParent, traceState string)

// ConnectCallback fires exactly once per transition into StateConnected.
type ConnectCallback func()

// DisconnectCallback fires exactly once per transition into
// StateDisconnected after a lost connection, carrying the triggering
// error. A user-requested Close does not invoke it.
type DisconnectCallback func(cause error)

// Client is the async MQTT surface of §4.4.
type Client interface {
	// Open starts the background worker and attempts the initial connect.
	// Configuration errors (bad address, malformed cert) fail fast and do
	// not retry (§7); transient connect failures still return nil and are
	// retried by the automatic-reconnect backoff.
	Open() error
	// Close stops the worker, disconnects cleanly, and fails every message
	// still cached in memory. Items already spilled to the disk tier are
	// kept there and replayed after the next Open.
	Close() error

	Publish(qos byte, topic string, payload []byte, cb PublishCallback) error
	Subscribe(qos byte, topic string, cb SubscribeCallback) error
	Unsubscribe(topic string) error

	// OnConnect/OnDisconnect register lifecycle observers. Only
	// meaningful when set before Open.
	OnConnect(cb ConnectCallback)
	OnDisconnect(cb DisconnectCallback)

	// SetVersion is only permitted while the client is closed (§4.4
	// Contracts).
	SetVersion(v Version) error

	State() State
	// CachedCount reports the store-and-forward cache's current item
	// count (backs the cached_msgs gauge, §3).
	CachedCount() int
}

// TLSConfig carries the optional TLS material for a broker connection
// (§4.4): CA to validate the broker, an optional client certificate/key
// pair for mutual TLS. Certificate material itself is an opaque blob per
// §1's Non-goals; see package certs.
type TLSConfig struct {
	CA                 certs.CA             `mapstructure:"ca"`
	Client             *certs.Certificate   `mapstructure:"client"`
	ServerName         string               `mapstructure:"server_name"`
	InsecureSkipVerify bool                 `mapstructure:"insecure_skip_verify"`
}

// CacheConfig bounds the store-and-forward cache (§4.4, I6).
type CacheConfig struct {
	MemCapBytes int64 `mapstructure:"mem_cap_bytes"`
	ItemCap     int   `mapstructure:"item_cap"`

	// DiskPath, if non-empty, backs overflow beyond the in-memory caps
	// with a nutsdb-backed FIFO list (opportunistic spill, SPEC_FULL open
	// question #3).
	DiskPath string `mapstructure:"disk_path"`

	// SyncInterval is the cache-drain cadence, default 100ms, range
	// [10ms, 12s] (§4.4).
	SyncInterval time.Duration `mapstructure:"sync_interval"`
}

// Config is the per-client configuration (§4.4, §6).
type Config struct {
	Broker   string `mapstructure:"broker" validate:"required"`
	ClientID string `mapstructure:"client_id" validate:"required"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Version  Version `mapstructure:"version"`

	KeepAlive        time.Duration `mapstructure:"keep_alive"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	MaxReconnectWait time.Duration `mapstructure:"max_reconnect_wait"` // default 1h, spec allows up to 1 year

	CleanSession bool       `mapstructure:"clean_session"`
	TLS          *TLSConfig `mapstructure:"tls"`
	Cache        CacheConfig `mapstructure:"cache"`
}
