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

package mqttclient

import "time"

const (
	defaultKeepAlive        = 30 * time.Second
	defaultConnectTimeout   = 10 * time.Second
	defaultMaxReconnectWait = time.Hour
	defaultSyncInterval     = 100 * time.Millisecond

	minSyncInterval = 10 * time.Millisecond
	maxSyncInterval = 12 * time.Second
)

func (c Config) withDefaults() Config {
	if c.KeepAlive <= 0 {
		c.KeepAlive = defaultKeepAlive
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = defaultConnectTimeout
	}
	if c.MaxReconnectWait <= 0 {
		c.MaxReconnectWait = defaultMaxReconnectWait
	}
	if c.Cache.SyncInterval <= 0 {
		c.Cache.SyncInterval = defaultSyncInterval
	}
	if c.Cache.SyncInterval < minSyncInterval {
		c.Cache.SyncInterval = minSyncInterval
	}
	if c.Cache.SyncInterval > maxSyncInterval {
		c.Cache.SyncInterval = maxSyncInterval
	}
	return c
}

// paho returns the CONNECT packet protocol level understood by
// github.com/eclipse/paho.mqtt.golang's ClientOptions.SetProtocolVersion.
// That transport speaks 3.1/3.1.1 only (see DESIGN.md): V5 negotiates as
// 3.1.1 on the wire, so a V5-configured client still interoperates with a
// 3.1.1 broker but never gains v5 features (reason codes, user
// properties) — SubscribeCallback's traceParent/traceState are always
// empty as a result.
func (v Version) paho() uint {
	switch v {
	case V3_1:
		return 3
	default:
		return 4 // 3.1.1, also used for the V5 fallback
	}
}
