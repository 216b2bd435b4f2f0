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

import (
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/emqx/neuron-sub004/certs"
	"github.com/emqx/neuron-sub004/gwlog"
)

type subscription struct {
	qos byte
	cb  SubscribeCallback
}

// client is the Client implementation wired to
// github.com/eclipse/paho.mqtt.golang (§4.4 component D).
type client struct {
	log gwlog.Logger

	mu     sync.RWMutex
	cfg    Config
	state  atomic.Int32 // State
	pc     mqtt.Client
	cache  *cache
	subs   map[string]subscription
	onConn ConnectCallback
	onDisc DisconnectCallback

	stopSync chan struct{}
	syncDone chan struct{}
}

// New builds an unopened Client (§4.4: construction never dials; Open
// does).
func New(cfg Config, log gwlog.Logger) (Client, error) {
	if log == nil {
		log = gwlog.Discard()
	}
	cfg = cfg.withDefaults()

	c, err := newCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	cl := &client{
		log:   log,
		cfg:   cfg,
		cache: c,
		subs:  make(map[string]subscription),
	}
	cl.state.Store(int32(StateClosed))
	return cl, nil
}

// OnConnect registers the connect callback, replacing any earlier one; it
// is accepted in any state.
func (c *client) OnConnect(cb ConnectCallback) { c.mu.Lock(); c.onConn = cb; c.mu.Unlock() }

// OnDisconnect registers the disconnect callback, replacing any earlier
// one; it is accepted in any state.
func (c *client) OnDisconnect(cb DisconnectCallback) { c.mu.Lock(); c.onDisc = cb; c.mu.Unlock() }

func (c *client) State() State { return State(c.state.Load()) }

func (c *client) CachedCount() int { return c.cache.count() }

func (c *client) SetVersion(v Version) error {
	if c.State() != StateClosed {
		return errReconfigureWhileOpen()
	}
	c.mu.Lock()
	c.cfg.Version = v
	c.mu.Unlock()
	return nil
}

func (c *client) Open() error {
	if !c.state.CompareAndSwap(int32(StateClosed), int32(StateOpening)) {
		return errNotOpenable("already open")
	}

	c.mu.RLock()
	cfg := c.cfg
	c.mu.RUnlock()

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetProtocolVersion(cfg.Version.paho())
	opts.SetKeepAlive(cfg.KeepAlive)
	opts.SetConnectTimeout(cfg.ConnectTimeout)
	opts.SetCleanSession(cfg.CleanSession)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(cfg.MaxReconnectWait)
	opts.SetConnectRetryInterval(time.Second)
	opts.SetConnectRetry(true)

	if cfg.TLS != nil {
		tlsCfg, err := certs.TLSConfig(cfg.TLS.CA, cfg.TLS.Client, cfg.TLS.ServerName, cfg.TLS.InsecureSkipVerify)
		if err != nil {
			c.state.Store(int32(StateClosed))
			return errNotOpenable(err.Error())
		}
		opts.SetTLSConfig(tlsCfg)
	}

	opts.SetOnConnectHandler(func(mqtt.Client) {
		c.state.Store(int32(StateConnected))
		c.resubscribeAll()
		c.log.Info("mqtt client connected")
		c.mu.RLock()
		cb := c.onConn
		c.mu.RUnlock()
		if cb != nil {
			go cb()
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.state.Store(int32(StateDisconnected))
		c.log.WithField("error", err).Warn("mqtt connection lost")
		c.mu.RLock()
		cb := c.onDisc
		c.mu.RUnlock()
		if cb != nil {
			go cb(err)
		}
	})

	c.pc = mqtt.NewClient(opts)

	c.stopSync = make(chan struct{})
	c.syncDone = make(chan struct{})
	go c.syncLoop(cfg.Cache.SyncInterval)

	token := c.pc.Connect()
	// Connect is asynchronous under auto-reconnect; a failed first attempt
	// still leaves the client retrying in the background (§7: transient
	// connect failures are not configuration errors).
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			c.log.WithField("error", err).Warn("mqtt initial connect failed, retrying")
		}
	}()

	return nil
}

func (c *client) Close() error {
	prev := State(c.state.Swap(int32(StateClosing)))
	if prev == StateClosed {
		c.state.Store(int32(StateClosed))
		return nil
	}

	if c.stopSync != nil {
		close(c.stopSync)
		<-c.syncDone
	}

	if c.pc != nil {
		c.pc.Disconnect(250)
	}

	c.cache.drain(errClientClosed())
	c.state.Store(int32(StateClosed))
	return nil
}

func (c *client) Publish(qos byte, topic string, payload []byte, cb PublishCallback) error {
	if c.State() == StateClosed || c.State() == StateClosing {
		return errClientClosed()
	}

	if c.pc != nil && c.pc.IsConnected() {
		token := c.pc.Publish(topic, qos, false, payload)
		go func() {
			token.Wait()
			if cb != nil {
				cb(token.Error())
			}
		}()
		return nil
	}

	c.cache.push(&cacheItem{Topic: topic, QoS: qos, Payload: payload, Release: cb})
	return nil
}

func (c *client) Subscribe(qos byte, topic string, cb SubscribeCallback) error {
	if c.State() == StateClosed || c.State() == StateClosing {
		return errClientClosed()
	}

	c.mu.Lock()
	c.subs[topic] = subscription{qos: qos, cb: cb}
	c.mu.Unlock()

	if c.pc == nil || !c.pc.IsConnected() {
		return nil
	}
	return c.doSubscribe(topic, qos, cb)
}

func (c *client) Unsubscribe(topic string) error {
	c.mu.Lock()
	_, ok := c.subs[topic]
	delete(c.subs, topic)
	c.mu.Unlock()

	if !ok {
		return errNotSubscribed(topic)
	}
	if c.pc != nil && c.pc.IsConnected() {
		c.pc.Unsubscribe(topic)
	}
	return nil
}

func (c *client) doSubscribe(topic string, qos byte, cb SubscribeCallback) error {
	token := c.pc.Subscribe(topic, qos, func(_ mqtt.Client, m mqtt.Message) {
		if !topicMatch(topic, m.Topic()) {
			return
		}
		cb(m.Qos(), m.Topic(), m.Payload(), "", "")
	})
	token.Wait()
	return token.Error()
}

func (c *client) resubscribeAll() {
	c.mu.RLock()
	subs := make(map[string]subscription, len(c.subs))
	for k, v := range c.subs {
		subs[k] = v
	}
	c.mu.RUnlock()

	for topic, s := range subs {
		_ = c.doSubscribe(topic, s.qos, s.cb)
	}
}

// syncLoop drains the store-and-forward cache at Cache.SyncInterval
// whenever the broker connection is up (§4.4).
func (c *client) syncLoop(interval time.Duration) {
	defer close(c.syncDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopSync:
			return
		case <-ticker.C:
			if c.pc == nil || !c.pc.IsConnected() {
				continue
			}
			c.drainOne()
		}
	}
}

// drainOne publishes the head of the cache. A failed publish leaves the
// item at head (§4.4) by pushing it back rather than resolving its
// callback, so it is retried on the next sync tick instead of being lost.
func (c *client) drainOne() {
	item, ok := c.cache.pop()
	if !ok {
		return
	}
	token := c.pc.Publish(item.Topic, item.QoS, false, item.Payload)
	token.Wait()
	if err := token.Error(); err != nil {
		c.cache.requeueFront(item)
		return
	}
	if item.Release != nil {
		item.Release(nil)
	}
}
