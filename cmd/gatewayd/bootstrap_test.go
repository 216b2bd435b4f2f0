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

package main

import (
	"sync"
	"testing"
	"time"

	"github.com/emqx/neuron-sub004/gwconfig"
	"github.com/emqx/neuron-sub004/gwlog"
	"github.com/emqx/neuron-sub004/metrics"
	"github.com/emqx/neuron-sub004/mqttclient"
	"github.com/emqx/neuron-sub004/reactor"
	"github.com/emqx/neuron-sub004/scheduler"
	"github.com/emqx/neuron-sub004/store"
)

// fakeMQTTClient captures publishes instead of dialing a real broker, so
// bootstrapGateway's fan-out wiring can be exercised without a network.
type fakeMQTTClient struct {
	mqttclient.Client

	mu       sync.Mutex
	topics   []string
	payloads [][]byte
}

func (f *fakeMQTTClient) Publish(qos byte, topic string, payload []byte, cb mqttclient.PublishCallback) error {
	f.mu.Lock()
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
	f.mu.Unlock()
	if cb != nil {
		cb(nil)
	}
	return nil
}

func (f *fakeMQTTClient) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.topics)
}

func TestBootstrapGatewayWiresMQTTSubscriber(t *testing.T) {
	st, err := store.Open(store.Config{DSN: "file::memory:?cache=shared", AutoMigrate: true})
	if err != nil {
		t.Fatalf("Open store: %v", err)
	}
	defer st.Close()

	log := gwlog.Discard()
	r, err := reactor.New(log)
	if err != nil {
		t.Fatalf("New reactor: %v", err)
	}
	defer r.Close()

	sched := scheduler.New(r, metrics.New(), log)
	fake := &fakeMQTTClient{}

	cfg := &gwconfig.Config{
		Nodes: []gwconfig.BootstrapNode{
			{
				Name:       "mb1",
				Type:       "driver",
				PluginName: "modbus",
				Groups: []gwconfig.BootstrapGroup{
					{
						Name:     "g1",
						Interval: 100 * time.Millisecond,
						Tags: []gwconfig.BootstrapTag{
							{Name: "t1", Address: "1!400001", Type: 3, Attribute: 1},
						},
					},
				},
			},
			{
				Name:       "mqtt1",
				Type:       "app",
				PluginName: "mqtt",
				Topic:      "gateway/mb1/g1",
				Subscribes: []gwconfig.BootstrapSubscription{
					{SubscriberNode: "mqtt1", GroupName: "g1"},
				},
			},
		},
	}

	if err := bootstrapGateway(cfg, st, sched, fake, log); err != nil {
		t.Fatalf("bootstrapGateway: %v", err)
	}

	// Driver group ticks are armed with a no-op GroupTimerFunc (no plugin
	// attached), but the fan-out wiring itself must be in place: give the
	// timer a couple of intervals to fire so SetSubscribers' batch reaches
	// the fake MQTT client, even with zero readings.
	deadline := time.After(2 * time.Second)
	for fake.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("expected at least one publish through the wired mqtt subscriber")
		case <-time.After(50 * time.Millisecond):
		}
	}

	if got := fake.topics[0]; got != "gateway/mb1/g1" {
		t.Fatalf("topic = %q, want gateway/mb1/g1", got)
	}
}
