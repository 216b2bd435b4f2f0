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
	"encoding/json"

	"github.com/emqx/neuron-sub004/gwlog"
	"github.com/emqx/neuron-sub004/model"
	"github.com/emqx/neuron-sub004/mqttclient"
	"github.com/emqx/neuron-sub004/scheduler"
)

// mqttSubscriber adapts an MQTT-backed app node onto scheduler.Subscriber
// (§4.6 publish fan-out), so a group tick's batch reaches the broker
// through the same store-and-forward client every other northbound
// consumer uses. One instance is wired per subscribing app node.
type mqttSubscriber struct {
	nodeID model.NodeID
	topic  string
	client mqttclient.Client
	log    gwlog.Logger
}

func newMQTTSubscriber(nodeID model.NodeID, topic string, client mqttclient.Client, log gwlog.Logger) *mqttSubscriber {
	return &mqttSubscriber{nodeID: nodeID, topic: topic, client: client, log: log}
}

func (s *mqttSubscriber) NodeID() model.NodeID { return s.nodeID }

// mqttBatchPayload is the wire shape published for one group tick: tag name
// to plain JSON value, per §4.6 "deliver each tag reading... to every
// currently-subscribed northbound node".
type mqttBatchPayload struct {
	Group  string         `json:"group"`
	Values map[string]any `json:"values"`
}

// TransData publishes batch at QoS 1 so a disconnected broker caches it for
// replay (§4.4 store-and-forward) rather than dropping it. A failure
// reported later through the publish callback is only logged; an error
// returned by Publish itself is returned to the scheduler, whose fan-out
// logs it and carries on with the other subscribers (§4.6).
func (s *mqttSubscriber) TransData(batch scheduler.Batch) error {
	values := make(map[string]any, len(batch.Readings))
	for _, r := range batch.Readings {
		values[r.TagName] = r.Value.Plain()
	}
	payload, err := json.Marshal(mqttBatchPayload{Group: batch.GroupName, Values: values})
	if err != nil {
		return err
	}
	return s.client.Publish(1, s.topic, payload, func(err error) {
		if err != nil {
			s.log.WithField("topic", s.topic).WithField("error", err).Warn("mqtt publish failed")
		}
	})
}
