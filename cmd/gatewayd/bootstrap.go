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
	"fmt"

	"github.com/emqx/neuron-sub004/gwconfig"
	"github.com/emqx/neuron-sub004/gwlog"
	"github.com/emqx/neuron-sub004/model"
	"github.com/emqx/neuron-sub004/mqttclient"
	"github.com/emqx/neuron-sub004/scheduler"
	"github.com/emqx/neuron-sub004/store"
)

// nodeType maps the config file's string form onto model.NodeType.
func nodeType(s string) model.NodeType {
	switch s {
	case "driver":
		return model.NodeTypeDriver
	case "app":
		return model.NodeTypeApp
	default:
		return model.NodeTypeSystem
	}
}

// bootstrapGateway persists every configured node/group/tag/subscription
// that the store does not already hold, then arms a scheduler group for
// each driver node's groups and wires each subscribing "mqtt" app node to
// the northbound client as a scheduler.Subscriber (§4.6). Idempotent:
// re-running serve against an already-provisioned store skips entities that
// already exist.
//
// Driver plugins themselves are loaded out of process (§2 "plugins");
// until one registers a real GroupTimerFunc, each group runs a no-op
// placeholder that reports no readings, so the schedule and fan-out wiring can be
// exercised before a plugin is attached.
func bootstrapGateway(cfg *gwconfig.Config, st store.Store, sched *scheduler.Scheduler, mc mqttclient.Client, log gwlog.Logger) error {
	byName := make(map[string]*model.Node, len(cfg.Nodes))
	groupOwner := make(map[string]model.NodeID)
	groupRuntimes := make(map[string]*scheduler.GroupRuntime)

	for _, bn := range cfg.Nodes {
		n := &model.Node{
			ID:         model.NextNodeID(),
			Name:       bn.Name,
			Type:       nodeType(bn.Type),
			PluginName: bn.PluginName,
		}
		if len(bn.Settings) > 0 {
			blob, err := json.Marshal(bn.Settings)
			if err != nil {
				return fmt.Errorf("encode settings for node %q: %w", bn.Name, err)
			}
			n.SettingsBlob = blob
		}
		if err := n.Validate(); err != nil {
			return fmt.Errorf("node %q: %w", bn.Name, err)
		}

		if err := st.Nodes().Store(n); err != nil {
			existing, loadErr := findNodeByName(st, bn.Name)
			if loadErr != nil {
				return fmt.Errorf("store node %q: %w", bn.Name, err)
			}
			n = existing
		}
		byName[bn.Name] = n

		for _, bg := range bn.Groups {
			g, err := model.NewGroup(n.ID, bg.Name, bg.Interval)
			if err != nil {
				return fmt.Errorf("group %q on node %q: %w", bg.Name, bn.Name, err)
			}
			if err := st.Groups().Store(g); err != nil {
				log.WithField("node", bn.Name).WithField("group", bg.Name).Warn("group already provisioned")
			}
			groupOwner[bg.Name] = n.ID

			for _, bt := range bg.Tags {
				tag := &model.Tag{
					Name:      bt.Name,
					Address:   bt.Address,
					Type:      model.ValueType(bt.Type),
					Attribute: model.AttributeSet(bt.Attribute),
				}
				if tag.Attribute.Empty() {
					tag.Attribute = model.AttributeSet(model.AttrRead)
				}
				if err := tag.Validate(); err != nil {
					return fmt.Errorf("tag %q in group %q: %w", bt.Name, bg.Name, err)
				}
				key := store.TagKey{NodeID: n.ID, GroupName: bg.Name, Name: bt.Name}
				if err := st.Tags().Store(key, tag); err != nil {
					log.WithField("tag", bt.Name).Warn("tag already provisioned")
				}
			}

			if n.IsSouthbound() {
				placeholder := func(h *scheduler.DriverHandle) {}
				gr, err := sched.AddGroup(n, g, placeholder)
				if err != nil {
					return fmt.Errorf("arm group %q on node %q: %w", bg.Name, bn.Name, err)
				}
				groupRuntimes[bg.Name] = gr
			}
		}
	}

	subsByGroup := make(map[string][]scheduler.Subscriber)
	for _, bn := range cfg.Nodes {
		sub := byName[bn.Name]
		for _, bs := range bn.Subscribes {
			publisher, ok := groupOwner[bs.GroupName]
			if !ok {
				return fmt.Errorf("subscription on %q references unknown group %q", bn.Name, bs.GroupName)
			}
			rec := store.Subscription{PublisherNode: publisher, SubscriberNode: sub.ID, GroupName: bs.GroupName}
			if err := st.Subscriptions().Store(rec); err != nil {
				log.WithField("subscriber", bn.Name).Warn("subscription already provisioned")
			}

			if bn.PluginName == "mqtt" && bn.Topic != "" && mc != nil {
				subsByGroup[bs.GroupName] = append(subsByGroup[bs.GroupName], newMQTTSubscriber(sub.ID, bn.Topic, mc, log))
			}
		}
	}
	for groupName, subs := range subsByGroup {
		gr, ok := groupRuntimes[groupName]
		if !ok {
			continue
		}
		gr.SetSubscribers(subs)
	}

	return nil
}

func findNodeByName(st store.Store, name string) (*model.Node, error) {
	nodes, err := st.Nodes().LoadAll()
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if n.Name == name {
			return n, nil
		}
	}
	return nil, fmt.Errorf("node %q not found after failed insert", name)
}
