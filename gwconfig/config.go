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

// Package gwconfig loads the gateway's YAML configuration file (and its
// environment overrides) into the typed Config structs every other core
// package already exposes, instead of inventing a parallel configuration
// model. It never interprets plugin settings blobs, only the node/group/tag
// shape needed to provision them on startup.
package gwconfig

import (
	"time"

	"github.com/emqx/neuron-sub004/mqttclient"
	"github.com/emqx/neuron-sub004/store"
)

// ReactorConfig tunes the single process-wide reactor every other
// component is built on top of.
type ReactorConfig struct {
	// MinTick is decoded and validated (positive when set) but is not read
	// by bootstrap or the reactor; group intervals are bounded by
	// model.NewGroup (100ms to 24h) instead.
	MinTick time.Duration `mapstructure:"min_tick" validate:"omitempty,gt=0"`
}

// LogConfig controls the gwlog sink.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error fatal"`
}

// BootstrapTag provisions one tag on a bootstrap group (§4.5 "tags").
type BootstrapTag struct {
	Name      string `mapstructure:"name" validate:"required"`
	Address   string `mapstructure:"address" validate:"required"`
	Type      uint8  `mapstructure:"type"`
	Attribute uint8  `mapstructure:"attribute"`
}

// BootstrapGroup provisions one group owned by a bootstrap node, with its
// poll interval and tag set (§4.5 "groups", "tags").
type BootstrapGroup struct {
	Name     string         `mapstructure:"name" validate:"required"`
	Interval time.Duration  `mapstructure:"interval" validate:"required,gt=0"`
	Tags     []BootstrapTag `mapstructure:"tags"`
}

// BootstrapSubscription wires a northbound node to a southbound node's
// group at startup, mirroring an add_subscription call (§4.6).
type BootstrapSubscription struct {
	SubscriberNode string `mapstructure:"subscriber_node" validate:"required"`
	GroupName      string `mapstructure:"group_name" validate:"required"`
}

// BootstrapNode provisions one node (§4.5 "nodes") plus, for a driver
// node, the groups it owns at startup.
type BootstrapNode struct {
	Name       string                  `mapstructure:"name" validate:"required"`
	Type       string                  `mapstructure:"type" validate:"required,oneof=driver app system"`
	PluginName string                  `mapstructure:"plugin_name"`
	Settings   map[string]any          `mapstructure:"settings"`
	Groups     []BootstrapGroup        `mapstructure:"groups"`
	Subscribes []BootstrapSubscription `mapstructure:"subscribes"`

	// Topic is the MQTT publish topic for an app node whose plugin_name is
	// "mqtt" (the only northbound plugin this module wires directly,
	// §4.6/§4.4); ignored for every other plugin_name.
	Topic string `mapstructure:"topic"`
}

// Config is the gateway's root configuration document, loaded from YAML by
// Load and validated with the same go-playground/validator tags every
// nested Config already carries.
type Config struct {
	Log     LogConfig            `mapstructure:"log"`
	Reactor ReactorConfig        `mapstructure:"reactor"`
	MQTT    mqttclient.Config    `mapstructure:"mqtt"`
	Store   store.Config         `mapstructure:"store"`
	Nodes   []BootstrapNode      `mapstructure:"nodes"`
}
