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

package gwconfig_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/emqx/neuron-sub004/gwconfig"
)

const sampleYAML = `
log:
  level: debug
mqtt:
  broker: tcp://localhost:1883
  client_id: gatewayd-1
store:
  dsn: /var/lib/gatewayd/gateway.db
nodes:
  - name: plc-1
    type: driver
    plugin_name: modbus-tcp
    groups:
      - name: fast
        interval: 200ms
        tags:
          - name: temp
            address: "4x00001:int16"
  - name: rest-api
    type: app
    subscribes:
      - subscriber_node: rest-api
        group_name: fast
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "gatewayd.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsAndBootstrap(t *testing.T) {
	path := writeTemp(t, sampleYAML)

	cfg, err := gwconfig.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Fatalf("log.level = %q", cfg.Log.Level)
	}
	if cfg.MQTT.KeepAlive != 30*time.Second {
		t.Fatalf("mqtt.keep_alive default = %v", cfg.MQTT.KeepAlive)
	}
	if cfg.Store.PoolMaxOpenConns != 10 {
		t.Fatalf("store.pool_max_open_conns default = %d", cfg.Store.PoolMaxOpenConns)
	}
	if len(cfg.Nodes) != 2 {
		t.Fatalf("nodes = %+v", cfg.Nodes)
	}
	if len(cfg.Nodes[0].Groups) != 1 || cfg.Nodes[0].Groups[0].Interval != 200*time.Millisecond {
		t.Fatalf("groups = %+v", cfg.Nodes[0].Groups)
	}
	if len(cfg.Nodes[1].Subscribes) != 1 || cfg.Nodes[1].Subscribes[0].GroupName != "fast" {
		t.Fatalf("subscribes = %+v", cfg.Nodes[1].Subscribes)
	}
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	path := writeTemp(t, "store:\n  dsn: /tmp/x.db\n")

	if _, err := gwconfig.Load(path); err == nil {
		t.Fatal("expected validation error for missing mqtt.broker/client_id")
	}
}

func TestLoadEnvironmentOverride(t *testing.T) {
	path := writeTemp(t, sampleYAML)
	t.Setenv("GATEWAYD_MQTT_BROKER", "tcp://broker.example:1883")

	cfg, err := gwconfig.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MQTT.Broker != "tcp://broker.example:1883" {
		t.Fatalf("mqtt.broker override = %q", cfg.MQTT.Broker)
	}
}
