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

package gwconfig

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "GATEWAYD"

// defaults repeats the mqttclient and store package-level defaults where
// those packages have one, and adds values they leave unset (min_tick,
// cache caps, auto-migrate), so a minimal file (just broker + store DSN)
// still produces a workable configuration.
func defaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("reactor.min_tick", "10ms")

	v.SetDefault("mqtt.version", 1) // mqttclient.V3_1_1
	v.SetDefault("mqtt.keep_alive", "30s")
	v.SetDefault("mqtt.connect_timeout", "10s")
	v.SetDefault("mqtt.max_reconnect_wait", "1h")
	v.SetDefault("mqtt.cache.mem_cap_bytes", 16*1024*1024)
	v.SetDefault("mqtt.cache.item_cap", 10000)
	v.SetDefault("mqtt.cache.sync_interval", "100ms")

	v.SetDefault("store.pool-max-idle-conns", 2)
	v.SetDefault("store.pool-max-open-conns", 10)
	v.SetDefault("store.auto-migrate", true)
}

// newViper builds a Viper instance bound to configPath (YAML) and to
// GATEWAYD_-prefixed environment overrides (GATEWAYD_MQTT_BROKER overrides
// mqtt.broker, matching the am.Load dotted-to-underscore convention).
func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults(v)
	return v
}

// Load reads configPath as YAML, applies GATEWAYD_-prefixed environment
// overrides, and decodes + validates the result into a Config.
func Load(configPath string) (*Config, error) {
	v := newViper(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, errRead(err)
	}

	return decode(v)
}

// LoadWithViper decodes + validates a Config from an already-populated
// Viper instance, for callers (such as tests) that need to seed values
// before reading the file.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errDecode(err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, errValidate(err)
	}
	return &cfg, nil
}
