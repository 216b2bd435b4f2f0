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

package store

import "time"

// Config is the persistence layer's connection configuration (§4.5, §6
// "store DSN"). The gateway only ever talks to a single embedded sqlite
// file today, but the field set mirrors the teacher's multi-driver Config
// shape so a future Postgres/MySQL deployment target needs no API change.
type Config struct {
	DSN string `validate:"required" mapstructure:"dsn" json:"dsn" yaml:"dsn"`

	PoolMaxIdleConns    int           `mapstructure:"pool-max-idle-conns" json:"pool-max-idle-conns" yaml:"pool-max-idle-conns"`
	PoolMaxOpenConns    int           `mapstructure:"pool-max-open-conns" json:"pool-max-open-conns" yaml:"pool-max-open-conns"`
	PoolConnMaxLifetime time.Duration `mapstructure:"pool-conn-max-lifetime" json:"pool-conn-max-lifetime" yaml:"pool-conn-max-lifetime"`

	// AutoMigrate runs GORM's schema migration for the closed table set
	// (§4.5) on Open.
	AutoMigrate bool `mapstructure:"auto-migrate" json:"auto-migrate" yaml:"auto-migrate"`
}

func (c Config) withDefaults() Config {
	if c.PoolMaxIdleConns <= 0 {
		c.PoolMaxIdleConns = 2
	}
	if c.PoolMaxOpenConns <= 0 {
		c.PoolMaxOpenConns = 10
	}
	return c
}
