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

import (
	"sync/atomic"

	validator "github.com/go-playground/validator/v10"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// database is the Store implementation. The *gorm.DB handle is held
// behind an atomic.Value, mirroring the teacher's database/gorm wrapper,
// so a future reconnect can swap the handle without a lock on every call.
type database struct {
	db atomic.Value // *gorm.DB
}

func open(cfg Config) (Store, error) {
	cfg = cfg.withDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errValidate(err)
	}

	gdb, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		return nil, errOpen(err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, errOpen(err)
	}
	sqlDB.SetMaxIdleConns(cfg.PoolMaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.PoolMaxOpenConns)
	if cfg.PoolConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.PoolConnMaxLifetime)
	}

	if cfg.AutoMigrate {
		if err := gdb.AutoMigrate(allTables...); err != nil {
			return nil, errMigrate(err)
		}
	}

	d := &database{}
	d.db.Store(gdb)
	return d, nil
}

func (d *database) handle() *gorm.DB {
	v := d.db.Load()
	if v == nil {
		return nil
	}
	return v.(*gorm.DB)
}

func (d *database) Nodes() NodeStore                       { return nodeStore{d} }
func (d *database) Plugins() PluginStore                   { return pluginStore{d} }
func (d *database) Groups() GroupStore                     { return groupStore{d} }
func (d *database) Tags() TagStore                         { return tagStore{d} }
func (d *database) Subscriptions() SubscriptionStore       { return subscriptionStore{d} }
func (d *database) Templates() TemplateStore               { return templateStore{d} }
func (d *database) ServerCerts() ServerCertStore           { return serverCertStore{d} }
func (d *database) ClientCerts() ClientCertStore           { return clientCertStore{d} }
func (d *database) SecurityPolicies() SecurityPolicyStore  { return securityPolicyStore{d} }
func (d *database) AuthSettings() AuthSettingStore         { return authSettingStore{d} }
func (d *database) AuthUsers() AuthUserStore               { return authUserStore{d} }

func (d *database) Close() error {
	gdb := d.handle()
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
