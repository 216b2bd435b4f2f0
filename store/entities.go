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

// Package store is the gateway's durable persistence layer (§4.5): one
// GORM entity and one typed DAO per table, each exposing store/update/
// load/delete, backed by gorm.io/gorm with the sqlite driver — grounded
// on the teacher's database/gorm wrapper (atomic-handle Database, driver
// selection, validator-checked Config) generalized from a single
// general-purpose connection to this gateway's closed table set.
package store

import "time"

// nodeRow mirrors model.Node (§4.5 "nodes(id, name unique, type,
// plugin_name, state_blob)"). RunningState/LinkState are runtime-only and
// are not persisted; a reloaded Node always starts RunningInit/
// LinkDisconnected.
type nodeRow struct {
	ID         uint32 `gorm:"primaryKey"`
	Name       string `gorm:"uniqueIndex;not null"`
	Type       uint8  `gorm:"not null"`
	PluginName string
	StateBlob  []byte
}

func (nodeRow) TableName() string { return "nodes" }

// pluginRow mirrors §4.5 "plugins(so_path)".
type pluginRow struct {
	SoPath string `gorm:"primaryKey"`
}

func (pluginRow) TableName() string { return "plugins" }

// groupRow mirrors §4.5 "groups(node_id, name, interval_ms)".
type groupRow struct {
	NodeID     uint32 `gorm:"primaryKey;autoIncrement:false"`
	Name       string `gorm:"primaryKey"`
	IntervalMS int64  `gorm:"not null"`
}

func (groupRow) TableName() string { return "groups" }

// tagRow mirrors §4.5 "tags(node_id, group_name, id, name, address, type,
// attribute, option_blob)" keyed by (node_id, group_name, name).
type tagRow struct {
	NodeID     uint32 `gorm:"primaryKey;autoIncrement:false"`
	GroupName  string `gorm:"primaryKey"`
	Name       string `gorm:"primaryKey"`
	TagID      uint32 `gorm:"not null"`
	Address    string
	Type       uint8
	Attribute  uint8
	OptionBlob []byte
}

func (tagRow) TableName() string { return "tags" }

// subscriptionRow mirrors §4.5
// "subscriptions(publisher_node, subscriber_node, group_name, extra_blob)".
type subscriptionRow struct {
	PublisherNode  uint32 `gorm:"primaryKey;autoIncrement:false"`
	SubscriberNode uint32 `gorm:"primaryKey;autoIncrement:false"`
	GroupName      string `gorm:"primaryKey"`
	ExtraBlob      []byte
}

func (subscriptionRow) TableName() string { return "subscriptions" }

// templateRow mirrors §4.5 "templates(name unique, plugin_name)".
type templateRow struct {
	Name       string `gorm:"primaryKey"`
	PluginName string
}

func (templateRow) TableName() string { return "templates" }

// templateGroupRow mirrors §4.5 "template_groups(template,name,interval)".
type templateGroupRow struct {
	Template   string `gorm:"primaryKey"`
	Name       string `gorm:"primaryKey"`
	IntervalMS int64
}

func (templateGroupRow) TableName() string { return "template_groups" }

// templateTagRow mirrors §4.5 "template_tags(template,group,...)".
type templateTagRow struct {
	Template   string `gorm:"primaryKey"`
	GroupName  string `gorm:"primaryKey"`
	Name       string `gorm:"primaryKey"`
	Address    string
	Type       uint8
	Attribute  uint8
	OptionBlob []byte
}

func (templateTagRow) TableName() string { return "template_tags" }

// serverCertRow mirrors §4.5 "server_certs(app_name, cert, key, subject,
// issuer, valid_from, valid_to, fingerprint, …)" — one per app.
type serverCertRow struct {
	AppName     string `gorm:"primaryKey"`
	CertPEM     []byte
	KeyPEM      []byte
	Subject     string
	Issuer      string
	ValidFrom   time.Time
	ValidTo     time.Time
	Fingerprint string
}

func (serverCertRow) TableName() string { return "server_certs" }

// clientCertRow mirrors §4.5 "client_certs(app_name, fingerprint unique,
// cert, subject, issuer, trust_status, …)".
type clientCertRow struct {
	AppName     string `gorm:"primaryKey;autoIncrement:false"`
	Fingerprint string `gorm:"primaryKey"`
	CertPEM     []byte
	Subject     string
	Issuer      string
	TrustStatus uint8
}

func (clientCertRow) TableName() string { return "client_certs" }

// securityPolicyRow mirrors §4.5
// "security_policies(app_name unique, policy_name, updated_at)".
type securityPolicyRow struct {
	AppName    string `gorm:"primaryKey"`
	PolicyName string
	UpdatedAt  time.Time
}

func (securityPolicyRow) TableName() string { return "security_policies" }

// authSettingRow mirrors §4.5 "auth_settings(app_name unique, enabled,
// updated_at)".
type authSettingRow struct {
	AppName   string `gorm:"primaryKey"`
	Enabled   bool
	UpdatedAt time.Time
}

func (authSettingRow) TableName() string { return "auth_settings" }

// authUserRow mirrors §4.5 "auth_users(app_name, username)" keyed by
// (app_name, username).
type authUserRow struct {
	AppName  string `gorm:"primaryKey;autoIncrement:false"`
	Username string `gorm:"primaryKey"`
}

func (authUserRow) TableName() string { return "auth_users" }

var allTables = []interface{}{
	&nodeRow{},
	&pluginRow{},
	&groupRow{},
	&tagRow{},
	&subscriptionRow{},
	&templateRow{},
	&templateGroupRow{},
	&templateTagRow{},
	&serverCertRow{},
	&clientCertRow{},
	&securityPolicyRow{},
	&authSettingRow{},
	&authUserRow{},
}
