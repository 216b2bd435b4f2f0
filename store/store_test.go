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

package store_test

import (
	"testing"
	"time"

	"github.com/emqx/neuron-sub004/model"
	"github.com/emqx/neuron-sub004/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.Open(store.Config{DSN: "file::memory:?cache=shared", AutoMigrate: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNodeStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)

	n := &model.Node{ID: 1, Name: "plc-1", Type: model.NodeTypeDriver, PluginName: "modbus-tcp"}
	if err := s.Nodes().Store(n); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, err := s.Nodes().Load(1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "plc-1" || got.PluginName != "modbus-tcp" {
		t.Fatalf("got = %+v", got)
	}

	if err := s.Nodes().Store(n); err == nil {
		t.Fatal("expected duplicate insert to fail")
	}

	n.PluginName = "modbus-rtu"
	if err := s.Nodes().Update(n); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = s.Nodes().Load(1)
	if got.PluginName != "modbus-rtu" {
		t.Fatalf("update did not persist: %+v", got)
	}

	if err := s.Nodes().Delete(1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Nodes().Load(1); err == nil {
		t.Fatal("expected load after delete to fail")
	}
}

func TestGroupAndTagStore(t *testing.T) {
	s := openTestStore(t)

	g, err := model.NewGroup(1, "fast", 200*time.Millisecond)
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	if err := s.Groups().Store(g); err != nil {
		t.Fatalf("Store group: %v", err)
	}

	tag := &model.Tag{ID: 1, Name: "temp", Address: "4x00001:int16", Type: 0, Attribute: model.AttributeSet(model.AttrRead)}
	key := store.TagKey{NodeID: 1, GroupName: "fast", Name: "temp"}
	if err := s.Tags().Store(key, tag); err != nil {
		t.Fatalf("Store tag: %v", err)
	}

	tags, err := s.Tags().LoadByGroup(1, "fast")
	if err != nil {
		t.Fatalf("LoadByGroup: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "temp" {
		t.Fatalf("tags = %+v", tags)
	}

	groups, err := s.Groups().LoadByNode(1)
	if err != nil {
		t.Fatalf("LoadByNode: %v", err)
	}
	if len(groups) != 1 || groups[0].Interval != 200*time.Millisecond {
		t.Fatalf("groups = %+v", groups)
	}
}

func TestTemplateStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)

	tmpl := &store.Template{
		Name:       "generic-plc",
		PluginName: "modbus-tcp",
		Groups: []store.TemplateGroup{
			{
				Name:     "fast",
				Interval: time.Second,
				Tags: []store.TemplateTag{
					{Name: "temp", Address: "4x00001:int16", Attribute: model.AttributeSet(model.AttrRead)},
				},
			},
		},
	}
	if err := s.Templates().Store(tmpl); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, err := s.Templates().Load("generic-plc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Groups) != 1 || len(got.Groups[0].Tags) != 1 {
		t.Fatalf("got = %+v", got)
	}
	if got.Groups[0].Tags[0].Name != "temp" {
		t.Fatalf("tag mismatch: %+v", got.Groups[0].Tags[0])
	}
}

func TestSubscriptionAndSecurityStores(t *testing.T) {
	s := openTestStore(t)

	sub := store.Subscription{PublisherNode: 1, SubscriberNode: 2, GroupName: "fast"}
	if err := s.Subscriptions().Store(sub); err != nil {
		t.Fatalf("Store subscription: %v", err)
	}
	subs, err := s.Subscriptions().LoadByGroup(1, "fast")
	if err != nil {
		t.Fatalf("LoadByGroup: %v", err)
	}
	if len(subs) != 1 || subs[0].SubscriberNode != 2 {
		t.Fatalf("subs = %+v", subs)
	}

	if err := s.AuthSettings().Store(store.AuthSetting{AppName: "rest-api", Enabled: true}); err != nil {
		t.Fatalf("Store auth setting: %v", err)
	}
	as, err := s.AuthSettings().Load("rest-api")
	if err != nil {
		t.Fatalf("Load auth setting: %v", err)
	}
	if !as.Enabled {
		t.Fatalf("as = %+v", as)
	}

	if err := s.AuthUsers().Store(store.AuthUser{AppName: "rest-api", Username: "admin"}); err != nil {
		t.Fatalf("Store auth user: %v", err)
	}
	users, err := s.AuthUsers().LoadByApp("rest-api")
	if err != nil {
		t.Fatalf("LoadByApp: %v", err)
	}
	if len(users) != 1 || users[0].Username != "admin" {
		t.Fatalf("users = %+v", users)
	}
}
