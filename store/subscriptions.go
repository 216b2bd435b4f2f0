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

import "github.com/emqx/neuron-sub004/model"

// Subscription is the persisted form of a Group/app pairing (§4.5
// "subscriptions"), reconstructed into model.Group.SetSubscribers at boot.
type Subscription struct {
	PublisherNode  model.NodeID
	SubscriberNode model.NodeID
	GroupName      string
	ExtraBlob      []byte
}

// SubscriptionStore persists Subscription rows.
type SubscriptionStore interface {
	Store(s Subscription) error
	Delete(publisher, subscriber model.NodeID, group string) error
	LoadByGroup(publisher model.NodeID, group string) ([]Subscription, error)
	LoadAll() ([]Subscription, error)
}

type subscriptionStore struct{ d *database }

func subToRow(s Subscription) subscriptionRow {
	return subscriptionRow{
		PublisherNode:  uint32(s.PublisherNode),
		SubscriberNode: uint32(s.SubscriberNode),
		GroupName:      s.GroupName,
		ExtraBlob:      s.ExtraBlob,
	}
}

func rowToSub(r subscriptionRow) Subscription {
	return Subscription{
		PublisherNode:  model.NodeID(r.PublisherNode),
		SubscriberNode: model.NodeID(r.SubscriberNode),
		GroupName:      r.GroupName,
		ExtraBlob:      r.ExtraBlob,
	}
}

func (s subscriptionStore) Store(sub Subscription) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	row := subToRow(sub)
	if err := db.Create(&row).Error; err != nil {
		return errAlreadyExists("subscription", sub.GroupName)
	}
	return nil
}

func (s subscriptionStore) Delete(publisher, subscriber model.NodeID, group string) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	return db.Delete(&subscriptionRow{}, "publisher_node = ? AND subscriber_node = ? AND group_name = ?",
		uint32(publisher), uint32(subscriber), group).Error
}

func (s subscriptionStore) LoadByGroup(publisher model.NodeID, group string) ([]Subscription, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}
	var rows []subscriptionRow
	if err := db.Find(&rows, "publisher_node = ? AND group_name = ?", uint32(publisher), group).Error; err != nil {
		return nil, err
	}
	out := make([]Subscription, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToSub(r))
	}
	return out, nil
}

func (s subscriptionStore) LoadAll() ([]Subscription, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}
	var rows []subscriptionRow
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Subscription, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToSub(r))
	}
	return out, nil
}
