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
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/emqx/neuron-sub004/model"
)

// GroupStore persists model.Group (§4.5 "groups"), keyed by (node_id,
// name). The subscriber set is not stored here — it is reconstructed from
// SubscriptionStore at boot.
type GroupStore interface {
	Store(g *model.Group) error
	Update(g *model.Group) error
	Load(key model.GroupKey) (*model.Group, error)
	LoadByNode(node model.NodeID) ([]*model.Group, error)
	Delete(key model.GroupKey) error
}

type groupStore struct{ d *database }

func groupToRow(g *model.Group) groupRow {
	return groupRow{NodeID: uint32(g.NodeID), Name: g.Name, IntervalMS: g.Interval.Milliseconds()}
}

func rowToGroup(r groupRow) (*model.Group, error) {
	return model.NewGroup(model.NodeID(r.NodeID), r.Name, time.Duration(r.IntervalMS)*time.Millisecond)
}

func (s groupStore) Store(g *model.Group) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	row := groupToRow(g)
	if err := db.Create(&row).Error; err != nil {
		return errAlreadyExists("group", g.Name)
	}
	return nil
}

func (s groupStore) Update(g *model.Group) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	row := groupToRow(g)
	return db.Save(&row).Error
}

func (s groupStore) Load(key model.GroupKey) (*model.Group, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}
	var row groupRow
	err := db.First(&row, "node_id = ? AND name = ?", uint32(key.NodeID), key.Name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("group", key.Name)
		}
		return nil, err
	}
	return rowToGroup(row)
}

func (s groupStore) LoadByNode(node model.NodeID) ([]*model.Group, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}
	var rows []groupRow
	if err := db.Find(&rows, "node_id = ?", uint32(node)).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Group, 0, len(rows))
	for _, r := range rows {
		g, err := rowToGroup(r)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func (s groupStore) Delete(key model.GroupKey) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	return db.Delete(&groupRow{}, "node_id = ? AND name = ?", uint32(key.NodeID), key.Name).Error
}
