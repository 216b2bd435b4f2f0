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

	"gorm.io/gorm"

	"github.com/emqx/neuron-sub004/model"
)

// TagKey identifies a Tag row: (node_id, group_name, name) per §4.5.
type TagKey struct {
	NodeID    model.NodeID
	GroupName string
	Name      string
}

// TagStore persists model.Tag (§4.5 "tags").
type TagStore interface {
	Store(key TagKey, t *model.Tag) error
	Update(key TagKey, t *model.Tag) error
	Load(key TagKey) (*model.Tag, error)
	LoadByGroup(node model.NodeID, group string) ([]*model.Tag, error)
	Delete(key TagKey) error
}

type tagStore struct{ d *database }

func tagToRow(key TagKey, t *model.Tag) tagRow {
	return tagRow{
		NodeID:    uint32(key.NodeID),
		GroupName: key.GroupName,
		Name:      key.Name,
		TagID:     uint32(t.ID),
		Address:   t.Address,
		Type:      uint8(t.Type),
		Attribute: uint8(t.Attribute),
	}
}

func rowToTag(r tagRow) *model.Tag {
	return &model.Tag{
		ID:        model.TagID(r.TagID),
		Name:      r.Name,
		Address:   r.Address,
		Type:      model.ValueType(r.Type),
		Attribute: model.AttributeSet(r.Attribute),
	}
}

func (s tagStore) Store(key TagKey, t *model.Tag) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	row := tagToRow(key, t)
	if err := db.Create(&row).Error; err != nil {
		return errAlreadyExists("tag", key.Name)
	}
	return nil
}

func (s tagStore) Update(key TagKey, t *model.Tag) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	row := tagToRow(key, t)
	return db.Save(&row).Error
}

func (s tagStore) Load(key TagKey) (*model.Tag, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}
	var row tagRow
	err := db.First(&row, "node_id = ? AND group_name = ? AND name = ?", uint32(key.NodeID), key.GroupName, key.Name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("tag", key.Name)
		}
		return nil, err
	}
	return rowToTag(row), nil
}

func (s tagStore) LoadByGroup(node model.NodeID, group string) ([]*model.Tag, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}
	var rows []tagRow
	if err := db.Find(&rows, "node_id = ? AND group_name = ?", uint32(node), group).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Tag, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToTag(r))
	}
	return out, nil
}

func (s tagStore) Delete(key TagKey) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	return db.Delete(&tagRow{}, "node_id = ? AND group_name = ? AND name = ?", uint32(key.NodeID), key.GroupName, key.Name).Error
}
