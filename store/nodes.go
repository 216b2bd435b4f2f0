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

// NodeStore persists model.Node (§4.5 "nodes"). RunningState/LinkState
// are runtime-only and never round-trip through the store.
type NodeStore interface {
	Store(n *model.Node) error
	Update(n *model.Node) error
	Load(id model.NodeID) (*model.Node, error)
	LoadAll() ([]*model.Node, error)
	Delete(id model.NodeID) error
}

type nodeStore struct{ d *database }

func nodeToRow(n *model.Node) nodeRow {
	return nodeRow{
		ID:         uint32(n.ID),
		Name:       n.Name,
		Type:       uint8(n.Type),
		PluginName: n.PluginName,
		StateBlob:  n.SettingsBlob,
	}
}

func rowToNode(r nodeRow) *model.Node {
	return &model.Node{
		ID:           model.NodeID(r.ID),
		Name:         r.Name,
		Type:         model.NodeType(r.Type),
		PluginName:   r.PluginName,
		SettingsBlob: r.StateBlob,
	}
}

func (s nodeStore) Store(n *model.Node) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	row := nodeToRow(n)
	if err := db.Create(&row).Error; err != nil {
		return errAlreadyExists("node", n.Name)
	}
	return nil
}

func (s nodeStore) Update(n *model.Node) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	row := nodeToRow(n)
	return db.Save(&row).Error
}

func (s nodeStore) Load(id model.NodeID) (*model.Node, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}
	var row nodeRow
	if err := db.First(&row, "id = ?", uint32(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("node", nodeIDString(id))
		}
		return nil, err
	}
	return rowToNode(row), nil
}

func (s nodeStore) LoadAll() ([]*model.Node, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}
	var rows []nodeRow
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Node, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToNode(r))
	}
	return out, nil
}

func (s nodeStore) Delete(id model.NodeID) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	return db.Delete(&nodeRow{}, "id = ?", uint32(id)).Error
}

func nodeIDString(id model.NodeID) string {
	return uintToString(uint64(id))
}
