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

// TemplateTag is one tag within a TemplateGroup (§4.5 "template_tags").
type TemplateTag struct {
	Name      string
	Address   string
	Type      model.ValueType
	Attribute model.AttributeSet
}

// TemplateGroup is one group within a Template (§4.5 "template_groups").
type TemplateGroup struct {
	Name     string
	Interval time.Duration
	Tags     []TemplateTag
}

// Template is a reusable node blueprint (§4.5 "templates" + its children):
// a plugin name plus a set of groups and tags instantiated verbatim when
// add_node is given a template.
type Template struct {
	Name       string
	PluginName string
	Groups     []TemplateGroup
}

// TemplateStore persists Template, including its nested groups/tags, as a
// single atomic unit (§4.5).
type TemplateStore interface {
	Store(t *Template) error
	Update(t *Template) error
	Load(name string) (*Template, error)
	LoadAll() ([]*Template, error)
	Delete(name string) error
}

type templateStore struct{ d *database }

func (s templateStore) Store(t *Template) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	return db.Transaction(func(tx *gorm.DB) error {
		row := templateRow{Name: t.Name, PluginName: t.PluginName}
		if err := tx.Create(&row).Error; err != nil {
			return errAlreadyExists("template", t.Name)
		}
		return writeTemplateChildren(tx, t)
	})
}

func (s templateStore) Update(t *Template) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	return db.Transaction(func(tx *gorm.DB) error {
		row := templateRow{Name: t.Name, PluginName: t.PluginName}
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		if err := tx.Delete(&templateGroupRow{}, "template = ?", t.Name).Error; err != nil {
			return err
		}
		if err := tx.Delete(&templateTagRow{}, "template = ?", t.Name).Error; err != nil {
			return err
		}
		return writeTemplateChildren(tx, t)
	})
}

func writeTemplateChildren(tx *gorm.DB, t *Template) error {
	for _, g := range t.Groups {
		gr := templateGroupRow{Template: t.Name, Name: g.Name, IntervalMS: g.Interval.Milliseconds()}
		if err := tx.Create(&gr).Error; err != nil {
			return err
		}
		for _, tg := range g.Tags {
			tr := templateTagRow{
				Template:  t.Name,
				GroupName: g.Name,
				Name:      tg.Name,
				Address:   tg.Address,
				Type:      uint8(tg.Type),
				Attribute: uint8(tg.Attribute),
			}
			if err := tx.Create(&tr).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (s templateStore) Load(name string) (*Template, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}

	var row templateRow
	if err := db.First(&row, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("template", name)
		}
		return nil, err
	}

	var groupRows []templateGroupRow
	if err := db.Find(&groupRows, "template = ?", name).Error; err != nil {
		return nil, err
	}

	var tagRows []templateTagRow
	if err := db.Find(&tagRows, "template = ?", name).Error; err != nil {
		return nil, err
	}

	t := &Template{Name: row.Name, PluginName: row.PluginName}
	for _, gr := range groupRows {
		tg := TemplateGroup{Name: gr.Name, Interval: time.Duration(gr.IntervalMS) * time.Millisecond}
		for _, tr := range tagRows {
			if tr.GroupName != gr.Name {
				continue
			}
			tg.Tags = append(tg.Tags, TemplateTag{
				Name:      tr.Name,
				Address:   tr.Address,
				Type:      model.ValueType(tr.Type),
				Attribute: model.AttributeSet(tr.Attribute),
			})
		}
		t.Groups = append(t.Groups, tg)
	}
	return t, nil
}

func (s templateStore) LoadAll() ([]*Template, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}
	var rows []templateRow
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*Template, 0, len(rows))
	for _, r := range rows {
		t, err := s.Load(r.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s templateStore) Delete(name string) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&templateTagRow{}, "template = ?", name).Error; err != nil {
			return err
		}
		if err := tx.Delete(&templateGroupRow{}, "template = ?", name).Error; err != nil {
			return err
		}
		return tx.Delete(&templateRow{}, "name = ?", name).Error
	})
}
