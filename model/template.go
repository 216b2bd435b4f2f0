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

package model

import "time"

// TemplateTag is a tag definition within a TemplateGroup, not yet bound to
// any concrete Node.
type TemplateTag struct {
	Name      string
	Address   string
	Type      ValueType
	Attribute AttributeSet
}

// TemplateGroup is a group definition within a Template.
type TemplateGroup struct {
	Name     string
	Interval time.Duration
	Tags     []TemplateTag
}

// Template is a named, plugin-typed bundle of groups with tags,
// instantiable into a concrete Node (§3, seed scenario 5).
type Template struct {
	Name       string
	PluginName string
	Groups     []TemplateGroup
}

// Instantiate materializes this Template as a fresh Node plus its Groups
// and Tags, bound to the given node id and name. It performs no I/O; the
// caller (normally the store) is responsible for persisting the result
// transactionally.
func (t *Template) Instantiate(id NodeID, nodeName string) (*Node, []*Group, map[GroupKey][]*Tag) {
	node := &Node{
		ID:         id,
		Name:       nodeName,
		Type:       NodeTypeDriver,
		PluginName: t.PluginName,
	}

	groups := make([]*Group, 0, len(t.Groups))
	tagsByGroup := make(map[GroupKey][]*Tag, len(t.Groups))

	for _, tg := range t.Groups {
		g := &Group{NodeID: id, Name: tg.Name, Interval: tg.Interval}
		groups = append(groups, g)

		tags := make([]*Tag, 0, len(tg.Tags))
		for i, tt := range tg.Tags {
			tags = append(tags, &Tag{
				ID:        TagID(i + 1),
				Name:      tt.Name,
				Address:   tt.Address,
				Type:      tt.Type,
				Attribute: tt.Attribute,
			})
		}
		tagsByGroup[g.Key()] = tags
	}

	return node, groups, tagsByGroup
}
