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


// PluginStore persists the set of loadable plugin shared objects (§4.5
// "plugins(so_path)").
type PluginStore interface {
	Store(soPath string) error
	LoadAll() ([]string, error)
	Delete(soPath string) error
}

type pluginStore struct{ d *database }

func (s pluginStore) Store(soPath string) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	row := pluginRow{SoPath: soPath}
	if err := db.Create(&row).Error; err != nil {
		return errAlreadyExists("plugin", soPath)
	}
	return nil
}

func (s pluginStore) LoadAll() ([]string, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}
	var rows []pluginRow
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.SoPath)
	}
	return out, nil
}

func (s pluginStore) Delete(soPath string) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	res := db.Delete(&pluginRow{}, "so_path = ?", soPath)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound("plugin", soPath)
	}
	return nil
}
