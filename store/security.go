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
)

// SecurityPolicy is the persisted form of §4.5 "security_policies", one
// per app.
type SecurityPolicy struct {
	AppName    string
	PolicyName string
	UpdatedAt  time.Time
}

// SecurityPolicyStore persists SecurityPolicy rows.
type SecurityPolicyStore interface {
	Store(p SecurityPolicy) error
	Update(p SecurityPolicy) error
	Load(appName string) (*SecurityPolicy, error)
	Delete(appName string) error
}

type securityPolicyStore struct{ d *database }

func (s securityPolicyStore) row(p SecurityPolicy) securityPolicyRow {
	return securityPolicyRow{AppName: p.AppName, PolicyName: p.PolicyName, UpdatedAt: p.UpdatedAt}
}

func (s securityPolicyStore) fromRow(r securityPolicyRow) *SecurityPolicy {
	return &SecurityPolicy{AppName: r.AppName, PolicyName: r.PolicyName, UpdatedAt: r.UpdatedAt}
}

func (s securityPolicyStore) Store(p SecurityPolicy) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	row := s.row(p)
	if err := db.Create(&row).Error; err != nil {
		return errAlreadyExists("security policy", p.AppName)
	}
	return nil
}

func (s securityPolicyStore) Update(p SecurityPolicy) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	row := s.row(p)
	return db.Save(&row).Error
}

func (s securityPolicyStore) Load(appName string) (*SecurityPolicy, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}
	var row securityPolicyRow
	if err := db.First(&row, "app_name = ?", appName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("security policy", appName)
		}
		return nil, err
	}
	return s.fromRow(row), nil
}

func (s securityPolicyStore) Delete(appName string) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	return db.Delete(&securityPolicyRow{}, "app_name = ?", appName).Error
}

// AuthSetting is the persisted form of §4.5 "auth_settings", one per app.
type AuthSetting struct {
	AppName   string
	Enabled   bool
	UpdatedAt time.Time
}

// AuthSettingStore persists AuthSetting rows.
type AuthSettingStore interface {
	Store(a AuthSetting) error
	Update(a AuthSetting) error
	Load(appName string) (*AuthSetting, error)
	Delete(appName string) error
}

type authSettingStore struct{ d *database }

func (s authSettingStore) row(a AuthSetting) authSettingRow {
	return authSettingRow{AppName: a.AppName, Enabled: a.Enabled, UpdatedAt: a.UpdatedAt}
}

func (s authSettingStore) fromRow(r authSettingRow) *AuthSetting {
	return &AuthSetting{AppName: r.AppName, Enabled: r.Enabled, UpdatedAt: r.UpdatedAt}
}

func (s authSettingStore) Store(a AuthSetting) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	row := s.row(a)
	if err := db.Create(&row).Error; err != nil {
		return errAlreadyExists("auth setting", a.AppName)
	}
	return nil
}

func (s authSettingStore) Update(a AuthSetting) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	row := s.row(a)
	return db.Save(&row).Error
}

func (s authSettingStore) Load(appName string) (*AuthSetting, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}
	var row authSettingRow
	if err := db.First(&row, "app_name = ?", appName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("auth setting", appName)
		}
		return nil, err
	}
	return s.fromRow(row), nil
}

func (s authSettingStore) Delete(appName string) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	return db.Delete(&authSettingRow{}, "app_name = ?", appName).Error
}

// AuthUser is the persisted form of §4.5 "auth_users", keyed by
// (app_name, username).
type AuthUser struct {
	AppName  string
	Username string
}

// AuthUserStore persists AuthUser rows.
type AuthUserStore interface {
	Store(u AuthUser) error
	Load(appName, username string) (*AuthUser, error)
	LoadByApp(appName string) ([]AuthUser, error)
	Delete(appName, username string) error
}

type authUserStore struct{ d *database }

func (s authUserStore) Store(u AuthUser) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	row := authUserRow{AppName: u.AppName, Username: u.Username}
	if err := db.Create(&row).Error; err != nil {
		return errAlreadyExists("auth user", u.Username)
	}
	return nil
}

func (s authUserStore) Load(appName, username string) (*AuthUser, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}
	var row authUserRow
	if err := db.First(&row, "app_name = ? AND username = ?", appName, username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("auth user", username)
		}
		return nil, err
	}
	return &AuthUser{AppName: row.AppName, Username: row.Username}, nil
}

func (s authUserStore) LoadByApp(appName string) ([]AuthUser, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}
	var rows []authUserRow
	if err := db.Find(&rows, "app_name = ?", appName).Error; err != nil {
		return nil, err
	}
	out := make([]AuthUser, 0, len(rows))
	for _, r := range rows {
		out = append(out, AuthUser{AppName: r.AppName, Username: r.Username})
	}
	return out, nil
}

func (s authUserStore) Delete(appName, username string) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	return db.Delete(&authUserRow{}, "app_name = ? AND username = ?", appName, username).Error
}
