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

	"github.com/emqx/neuron-sub004/certs"
)

// ServerCertRecord is the persisted form of a per-app server certificate
// (§4.5 "server_certs"), pairing the opaque certs.Pair with its parsed
// certs.Info.
type ServerCertRecord struct {
	AppName string
	Pair    certs.Pair
	Info    certs.Info
}

// ServerCertStore persists one server certificate per app.
type ServerCertStore interface {
	Store(r ServerCertRecord) error
	Update(r ServerCertRecord) error
	Load(appName string) (*ServerCertRecord, error)
	Delete(appName string) error
}

type serverCertStore struct{ d *database }

func (s serverCertStore) row(r ServerCertRecord) serverCertRow {
	return serverCertRow{
		AppName:     r.AppName,
		CertPEM:     r.Pair.CertPEM,
		KeyPEM:      r.Pair.KeyPEM,
		Subject:     r.Info.Subject,
		Issuer:      r.Info.Issuer,
		ValidFrom:   r.Info.ValidFrom,
		ValidTo:     r.Info.ValidTo,
		Fingerprint: r.Info.Fingerprint,
	}
}

func (s serverCertStore) fromRow(row serverCertRow) *ServerCertRecord {
	return &ServerCertRecord{
		AppName: row.AppName,
		Pair:    certs.Pair{CertPEM: row.CertPEM, KeyPEM: row.KeyPEM},
		Info: certs.Info{
			Subject:     row.Subject,
			Issuer:      row.Issuer,
			ValidFrom:   row.ValidFrom,
			ValidTo:     row.ValidTo,
			Fingerprint: row.Fingerprint,
		},
	}
}

func (s serverCertStore) Store(r ServerCertRecord) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	row := s.row(r)
	if err := db.Create(&row).Error; err != nil {
		return errAlreadyExists("server cert", r.AppName)
	}
	return nil
}

func (s serverCertStore) Update(r ServerCertRecord) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	row := s.row(r)
	return db.Save(&row).Error
}

func (s serverCertStore) Load(appName string) (*ServerCertRecord, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}
	var row serverCertRow
	if err := db.First(&row, "app_name = ?", appName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("server cert", appName)
		}
		return nil, err
	}
	return s.fromRow(row), nil
}

func (s serverCertStore) Delete(appName string) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	return db.Delete(&serverCertRow{}, "app_name = ?", appName).Error
}

// TrustStatus classifies a client certificate (§4.5 "trust_status").
type TrustStatus uint8

const (
	TrustUnknown TrustStatus = iota
	TrustTrusted
	TrustRevoked
)

// ClientCertRecord is the persisted form of a trusted client certificate
// (§4.5 "client_certs"), keyed by (app_name, fingerprint).
type ClientCertRecord struct {
	AppName string
	Pair    certs.Pair
	Info    certs.Info
	Trust   TrustStatus
}

// ClientCertStore persists client certificates an app trusts for mutual
// TLS.
type ClientCertStore interface {
	Store(r ClientCertRecord) error
	Update(r ClientCertRecord) error
	Load(appName, fingerprint string) (*ClientCertRecord, error)
	LoadByApp(appName string) ([]*ClientCertRecord, error)
	Delete(appName, fingerprint string) error
}

type clientCertStore struct{ d *database }

func (s clientCertStore) row(r ClientCertRecord) clientCertRow {
	return clientCertRow{
		AppName:     r.AppName,
		Fingerprint: r.Info.Fingerprint,
		CertPEM:     r.Pair.CertPEM,
		Subject:     r.Info.Subject,
		Issuer:      r.Info.Issuer,
		TrustStatus: uint8(r.Trust),
	}
}

func (s clientCertStore) fromRow(row clientCertRow) *ClientCertRecord {
	return &ClientCertRecord{
		AppName: row.AppName,
		Pair:    certs.Pair{CertPEM: row.CertPEM},
		Info:    certs.Info{Subject: row.Subject, Issuer: row.Issuer, Fingerprint: row.Fingerprint},
		Trust:   TrustStatus(row.TrustStatus),
	}
}

func (s clientCertStore) Store(r ClientCertRecord) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	row := s.row(r)
	if err := db.Create(&row).Error; err != nil {
		return errAlreadyExists("client cert", r.Info.Fingerprint)
	}
	return nil
}

func (s clientCertStore) Update(r ClientCertRecord) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	row := s.row(r)
	return db.Save(&row).Error
}

func (s clientCertStore) Load(appName, fingerprint string) (*ClientCertRecord, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}
	var row clientCertRow
	if err := db.First(&row, "app_name = ? AND fingerprint = ?", appName, fingerprint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("client cert", fingerprint)
		}
		return nil, err
	}
	return s.fromRow(row), nil
}

func (s clientCertStore) LoadByApp(appName string) ([]*ClientCertRecord, error) {
	db := s.d.handle()
	if db == nil {
		return nil, errNotOpen()
	}
	var rows []clientCertRow
	if err := db.Find(&rows, "app_name = ?", appName).Error; err != nil {
		return nil, err
	}
	out := make([]*ClientCertRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.fromRow(r))
	}
	return out, nil
}

func (s clientCertStore) Delete(appName, fingerprint string) error {
	db := s.d.handle()
	if db == nil {
		return errNotOpen()
	}
	return db.Delete(&clientCertRow{}, "app_name = ? AND fingerprint = ?", appName, fingerprint).Error
}
