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

// Package certs treats certificate/key material as opaque byte blobs per
// §1's Non-goals ("the certificate cryptography primitives"): it never
// implements its own crypto, only the minimal parsing (fingerprint,
// subject/issuer/validity, TLS config assembly) the store's cert tables
// and the MQTT client's TLS dial path need, grounded on the shape of the
// teacher's `certificates/certs` package (Config/Cert split,
// ConfigPair-style key+cert input) without its multi-format (CBOR/TOML)
// marshalling, which nothing in this module's DTOs requires.
package certs

import (
	"crypto/tls"
	"crypto/x509"
	"time"
)

// Pair is the opaque input a server or client certificate is built from:
// PEM-encoded certificate and private key blobs, with an optional
// passphrase for an encrypted key (§4.4 "optional key passphrase").
type Pair struct {
	CertPEM       []byte
	KeyPEM        []byte
	PassphrasePEM string
}

// CA is an opaque PEM-encoded certificate authority bundle used to
// validate a peer (§4.4 "username/password + optional TLS (CA, client
// cert, client key, ...)").
type CA []byte

// Info is the parsed, non-opaque metadata the store's `server_certs` /
// `client_certs` tables persist alongside the raw blob (§4.5).
type Info struct {
	Subject     string
	Issuer      string
	ValidFrom   time.Time
	ValidTo     time.Time
	Fingerprint string // hex sha256 over the DER-encoded leaf certificate
}

// Certificate is a parsed Pair: the raw blobs, the tls.Certificate Go's
// stdlib needs to present it, and the Info the store persists.
type Certificate struct {
	Pair
	Leaf tls.Certificate
	Info Info
}

// Load parses a Pair into a Certificate, failing fast per §7's
// "Configuration error" class (bad cert data never retries).
func Load(p Pair) (*Certificate, error) {
	return loadPair(p)
}

// TLSConfig assembles a *tls.Config for a client dialing a broker/server,
// wiring an optional CA pool and an optional client certificate (§4.4,
// §6 "MQTT wire"). serverName drives SNI / hostname verification.
func TLSConfig(ca CA, client *Certificate, serverName string, insecureSkipVerify bool) (*tls.Config, error) {
	return buildTLSConfig(ca, client, serverName, insecureSkipVerify)
}

// ParsePool builds an x509.CertPool from one or more concatenated
// PEM-encoded CA certificates.
func ParsePool(ca CA) (*x509.CertPool, error) {
	return parsePool(ca)
}
