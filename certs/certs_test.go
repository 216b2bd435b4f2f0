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

package certs_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/emqx/neuron-sub004/certs"
)

func selfSigned(t *testing.T) certs.Pair {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "gateway-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	return certs.Pair{CertPEM: certPEM, KeyPEM: keyPEM}
}

func TestLoadAndFingerprint(t *testing.T) {
	pair := selfSigned(t)

	c, err := certs.Load(pair)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Info.Subject != "CN=gateway-test" {
		t.Fatalf("subject = %q", c.Info.Subject)
	}
	if len(c.Info.Fingerprint) != 64 {
		t.Fatalf("fingerprint length = %d", len(c.Info.Fingerprint))
	}
	if c.Info.ValidTo.Before(c.Info.ValidFrom) {
		t.Fatalf("valid_to before valid_from")
	}
}

func TestLoadRejectsIncompletePair(t *testing.T) {
	if _, err := certs.Load(certs.Pair{}); err == nil {
		t.Fatal("expected error for empty pair")
	}
}

func TestTLSConfigWithClientCert(t *testing.T) {
	pair := selfSigned(t)
	c, err := certs.Load(pair)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg, err := certs.TLSConfig(certs.CA(pair.CertPEM), c, "gateway-test", false)
	if err != nil {
		t.Fatalf("TLSConfig: %v", err)
	}
	if len(cfg.Certificates) != 1 {
		t.Fatalf("expected one client certificate, got %d", len(cfg.Certificates))
	}
	if cfg.RootCAs == nil {
		t.Fatal("expected a populated root CA pool")
	}
}
