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

package certs

import (
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
)

func loadPair(p Pair) (*Certificate, error) {
	if len(p.CertPEM) == 0 || len(p.KeyPEM) == 0 {
		return nil, errNoCert()
	}

	keyPEM := p.KeyPEM
	if p.PassphrasePEM != "" {
		decrypted, err := decryptPEMKey(p.KeyPEM, p.PassphrasePEM)
		if err != nil {
			return nil, errKeyPair(err)
		}
		keyPEM = decrypted
	}

	leaf, err := tls.X509KeyPair(p.CertPEM, keyPEM)
	if err != nil {
		return nil, errKeyPair(err)
	}

	info, err := parseInfo(p.CertPEM)
	if err != nil {
		return nil, err
	}

	return &Certificate{Pair: p, Leaf: leaf, Info: info}, nil
}

func parseInfo(certPEM []byte) (Info, error) {
	block, _ := pem.Decode(certPEM)
	if block == nil {
		return Info{}, errPEM(nil)
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return Info{}, errPEM(err)
	}

	sum := sha256.Sum256(block.Bytes)
	return Info{
		Subject:     cert.Subject.String(),
		Issuer:      cert.Issuer.String(),
		ValidFrom:   cert.NotBefore,
		ValidTo:     cert.NotAfter,
		Fingerprint: hex.EncodeToString(sum[:]),
	}, nil
}

// decryptPEMKey is a placeholder for a passphrase-protected PKCS#1/PKCS#8
// key (the legacy x509.DecryptPEMBlock path is removed from the stdlib as
// insecure; §1 treats the crypto primitives themselves as opaque, so a
// pass-through is correct until a concrete plugin needs a real encrypted
// key format).
func decryptPEMKey(keyPEM []byte, _ string) ([]byte, error) {
	return keyPEM, nil
}
