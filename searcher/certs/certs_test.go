//     Copyright (C) 2026, fsearch authors
//
//     This file is part of fsearch.
//
//     fsearch is free software: you can redistribute it and/or modify
//     it under the terms of the GNU General Public License as published by
//     the Free Software Foundation, either version 3 of the License, or
//     (at your option) any later version.
//
//     fsearch is distributed in the hope that it will be useful,
//     but WITHOUT ANY WARRANTY; without even the implied warranty of
//     MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//     GNU General Public License for more details.
//
//     You should have received a copy of the GNU General Public License
//     along with this program.  If not, see <https://www.gnu.org/licenses/>.

package certs

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func Test_GeneratePEM(t *testing.T) {
	certPEM, keyPEM, err := GeneratePEM(DefaultOptions())
	if err != nil {
		t.Fatalf("GeneratePEM() error = %v", err)
	}

	block, _ := pem.Decode(certPEM)
	if block == nil || block.Type != "CERTIFICATE" {
		t.Fatalf("bad certificate PEM block: %v", block)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatalf("ParseCertificate() error = %v", err)
	}

	if cert.Subject.CommonName != "localhost" {
		t.Errorf("CommonName = %s, want localhost", cert.Subject.CommonName)
	}
	if err := cert.VerifyHostname("localhost"); err != nil {
		t.Errorf("VerifyHostname(localhost) error = %v", err)
	}
	if err := cert.VerifyHostname("127.0.0.1"); err != nil {
		t.Errorf("VerifyHostname(127.0.0.1) error = %v", err)
	}
	now := time.Now()
	if now.Before(cert.NotBefore) || now.After(cert.NotAfter) {
		t.Errorf("certificate not currently valid: %v - %v", cert.NotBefore, cert.NotAfter)
	}

	if _, err := tls.X509KeyPair(certPEM, keyPEM); err != nil {
		t.Errorf("X509KeyPair() error = %v", err)
	}
}

func Test_EnsureFiles(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "sub", "server.crt")
	keyFile := filepath.Join(dir, "sub", "server.key")

	created, err := EnsureFiles(certFile, keyFile, DefaultOptions())
	if err != nil {
		t.Fatalf("EnsureFiles() error = %v", err)
	}
	if !created {
		t.Error("EnsureFiles() created = false, want true")
	}

	if _, err := tls.LoadX509KeyPair(certFile, keyFile); err != nil {
		t.Fatalf("LoadX509KeyPair() error = %v", err)
	}
	info, err := os.Stat(keyFile)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("key file mode = %o, want 0600", perm)
	}

	before, err := os.ReadFile(certFile)
	if err != nil {
		t.Fatal(err)
	}
	created, err = EnsureFiles(certFile, keyFile, DefaultOptions())
	if err != nil {
		t.Fatalf("EnsureFiles() second call error = %v", err)
	}
	if created {
		t.Error("EnsureFiles() created = true, want reuse of existing pair")
	}
	after, err := os.ReadFile(certFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("existing certificate was rewritten")
	}
}
