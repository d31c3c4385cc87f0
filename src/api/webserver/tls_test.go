package webserver

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeKeyPair(t *testing.T, dir, name string) (string, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: name},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		DNSNames:     []string{name},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}

	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")
	if err := os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600); err != nil {
		t.Fatal(err)
	}
	return certFile, keyFile
}

func TestCertReloaderPicksUpRenewal(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeKeyPair(t, dir, "old.example")

	r, err := newCertReloader(certFile, keyFile)
	if err != nil {
		t.Fatalf("new reloader: %v", err)
	}
	first, _ := r.getCertificate(nil)
	if first == nil || r.changed() {
		t.Fatal("expected a loaded, unchanged pair")
	}

	writeKeyPair(t, dir, "new.example")
	future := time.Now().Add(time.Minute)
	for _, f := range []string{certFile, keyFile} {
		if err := os.Chtimes(f, future, future); err != nil {
			t.Fatal(err)
		}
	}
	if !r.changed() {
		t.Fatal("expected the rewritten pair to be detected")
	}
	if err := r.reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	second, _ := r.getCertificate(nil)
	if second == first {
		t.Error("expected a new certificate after reload")
	}
	if r.tlsConfig().MinVersion == 0 {
		t.Error("expected a minimum TLS version")
	}
}

func TestCertReloaderMissingFiles(t *testing.T) {
	if _, err := newCertReloader("/nonexistent/cert.pem", "/nonexistent/key.pem"); err == nil {
		t.Fatal("expected an error for missing files")
	}
}
