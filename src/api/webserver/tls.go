package webserver

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

// certReloader serves a key pair from disk and picks up renewals without a restart.
type certReloader struct {
	certFile string
	keyFile  string

	mu       sync.RWMutex
	cert     *tls.Certificate
	modified time.Time
}

func newCertReloader(certFile, keyFile string) (*certReloader, error) {
	r := &certReloader{certFile: certFile, keyFile: keyFile}
	if err := r.reload(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *certReloader) reload() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("api: load key pair: %w", err)
	}
	modified := r.latestModTime()

	r.mu.Lock()
	r.cert = &cert
	r.modified = modified
	r.mu.Unlock()
	return nil
}

// latestModTime is the newer of the two files' modification times.
func (r *certReloader) latestModTime() time.Time {
	var latest time.Time
	for _, path := range []string{r.certFile, r.keyFile} {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}
	return latest
}

// changed reports whether either file is newer than the loaded pair.
func (r *certReloader) changed() bool {
	r.mu.RLock()
	loaded := r.modified
	r.mu.RUnlock()
	return r.latestModTime().After(loaded)
}

// watch polls the files every interval until ctx is done.
func (r *certReloader) watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !r.changed() {
				continue
			}
			if err := r.reload(); err != nil {
				log.Printf("api: certificate reload failed, keeping previous pair: %v", err)
				continue
			}
			log.Printf("api: TLS certificate reloaded")
		}
	}
}

func (r *certReloader) getCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert, nil
}

func (r *certReloader) tlsConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: r.getCertificate,
		MinVersion:     tls.VersionTLS12,
	}
}
