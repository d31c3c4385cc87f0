package webserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stake-plus/congressrp/src/actions/core"
	"github.com/stake-plus/congressrp/src/config"
	"github.com/stake-plus/congressrp/src/workflow"
)

var _ core.Module = (*Module)(nil)

const certCheckInterval = 5 * time.Minute

// Module serves the HTTP API for the lifetime of the process.
type Module struct {
	cfg    config.APIConfig
	engine *workflow.Engine
	srv    *http.Server
	cancel context.CancelFunc
}

func NewModule(cfg config.APIConfig, engine *workflow.Engine) (*Module, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("api: jwt_secret is required")
	}
	return &Module{cfg: cfg, engine: engine}, nil
}

// Name implements core.Module.
func (m *Module) Name() string { return "api" }

func (m *Module) Start(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)

	runtimeCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.srv = &http.Server{
		Addr:              ":" + m.cfg.Port,
		Handler:           New(runtimeCtx, m.cfg, m.engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if m.cfg.TLSCert != "" && m.cfg.TLSKey != "" {
		reloader, err := newCertReloader(m.cfg.TLSCert, m.cfg.TLSKey)
		if err != nil {
			cancel()
			return err
		}
		m.srv.TLSConfig = reloader.tlsConfig()
		go reloader.watch(runtimeCtx, certCheckInterval)
	}

	go func() {
		var err error
		if m.srv.TLSConfig != nil {
			log.Printf("api: listening on %s (TLS)", m.srv.Addr)
			err = m.srv.ListenAndServeTLS("", "")
		} else {
			log.Printf("api: listening on %s", m.srv.Addr)
			err = m.srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("api: server stopped: %v", err)
		}
	}()
	return nil
}

func (m *Module) Stop(ctx context.Context) {
	if m.cancel != nil {
		m.cancel()
	}
	if m.srv == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := m.srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("api: shutdown: %v", err)
	}
}
