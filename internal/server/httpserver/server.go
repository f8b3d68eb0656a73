// Package httpserver provides the HTTP/HTTPS server for the relay.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/redrabbit/vaultrelay/internal/server/config"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	certFile   string
	keyFile    string
}

// New creates a new HTTP server from the server.http configuration section.
func New(cfg config.HTTPConfig, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		certFile: cfg.TLSCertFile,
		keyFile:  cfg.TLSKeyFile,
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// TLSEnabled reports whether a certificate pair is configured.
func (s *Server) TLSEnabled() bool {
	return s.certFile != "" && s.keyFile != ""
}

// Start listens on the configured address, with TLS when a certificate is
// configured. It blocks until the server stops and returns nil after a
// graceful Shutdown.
func (s *Server) Start() error {
	var err error
	if s.TLSEnabled() {
		err = s.ListenAndServeTLS(s.certFile, s.keyFile)
	} else {
		err = s.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// ListenAndServeTLS starts the HTTPS server.
func (s *Server) ListenAndServeTLS(certFile, keyFile string) error {
	return s.httpServer.ListenAndServeTLS(certFile, keyFile)
}

// Serve accepts connections on l. It returns nil after a graceful Shutdown.
func (s *Server) Serve(l net.Listener) error {
	if err := s.httpServer.Serve(l); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
