package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/localeforms/internal/platform/timeouts"
	"github.com/louisbranch/localeforms/internal/services/web/platform/httpx"
	"github.com/louisbranch/localeforms/internal/services/web/platform/requestmeta"
)

const defaultAppName = "Go"

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr string
	// AppName is shown in the page greeting and title.
	AppName string
	// TrustForwardedProto lets X-Forwarded-Proto decide the request scheme
	// behind a TLS-terminating proxy.
	TrustForwardedProto bool
}

// Server hosts the web HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

type handler struct {
	config     Config
	validation *validation
	scheme     requestmeta.SchemePolicy
}

// NewHandler creates the HTTP handler with all routes and middleware.
func NewHandler(config Config) (http.Handler, error) {
	if strings.TrimSpace(config.AppName) == "" {
		config.AppName = defaultAppName
	}
	v, err := newValidation()
	if err != nil {
		return nil, fmt.Errorf("init validation: %w", err)
	}
	h := &handler{
		config:     config,
		validation: v,
		scheme:     requestmeta.SchemePolicy{TrustForwardedProto: config.TrustForwardedProto},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleRoot)
	mux.HandleFunc("GET /{locale}/{$}", h.handlePage)
	mux.HandleFunc("POST /{locale}/{$}", h.handleAction)
	mux.HandleFunc("POST /{locale}/api/profile", h.handleProfileAPI)

	return httpx.Chain(mux,
		httpx.RequestID(),
		httpx.RecoverPanic(),
		httpx.WithTimeout(timeouts.Request),
	), nil
}

// NewServer builds a configured web server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(config)
	if err != nil {
		return nil, fmt.Errorf("build handler: %w", err)
	}
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	return &Server{httpAddr: httpAddr, httpServer: httpServer}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
