// Package web parses web service flags and launches the service.
package web

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/localeforms/internal/platform/cmd"
	"github.com/louisbranch/localeforms/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr string `env:"WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	AppName  string `env:"WEB_APP_NAME" envDefault:"Go"`
	// TrustForwardedProto is for deployments behind a TLS-terminating proxy.
	TrustForwardedProto bool `env:"WEB_TRUST_FORWARDED_PROTO"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.AppName, "app-name", cfg.AppName, "Name shown in the page greeting")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto for the request scheme")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			AppName:             cfg.AppName,
			TrustForwardedProto: cfg.TrustForwardedProto,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
