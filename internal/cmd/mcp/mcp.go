// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/seedcraft/fluxmcp/internal/mcp/service"
	"github.com/seedcraft/fluxmcp/internal/platform/config"
	"github.com/seedcraft/fluxmcp/internal/platform/otel"
	"github.com/seedcraft/fluxmcp/internal/session"
)

// Config holds MCP command configuration.
type Config struct {
	SolverAddr    string `env:"FLUXMCP_SOLVER_ADDR"     envDefault:"localhost:9090"`
	HTTPAddr      string `env:"FLUXMCP_HTTP_ADDR"       envDefault:"localhost:8081"`
	Transport     string `env:"FLUXMCP_TRANSPORT"       envDefault:"stdio"`
	BiochemDBPath string `env:"FLUXMCP_BIOCHEM_DB_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.SolverAddr, "solver-addr", cfg.SolverAddr, "solver sidecar gRPC address")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.BiochemDBPath, "biochem-db", cfg.BiochemDBPath, "path to the SQLite biochemistry reference index")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP server.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "mcp")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	storage, err := session.LoadConfig()
	if err != nil {
		return err
	}

	return service.Run(ctx, service.Config{
		SolverAddr:    cfg.SolverAddr,
		BiochemDBPath: cfg.BiochemDBPath,
		Transport:     service.TransportKind(cfg.Transport),
		HTTPAddr:      cfg.HTTPAddr,
		Storage:       storage,
	})
}
