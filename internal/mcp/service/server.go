// Package service hosts the MCP server: it wires the session stores, the
// solver sidecar, and the biochemistry reference index into the tool surface
// and serves it over stdio or streamable HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seedcraft/fluxmcp/internal/biochem/index"
	"github.com/seedcraft/fluxmcp/internal/session"
	"github.com/seedcraft/fluxmcp/internal/solver"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "FluxMCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP serves MCP over streamable HTTP.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	// SolverAddr is the gRPC address of the solver sidecar.
	SolverAddr string
	// BiochemDBPath locates the SQLite reference index. Empty disables the
	// reference lookup tools.
	BiochemDBPath string
	Transport     TransportKind
	// HTTPAddr is the bind address for the HTTP transport. Defaults to
	// localhost:8081.
	HTTPAddr string
	Storage  session.StorageConfig
}

// Server hosts the MCP server and owns its collaborators.
type Server struct {
	mcpServer *mcp.Server
	session   *session.Session
	solver    *solver.Client
	index     *index.Index
}

// New creates a configured MCP server connected to the solver sidecar.
func New(cfg Config) (*Server, error) {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{})

	solverClient, err := solver.NewClient(cfg.SolverAddr)
	if err != nil {
		return nil, fmt.Errorf("connect to solver at %s: %w", cfg.SolverAddr, err)
	}

	var ix *index.Index
	if strings.TrimSpace(cfg.BiochemDBPath) != "" {
		ix, err = index.Open(cfg.BiochemDBPath)
		if err != nil {
			closeErr := solverClient.Close()
			if closeErr != nil {
				return nil, fmt.Errorf("open reference index: %v; close solver connection: %w", err, closeErr)
			}
			return nil, fmt.Errorf("open reference index: %w", err)
		}
	}

	server := &Server{
		mcpServer: mcpServer,
		session:   session.New(cfg.Storage),
		solver:    solverClient,
		index:     ix,
	}

	registerModelTools(mcpServer, server.session, solverClient)
	registerMediaTools(mcpServer, server.session)
	registerAnalysisTools(mcpServer, server.session, solverClient)
	registerReferenceTools(mcpServer, ix)
	registerSessionTools(mcpServer, server.session)
	registerResources(mcpServer, server.session)

	return server, nil
}

// Run creates and serves the MCP server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return runWithTransport(ctx, cfg, &mcp.StdioTransport{})
	case TransportHTTP:
		return runWithHTTPTransport(ctx, cfg)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// runWithTransport creates a server and serves it over the provided
// transport once the solver sidecar is healthy.
func runWithTransport(ctx context.Context, cfg Config, transport mcp.Transport) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	if err := server.solver.WaitForHealth(ctx); err != nil {
		closeErr := server.Close()
		if closeErr != nil {
			return fmt.Errorf("wait for solver health: %v; close server: %w", err, closeErr)
		}
		return err
	}
	return server.serveWithTransport(ctx, transport)
}

// runWithHTTPTransport serves the MCP server over streamable HTTP.
func runWithHTTPTransport(ctx context.Context, cfg Config) error {
	httpAddr := cfg.HTTPAddr
	if httpAddr == "" {
		// Localhost-only default binding.
		httpAddr = "localhost:8081"
	}

	server, err := New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = server.Close() }()

	if err := server.solver.WaitForHealth(ctx); err != nil {
		return err
	}

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server.mcpServer
	}, nil)

	httpServer := &http.Server{Addr: httpAddr, Handler: handler}
	log.Printf("starting MCP HTTP server on %s", httpAddr)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("shutting down MCP HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close server: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close server: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// Close releases the solver connection and the reference index and clears
// the session stores.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	s.session.Shutdown()

	var solverErr, indexErr error
	if s.solver != nil {
		solverErr = s.solver.Close()
		s.solver = nil
	}
	if s.index != nil {
		indexErr = s.index.Close()
		s.index = nil
	}
	if solverErr != nil {
		return fmt.Errorf("close solver connection: %w", solverErr)
	}
	if indexErr != nil {
		return fmt.Errorf("close reference index: %w", indexErr)
	}
	return nil
}
