package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/logger"
	"github.com/mark3labs/mcp-go/server"
)

// Lookups is the part of the gateway the tools read from.
type Lookups interface {
	api.Catalog
	api.AddressLookup
}

// Server manages an embedded MCP HTTP server that exposes step validation
// and catalog/postal lookups as tools.
type Server struct {
	lookups    Lookups
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	stdServer  *http.Server
	port       int
	mu         sync.Mutex
}

// New creates a new MCP server instance over lookups.
// The server is not started until Start() is called.
func New(lookups Lookups) *Server {
	return &Server{lookups: lookups}
}

// Start starts the MCP HTTP server on addr ("127.0.0.1:0" picks a free port).
// Returns the port number or an error if startup fails.
func (s *Server) Start(ctx context.Context, addr string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}
	if addr == "" {
		addr = "127.0.0.1:0"
	}

	s.mcpServer = server.NewMCPServer(
		"onboard-tools",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	// Stateless mode; the listener is handed over directly to avoid a TOCTOU race.
	mux := http.NewServeMux()
	mcpHandler := server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)
	mux.Handle("/mcp", mcpHandler)

	s.stdServer = &http.Server{
		Handler: mux,
	}
	s.httpServer = mcpHandler

	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Debug("MCP server ready on port %d", s.port)
	return s.port, nil
}

// Stop stops the MCP HTTP server and cleans up resources.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}

	logger.Debug("Stopping MCP server")
	if err := s.stdServer.Shutdown(context.Background()); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.httpServer = nil
	s.stdServer = nil
	s.mcpServer = nil
	logger.Debug("MCP server stopped")
	return nil
}

// URL returns the HTTP URL for the MCP server endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
