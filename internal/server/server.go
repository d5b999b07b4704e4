package server

import (
	"context"

	"github.com/cerfaos/analyse/internal/logging"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ptr returns a pointer to the given value - useful for optional fields in structs
func ptr[T any](v T) *T {
	return &v
}

// Server wraps the MCP server and the report generator
type Server struct {
	mcp       *mcp.Server
	generator ReportGenerator
}

// MCPServer returns the underlying MCP server (for use with HTTP/SSE transport)
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// New creates a new MCP server exposing the report generation tools
func New(generator ReportGenerator) *Server {
	logging.Info("MCP server initializing", "name", "analyse", "version", "1.0.0")

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "analyse",
		Version: "1.0.0",
	}, nil)

	s := &Server{
		mcp:       mcpServer,
		generator: generator,
	}

	logging.Debug("Registering MCP tools")
	s.registerReportTools()

	logging.Info("MCP server initialized", "tools_registered", 2)
	return s
}

// Run starts the MCP server over stdio transport
func (s *Server) Run(ctx context.Context) error {
	logging.Info("MCP server starting")
	defer logging.Info("MCP server stopped")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
