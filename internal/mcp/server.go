// ABOUTME: MCP server exposing notes and their tags to AI agents.
// ABOUTME: Registers tools, resources, and prompts over a stdio transport.

package mcp

import (
	"context"

	"github.com/harper/memotag/internal/notebook"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

type Server struct {
	server *mcp.Server
	nb     *notebook.Notebook
	logger *zap.Logger
}

func NewServer(nb *notebook.Notebook, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{nb: nb, logger: logger}

	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "memotag",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			HasTools:     true,
			HasResources: true,
			HasPrompts:   true,
		},
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
