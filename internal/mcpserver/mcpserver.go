// Package mcpserver exposes presage's risk assessment as MCP tools.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers the presage tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates a new MCP server with all presage tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "presage",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	s.registerTools()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds the presage assessment tools to the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "assess_deploy_risk",
		Description: describeAssess(),
	}, handleAssess)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "assess_history",
		Description: describeHistory(),
	}, handleHistory)
}
