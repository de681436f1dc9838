package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/urmzd/gaposa/pkg/device"
	"github.com/urmzd/gaposa/pkg/schema"
)

// Server exposes shade control as MCP tools
type Server struct {
	mcpServer  *server.MCPServer
	controller device.Controller
	validator  *schema.Validator
}

// NewServer creates a new MCP server over controller
func NewServer(controller device.Controller, validator *schema.Validator) *Server {
	if validator == nil {
		validator = schema.NewValidator()
	}
	s := &Server{
		controller: controller,
		validator:  validator,
	}

	s.mcpServer = server.NewMCPServer(
		"gaposa",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
