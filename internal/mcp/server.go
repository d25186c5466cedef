package mcp

import (
	"context"

	"mis-reports/internal/export"
	"mis-reports/internal/registry"
	"mis-reports/internal/report"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Dependencies are the collaborators exposed through the tool surface.
type Dependencies struct {
	Registry  *registry.Registry
	Session   *report.Session
	Exporter  *export.Exporter
	Print     *export.HTMLRenderer
	Viewer    export.Viewer
	CanExport func(moduleKey string) bool
	OrgName   string
	Version   string
}

// Server exposes report generation and export as MCP tools over one session.
type Server struct {
	deps Dependencies
}

// NewServer creates a new MCP server.
func NewServer(deps Dependencies) *Server {
	if deps.CanExport == nil {
		deps.CanExport = func(string) bool { return true }
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	return &Server{deps: deps}
}

// Build assembles the SDK server with every tool registered.
func (s *Server) Build() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "mis-reports", Version: s.deps.Version}, nil)
	s.registerTools(server)
	return server
}

// Serve runs the tool surface over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Str("version", s.deps.Version).Msg("Starting MCP server on stdio")
	return s.Build().Run(ctx, &mcp.StdioTransport{})
}
