package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Reports is what the tools need from the report service.
type Reports interface {
	SummaryJSON(ctx context.Context, month string) ([]byte, error)
	AvailableDates(ctx context.Context) ([]string, error)
	DefaultMonth() string
}

// Server exposes the complaint reports as MCP tools.
type Server struct {
	reports Reports
	server  *mcp.Server
}

// NewServer registers the dashboard tools on a fresh MCP server.
func NewServer(reports Reports, version string) *Server {
	s := &Server{
		reports: reports,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "complaint-dashboard",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Run serves the tools over stdin/stdout until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	log.Info().Msg("MCP server starting stdio loop")
	return s.Connect(ctx, &mcp.StdioTransport{})
}

// Connect serves the tools over an arbitrary transport and blocks until the session ends.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) error {
	session, err := s.server.Connect(ctx, t, nil)
	if err != nil {
		return err
	}
	return session.Wait()
}
