package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/qosrank/pkg/config"
)

// Server wraps the MCP server and registers the qosrank ranking tools.
type Server struct {
	server *mcp.Server
	config *config.Config
}

// NewServer creates a new MCP server with all qosrank tools registered.
// Tool calls start from cfg; a nil cfg means config.DefaultConfig.
func NewServer(version string, cfg *config.Config) *Server {
	if version == "" {
		version = "dev"
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "qosrank",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, config: cfg}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves a single session over t.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	// Multi-method ranking
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rank_alternatives",
		Description: describeRank(),
	}, s.handleRank)

	// Objective criterion weights
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "entropy_weights",
		Description: describeWeights(),
	}, s.handleWeights)
}
