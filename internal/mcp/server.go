// ABOUTME: MCP server setup over the maestro stores.
// ABOUTME: Wraps the MCP server with store and syncer access.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/maestro/internal/store"
	"github.com/harperreed/maestro/internal/syncer"
)

// Server wraps the MCP server with store access. The syncer may be nil
// when no remote backend is configured; sync_now then reports that.
type Server struct {
	mcpServer *mcp.Server
	content   *store.ContentStore
	gear      *store.GearStore
	finance   *store.FinanceStore
	sync      *syncer.Syncer
}

// NewServer creates a new MCP server over the given stores.
func NewServer(content *store.ContentStore, gear *store.GearStore, finance *store.FinanceStore, sync *syncer.Syncer) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "maestro",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		content:   content,
		gear:      gear,
		finance:   finance,
		sync:      sync,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
