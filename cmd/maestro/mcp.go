// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/maestro/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant
integration. The server communicates via stdin/stdout.

CLIENT CONFIGURATION:

  {
    "mcpServers": {
      "maestro": {
        "command": "maestro",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_block          Create a practice content block
  list_blocks        List content blocks
  add_event          Schedule a gig, lesson, or rehearsal
  list_events        List calendar events
  cancel_event       Cancel an event (soft delete)
  log_progress       Record completion of a path step
  add_transaction    Record a ledger entry
  list_transactions  List ledger entries
  sync_now           Run a full cloud sync

AVAILABLE RESOURCES:

  maestro://schedule   Upcoming events with booking slots
  maestro://library    Blocks, routines, and categories
  maestro://ledger     Income/expense totals and recent entries`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(content, gearStore, finStore, appSyncer)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
