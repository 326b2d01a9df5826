// ABOUTME: MCP resource implementations for the maestro stores.
// ABOUTME: Provides maestro://schedule, maestro://library, and maestro://ledger.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/maestro/internal/models"
)

func (s *Server) registerResources() {
	// maestro://schedule - upcoming events with booking state
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "maestro://schedule",
		Name:        "Upcoming Schedule",
		Description: "Upcoming gigs, lessons, and rehearsals with booking slots",
		MIMEType:    "application/json",
	}, s.handleScheduleResource)

	// maestro://library - practice library overview
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "maestro://library",
		Name:        "Practice Library",
		Description: "Content blocks, routines, and categories",
		MIMEType:    "application/json",
	}, s.handleLibraryResource)

	// maestro://ledger - finance overview with totals
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "maestro://ledger",
		Name:        "Finance Ledger",
		Description: "Income and expense totals plus recent entries",
		MIMEType:    "application/json",
	}, s.handleLedgerResource)
}

func (s *Server) resourceResult(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Resource handlers

func (s *Server) handleScheduleResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := time.Now()

	var upcoming []models.AppEvent
	for _, e := range s.content.Events() {
		if e.DeletedAt != nil {
			continue
		}
		if e.StartsAt.Before(now) {
			continue
		}
		upcoming = append(upcoming, e)
	}

	result := map[string]any{
		"generated_at": now.Format(time.RFC3339),
		"events":       upcoming,
		"count":        len(upcoming),
	}
	return s.resourceResult("maestro://schedule", result)
}

func (s *Server) handleLibraryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	blocks := s.content.Blocks()
	routines := s.content.Routines()
	categories := s.content.Categories()

	result := map[string]any{
		"blocks":     blocks,
		"routines":   routines,
		"categories": categories,
		"counts": map[string]int{
			"blocks":     len(blocks),
			"routines":   len(routines),
			"categories": len(categories),
		},
	}
	return s.resourceResult("maestro://library", result)
}

func (s *Server) handleLedgerResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	var income, expenses float64
	var recent []models.Transaction
	for _, tx := range s.finance.Transactions() {
		if tx.DeletedAt != nil {
			continue
		}
		switch tx.Kind {
		case models.TxIncome:
			income += tx.Amount
		case models.TxExpense:
			expenses += tx.Amount
		}
		if len(recent) < 10 {
			recent = append(recent, tx)
		}
	}

	result := map[string]any{
		"generated_at": time.Now().Format(time.RFC3339),
		"totals": map[string]float64{
			"income":   income,
			"expenses": expenses,
			"net":      income - expenses,
		},
		"recent": recent,
	}
	return s.resourceResult("maestro://ledger", result)
}
