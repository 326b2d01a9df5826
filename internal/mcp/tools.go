// ABOUTME: MCP tool implementations for practice content, schedule, and ledger.
// ABOUTME: Provides CRUD operations plus an explicit sync trigger.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/maestro/internal/models"
)

func (s *Server) registerTools() {
	// add_block
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_block",
		Description: "Create a practice content block (exercise, etude, repertoire excerpt)",
	}, s.handleAddBlock)

	// list_blocks
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_blocks",
		Description: "List content blocks, optionally filtered by category",
	}, s.handleListBlocks)

	// add_event
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_event",
		Description: "Schedule a gig, lesson, or rehearsal",
	}, s.handleAddEvent)

	// list_events
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_events",
		Description: "List calendar events, optionally filtered by kind",
	}, s.handleListEvents)

	// cancel_event
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "cancel_event",
		Description: "Cancel an event (soft delete, kept in history)",
	}, s.handleCancelEvent)

	// log_progress
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_progress",
		Description: "Record completion of a learning path step",
	}, s.handleLogProgress)

	// add_transaction
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_transaction",
		Description: "Record an income or expense ledger entry",
	}, s.handleAddTransaction)

	// list_transactions
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_transactions",
		Description: "List ledger entries, optionally filtered by kind",
	}, s.handleListTransactions)

	// sync_now
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "sync_now",
		Description: "Run a full push/pull sync against the cloud backend",
	}, s.handleSyncNow)
}

// Tool input/output types

type addBlockInput struct {
	Title      string `json:"title" jsonschema:"Block title"`
	Content    string `json:"content,omitempty" jsonschema:"Text content or practice notes"`
	CategoryID string `json:"category_id,omitempty" jsonschema:"Category id to label the block with"`
	MediaURL   string `json:"media_url,omitempty" jsonschema:"Reference to attached media"`
}

type blockOutput struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type listBlocksInput struct {
	CategoryID string `json:"category_id,omitempty" jsonschema:"Filter by category id"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type addEventInput struct {
	Title    string  `json:"title" jsonschema:"Event title"`
	Kind     string  `json:"kind" jsonschema:"Event kind (performance, lesson, rehearsal, other)"`
	StartsAt string  `json:"starts_at" jsonschema:"Start time (ISO 8601)"`
	Location string  `json:"location,omitempty" jsonschema:"Venue or address"`
	Fee      float64 `json:"fee,omitempty" jsonschema:"Agreed fee for the event"`
}

type eventOutput struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type listEventsInput struct {
	Kind             string `json:"kind,omitempty" jsonschema:"Filter by event kind"`
	IncludeCancelled bool   `json:"include_cancelled,omitempty" jsonschema:"Include cancelled events"`
	Limit            int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type cancelEventInput struct {
	ID string `json:"id" jsonschema:"Event id"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type logProgressInput struct {
	PathID   string `json:"path_id" jsonschema:"Learning path id"`
	StepID   string `json:"step_id" jsonschema:"Path step id"`
	PersonID string `json:"person_id,omitempty" jsonschema:"Student person id, if logging for a student"`
}

type addTransactionInput struct {
	Kind    string  `json:"kind" jsonschema:"Entry kind (income or expense)"`
	Amount  float64 `json:"amount" jsonschema:"Amount in the user's currency"`
	Memo    string  `json:"memo,omitempty" jsonschema:"Free-form memo"`
	EventID string  `json:"event_id,omitempty" jsonschema:"Event id this entry relates to"`
}

type listTransactionsInput struct {
	Kind          string `json:"kind,omitempty" jsonschema:"Filter by kind (income or expense)"`
	IncludeVoided bool   `json:"include_voided,omitempty" jsonschema:"Include voided entries"`
	Limit         int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type syncNowInput struct{}

type syncOutput struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleAddBlock(ctx context.Context, req *mcp.CallToolRequest, input addBlockInput) (*mcp.CallToolResult, blockOutput, error) {
	b := models.NewContentBlock(input.Title)
	if input.Content != "" {
		b.WithContent(input.Content)
	}
	if input.CategoryID != "" {
		b.WithCategory(input.CategoryID)
	}
	if input.MediaURL != "" {
		b.WithMediaURL(input.MediaURL)
	}
	s.content.AddBlock(*b)

	return nil, blockOutput{
		ID:      b.ID,
		Title:   b.Title,
		Message: fmt.Sprintf("Added block %q (ID: %s)", b.Title, shortID(b.ID)),
	}, nil
}

func (s *Server) handleListBlocks(ctx context.Context, req *mcp.CallToolRequest, input listBlocksInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	var out []models.ContentBlock
	for _, b := range s.content.Blocks() {
		if input.CategoryID != "" && (b.CategoryID == nil || *b.CategoryID != input.CategoryID) {
			continue
		}
		out = append(out, b)
		if len(out) >= input.Limit {
			break
		}
	}

	if len(out) == 0 {
		return nil, map[string]any{"message": "No blocks found."}, nil
	}
	return nil, out, nil
}

func (s *Server) handleAddEvent(ctx context.Context, req *mcp.CallToolRequest, input addEventInput) (*mcp.CallToolResult, eventOutput, error) {
	if !models.IsValidEventKind(input.Kind) {
		return nil, eventOutput{}, fmt.Errorf("unknown event kind: %s", input.Kind)
	}

	startsAt, err := time.Parse(time.RFC3339, input.StartsAt)
	if err != nil {
		startsAt, err = time.Parse("2006-01-02 15:04", input.StartsAt)
	}
	if err != nil {
		return nil, eventOutput{}, fmt.Errorf("invalid start time: %s", input.StartsAt)
	}

	e := models.NewAppEvent(input.Title, models.EventKind(input.Kind), startsAt)
	if input.Location != "" {
		e.WithLocation(input.Location)
	}
	if input.Fee > 0 {
		e.WithFee(input.Fee)
	}
	s.content.AddEvent(*e)

	return nil, eventOutput{
		ID:      e.ID,
		Title:   e.Title,
		Kind:    string(e.Kind),
		Message: fmt.Sprintf("Scheduled %s %q on %s (ID: %s)", e.Kind, e.Title, startsAt.Format("2006-01-02 15:04"), shortID(e.ID)),
	}, nil
}

func (s *Server) handleListEvents(ctx context.Context, req *mcp.CallToolRequest, input listEventsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	var out []models.AppEvent
	for _, e := range s.content.Events() {
		if !input.IncludeCancelled && e.DeletedAt != nil {
			continue
		}
		if input.Kind != "" && string(e.Kind) != input.Kind {
			continue
		}
		out = append(out, e)
		if len(out) >= input.Limit {
			break
		}
	}

	if len(out) == 0 {
		return nil, map[string]any{"message": "No events found."}, nil
	}
	return nil, out, nil
}

func (s *Server) handleCancelEvent(ctx context.Context, req *mcp.CallToolRequest, input cancelEventInput) (*mcp.CallToolResult, simpleOutput, error) {
	if _, ok := s.content.Event(input.ID); !ok {
		return nil, simpleOutput{}, fmt.Errorf("event not found: %s", input.ID)
	}
	s.content.CancelEvent(input.ID)

	return nil, simpleOutput{
		Message: fmt.Sprintf("Cancelled event: %s", shortID(input.ID)),
	}, nil
}

func (s *Server) handleLogProgress(ctx context.Context, req *mcp.CallToolRequest, input logProgressInput) (*mcp.CallToolResult, simpleOutput, error) {
	if _, ok := s.content.LearningPath(input.PathID); !ok {
		return nil, simpleOutput{}, fmt.Errorf("learning path not found: %s", input.PathID)
	}

	up := models.NewUserProgress(input.PathID, input.StepID)
	if input.PersonID != "" {
		up.PersonID = &input.PersonID
	}
	s.content.AddProgress(*up)

	return nil, simpleOutput{
		Message: fmt.Sprintf("Logged progress on step %s (ID: %s)", shortID(input.StepID), shortID(up.ID)),
	}, nil
}

func (s *Server) handleAddTransaction(ctx context.Context, req *mcp.CallToolRequest, input addTransactionInput) (*mcp.CallToolResult, simpleOutput, error) {
	if !models.IsValidTransactionKind(input.Kind) {
		return nil, simpleOutput{}, fmt.Errorf("unknown transaction kind: %s", input.Kind)
	}

	tx := models.NewTransaction(models.TransactionKind(input.Kind), input.Amount)
	if input.Memo != "" {
		tx.WithMemo(input.Memo)
	}
	if input.EventID != "" {
		tx.WithEvent(input.EventID)
	}
	s.finance.AddTransaction(*tx)

	return nil, simpleOutput{
		Message: fmt.Sprintf("Recorded %s of %.2f (ID: %s)", input.Kind, input.Amount, shortID(tx.ID)),
	}, nil
}

func (s *Server) handleListTransactions(ctx context.Context, req *mcp.CallToolRequest, input listTransactionsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	var out []models.Transaction
	for _, tx := range s.finance.Transactions() {
		if !input.IncludeVoided && tx.DeletedAt != nil {
			continue
		}
		if input.Kind != "" && string(tx.Kind) != input.Kind {
			continue
		}
		out = append(out, tx)
		if len(out) >= input.Limit {
			break
		}
	}

	if len(out) == 0 {
		return nil, map[string]any{"message": "No transactions found."}, nil
	}
	return nil, out, nil
}

func (s *Server) handleSyncNow(ctx context.Context, req *mcp.CallToolRequest, input syncNowInput) (*mcp.CallToolResult, syncOutput, error) {
	if s.sync == nil {
		return nil, syncOutput{}, fmt.Errorf("no cloud backend configured")
	}

	if err := s.sync.Sync(ctx); err != nil {
		return nil, syncOutput{}, fmt.Errorf("sync failed: %w", err)
	}

	return nil, syncOutput{
		Status:  string(s.sync.Status()),
		Message: "Sync complete",
	}, nil
}

// shortID truncates an id for display, matching the CLI's output.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
