// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers.
package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/harperreed/maestro/internal/models"
	"github.com/harperreed/maestro/internal/storage"
	"github.com/harperreed/maestro/internal/store"
)

// setupTestServer creates a server over fresh stores in a temp directory.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	content := store.NewContentStore(db, nil, zerolog.Nop())
	gear := store.NewGearStore(db, nil, zerolog.Nop())
	finance := store.NewFinanceStore(db, nil, zerolog.Nop())
	for _, h := range []func() error{content.Hydrate, gear.Hydrate, finance.Hydrate} {
		if err := h(); err != nil {
			t.Fatalf("Failed to hydrate: %v", err)
		}
	}

	server, err := NewServer(content, gear, finance, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func TestNewServer(t *testing.T) {
	server := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.content == nil {
		t.Error("Expected non-nil content store")
	}
}

func TestHandleAddBlock(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, output, err := server.handleAddBlock(ctx, &mcp.CallToolRequest{}, addBlockInput{
		Title:   "Major scales",
		Content: "All twelve keys, quarter = 90",
	})
	if err != nil {
		t.Fatalf("handleAddBlock failed: %v", err)
	}
	if output.ID == "" {
		t.Error("Expected a generated id")
	}
	if !strings.Contains(output.Message, "Major scales") {
		t.Errorf("Message = %q, want block title mentioned", output.Message)
	}
	if got := len(server.content.Blocks()); got != 1 {
		t.Errorf("Store holds %d blocks, want 1", got)
	}
}

func TestHandleListBlocksFiltersByCategory(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	cat := models.NewCategory("technique")
	server.content.AddCategory(*cat)
	server.content.AddBlock(*models.NewContentBlock("Scales").WithCategory(cat.ID))
	server.content.AddBlock(*models.NewContentBlock("Free improv"))

	_, output, err := server.handleListBlocks(ctx, &mcp.CallToolRequest{}, listBlocksInput{CategoryID: cat.ID})
	if err != nil {
		t.Fatalf("handleListBlocks failed: %v", err)
	}
	blocks, ok := output.([]models.ContentBlock)
	if !ok {
		t.Fatalf("output type = %T, want []models.ContentBlock", output)
	}
	if len(blocks) != 1 || blocks[0].Title != "Scales" {
		t.Errorf("got %+v, want only the categorized block", blocks)
	}
}

func TestHandleAddEvent(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     addEventInput
		wantErr   bool
		errSubstr string
	}{
		{
			name: "valid performance",
			input: addEventInput{
				Title:    "Jazz quartet at The Green Mill",
				Kind:     "performance",
				StartsAt: "2026-09-12T21:00:00Z",
				Fee:      400,
			},
		},
		{
			name: "valid with simple timestamp",
			input: addEventInput{
				Title:    "Student lesson",
				Kind:     "lesson",
				StartsAt: "2026-09-01 15:00",
			},
		},
		{
			name: "invalid kind",
			input: addEventInput{
				Title:    "Something",
				Kind:     "concert",
				StartsAt: "2026-09-12T21:00:00Z",
			},
			wantErr:   true,
			errSubstr: "unknown event kind",
		},
		{
			name: "invalid timestamp",
			input: addEventInput{
				Title:    "Something",
				Kind:     "rehearsal",
				StartsAt: "next tuesday",
			},
			wantErr:   true,
			errSubstr: "invalid start time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleAddEvent(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if tt.errSubstr != "" && !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("error = %q, want substring %q", err.Error(), tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("handleAddEvent failed: %v", err)
			}
			if output.ID == "" {
				t.Error("Expected a generated id")
			}
		})
	}
}

func TestHandleCancelEvent(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	e := models.NewAppEvent("Gig", models.EventPerformance, time.Now().Add(24*time.Hour))
	server.content.AddEvent(*e)

	_, _, err := server.handleCancelEvent(ctx, &mcp.CallToolRequest{}, cancelEventInput{ID: e.ID})
	if err != nil {
		t.Fatalf("handleCancelEvent failed: %v", err)
	}

	got, ok := server.content.Event(e.ID)
	if !ok {
		t.Fatal("Cancelled event should remain in the store")
	}
	if got.DeletedAt == nil {
		t.Error("Expected DeletedAt to be set")
	}

	// Unknown id is an error, not a silent no-op, at the tool boundary.
	_, _, err = server.handleCancelEvent(ctx, &mcp.CallToolRequest{}, cancelEventInput{ID: "missing"})
	if err == nil {
		t.Error("Expected error for unknown event id")
	}
}

func TestHandleListEventsSkipsCancelled(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	keep := models.NewAppEvent("Keep", models.EventRehearsal, time.Now())
	gone := models.NewAppEvent("Gone", models.EventRehearsal, time.Now())
	server.content.AddEvent(*keep)
	server.content.AddEvent(*gone)
	server.content.CancelEvent(gone.ID)

	_, output, err := server.handleListEvents(ctx, &mcp.CallToolRequest{}, listEventsInput{})
	if err != nil {
		t.Fatalf("handleListEvents failed: %v", err)
	}
	events, ok := output.([]models.AppEvent)
	if !ok {
		t.Fatalf("output type = %T, want []models.AppEvent", output)
	}
	if len(events) != 1 || events[0].ID != keep.ID {
		t.Errorf("got %d events, want only the active one", len(events))
	}

	_, output, err = server.handleListEvents(ctx, &mcp.CallToolRequest{}, listEventsInput{IncludeCancelled: true})
	if err != nil {
		t.Fatalf("handleListEvents failed: %v", err)
	}
	if events, ok := output.([]models.AppEvent); !ok || len(events) != 2 {
		t.Errorf("include_cancelled should list both events, got %v", output)
	}
}

func TestHandleLogProgress(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	lp := models.NewLearningPath("Bebop vocabulary")
	step := lp.AddStep("Learn Donna Lee head")
	server.content.AddLearningPath(*lp)

	_, output, err := server.handleLogProgress(ctx, &mcp.CallToolRequest{}, logProgressInput{
		PathID: lp.ID,
		StepID: step.ID,
	})
	if err != nil {
		t.Fatalf("handleLogProgress failed: %v", err)
	}
	if output.Message == "" {
		t.Error("Expected a confirmation message")
	}
	if got := len(server.content.Progress()); got != 1 {
		t.Errorf("Store holds %d progress records, want 1", got)
	}

	_, _, err = server.handleLogProgress(ctx, &mcp.CallToolRequest{}, logProgressInput{
		PathID: "missing",
		StepID: step.ID,
	})
	if err == nil {
		t.Error("Expected error for unknown path id")
	}
}

func TestHandleAddTransaction(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, _, err := server.handleAddTransaction(ctx, &mcp.CallToolRequest{}, addTransactionInput{
		Kind:   "income",
		Amount: 250,
		Memo:   "Wedding gig deposit",
	})
	if err != nil {
		t.Fatalf("handleAddTransaction failed: %v", err)
	}
	if got := len(server.finance.Transactions()); got != 1 {
		t.Errorf("Store holds %d transactions, want 1", got)
	}

	_, _, err = server.handleAddTransaction(ctx, &mcp.CallToolRequest{}, addTransactionInput{
		Kind:   "refund",
		Amount: 10,
	})
	if err == nil {
		t.Error("Expected error for unknown transaction kind")
	}
}

func TestHandleSyncNowWithoutBackend(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, _, err := server.handleSyncNow(ctx, &mcp.CallToolRequest{}, syncNowInput{})
	if err == nil {
		t.Error("Expected error when no cloud backend is configured")
	}
}

func TestScheduleResource(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	future := models.NewAppEvent("Future gig", models.EventPerformance, time.Now().Add(48*time.Hour))
	past := models.NewAppEvent("Past gig", models.EventPerformance, time.Now().Add(-48*time.Hour))
	server.content.AddEvent(*future)
	server.content.AddEvent(*past)

	result, err := server.handleScheduleResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleScheduleResource failed: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(result.Contents))
	}
	text := result.Contents[0].Text
	if !strings.Contains(text, "Future gig") {
		t.Error("Expected upcoming event in schedule")
	}
	if strings.Contains(text, "Past gig") {
		t.Error("Past events should not appear in schedule")
	}
}

func TestLedgerResource(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	server.finance.AddTransaction(*models.NewTransaction(models.TxIncome, 300))
	server.finance.AddTransaction(*models.NewTransaction(models.TxExpense, 75))
	voided := models.NewTransaction(models.TxExpense, 999)
	server.finance.AddTransaction(*voided)
	server.finance.VoidTransaction(voided.ID)

	result, err := server.handleLedgerResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleLedgerResource failed: %v", err)
	}
	text := result.Contents[0].Text
	if !strings.Contains(text, `"net": 225`) {
		t.Errorf("ledger totals should exclude voided entries, got:\n%s", text)
	}
}
