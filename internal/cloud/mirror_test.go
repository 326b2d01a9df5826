// ABOUTME: Tests for the outbound mirror queue.
// ABOUTME: Covers delivery, local-only bypass, and non-blocking enqueue.
package cloud

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/harperreed/maestro/internal/models"
)

func newTestMirror(backend Backend, localOnly bool) *Mirror {
	return NewMirror(backend, func() bool { return localOnly }, MirrorOptions{}, zerolog.Nop())
}

func TestMirrorDeliversUpsert(t *testing.T) {
	backend := NewInMemory()
	m := newTestMirror(backend, false)

	b := models.NewContentBlock("Scale practice")
	m.Upsert(TableBlocks, b)
	m.Flush()
	m.Close()

	var rows []models.ContentBlock
	if err := backend.Rows(TableBlocks, &rows); err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].ID != b.ID || rows[0].Title != "Scale practice" {
		t.Errorf("row mismatch: got %+v", rows[0])
	}
}

func TestMirrorDeliversDelete(t *testing.T) {
	backend := NewInMemory()
	b := models.NewContentBlock("Arpeggios")
	backend.Seed(TableBlocks, b)

	m := newTestMirror(backend, false)
	m.Delete(TableBlocks, b.ID)
	m.Flush()
	m.Close()

	if backend.Count(TableBlocks) != 0 {
		t.Errorf("expected empty table after delete, got %d rows", backend.Count(TableBlocks))
	}
}

func TestMirrorSnapshotsPayloadAtEnqueue(t *testing.T) {
	backend := NewInMemory()
	m := newTestMirror(backend, false)

	b := models.NewContentBlock("Original")
	m.Upsert(TableBlocks, *b)
	b.Title = "Edited after enqueue"
	m.Flush()
	m.Close()

	var rows []models.ContentBlock
	if err := backend.Rows(TableBlocks, &rows); err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if rows[0].Title != "Original" {
		t.Errorf("payload was not snapshotted: got %q", rows[0].Title)
	}
}

func TestMirrorLocalOnlyBypassesBackend(t *testing.T) {
	backend := NewInMemory()
	m := newTestMirror(backend, true)

	m.Upsert(TableBlocks, models.NewContentBlock("Never sent"))
	m.Delete(TableBlocks, "some-id")
	m.Flush()
	m.Close()

	if backend.Calls() != 0 {
		t.Errorf("local-only session made %d backend calls, want 0", backend.Calls())
	}
}

func TestMirrorFailureIsSwallowed(t *testing.T) {
	backend := NewInMemory()
	backend.FailUpsert = context.DeadlineExceeded
	m := newTestMirror(backend, false)

	// Must not panic or surface the error anywhere.
	m.Upsert(TableBlocks, models.NewContentBlock("Doomed"))
	m.Flush()
	m.Close()

	if backend.Count(TableBlocks) != 0 {
		t.Errorf("expected no rows after failed upsert")
	}
}

func TestMirrorFullQueueDoesNotBlock(t *testing.T) {
	block := make(chan struct{})
	backend := &slowBackend{InMemory: NewInMemory(), release: block}
	m := NewMirror(backend, nil, MirrorOptions{QueueSize: 1}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		// First op occupies the drain goroutine, second fills the
		// queue, the rest must drop without blocking.
		for i := 0; i < 10; i++ {
			m.Upsert(TableBlocks, models.NewContentBlock("burst"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}

	close(block)
	m.Close()
}

// slowBackend stalls upserts until release is closed.
type slowBackend struct {
	*InMemory
	release chan struct{}
}

func (s *slowBackend) Upsert(ctx context.Context, table string, entity any) error {
	<-s.release
	return s.InMemory.Upsert(ctx, table, entity)
}
