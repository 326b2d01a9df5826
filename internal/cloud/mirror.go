// ABOUTME: Fire-and-forget outbound mirror queue for single-entity mutations.
// ABOUTME: Never blocks callers, never retries, never rolls back local state.
package cloud

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Mirror queue defaults. A full queue drops ops rather than blocking
// the caller; the next full sync pushes everything wholesale anyway.
const (
	DefaultQueueSize   = 256
	DefaultCallTimeout = 30 * time.Second
)

type opKind int

const (
	opUpsert opKind = iota
	opDelete
	opFlush
)

type queuedOp struct {
	kind    opKind
	table   string
	id      string
	payload json.RawMessage
	flushed chan struct{}
}

// MirrorOptions tunes the outbound queue. Zero values take defaults.
type MirrorOptions struct {
	QueueSize   int
	CallTimeout time.Duration
}

// Mirror replicates single-entity mutations to the backend,
// best-effort. Ops are drained by one background goroutine, which
// keeps per-process delivery in enqueue order. Errors are logged and
// dropped; callers are never blocked and local state never rolled
// back.
type Mirror struct {
	backend   Backend
	localOnly func() bool
	queue     chan queuedOp
	timeout   time.Duration
	log       zerolog.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMirror creates a mirror and starts its drain goroutine.
// localOnly is consulted on every enqueue; guest sessions bypass the
// queue entirely so no network call is ever attempted for them.
func NewMirror(backend Backend, localOnly func() bool, opts MirrorOptions, log zerolog.Logger) *Mirror {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}

	m := &Mirror{
		backend:   backend,
		localOnly: localOnly,
		queue:     make(chan queuedOp, opts.QueueSize),
		timeout:   opts.CallTimeout,
		log:       log,
	}
	m.wg.Add(1)
	go m.drain()
	return m
}

// Upsert queues a single-entity upsert. The entity is serialized at
// call time so later in-memory edits don't leak into the payload.
func (m *Mirror) Upsert(table string, entity any) {
	if m.bypass() {
		return
	}
	payload, err := json.Marshal(entity)
	if err != nil {
		m.log.Warn().Err(err).Str("table", table).Msg("mirror: encode failed, dropping upsert")
		return
	}
	m.enqueue(queuedOp{kind: opUpsert, table: table, payload: payload})
}

// Delete queues a delete-by-id.
func (m *Mirror) Delete(table, id string) {
	if m.bypass() {
		return
	}
	m.enqueue(queuedOp{kind: opDelete, table: table, id: id})
}

// Flush blocks until every op queued before the call has been
// attempted. Used by tests and the sync status command.
func (m *Mirror) Flush() {
	if m.bypass() {
		return
	}
	done := make(chan struct{})
	m.enqueue(queuedOp{kind: opFlush, flushed: done})
	<-done
}

// Close stops accepting ops, drains the queue, and waits for the
// drain goroutine to exit.
func (m *Mirror) Close() {
	m.closeOnce.Do(func() {
		close(m.queue)
	})
	m.wg.Wait()
}

func (m *Mirror) bypass() bool {
	return m.backend == nil || (m.localOnly != nil && m.localOnly())
}

func (m *Mirror) enqueue(op queuedOp) {
	select {
	case m.queue <- op:
	default:
		if op.flushed != nil {
			close(op.flushed)
			return
		}
		m.log.Warn().Str("table", op.table).Msg("mirror: queue full, dropping op")
	}
}

func (m *Mirror) drain() {
	defer m.wg.Done()
	for op := range m.queue {
		if op.kind == opFlush {
			close(op.flushed)
			continue
		}
		m.dispatch(op)
	}
}

func (m *Mirror) dispatch(op queuedOp) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	var err error
	switch op.kind {
	case opUpsert:
		err = m.backend.Upsert(ctx, op.table, op.payload)
	case opDelete:
		err = m.backend.Delete(ctx, op.table, op.id)
	}
	if err != nil {
		// Logged only: local state stays authoritative and the UI
		// never learns about mirror failures.
		m.log.Warn().Err(err).Str("table", op.table).Msg("mirror: op failed")
	}
}
