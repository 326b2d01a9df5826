// ABOUTME: Full-sync reconciler: push everything, pull everything, merge.
// ABOUTME: Remote wins on id collision; local-only entries survive the merge.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/harperreed/maestro/internal/cloud"
	"github.com/harperreed/maestro/internal/models"
	"github.com/harperreed/maestro/internal/store"
)

// Status is the user-visible sync state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSynced  Status = "synced"
	StatusOffline Status = "offline"
)

// ErrLocalOnly is returned when sync is requested for a guest session.
// No network I/O has been performed.
var ErrLocalOnly = errors.New("local-only session: nothing to sync")

// Syncer reconciles the local stores with the remote backend on
// demand. There is no retry, backoff, or queued-mutation log: offline
// mutations accumulate locally and are pushed wholesale on the next
// explicit sync.
type Syncer struct {
	content *store.ContentStore
	gear    *store.GearStore
	finance *store.FinanceStore
	backend cloud.Backend
	log     zerolog.Logger
	timeout time.Duration

	mu     sync.Mutex
	status Status
}

// New creates a Syncer over the three stores and the remote backend.
func New(content *store.ContentStore, gear *store.GearStore, finance *store.FinanceStore, backend cloud.Backend, log zerolog.Logger) *Syncer {
	return &Syncer{
		content: content,
		gear:    gear,
		finance: finance,
		backend: backend,
		log:     log,
		timeout: cloud.DefaultCallTimeout,
		status:  StatusIdle,
	}
}

// SetCallTimeout overrides the per-network-call timeout.
func (s *Syncer) SetCallTimeout(d time.Duration) {
	s.timeout = d
}

// Status returns the current sync status.
func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Syncer) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

// Sync runs a full push-then-pull-then-merge pass.
//
// The push phase is all-or-nothing per call: any collection failure
// aborts the sync, but collections already pushed stay pushed — there
// is no remote rollback. The pull-merge phase prefers the just-fetched
// remote copy on every id collision, relying on the push having made
// local state remotely visible first. Whatever merge state was reached
// before an error is kept.
func (s *Syncer) Sync(ctx context.Context) error {
	if s.content.Profile().IsLocalOnly() {
		s.setStatus(StatusOffline)
		return ErrLocalOnly
	}
	s.setStatus(StatusSyncing)

	if err := s.push(ctx); err != nil {
		s.setStatus(StatusOffline)
		return err
	}

	remote, err := s.pull(ctx)
	if err != nil {
		s.setStatus(StatusOffline)
		return err
	}

	s.content.MergeRemote(remote.content)
	s.gear.MergeRemote(remote.gear)
	s.finance.MergeRemote(remote.transactions)

	s.setStatus(StatusSynced)
	s.log.Info().Msg("sync: full sync complete")
	return nil
}

// push uploads every local collection concurrently, plus the profile.
func (s *Syncer) push(ctx context.Context) error {
	jobs := []struct {
		table    string
		entities any
	}{
		{cloud.TableBlocks, s.content.Blocks()},
		{cloud.TableRoutines, s.content.Routines()},
		{cloud.TableEvents, s.content.Events()},
		{cloud.TableCategories, s.content.Categories()},
		{cloud.TablePeople, s.content.People()},
		{cloud.TableLearningPaths, s.content.LearningPaths()},
		{cloud.TableUserProgress, s.content.Progress()},
		{cloud.TableProofOfWork, s.content.Proofs()},
		{cloud.TableGearAssets, s.gear.GearAssets()},
		{cloud.TablePackLists, s.gear.PackLists()},
		{cloud.TableTransactions, s.finance.Transactions()},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, job := range jobs {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()
			if err := s.backend.UpsertAll(callCtx, job.table, job.entities); err != nil {
				return fmt.Errorf("push %s: %w", job.table, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		callCtx, cancel := context.WithTimeout(gctx, s.timeout)
		defer cancel()
		if err := s.backend.UpsertProfile(callCtx, s.content.Profile()); err != nil {
			return fmt.Errorf("push profile: %w", err)
		}
		return nil
	})
	return g.Wait()
}

type pulled struct {
	content      store.RemoteContent
	gear         store.RemoteGear
	transactions []models.Transaction
}

// pull fetches the full remote snapshot and profile concurrently.
func (s *Syncer) pull(ctx context.Context) (pulled, error) {
	var out pulled

	g, gctx := errgroup.WithContext(ctx)
	fetch := func(table string, dst any) func() error {
		return func() error {
			callCtx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()
			if err := s.backend.FetchAll(callCtx, table, dst); err != nil {
				return fmt.Errorf("pull %s: %w", table, err)
			}
			return nil
		}
	}

	g.Go(fetch(cloud.TableBlocks, &out.content.Blocks))
	g.Go(fetch(cloud.TableRoutines, &out.content.Routines))
	g.Go(fetch(cloud.TableEvents, &out.content.Events))
	g.Go(fetch(cloud.TableCategories, &out.content.Categories))
	g.Go(fetch(cloud.TablePeople, &out.content.People))
	g.Go(fetch(cloud.TableLearningPaths, &out.content.LearningPaths))
	g.Go(fetch(cloud.TableUserProgress, &out.content.Progress))
	g.Go(fetch(cloud.TableProofOfWork, &out.content.Proofs))
	g.Go(fetch(cloud.TableGearAssets, &out.gear.GearAssets))
	g.Go(fetch(cloud.TablePackLists, &out.gear.PackLists))
	g.Go(fetch(cloud.TableTransactions, &out.transactions))
	g.Go(func() error {
		callCtx, cancel := context.WithTimeout(gctx, s.timeout)
		defer cancel()
		profile, err := s.backend.FetchProfile(callCtx)
		if err != nil {
			return fmt.Errorf("pull profile: %w", err)
		}
		out.content.Profile = profile
		return nil
	})

	if err := g.Wait(); err != nil {
		return pulled{}, err
	}
	return out, nil
}

// WipeAllData erases remote data first, then local. The ordering is
// deliberate: if the remote wipe fails, local data is preserved so the
// user is never told data is gone while cloud copies remain.
func (s *Syncer) WipeAllData(ctx context.Context) error {
	if !s.content.Profile().IsLocalOnly() {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		if err := s.backend.DeleteAllUserData(callCtx); err != nil {
			return fmt.Errorf("remote wipe failed, local data preserved: %w", err)
		}
	}

	if err := s.content.Wipe(); err != nil {
		return err
	}
	if err := s.gear.Wipe(); err != nil {
		return err
	}
	if err := s.finance.Wipe(); err != nil {
		return err
	}
	s.setStatus(StatusIdle)
	s.log.Info().Msg("sync: all data wiped")
	return nil
}
