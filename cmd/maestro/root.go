// ABOUTME: Root Cobra command for maestro CLI.
// ABOUTME: Wires config, storage, cloud backend, stores, and syncer.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/harperreed/maestro/internal/cloud"
	"github.com/harperreed/maestro/internal/config"
	"github.com/harperreed/maestro/internal/storage"
	"github.com/harperreed/maestro/internal/store"
	"github.com/harperreed/maestro/internal/syncer"
)

var (
	appCfg     *config.Config
	appLog     zerolog.Logger
	appDB      *storage.DB
	appBackend cloud.Backend
	appMirror  *cloud.Mirror
	content    *store.ContentStore
	gearStore  *store.GearStore
	finStore   *store.FinanceStore
	appSyncer  *syncer.Syncer
)

var rootCmd = &cobra.Command{
	Use:   "maestro",
	Short: "Practice, gig, and gear management for working musicians",
	Long: `Maestro manages a musician's practice library, calendar, roster,
gear inventory, and gig finances. Everything works offline; with a
cloud backend configured, every change is replicated in the background
and a full sync reconciles devices on demand.

PRACTICE LIBRARY:

  $ maestro block add "Major scales" --content "All 12 keys, q=90"
  $ maestro routine add "Morning warmup" --blocks abc123,def456
  $ maestro category add technique --color "#4a90d9"

SCHEDULE & ROSTER:

  $ maestro event add "Quartet at Green Mill" performance "2026-09-12 21:00" --fee 400
  $ maestro person add "Dana Reeves" musician --instrument bass
  $ maestro event list --kind performance

GEAR & FINANCES:

  $ maestro gear add "Telecaster" --kind guitar --value 1400
  $ maestro tx add income 400 --memo "Green Mill gig"
  $ maestro tx summary

SYNC:

  $ maestro sync          # Push, pull, and merge with the cloud backend
  $ maestro sync status   # Show sync state
  $ maestro wipe          # Delete ALL data, remote first (destructive)

MCP INTEGRATION:

  Run 'maestro mcp' to start the Model Context Protocol server for use
  with MCP-compatible AI assistants:

  {
    "mcpServers": {
      "maestro": { "command": "maestro", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Entities live in three JSON snapshots inside a local Badger store,
  by default at ~/.local/share/maestro. Configure the cloud backend in
  ~/.config/maestro/config.yaml or MAESTRO_REMOTE_* env vars.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip app init for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return initApp()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeApp()
	},
}

func initApp() error {
	var err error
	appCfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level, err := zerolog.ParseLevel(appCfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	appLog = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	appDB, err = storage.Open(appCfg.GetDataDir())
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	var mirror store.Mirror
	if appCfg.Remote.Configured() {
		backend, err := cloud.ConnectSurreal(cloud.SurrealConfig{
			URL:       appCfg.Remote.URL,
			Namespace: appCfg.Remote.Namespace,
			Database:  appCfg.Remote.Database,
			Username:  appCfg.Remote.Username,
			Password:  appCfg.Remote.Password,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to cloud backend: %w", err)
		}
		appBackend = backend

		localOnly := func() bool {
			if content == nil {
				return true
			}
			return content.Profile().IsLocalOnly()
		}
		appMirror = cloud.NewMirror(appBackend, localOnly, cloud.MirrorOptions{
			QueueSize:   appCfg.Mirror.QueueSize,
			CallTimeout: appCfg.Mirror.CallTimeout,
		}, appLog)
		mirror = appMirror
	}

	content = store.NewContentStore(appDB, mirror, appLog)
	gearStore = store.NewGearStore(appDB, mirror, appLog)
	finStore = store.NewFinanceStore(appDB, mirror, appLog)
	for _, hydrate := range []func() error{content.Hydrate, gearStore.Hydrate, finStore.Hydrate} {
		if err := hydrate(); err != nil {
			return fmt.Errorf("failed to hydrate stores: %w", err)
		}
	}

	if appBackend != nil {
		appSyncer = syncer.New(content, gearStore, finStore, appBackend, appLog)
		appSyncer.SetCallTimeout(appCfg.Mirror.CallTimeout)
	}

	return nil
}

func closeApp() error {
	if appMirror != nil {
		appMirror.Flush()
		appMirror.Close()
	}
	if s, ok := appBackend.(*cloud.Surreal); ok {
		s.Close()
	}
	if appDB != nil {
		return appDB.Close()
	}
	return nil
}
