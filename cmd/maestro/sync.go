// ABOUTME: CLI commands for on-demand cloud sync.
// ABOUTME: Runs push-then-pull-then-merge; status shows the last outcome.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/maestro/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync data with the cloud backend",
	Long: `Run a full sync against the cloud backend.

The sync pushes every local collection, pulls the full remote state,
and merges it in. On an id conflict the remote copy wins; entries that
exist only locally are kept and were made remotely visible by the
push. There is no retry or backoff: offline edits simply accumulate
and go out wholesale on the next sync.

Guest (local-only) profiles skip sync entirely.

EXAMPLES:

  maestro sync            # Full push/pull/merge
  maestro sync status     # Show sync configuration and state`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if appSyncer == nil {
			return fmt.Errorf("no cloud backend configured\n\nSet remote.url in %s or MAESTRO_REMOTE_URL", configHint())
		}

		err := appSyncer.Sync(cmd.Context())
		if err == syncer.ErrLocalOnly {
			color.Yellow("⚠ Local-only profile; nothing synced")
			fmt.Println("Attach a cloud account with 'maestro profile set --id <account-id>'.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		color.Green("✓ Sync complete")
		fmt.Printf("  Blocks: %d  Routines: %d  Events: %d  Gear: %d  Transactions: %d\n",
			len(content.Blocks()), len(content.Routines()), len(content.Events()),
			len(gearStore.GearAssets()), len(finStore.Transactions()))
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !appCfg.Remote.Configured() {
			color.Yellow("No cloud backend configured")
			fmt.Printf("\nSet remote.url in %s to enable sync.\n", configHint())
			return nil
		}

		fmt.Println("Backend:", appCfg.Remote.URL)
		fmt.Printf("Namespace: %s  Database: %s\n", appCfg.Remote.Namespace, appCfg.Remote.Database)

		p := content.Profile()
		if p.IsLocalOnly() {
			color.Yellow("⚠ Local-only profile; replication and sync disabled")
		} else {
			color.Green("✓ Cloud account: %s", p.ID)
		}

		status := syncer.StatusIdle
		if appSyncer != nil {
			status = appSyncer.Status()
		}
		fmt.Println("Status:", status)
		return nil
	},
}

func configHint() string {
	return "~/.config/maestro/config.yaml"
}

func init() {
	syncCmd.AddCommand(syncStatusCmd)
	rootCmd.AddCommand(syncCmd)
}
