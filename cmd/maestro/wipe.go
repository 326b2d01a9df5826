// ABOUTME: CLI command for the destructive account wipe.
// ABOUTME: Remote data is deleted first; local is only cleared on success.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete ALL data, remote first",
	Long: `Delete all data: every remote table row, then every local
collection and the persisted snapshots.

The remote wipe runs first and is awaited. If it fails, local data is
preserved, so you are never told data is gone while cloud copies
remain. Guest (local-only) profiles skip the remote step.

This is a DESTRUCTIVE operation with no undo.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("This will PERMANENTLY DELETE all cloud and local data.")
		fmt.Print("Type 'wipe' to confirm: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "wipe" {
			fmt.Println("Canceled.")
			return nil
		}

		if appSyncer != nil {
			if err := appSyncer.WipeAllData(cmd.Context()); err != nil {
				return err
			}
		} else {
			// No backend configured: only local state exists.
			for _, wipe := range []func() error{content.Wipe, gearStore.Wipe, finStore.Wipe} {
				if err := wipe(); err != nil {
					return err
				}
			}
		}

		color.Green("✓ All data wiped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(wipeCmd)
}
