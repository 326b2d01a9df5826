// ABOUTME: CLI commands for the user profile and settings.
// ABOUTME: Guest profiles carry a local- id prefix and bypass all cloud I/O.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/maestro/internal/models"
)

var (
	profileName       string
	profileEmail      string
	profileInstrument string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update the user profile",
	Long: `Show or update the user profile.

A guest (local-only) profile has an id starting with "local-"; such
sessions never perform any cloud calls. Setting a cloud account id
with --id enables background replication and sync.

EXAMPLES:

  maestro profile                      # Show current profile
  maestro profile set --name "Ada Chen" --instrument trumpet
  maestro profile set --id user-8a3f   # Attach to a cloud account
  maestro profile guest                # Switch to a fresh guest profile`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := content.Profile()
		if p.ID == "" {
			fmt.Println("No profile set. Running as guest.")
			return nil
		}

		faint := color.New(color.Faint)
		fmt.Printf("ID:         %s\n", p.ID)
		if p.DisplayName != "" {
			fmt.Printf("Name:       %s\n", p.DisplayName)
		}
		if p.Email != "" {
			fmt.Printf("Email:      %s\n", p.Email)
		}
		if p.Instrument != "" {
			fmt.Printf("Instrument: %s\n", p.Instrument)
		}
		if p.IsLocalOnly() {
			fmt.Println(faint.Sprint("Local-only session: no cloud replication."))
		} else {
			color.Green("✓ Cloud account attached")
		}
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := content.Profile()
		if id, _ := cmd.Flags().GetString("id"); id != "" {
			p.ID = id
		}
		if p.ID == "" {
			p = models.NewLocalProfile()
		}
		if profileName != "" {
			p.DisplayName = profileName
		}
		if profileEmail != "" {
			p.Email = profileEmail
		}
		if profileInstrument != "" {
			p.Instrument = profileInstrument
		}
		content.SetProfile(p)

		color.Green("✓ Profile updated")
		return nil
	},
}

var profileGuestCmd = &cobra.Command{
	Use:   "guest",
	Short: "Switch to a fresh guest profile",
	Long: `Switch to a fresh guest (local-only) profile.

Local data is kept, but nothing is replicated to the cloud until a
cloud account id is attached again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		content.SetProfile(models.NewLocalProfile())
		color.Green("✓ Switched to a guest profile; cloud I/O disabled")
		return nil
	},
}

func init() {
	profileSetCmd.Flags().String("id", "", "cloud account id")
	profileSetCmd.Flags().StringVar(&profileName, "name", "", "display name")
	profileSetCmd.Flags().StringVar(&profileEmail, "email", "", "email address")
	profileSetCmd.Flags().StringVar(&profileInstrument, "instrument", "", "primary instrument")

	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileGuestCmd)
	rootCmd.AddCommand(profileCmd)
}
