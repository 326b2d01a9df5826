// ABOUTME: CLI commands for gear inventory and per-event pack lists.
// ABOUTME: Deleting gear strips it from pack lists without deleting them.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/maestro/internal/models"
)

var (
	gearKind   string
	gearSerial string
	gearValue  float64
	gearNotes  string
	packItems  string
)

var gearCmd = &cobra.Command{
	Use:     "gear",
	Aliases: []string{"g"},
	Short:   "Manage gear inventory and pack lists",
	Long: `Manage the gear inventory and per-event packing checklists.

Deleting a gear asset removes its items from every pack list but
leaves the lists themselves in place.

EXAMPLES:

  maestro gear add "Telecaster" --kind guitar --value 1400 --serial TX12345
  maestro gear list
  maestro gear pack abc123 --items def456,ghi789
  maestro gear packlist
  maestro gear rm abc123`,
}

var gearAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a gear asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := models.NewGearAsset(args[0])
		g.Kind = gearKind
		g.SerialNumber = gearSerial
		g.Value = gearValue
		g.Notes = gearNotes
		gearStore.AddGearAsset(*g)

		color.Green("✓ Added gear %q", g.Name)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(g.ID)))
		return nil
	},
}

var gearListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List gear assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		assets := gearStore.GearAssets()
		if len(assets) == 0 {
			fmt.Println("No gear found.")
			return nil
		}

		faint := color.New(color.Faint)
		var total float64
		for _, g := range assets {
			value := ""
			if g.Value > 0 {
				value = faint.Sprintf("%.2f", g.Value)
				total += g.Value
			}
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(shortID(g.ID)),
				padRight(truncate(g.Name, 28), 28),
				padRight(g.Kind, 12),
				value)
		}
		fmt.Printf("\n  Total insured value: %.2f\n", total)
		return nil
	},
}

var gearPackCmd = &cobra.Command{
	Use:   "pack <event-id>",
	Short: "Create a pack list for an event",
	Long: `Create a packing checklist for an event. --items takes gear ids;
anything else becomes a free-form label line.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ok := resolveEvent(args[0])
		if !ok {
			return fmt.Errorf("event not found: %s", args[0])
		}

		pl := models.NewPackList(e.ID)
		if packItems != "" {
			for _, ref := range strings.Split(packItems, ",") {
				ref = strings.TrimSpace(ref)
				if g, ok := resolveGear(ref); ok {
					pl.Items = append(pl.Items, models.PackItem{GearID: g.ID})
				} else {
					pl.Items = append(pl.Items, models.PackItem{Label: ref})
				}
			}
		}
		gearStore.AddPackList(*pl)

		color.Green("✓ Created pack list for %q with %d items", e.Title, len(pl.Items))
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(pl.ID)))
		return nil
	},
}

var gearPacklistCmd = &cobra.Command{
	Use:   "packlist",
	Short: "Show pack lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		lists := gearStore.PackLists()
		if len(lists) == 0 {
			fmt.Println("No pack lists found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, pl := range lists {
			title := pl.EventID
			if e, ok := resolveEvent(pl.EventID); ok {
				title = e.Title
			}
			fmt.Printf("%s %s\n", faint.Sprint(shortID(pl.ID)), truncate(title, 48))
			for _, item := range pl.Items {
				mark := " "
				if item.Packed {
					mark = color.GreenString("✓")
				}
				label := item.Label
				if item.GearID != "" {
					if g, ok := resolveGear(item.GearID); ok {
						label = g.Name
					}
				}
				fmt.Printf("  [%s] %s\n", mark, label)
			}
		}
		return nil
	},
}

var gearDeleteCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete", "del"},
	Short:   "Delete a gear asset",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, ok := resolveGear(args[0])
		if !ok {
			return fmt.Errorf("gear not found: %s", args[0])
		}
		gearStore.DeleteGearAsset(g.ID)

		color.Yellow("✗ Deleted %q (removed from pack lists)", g.Name)
		return nil
	},
}

func resolveGear(idOrPrefix string) (models.GearAsset, bool) {
	var match models.GearAsset
	found := false
	for _, g := range gearStore.GearAssets() {
		if g.ID == idOrPrefix {
			return g, true
		}
		if strings.HasPrefix(g.ID, idOrPrefix) {
			if found {
				return models.GearAsset{}, false
			}
			match, found = g, true
		}
	}
	return match, found
}

func init() {
	gearAddCmd.Flags().StringVar(&gearKind, "kind", "", "asset kind (guitar, amp, pedal...)")
	gearAddCmd.Flags().StringVar(&gearSerial, "serial", "", "serial number")
	gearAddCmd.Flags().Float64Var(&gearValue, "value", 0, "replacement value")
	gearAddCmd.Flags().StringVar(&gearNotes, "notes", "", "free-form notes")

	gearPackCmd.Flags().StringVar(&packItems, "items", "", "comma-separated gear ids or labels")

	gearCmd.AddCommand(gearAddCmd)
	gearCmd.AddCommand(gearListCmd)
	gearCmd.AddCommand(gearPackCmd)
	gearCmd.AddCommand(gearPacklistCmd)
	gearCmd.AddCommand(gearDeleteCmd)
	rootCmd.AddCommand(gearCmd)
}
