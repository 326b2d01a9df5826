// ABOUTME: CLI commands for practice routines.
// ABOUTME: Routines embed point-in-time copies of blocks, set via --blocks.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/maestro/internal/models"
)

var (
	routineDesc   string
	routineBlocks string
)

var routineCmd = &cobra.Command{
	Use:     "routine",
	Aliases: []string{"r"},
	Short:   "Manage practice routines",
	Long: `Manage practice routines: ordered sequences of content blocks.

A routine embeds copies of its blocks at the time you set them.
Editing a source block afterwards still reaches the routine, because
block updates fan out to every routine embedding that block. Deleting
a source block removes the embedded copy.

EXAMPLES:

  maestro routine add "Morning warmup" --blocks abc123,def456
  maestro routine list
  maestro routine rm abc123`,
}

var routineAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a routine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := models.NewRoutine(args[0])
		if routineDesc != "" {
			r.Description = routineDesc
		}
		if routineBlocks != "" {
			for _, ref := range strings.Split(routineBlocks, ",") {
				id, ok := resolveBlockID(strings.TrimSpace(ref))
				if !ok {
					return fmt.Errorf("block not found: %s", ref)
				}
				b, _ := content.Block(id)
				r.WithBlocks(b)
			}
		}
		content.AddRoutine(*r)

		color.Green("✓ Added routine %q with %d blocks", r.Title, len(r.Blocks))
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(r.ID)))
		return nil
	},
}

var routineListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List routines",
	RunE: func(cmd *cobra.Command, args []string) error {
		routines := content.Routines()
		if len(routines) == 0 {
			fmt.Println("No routines found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, r := range routines {
			fmt.Printf("%s %s %s\n", faint.Sprint(shortID(r.ID)), padRight(truncate(r.Title, 36), 36), faint.Sprintf("%d blocks", len(r.Blocks)))
			for _, b := range r.Blocks {
				fmt.Printf("    %s\n", faint.Sprint(truncate(b.Title, 60)))
			}
		}
		return nil
	},
}

var routineDeleteCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete", "del"},
	Short:   "Delete a routine",
	Long: `Delete a routine. Events that referenced it lose the reference;
the routine's source blocks are untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, ok := resolveRoutine(args[0])
		if !ok {
			return fmt.Errorf("routine not found: %s", args[0])
		}
		content.DeleteRoutine(r.ID)

		color.Yellow("✗ Deleted routine %q", r.Title)
		return nil
	},
}

func resolveRoutine(idOrPrefix string) (models.Routine, bool) {
	var match models.Routine
	found := false
	for _, r := range content.Routines() {
		if r.ID == idOrPrefix {
			return r, true
		}
		if strings.HasPrefix(r.ID, idOrPrefix) {
			if found {
				return models.Routine{}, false
			}
			match, found = r, true
		}
	}
	return match, found
}

func init() {
	routineAddCmd.Flags().StringVar(&routineDesc, "description", "", "routine description")
	routineAddCmd.Flags().StringVar(&routineBlocks, "blocks", "", "comma-separated block ids to embed, in order")

	routineCmd.AddCommand(routineAddCmd)
	routineCmd.AddCommand(routineListCmd)
	routineCmd.AddCommand(routineDeleteCmd)
	rootCmd.AddCommand(routineCmd)
}
