// ABOUTME: CLI commands for content block categories.
// ABOUTME: Deleting a category unlabels its blocks, it never deletes them.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/maestro/internal/models"
)

var categoryColor string

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage block categories",
	Long: `Manage categories for labelling content blocks.

Deleting a category does not delete its blocks; they just lose the
label.

EXAMPLES:

  maestro category add technique --color "#4a90d9"
  maestro category list
  maestro category rm abc123`,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := models.NewCategory(args[0])
		if categoryColor != "" {
			c.Color = categoryColor
		}
		content.AddCategory(*c)

		color.Green("✓ Added category %q", c.Name)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(c.ID)))
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		cats := content.Categories()
		if len(cats) == 0 {
			fmt.Println("No categories found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, c := range cats {
			n := 0
			for _, b := range content.Blocks() {
				if b.CategoryID != nil && *b.CategoryID == c.ID {
					n++
				}
			}
			fmt.Printf("%s %s %s\n", faint.Sprint(shortID(c.ID)), padRight(c.Name, 24), faint.Sprintf("%d blocks", n))
		}
		return nil
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete", "del"},
	Short:   "Delete a category",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, ok := findCategory(args[0])
		if !ok {
			return fmt.Errorf("category not found: %s", args[0])
		}
		content.DeleteCategory(cat.ID)

		color.Yellow("✗ Deleted category %q (blocks kept, label removed)", cat.Name)
		return nil
	},
}

func init() {
	categoryAddCmd.Flags().StringVar(&categoryColor, "color", "", "display color (hex)")

	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
	rootCmd.AddCommand(categoryCmd)
}
