// ABOUTME: CLI commands for practice content blocks.
// ABOUTME: Supports add, list, update, and delete with category cascade.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/maestro/internal/models"
)

var (
	blockContent  string
	blockCategory string
	blockMedia    string
	blockTitle    string
)

var blockCmd = &cobra.Command{
	Use:     "block",
	Aliases: []string{"b"},
	Short:   "Manage practice content blocks",
	Long: `Manage practice content blocks: exercises, etudes, excerpts.

A block holds text content or a media reference, optionally labelled
with a category. Routines embed copies of blocks; editing a block
updates every routine that embeds it.

EXAMPLES:

  maestro block add "Major scales" --content "All 12 keys, q=90"
  maestro block add "Donna Lee head" --media "file:///scores/donna-lee.pdf"
  maestro block list --category abc123
  maestro block update abc123 --title "Major scales (slow)"
  maestro block rm abc123`,
}

var blockAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a content block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b := models.NewContentBlock(args[0])
		if blockContent != "" {
			b.WithContent(blockContent)
		}
		if blockCategory != "" {
			b.WithCategory(blockCategory)
		}
		if blockMedia != "" {
			b.WithMediaURL(blockMedia)
		}
		content.AddBlock(*b)

		color.Green("✓ Added block %q", b.Title)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(b.ID)))
		return nil
	},
}

var blockListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List content blocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		blocks := content.Blocks()
		if len(blocks) == 0 {
			fmt.Println("No blocks found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, b := range blocks {
			if blockCategory != "" && (b.CategoryID == nil || *b.CategoryID != blockCategory) {
				continue
			}
			label := ""
			if b.CategoryID != nil {
				if cat, ok := findCategory(*b.CategoryID); ok {
					label = faint.Sprintf(" [%s]", cat.Name)
				}
			}
			fmt.Printf("%s %s%s\n", faint.Sprint(shortID(b.ID)), padRight(truncate(b.Title, 40), 40), label)
			if b.Content != "" {
				fmt.Printf("  %s\n", faint.Sprint(truncate(b.Content, 70)))
			}
		}
		return nil
	},
}

var blockUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a content block",
	Long: `Update a content block. Only the provided flags change; other
fields are left untouched. The edit fans out to every routine that
embeds this block.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, ok := resolveBlockID(args[0])
		if !ok {
			return fmt.Errorf("block not found: %s", args[0])
		}

		var patch models.ContentBlockPatch
		if cmd.Flags().Changed("title") {
			patch.Title = &blockTitle
		}
		if cmd.Flags().Changed("content") {
			patch.Content = &blockContent
		}
		if cmd.Flags().Changed("category") {
			patch.CategoryID = &blockCategory
		}
		if cmd.Flags().Changed("media") {
			patch.MediaURL = &blockMedia
		}
		content.UpdateBlock(id, patch)

		color.Green("✓ Updated block %s", shortID(id))
		return nil
	},
}

var blockDeleteCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete", "del"},
	Short:   "Delete a content block",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, ok := resolveBlockID(args[0])
		if !ok {
			return fmt.Errorf("block not found: %s", args[0])
		}
		b, _ := content.Block(id)
		content.DeleteBlock(id)

		color.Yellow("✗ Deleted block %q", b.Title)
		return nil
	},
}

// resolveBlockID accepts a full id or unique prefix.
func resolveBlockID(idOrPrefix string) (string, bool) {
	var match string
	for _, b := range content.Blocks() {
		if b.ID == idOrPrefix {
			return b.ID, true
		}
		if strings.HasPrefix(b.ID, idOrPrefix) {
			if match != "" {
				return "", false
			}
			match = b.ID
		}
	}
	return match, match != ""
}

func findCategory(id string) (models.Category, bool) {
	for _, c := range content.Categories() {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	blockAddCmd.Flags().StringVar(&blockContent, "content", "", "text content or practice notes")
	blockAddCmd.Flags().StringVar(&blockCategory, "category", "", "category id")
	blockAddCmd.Flags().StringVar(&blockMedia, "media", "", "media reference URL")

	blockListCmd.Flags().StringVar(&blockCategory, "category", "", "filter by category id")

	blockUpdateCmd.Flags().StringVar(&blockTitle, "title", "", "new title")
	blockUpdateCmd.Flags().StringVar(&blockContent, "content", "", "new content")
	blockUpdateCmd.Flags().StringVar(&blockCategory, "category", "", "new category id")
	blockUpdateCmd.Flags().StringVar(&blockMedia, "media", "", "new media reference")

	blockCmd.AddCommand(blockAddCmd)
	blockCmd.AddCommand(blockListCmd)
	blockCmd.AddCommand(blockUpdateCmd)
	blockCmd.AddCommand(blockDeleteCmd)
	rootCmd.AddCommand(blockCmd)
}
