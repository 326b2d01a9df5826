// ABOUTME: CLI commands for learning paths, progress, and proof of work.
// ABOUTME: Paths hold ordered steps; progress logs completion per step.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/maestro/internal/models"
)

var (
	pathDesc     string
	pathPersonID string
	proofRef     string
	proofNotes   string
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Manage learning paths and progress",
	Long: `Manage learning paths: ordered curricula of practice steps.

Log completion of steps with 'path log', optionally per student, and
attach proof (a recording, a note, a link) with 'path proof'.

EXAMPLES:

  maestro path add "Bebop vocabulary"
  maestro path step abc123 "Learn Donna Lee head"
  maestro path log abc123 def456 --person ghi789
  maestro path proof jkl012 recording --ref "file:///takes/donna-lee-1.wav"
  maestro path list`,
}

var pathAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a learning path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lp := models.NewLearningPath(args[0])
		if pathDesc != "" {
			lp.Description = pathDesc
		}
		content.AddLearningPath(*lp)

		color.Green("✓ Added path %q", lp.Title)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(lp.ID)))
		return nil
	},
}

var pathStepCmd = &cobra.Command{
	Use:   "step <path-id> <title>",
	Short: "Append a step to a path",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lp, ok := resolvePath(args[0])
		if !ok {
			return fmt.Errorf("path not found: %s", args[0])
		}

		step := lp.AddStep(args[1])
		content.UpdateLearningPath(lp.ID, models.LearningPathPatch{Steps: &lp.Steps})

		color.Green("✓ Added step %q to %q", step.Title, lp.Title)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(step.ID)))
		return nil
	},
}

var pathListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List paths with completion state",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := content.LearningPaths()
		if len(paths) == 0 {
			fmt.Println("No learning paths found.")
			return nil
		}

		done := map[string]bool{}
		for _, up := range content.Progress() {
			done[up.StepID] = true
		}

		faint := color.New(color.Faint)
		for _, lp := range paths {
			completed := 0
			for _, step := range lp.Steps {
				if done[step.ID] {
					completed++
				}
			}
			fmt.Printf("%s %s %s\n",
				faint.Sprint(shortID(lp.ID)),
				padRight(truncate(lp.Title, 36), 36),
				faint.Sprintf("%d/%d steps", completed, len(lp.Steps)))
			for _, step := range lp.Steps {
				mark := " "
				if done[step.ID] {
					mark = color.GreenString("✓")
				}
				fmt.Printf("  %s %s %s\n", mark, faint.Sprint(shortID(step.ID)), truncate(step.Title, 56))
			}
		}
		return nil
	},
}

var pathLogCmd = &cobra.Command{
	Use:   "log <path-id> <step-id>",
	Short: "Log completion of a step",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lp, ok := resolvePath(args[0])
		if !ok {
			return fmt.Errorf("path not found: %s", args[0])
		}

		var stepID string
		for _, step := range lp.Steps {
			if step.ID == args[1] || strings.HasPrefix(step.ID, args[1]) {
				stepID = step.ID
				break
			}
		}
		if stepID == "" {
			return fmt.Errorf("step not found on path %q: %s", lp.Title, args[1])
		}

		up := models.NewUserProgress(lp.ID, stepID)
		if pathPersonID != "" {
			p, ok := resolvePerson(pathPersonID)
			if !ok {
				return fmt.Errorf("person not found: %s", pathPersonID)
			}
			up.PersonID = &p.ID
		}
		content.AddProgress(*up)

		color.Green("✓ Logged progress on %q", lp.Title)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(up.ID)))
		return nil
	},
}

var pathProofCmd = &cobra.Command{
	Use:   "proof <progress-id> <kind>",
	Short: "Attach proof of work to a progress record",
	Long: `Attach proof of work to a logged progress record.

Kinds: recording, note, link. Use --ref for the file or URL and
--notes for free-form commentary.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := models.ProofKind(args[1])
		switch kind {
		case models.ProofRecording, models.ProofNote, models.ProofLink:
		default:
			return fmt.Errorf("unknown proof kind: %s\nValid kinds: recording, note, link", args[1])
		}

		var progressID string
		for _, up := range content.Progress() {
			if up.ID == args[0] || strings.HasPrefix(up.ID, args[0]) {
				progressID = up.ID
				break
			}
		}
		if progressID == "" {
			return fmt.Errorf("progress record not found: %s", args[0])
		}

		pw := models.NewProofOfWork(progressID, kind)
		pw.Reference = proofRef
		pw.Notes = proofNotes
		content.AddProof(*pw)

		color.Green("✓ Attached %s proof", kind)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(pw.ID)))
		return nil
	},
}

var pathDeleteCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete", "del"},
	Short:   "Delete a learning path",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lp, ok := resolvePath(args[0])
		if !ok {
			return fmt.Errorf("path not found: %s", args[0])
		}
		content.DeleteLearningPath(lp.ID)

		color.Yellow("✗ Deleted path %q", lp.Title)
		return nil
	},
}

func resolvePath(idOrPrefix string) (models.LearningPath, bool) {
	var match models.LearningPath
	found := false
	for _, lp := range content.LearningPaths() {
		if lp.ID == idOrPrefix {
			return lp, true
		}
		if strings.HasPrefix(lp.ID, idOrPrefix) {
			if found {
				return models.LearningPath{}, false
			}
			match, found = lp, true
		}
	}
	return match, found
}

func init() {
	pathAddCmd.Flags().StringVar(&pathDesc, "description", "", "path description")
	pathLogCmd.Flags().StringVar(&pathPersonID, "person", "", "student this progress belongs to")
	pathProofCmd.Flags().StringVar(&proofRef, "ref", "", "file path or URL of the evidence")
	pathProofCmd.Flags().StringVar(&proofNotes, "notes", "", "free-form notes")

	pathCmd.AddCommand(pathAddCmd)
	pathCmd.AddCommand(pathStepCmd)
	pathCmd.AddCommand(pathListCmd)
	pathCmd.AddCommand(pathLogCmd)
	pathCmd.AddCommand(pathProofCmd)
	pathCmd.AddCommand(pathDeleteCmd)
	rootCmd.AddCommand(pathCmd)
}
