// ABOUTME: CLI commands for calendar events: gigs, lessons, rehearsals.
// ABOUTME: Supports add, list, booking slots, cancel (soft), and delete.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/maestro/internal/models"
)

var (
	eventLocation string
	eventFee      float64
	eventRoutines string
	eventKind     string
	eventAll      bool
)

var eventCmd = &cobra.Command{
	Use:     "event",
	Aliases: []string{"e", "gig"},
	Short:   "Manage calendar events",
	Long: `Manage calendar events: performances, lessons, rehearsals.

Cancelling an event keeps it in history with a cancellation mark;
deleting removes it entirely. Events can reference practice routines
and carry booking slots for roster musicians.

EXAMPLES:

  maestro event add "Quartet at Green Mill" performance "2026-09-12 21:00" --fee 400
  maestro event add "Theory lesson" lesson "2026-09-01 15:00" --location "Studio B"
  maestro event book abc123 bass def456
  maestro event list --kind performance
  maestro event cancel abc123
  maestro event rm abc123`,
}

var eventAddCmd = &cobra.Command{
	Use:   "add <title> <kind> <starts-at>",
	Short: "Schedule an event",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !models.IsValidEventKind(args[1]) {
			return fmt.Errorf("unknown event kind: %s\nValid kinds: performance, lesson, rehearsal, other", args[1])
		}
		startsAt, err := parseTime(args[2])
		if err != nil {
			return fmt.Errorf("invalid start time: %s", args[2])
		}

		e := models.NewAppEvent(args[0], models.EventKind(args[1]), startsAt)
		if eventLocation != "" {
			e.WithLocation(eventLocation)
		}
		if eventFee > 0 {
			e.WithFee(eventFee)
		}
		if eventRoutines != "" {
			for _, ref := range strings.Split(eventRoutines, ",") {
				r, ok := resolveRoutine(strings.TrimSpace(ref))
				if !ok {
					return fmt.Errorf("routine not found: %s", ref)
				}
				e.Routines = append(e.Routines, r.ID)
			}
		}
		content.AddEvent(*e)

		color.Green("✓ Scheduled %s %q", e.Kind, e.Title)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(shortID(e.ID)),
			startsAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var eventListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List events",
	RunE: func(cmd *cobra.Command, args []string) error {
		events := content.Events()
		if len(events) == 0 {
			fmt.Println("No events found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, e := range events {
			if e.DeletedAt != nil && !eventAll {
				continue
			}
			if eventKind != "" && string(e.Kind) != eventKind {
				continue
			}
			mark := ""
			if e.DeletedAt != nil {
				mark = color.YellowString(" (cancelled)")
			}
			loc := ""
			if e.Location != "" {
				loc = faint.Sprintf(" @ %s", e.Location)
			}
			fmt.Printf("%s %s %s %s%s%s\n",
				faint.Sprint(shortID(e.ID)),
				faint.Sprint(e.StartsAt.Format("2006-01-02 15:04")),
				padRight(string(e.Kind), 12),
				truncate(e.Title, 36),
				loc, mark)
		}
		return nil
	},
}

var eventBookCmd = &cobra.Command{
	Use:   "book <event-id> <role> <person-id>",
	Short: "Add a booking slot for a musician",
	Long: `Add a booking slot to an event, assigning a roster musician to a
role. The slot starts in the invited state.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ok := resolveEvent(args[0])
		if !ok {
			return fmt.Errorf("event not found: %s", args[0])
		}
		p, ok := resolvePerson(args[2])
		if !ok {
			return fmt.Errorf("person not found: %s", args[2])
		}

		slots := append(e.Slots, models.BookingSlot{
			Role:       args[1],
			MusicianID: p.ID,
			Status:     models.SlotInvited,
		})
		content.UpdateEvent(e.ID, models.AppEventPatch{Slots: &slots})

		color.Green("✓ Invited %s as %s on %q", p.Name, args[1], e.Title)
		return nil
	},
}

var eventCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel an event (kept in history)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ok := resolveEvent(args[0])
		if !ok {
			return fmt.Errorf("event not found: %s", args[0])
		}
		content.CancelEvent(e.ID)

		color.Yellow("✗ Cancelled %q", e.Title)
		return nil
	},
}

var eventDeleteCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete", "del"},
	Short:   "Delete an event entirely",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ok := resolveEvent(args[0])
		if !ok {
			return fmt.Errorf("event not found: %s", args[0])
		}
		content.DeleteEvent(e.ID)

		color.Yellow("✗ Deleted %q", e.Title)
		return nil
	},
}

func resolveEvent(idOrPrefix string) (models.AppEvent, bool) {
	var match models.AppEvent
	found := false
	for _, e := range content.Events() {
		if e.ID == idOrPrefix {
			return e, true
		}
		if strings.HasPrefix(e.ID, idOrPrefix) {
			if found {
				return models.AppEvent{}, false
			}
			match, found = e, true
		}
	}
	return match, found
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func init() {
	eventAddCmd.Flags().StringVar(&eventLocation, "location", "", "venue or address")
	eventAddCmd.Flags().Float64Var(&eventFee, "fee", 0, "agreed fee")
	eventAddCmd.Flags().StringVar(&eventRoutines, "routines", "", "comma-separated routine ids")

	eventListCmd.Flags().StringVar(&eventKind, "kind", "", "filter by kind")
	eventListCmd.Flags().BoolVar(&eventAll, "all", false, "include cancelled events")

	eventCmd.AddCommand(eventAddCmd)
	eventCmd.AddCommand(eventListCmd)
	eventCmd.AddCommand(eventBookCmd)
	eventCmd.AddCommand(eventCancelCmd)
	eventCmd.AddCommand(eventDeleteCmd)
	rootCmd.AddCommand(eventCmd)
}
