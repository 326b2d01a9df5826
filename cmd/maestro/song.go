// ABOUTME: CLI commands for repertoire songs and set lists.
// ABOUTME: Both are local-only: never mirrored, never synced.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/maestro/internal/models"
)

var (
	songArtist   string
	songKey      string
	songTempo    int
	setlistSongs string
	setlistEvent string
)

var songCmd = &cobra.Command{
	Use:   "song",
	Short: "Manage the repertoire",
	Long: `Manage the song repertoire. Songs and set lists stay on this
device only; they are never replicated to the cloud backend.

EXAMPLES:

  maestro song add "Donna Lee" --artist "Charlie Parker" --key Ab --tempo 220
  maestro song list
  maestro song rm abc123`,
}

var songAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a song",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := models.NewSong(args[0])
		s.Artist = songArtist
		s.Key = songKey
		s.TempoBPM = songTempo
		content.AddSong(*s)

		color.Green("✓ Added song %q", s.Title)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(s.ID)))
		return nil
	},
}

var songListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List songs",
	RunE: func(cmd *cobra.Command, args []string) error {
		songs := content.Songs()
		if len(songs) == 0 {
			fmt.Println("No songs found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, s := range songs {
			detail := s.Artist
			if s.Key != "" {
				detail += faint.Sprintf(" [%s]", s.Key)
			}
			if s.TempoBPM > 0 {
				detail += faint.Sprintf(" %d bpm", s.TempoBPM)
			}
			fmt.Printf("%s %s %s\n", faint.Sprint(shortID(s.ID)), padRight(truncate(s.Title, 32), 32), detail)
		}
		return nil
	},
}

var songDeleteCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete", "del"},
	Short:   "Delete a song",
	Long: `Delete a song from the repertoire. Set lists that referenced it
drop the reference.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, ok := resolveSong(args[0])
		if !ok {
			return fmt.Errorf("song not found: %s", args[0])
		}
		content.DeleteSong(s.ID)

		color.Yellow("✗ Deleted %q", s.Title)
		return nil
	},
}

var setlistCmd = &cobra.Command{
	Use:   "setlist",
	Short: "Manage set lists",
	Long: `Manage performance set lists: ordered songs for a show, optionally
tied to an event. Set lists stay on this device only.

EXAMPLES:

  maestro setlist add "Friday late set" --songs abc123,def456 --event ghi789
  maestro setlist list`,
}

var setlistAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a set list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sl := models.NewSetList(args[0])
		if setlistSongs != "" {
			for _, ref := range strings.Split(setlistSongs, ",") {
				s, ok := resolveSong(strings.TrimSpace(ref))
				if !ok {
					return fmt.Errorf("song not found: %s", ref)
				}
				sl.SongIDs = append(sl.SongIDs, s.ID)
			}
		}
		if setlistEvent != "" {
			e, ok := resolveEvent(setlistEvent)
			if !ok {
				return fmt.Errorf("event not found: %s", setlistEvent)
			}
			sl.EventID = &e.ID
		}
		content.AddSetList(*sl)

		color.Green("✓ Added set list %q with %d songs", sl.Title, len(sl.SongIDs))
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(sl.ID)))
		return nil
	},
}

var setlistListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List set lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		lists := content.SetLists()
		if len(lists) == 0 {
			fmt.Println("No set lists found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, sl := range lists {
			fmt.Printf("%s %s %s\n", faint.Sprint(shortID(sl.ID)), padRight(truncate(sl.Title, 32), 32), faint.Sprintf("%d songs", len(sl.SongIDs)))
			for i, id := range sl.SongIDs {
				title := id
				if s, ok := resolveSong(id); ok {
					title = s.Title
				}
				fmt.Printf("  %2d. %s\n", i+1, truncate(title, 56))
			}
		}
		return nil
	},
}

var setlistDeleteCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete", "del"},
	Short:   "Delete a set list",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sl, ok := content.SetList(args[0])
		if !ok {
			for _, candidate := range content.SetLists() {
				if strings.HasPrefix(candidate.ID, args[0]) {
					sl, ok = candidate, true
					break
				}
			}
		}
		if !ok {
			return fmt.Errorf("set list not found: %s", args[0])
		}
		content.DeleteSetList(sl.ID)

		color.Yellow("✗ Deleted set list %q", sl.Title)
		return nil
	},
}

func resolveSong(idOrPrefix string) (models.Song, bool) {
	var match models.Song
	found := false
	for _, s := range content.Songs() {
		if s.ID == idOrPrefix {
			return s, true
		}
		if strings.HasPrefix(s.ID, idOrPrefix) {
			if found {
				return models.Song{}, false
			}
			match, found = s, true
		}
	}
	return match, found
}

func init() {
	songAddCmd.Flags().StringVar(&songArtist, "artist", "", "composer or artist")
	songAddCmd.Flags().StringVar(&songKey, "key", "", "key signature")
	songAddCmd.Flags().IntVar(&songTempo, "tempo", 0, "tempo in BPM")

	setlistAddCmd.Flags().StringVar(&setlistSongs, "songs", "", "comma-separated song ids, in order")
	setlistAddCmd.Flags().StringVar(&setlistEvent, "event", "", "event id this set is for")

	songCmd.AddCommand(songAddCmd)
	songCmd.AddCommand(songListCmd)
	songCmd.AddCommand(songDeleteCmd)
	rootCmd.AddCommand(songCmd)

	setlistCmd.AddCommand(setlistAddCmd)
	setlistCmd.AddCommand(setlistListCmd)
	setlistCmd.AddCommand(setlistDeleteCmd)
	rootCmd.AddCommand(setlistCmd)
}
