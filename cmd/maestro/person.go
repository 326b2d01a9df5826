// ABOUTME: CLI commands for the contact roster.
// ABOUTME: People are referenced by booking slots and progress records.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/maestro/internal/models"
)

var (
	personEmail      string
	personPhone      string
	personInstrument string
	personRole       string
)

var personCmd = &cobra.Command{
	Use:     "person",
	Aliases: []string{"p"},
	Short:   "Manage the contact roster",
	Long: `Manage the contact roster: musicians, students, venue contacts.

Deleting a person does not touch the booking slots or progress records
that referenced them; those references simply dangle.

EXAMPLES:

  maestro person add "Dana Reeves" musician --instrument bass
  maestro person add "Sam Okafor" student --email sam@example.com
  maestro person list --role student
  maestro person rm abc123`,
}

var personAddCmd = &cobra.Command{
	Use:   "add <name> <role>",
	Short: "Add a contact",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !models.IsValidPersonRole(args[1]) {
			return fmt.Errorf("unknown role: %s\nValid roles: musician, student, venue", args[1])
		}

		p := models.NewPerson(args[0], models.PersonRole(args[1]))
		p.Email = personEmail
		p.Phone = personPhone
		p.Instrument = personInstrument
		content.AddPerson(*p)

		color.Green("✓ Added %s %q", p.Role, p.Name)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(p.ID)))
		return nil
	},
}

var personListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List contacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		people := content.People()
		if len(people) == 0 {
			fmt.Println("No contacts found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, p := range people {
			if personRole != "" && string(p.Role) != personRole {
				continue
			}
			extra := p.Instrument
			if extra == "" {
				extra = p.Email
			}
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(shortID(p.ID)),
				padRight(truncate(p.Name, 24), 24),
				padRight(string(p.Role), 10),
				faint.Sprint(extra))
		}
		return nil
	},
}

var personDeleteCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete", "del"},
	Short:   "Delete a contact",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ok := resolvePerson(args[0])
		if !ok {
			return fmt.Errorf("person not found: %s", args[0])
		}
		content.DeletePerson(p.ID)

		color.Yellow("✗ Deleted %q", p.Name)
		return nil
	},
}

func resolvePerson(idOrPrefix string) (models.Person, bool) {
	var match models.Person
	found := false
	for _, p := range content.People() {
		if p.ID == idOrPrefix {
			return p, true
		}
		if strings.HasPrefix(p.ID, idOrPrefix) {
			if found {
				return models.Person{}, false
			}
			match, found = p, true
		}
	}
	return match, found
}

func init() {
	personAddCmd.Flags().StringVar(&personEmail, "email", "", "email address")
	personAddCmd.Flags().StringVar(&personPhone, "phone", "", "phone number")
	personAddCmd.Flags().StringVar(&personInstrument, "instrument", "", "primary instrument")

	personListCmd.Flags().StringVar(&personRole, "role", "", "filter by role")

	personCmd.AddCommand(personAddCmd)
	personCmd.AddCommand(personListCmd)
	personCmd.AddCommand(personDeleteCmd)
	rootCmd.AddCommand(personCmd)
}
