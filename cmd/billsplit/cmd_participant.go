package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/billsplit/internal/ledger"
	"github.com/mmynk/billsplit/internal/models"
)

// participantCmd groups participant commands
var participantCmd = &cobra.Command{
	Use:     "participant",
	Aliases: []string{"p"},
	Short:   "Manage the people splitting the bill",
}

var participantAddCmd = &cobra.Command{
	Use:   "add <ledger> <name>",
	Short: "Add a participant",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args[1:], " ")
		return mutate(cmd, args[0], "AddParticipant", func(l *ledger.Ledger) error {
			_, err := l.AddParticipant(name)
			return err
		})
	},
}

var participantRemoveCmd = &cobra.Command{
	Use:   "remove <ledger> <who>",
	Short: "Remove a participant from the ledger and from every item",
	Args:  cobra.ExactArgs(2),
	RunE: withParticipant("RemoveParticipant", func(l *ledger.Ledger, id string) error {
		l.RemoveParticipant(id)
		return nil
	}),
}

var participantRenameCmd = &cobra.Command{
	Use:   "rename <ledger> <who> <new-name>",
	Short: "Rename a participant",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args[2:], " ")
		return withParticipant("RenameParticipant", func(l *ledger.Ledger, id string) error {
			return l.RenameParticipant(id, name)
		})(cmd, args[:2])
	},
}

var participantPayerCmd = &cobra.Command{
	Use:   "payer <ledger> <who>",
	Short: "Toggle who paid the bill (there is at most one payer)",
	Args:  cobra.ExactArgs(2),
	RunE: withParticipant("TogglePayer", func(l *ledger.Ledger, id string) error {
		l.TogglePayer(id)
		return nil
	}),
}

var participantSettleCmd = &cobra.Command{
	Use:   "settle <ledger> <who>",
	Short: "Mark a participant as having paid back their share",
	Args:  cobra.ExactArgs(2),
	RunE: withParticipant("SetSettled", func(l *ledger.Ledger, id string) error {
		l.SetSettled(id, true)
		return nil
	}),
}

var participantUnsettleCmd = &cobra.Command{
	Use:   "unsettle <ledger> <who>",
	Short: "Clear a participant's settled mark",
	Args:  cobra.ExactArgs(2),
	RunE: withParticipant("SetSettled", func(l *ledger.Ledger, id string) error {
		l.SetSettled(id, false)
		return nil
	}),
}

// withParticipant builds a RunE for "<ledger> <who>" commands.
func withParticipant(op string, fn func(l *ledger.Ledger, id string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return mutateResolved(cmd, args[0], op, func(snap models.Ledger) (func(*ledger.Ledger) error, error) {
			id, err := resolveParticipant(snap, args[1])
			if err != nil {
				return nil, err
			}
			return func(l *ledger.Ledger) error { return fn(l, id) }, nil
		})
	}
}

func init() {
	participantCmd.AddCommand(
		participantAddCmd,
		participantRemoveCmd,
		participantRenameCmd,
		participantPayerCmd,
		participantSettleCmd,
		participantUnsettleCmd,
	)
}
