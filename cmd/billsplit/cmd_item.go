package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/billsplit/internal/ledger"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/money"
)

var itemFor []string

// itemCmd groups line item commands
var itemCmd = &cobra.Command{
	Use:     "item",
	Aliases: []string{"i"},
	Short:   "Manage priced line items",
}

var itemAddCmd = &cobra.Command{
	Use:   "add <ledger> <name> <price>",
	Short: "Add a line item, optionally shared by --for participants",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := money.Parse(args[2])
		if err != nil {
			return err
		}
		return mutateResolved(cmd, args[0], "AddLineItem", func(snap models.Ledger) (func(*ledger.Ledger) error, error) {
			ids, err := resolveParticipants(snap, itemFor)
			if err != nil {
				return nil, err
			}
			return func(l *ledger.Ledger) error {
				id, err := l.AddLineItem(args[1], price)
				if err != nil {
					return err
				}
				l.SetLineItemParticipants(id, ids)
				return nil
			}, nil
		})
	},
}

var itemRemoveCmd = &cobra.Command{
	Use:   "remove <ledger> <item>",
	Short: "Remove a line item",
	Args:  cobra.ExactArgs(2),
	RunE: withItem("RemoveLineItem", func(l *ledger.Ledger, id string, _ []string) error {
		l.RemoveLineItem(id)
		return nil
	}),
}

var itemRenameCmd = &cobra.Command{
	Use:   "rename <ledger> <item> <new-name>",
	Short: "Rename a line item",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args[2:], " ")
		return withItem("RenameLineItem", func(l *ledger.Ledger, id string, _ []string) error {
			return l.RenameLineItem(id, name)
		})(cmd, args[:2])
	},
}

var itemPriceCmd = &cobra.Command{
	Use:   "price <ledger> <item> <price>",
	Short: "Change a line item's price (rounded half-up to cents)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := money.Parse(args[2])
		if err != nil {
			return err
		}
		return withItem("SetLineItemPrice", func(l *ledger.Ledger, id string, _ []string) error {
			return l.SetLineItemPrice(id, price)
		})(cmd, args[:2])
	},
}

var itemAssignCmd = &cobra.Command{
	Use:   "assign <ledger> <item> <who>...",
	Short: "Add participants to a line item",
	Args:  cobra.MinimumNArgs(3),
	RunE: withItem("AddLineItemParticipant", func(l *ledger.Ledger, id string, who []string) error {
		for _, participantID := range who {
			l.AddLineItemParticipant(id, participantID)
		}
		return nil
	}),
}

var itemUnassignCmd = &cobra.Command{
	Use:   "unassign <ledger> <item> <who>...",
	Short: "Remove participants from a line item",
	Args:  cobra.MinimumNArgs(3),
	RunE: withItem("RemoveLineItemParticipant", func(l *ledger.Ledger, id string, who []string) error {
		for _, participantID := range who {
			l.RemoveLineItemParticipant(id, participantID)
		}
		return nil
	}),
}

var itemSetCmd = &cobra.Command{
	Use:   "set <ledger> <item> [who]...",
	Short: "Replace the participants of a line item (none clears them)",
	Args:  cobra.MinimumNArgs(2),
	RunE: withItem("SetLineItemParticipants", func(l *ledger.Ledger, id string, who []string) error {
		l.SetLineItemParticipants(id, who)
		return nil
	}),
}

// withItem builds a RunE for "<ledger> <item> [who]..." commands.
func withItem(op string, fn func(l *ledger.Ledger, id string, who []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return mutateResolved(cmd, args[0], op, func(snap models.Ledger) (func(*ledger.Ledger) error, error) {
			id, err := resolveItem(snap, args[1])
			if err != nil {
				return nil, err
			}
			who, err := resolveParticipants(snap, args[2:])
			if err != nil {
				return nil, err
			}
			return func(l *ledger.Ledger) error { return fn(l, id, who) }, nil
		})
	}
}

func init() {
	itemAddCmd.Flags().StringSliceVar(&itemFor, "for", nil, "participants sharing the item (comma-separated names or keys)")

	itemCmd.AddCommand(
		itemAddCmd,
		itemRemoveCmd,
		itemRenameCmd,
		itemPriceCmd,
		itemAssignCmd,
		itemUnassignCmd,
		itemSetCmd,
	)
}
