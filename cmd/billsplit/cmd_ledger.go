package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/ledger"
	"github.com/mmynk/billsplit/internal/money"
)

// newCmd creates a ledger
var newCmd = &cobra.Command{
	Use:   "new <event-name>",
	Short: "Start a new ledger for an event",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := svc.Create(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created ledger %s\n\n", sess.ID())
		printSummary(cmd, sess)
		return nil
	},
}

// listCmd lists stored ledgers
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored ledgers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		infos, err := svc.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No ledgers yet. Start one with: billsplit new <event-name>")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEVENT\tTOTAL\tUPDATED")
		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				info.ID, info.EventName, info.TotalPrice,
				time.Unix(info.UpdatedAt, 0).Format(time.DateTime),
			)
		}
		return w.Flush()
	},
}

// showCmd prints a ledger's summary
var showCmd = &cobra.Command{
	Use:   "show <ledger>",
	Short: "Print the summary of a ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := svc.Open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printSummary(cmd, sess)
		return nil
	},
}

// deleteCmd removes a ledger
var deleteCmd = &cobra.Command{
	Use:   "delete <ledger>",
	Short: "Delete a ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted ledger %s\n", args[0])
		return nil
	},
}

// eventCmd renames the event
var eventCmd = &cobra.Command{
	Use:   "event <ledger> <event-name>",
	Short: "Rename the event",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args[1:], " ")
		return mutate(cmd, args[0], "SetEventName", func(l *ledger.Ledger) error {
			l.SetEventName(name)
			return nil
		})
	},
}

// taxCmd sets the total tax
var taxCmd = &cobra.Command{
	Use:   "tax <ledger> <amount>",
	Short: "Set the total tax, shared evenly by everyone who had an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tax, err := money.Parse(args[1])
		if err != nil {
			return err
		}
		return mutate(cmd, args[0], "SetTotalTax", func(l *ledger.Ledger) error {
			return l.SetTotalTax(tax)
		})
	},
}

// balancesCmd shows what is still owed to the payer
var balancesCmd = &cobra.Command{
	Use:   "balances <ledger>",
	Short: "Show what each participant still owes the payer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := svc.Open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		snap := sess.Snapshot()
		out := cmd.OutOrStdout()

		payer, ok := snap.Payer()
		if !ok {
			fmt.Fprintln(out, "No payer set. Mark one with: billsplit participant payer <ledger> <who>")
			return nil
		}

		edges, outstanding := calculator.Reimbursements(snap.Participants, snap.ComputedShares)
		if len(edges) == 0 {
			fmt.Fprintf(out, "Nobody owes %s anything.\n", payer.Name)
			return nil
		}
		for _, edge := range edges {
			from, _ := snap.Participant(edge.From)
			fmt.Fprintf(out, "%s owes %s %s\n", from.Name, payer.Name, edge.Amount)
		}
		fmt.Fprintf(out, "Outstanding: %s\n", outstanding)
		return nil
	},
}
