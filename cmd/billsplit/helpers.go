package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/billsplit/internal/ledger"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/service"
)

// mutate opens the ledger, applies fn, saves, and prints the new summary.
func mutate(cmd *cobra.Command, ledgerID, op string, fn func(l *ledger.Ledger) error) error {
	sess, err := svc.Open(cmd.Context(), ledgerID)
	if err != nil {
		return err
	}
	if err := sess.Apply(cmd.Context(), op, fn); err != nil {
		return err
	}
	printSummary(cmd, sess)
	return nil
}

// mutateResolved is mutate for commands that reference participants or items
// by name: resolve runs against the current snapshot before fn.
func mutateResolved(cmd *cobra.Command, ledgerID, op string, resolve func(snap models.Ledger) (func(l *ledger.Ledger) error, error)) error {
	sess, err := svc.Open(cmd.Context(), ledgerID)
	if err != nil {
		return err
	}
	fn, err := resolve(sess.Snapshot())
	if err != nil {
		return err
	}
	if err := sess.Apply(cmd.Context(), op, fn); err != nil {
		return err
	}
	printSummary(cmd, sess)
	return nil
}

func printSummary(cmd *cobra.Command, sess *service.Session) {
	fmt.Fprint(cmd.OutOrStdout(), sess.Snapshot().SummaryText)
}

// resolveParticipant finds a participant by exact key, then by
// case-insensitive name. Ambiguous names are an error.
func resolveParticipant(snap models.Ledger, ref string) (string, error) {
	var matches []string
	for _, p := range snap.Participants {
		if p.ID == ref {
			return p.ID, nil
		}
		if strings.EqualFold(p.Name, strings.TrimSpace(ref)) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no participant %q", ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("participant name %q is ambiguous, use one of the keys %s", ref, strings.Join(matches, ", "))
	}
}

func resolveParticipants(snap models.Ledger, refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id, err := resolveParticipant(snap, ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// resolveItem finds a line item by exact key, then by case-insensitive name.
func resolveItem(snap models.Ledger, ref string) (string, error) {
	var matches []string
	for _, item := range snap.LineItems {
		if item.ID == ref {
			return item.ID, nil
		}
		if strings.EqualFold(item.Name, strings.TrimSpace(ref)) {
			matches = append(matches, item.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no line item %q", ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("line item name %q is ambiguous, use one of the keys %s", ref, strings.Join(matches, ", "))
	}
}
