package calculator

import (
	"fmt"
	"strings"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/money"
)

const summaryHeader = "Bill Split Summary"

// FormatSummary renders the receipt text for a ledger snapshot.
//
// Layout: header, event name, total price, total tax, then one block per
// participant in registry order listing the items they belong to at the
// item's listed price and the amount they owe.
func FormatSummary(l models.Ledger) string {
	var b strings.Builder

	b.WriteString(summaryHeader + "\n")
	b.WriteString(strings.Repeat("=", len(summaryHeader)) + "\n")
	fmt.Fprintf(&b, "Event: %s\n", l.EventName)
	fmt.Fprintf(&b, "Total Price: %s\n", l.TotalPrice)
	fmt.Fprintf(&b, "Total Tax: %s\n", l.TotalTax)

	for _, p := range l.Participants {
		b.WriteString("\n")
		b.WriteString(p.Name)
		if p.IsPayer {
			b.WriteString(" [PAYER]")
		}
		b.WriteString("\n")

		for _, item := range l.LineItems {
			if !containsID(item.ParticipantIDs, p.ID) {
				continue
			}
			fmt.Fprintf(&b, "  - %s: %s\n", item.Name, item.Price)
		}

		owed, ok := l.ComputedShares[p.ID]
		if !ok {
			owed = money.Zero()
		}
		fmt.Fprintf(&b, "  Total Owed: %s\n", owed)
	}

	return b.String()
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
