package calculator

import (
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/money"
)

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Participant key of the person who owes
	To     string // Participant key of the payer
	Amount money.Money
}

// Reimbursements lists what each participant still owes the payer.
//
// Algorithm:
//   - without a payer there is nobody to reimburse, so no edges
//   - the payer owes nothing to themselves
//   - settled participants have already paid back and are skipped
//   - everyone else with a positive share owes the payer that share
//
// Edges come back in participant order along with their rounded total.
func Reimbursements(participants []models.Participant, shares map[string]money.Money) ([]DebtEdge, money.Money) {
	var payer string
	for _, p := range participants {
		if p.IsPayer {
			payer = p.ID
			break
		}
	}
	if payer == "" {
		return nil, money.Zero()
	}

	var edges []DebtEdge
	outstanding := make([]money.Money, 0, len(participants))
	for _, p := range participants {
		if p.ID == payer || p.Settled {
			continue
		}
		share := shares[p.ID]
		if !share.IsPositive() {
			continue
		}
		edges = append(edges, DebtEdge{From: p.ID, To: payer, Amount: share})
		outstanding = append(outstanding, share)
	}

	return edges, money.Sum(outstanding...)
}
