package calculator

import (
	"testing"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/money"
)

func TestReimbursements(t *testing.T) {
	shares := map[string]money.Money{
		"a": money.MustParse("5.50"),
		"b": money.MustParse("5.50"),
		"c": money.MustParse("2.25"),
	}

	tests := []struct {
		name         string
		participants []models.Participant
		wantEdges    []DebtEdge
		wantTotal    string
	}{
		{
			name:         "no payer",
			participants: []models.Participant{alice, bob, charlie},
			wantTotal:    "0.00",
		},
		{
			name: "everyone owes the payer",
			participants: []models.Participant{
				{ID: "a", Name: "Alice", IsPayer: true}, bob, charlie,
			},
			wantEdges: []DebtEdge{
				{From: "b", To: "a", Amount: money.MustParse("5.50")},
				{From: "c", To: "a", Amount: money.MustParse("2.25")},
			},
			wantTotal: "7.75",
		},
		{
			name: "settled participants are skipped",
			participants: []models.Participant{
				{ID: "a", Name: "Alice", IsPayer: true},
				{ID: "b", Name: "Bob", Settled: true},
				charlie,
			},
			wantEdges: []DebtEdge{
				{From: "c", To: "a", Amount: money.MustParse("2.25")},
			},
			wantTotal: "2.25",
		},
		{
			name: "zero shares owe nothing",
			participants: []models.Participant{
				{ID: "c", Name: "Charlie", IsPayer: true},
				{ID: "d", Name: "Dana"},
			},
			wantTotal: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges, total := Reimbursements(tt.participants, shares)
			if total.String() != tt.wantTotal {
				t.Errorf("total = %s, want %s", total, tt.wantTotal)
			}
			if len(edges) != len(tt.wantEdges) {
				t.Fatalf("edges = %d, want %d", len(edges), len(tt.wantEdges))
			}
			for i, edge := range edges {
				want := tt.wantEdges[i]
				if edge.From != want.From || edge.To != want.To || !edge.Amount.Equal(want.Amount) {
					t.Errorf("edge[%d] = %+v, want %+v", i, edge, want)
				}
			}
		})
	}
}
