package calculator

import (
	"testing"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/money"
)

var (
	alice   = models.Participant{ID: "a", Name: "Alice"}
	bob     = models.Participant{ID: "b", Name: "Bob"}
	charlie = models.Participant{ID: "c", Name: "Charlie"}
)

func item(id, name, price string, participantIDs ...string) models.LineItem {
	return models.LineItem{ID: id, Name: name, Price: money.MustParse(price), ParticipantIDs: participantIDs}
}

func wantShare(t *testing.T, shares map[string]money.Money, id, want string) {
	t.Helper()
	got, ok := shares[id]
	if !ok {
		t.Errorf("missing share for %s", id)
		return
	}
	if got.String() != want {
		t.Errorf("share[%s] = %s, want %s", id, got, want)
	}
}

func TestComputeShares(t *testing.T) {
	tests := []struct {
		name         string
		participants []models.Participant
		items        []models.LineItem
		tax          string
		validateFunc func(t *testing.T, shares map[string]money.Money)
	}{
		{
			name:         "shared pizza with tax",
			participants: []models.Participant{alice, bob},
			items:        []models.LineItem{item("i1", "Pizza", "10.00", "a", "b")},
			tax:          "1.00",
			validateFunc: func(t *testing.T, shares map[string]money.Money) {
				// 10.00 / 2 = 5.00 each, 1.00 / 2 = 0.50 tax each
				wantShare(t, shares, "a", "5.50")
				wantShare(t, shares, "b", "5.50")
			},
		},
		{
			name:         "uninvolved participant owes nothing",
			participants: []models.Participant{alice, bob},
			items:        []models.LineItem{item("i1", "Coffee", "3.00", "a")},
			tax:          "0",
			validateFunc: func(t *testing.T, shares map[string]money.Money) {
				wantShare(t, shares, "a", "3.00")
				wantShare(t, shares, "b", "0.00")
			},
		},
		{
			name:         "tax skips uninvolved participants",
			participants: []models.Participant{alice, bob, charlie},
			items:        []models.LineItem{item("i1", "Wine", "20.00", "a", "b")},
			tax:          "3.00",
			validateFunc: func(t *testing.T, shares map[string]money.Money) {
				wantShare(t, shares, "a", "11.50")
				wantShare(t, shares, "b", "11.50")
				wantShare(t, shares, "c", "0.00")
			},
		},
		{
			name:         "per-item rounding happens before accumulation",
			participants: []models.Participant{alice, bob, charlie},
			items: []models.LineItem{
				item("i1", "Nachos", "10.00", "a", "b", "c"),
				item("i2", "Fries", "10.00", "a", "b", "c"),
			},
			tax: "0",
			validateFunc: func(t *testing.T, shares map[string]money.Money) {
				// 3.33 + 3.33, not round(6.666...) = 6.67
				for _, id := range []string{"a", "b", "c"} {
					wantShare(t, shares, id, "6.66")
				}
			},
		},
		{
			name:         "tax rounds per participant",
			participants: []models.Participant{alice, bob, charlie},
			items:        []models.LineItem{item("i1", "Cake", "9.00", "a", "b", "c")},
			tax:          "1.00",
			validateFunc: func(t *testing.T, shares map[string]money.Money) {
				// 3.00 + 0.33
				for _, id := range []string{"a", "b", "c"} {
					wantShare(t, shares, id, "3.33")
				}
			},
		},
		{
			name:         "item without participants contributes zero",
			participants: []models.Participant{alice, bob},
			items: []models.LineItem{
				item("i1", "Orphan", "12.00"),
				item("i2", "Tea", "2.00", "b"),
			},
			tax: "0",
			validateFunc: func(t *testing.T, shares map[string]money.Money) {
				wantShare(t, shares, "a", "0.00")
				wantShare(t, shares, "b", "2.00")
			},
		},
		{
			name:         "tax with items but nobody involved",
			participants: []models.Participant{alice, bob},
			items:        []models.LineItem{item("i1", "Orphan", "12.00")},
			tax:          "5.00",
			validateFunc: func(t *testing.T, shares map[string]money.Money) {
				wantShare(t, shares, "a", "0.00")
				wantShare(t, shares, "b", "0.00")
			},
		},
		{
			name:         "tax without items",
			participants: []models.Participant{alice, bob},
			tax:          "5.00",
			validateFunc: func(t *testing.T, shares map[string]money.Money) {
				wantShare(t, shares, "a", "0.00")
				wantShare(t, shares, "b", "0.00")
			},
		},
		{
			name:         "unknown and duplicate keys are ignored",
			participants: []models.Participant{alice, bob},
			items:        []models.LineItem{item("i1", "Soup", "6.00", "a", "a", "ghost", "b")},
			tax:          "0",
			validateFunc: func(t *testing.T, shares map[string]money.Money) {
				if len(shares) != 2 {
					t.Errorf("expected 2 shares, got %d", len(shares))
				}
				wantShare(t, shares, "a", "3.00")
				wantShare(t, shares, "b", "3.00")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := ComputeShares(tt.participants, tt.items, money.MustParse(tt.tax))
			tt.validateFunc(t, shares)

			total := TotalPrice(tt.participants, shares)
			sum := money.Zero()
			for _, v := range shares {
				sum = sum.Add(v)
			}
			if !total.Equal(sum.Round()) {
				t.Errorf("TotalPrice = %s, sum of shares = %s", total, sum)
			}
		})
	}
}

func TestCalculateSplitBreakdown(t *testing.T) {
	splits := CalculateSplit(
		[]models.Participant{alice, bob},
		[]models.LineItem{
			item("i1", "Pizza", "20.00", "a", "b"),
			item("i2", "Salad", "10.00", "a"),
		},
		money.MustParse("3.00"),
	)

	a := splits["a"]
	if a.Subtotal.String() != "20.00" || a.Tax.String() != "1.50" || a.Total.String() != "21.50" {
		t.Errorf("Alice split = %s/%s/%s, want 20.00/1.50/21.50", a.Subtotal, a.Tax, a.Total)
	}
	if len(a.Items) != 2 {
		t.Fatalf("Alice items: expected 2, got %d", len(a.Items))
	}
	if a.Items[0].Name != "Pizza" || a.Items[0].Amount.String() != "10.00" {
		t.Errorf("Alice first item = %s %s, want Pizza 10.00", a.Items[0].Name, a.Items[0].Amount)
	}

	b := splits["b"]
	if b.Total.String() != "11.50" {
		t.Errorf("Bob total = %s, want 11.50", b.Total)
	}
}

func TestComputeSharesIsDeterministic(t *testing.T) {
	participants := []models.Participant{alice, bob, charlie}
	items := []models.LineItem{
		item("i1", "Pizza", "17.99", "a", "b", "c"),
		item("i2", "Beer", "6.25", "b"),
	}
	tax := money.MustParse("2.41")

	first := ComputeShares(participants, items, tax)
	second := ComputeShares(participants, items, tax)
	for id, v := range first {
		if !v.Equal(second[id]) {
			t.Errorf("share[%s] changed between runs: %s vs %s", id, v, second[id])
		}
	}
}
