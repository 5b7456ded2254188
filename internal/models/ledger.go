package models

import "github.com/mmynk/billsplit/internal/money"

// Participant represents a person sharing the bill.
type Participant struct {
	// ID is the unique key for the participant (UUID format).
	ID string `json:"id" yaml:"id"`

	// Name is the display name. Mutable; identity is the ID.
	Name string `json:"name" yaml:"name"`

	// IsPayer marks the participant who fronted the payment.
	// At most one participant in a ledger is the payer.
	IsPayer bool `json:"is_payer" yaml:"is_payer"`

	// Settled records that this participant has paid back their share.
	Settled bool `json:"settled" yaml:"settled"`
}

// LineItem represents a single priced purchase.
// The price is split evenly among ParticipantIDs.
type LineItem struct {
	// ID is the unique key for the item (UUID format).
	ID string `json:"id" yaml:"id"`

	// Name is the description of the item (e.g., "Pizza", "Beer").
	Name string `json:"name" yaml:"name"`

	// Price is the listed price, never negative, two decimal places.
	Price money.Money `json:"price" yaml:"price"`

	// ParticipantIDs are the keys of the participants who consumed the item.
	// Always a subset of the ledger's participants. May be empty, in which
	// case the item contributes nothing to anyone's share.
	ParticipantIDs []string `json:"participant_ids" yaml:"participant_ids"`
}

// Ledger is the full state of one event session.
type Ledger struct {
	// ID is assigned by the storage collaborator. The engine carries it opaquely.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// EventName is the human-readable name of the event (e.g., "Friday dinner").
	EventName string `json:"event_name" yaml:"event_name"`

	// TotalTax is distributed evenly among involved participants.
	TotalTax money.Money `json:"total_tax" yaml:"total_tax"`

	// TotalPrice is derived: the sum of ComputedShares.
	TotalPrice money.Money `json:"total_price" yaml:"total_price"`

	// Participants in registry (insertion) order.
	Participants []Participant `json:"participants" yaml:"participants"`

	// LineItems in registry (insertion) order.
	LineItems []LineItem `json:"line_items" yaml:"line_items"`

	// ComputedShares is derived: participant key -> amount owed.
	ComputedShares map[string]money.Money `json:"computed_shares" yaml:"computed_shares"`

	// SummaryText is derived: the receipt text for the current state.
	SummaryText string `json:"summary_text" yaml:"summary_text"`

	// CreatedAt is the Unix timestamp when the ledger was first stored.
	CreatedAt int64 `json:"created_at,omitempty" yaml:"created_at,omitempty"`

	// UpdatedAt is the Unix timestamp of the last save.
	UpdatedAt int64 `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// LedgerInfo is a listing row for a stored ledger.
type LedgerInfo struct {
	ID         string
	EventName  string
	TotalPrice money.Money
	CreatedAt  int64
	UpdatedAt  int64
}

// Participant returns the participant with the given key.
func (l *Ledger) Participant(id string) (Participant, bool) {
	for _, p := range l.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// Payer returns the current payer, if any.
func (l *Ledger) Payer() (Participant, bool) {
	for _, p := range l.Participants {
		if p.IsPayer {
			return p, true
		}
	}
	return Participant{}, false
}

// Clone returns a deep copy of the ledger.
func (l Ledger) Clone() Ledger {
	out := l
	out.Participants = make([]Participant, len(l.Participants))
	copy(out.Participants, l.Participants)
	out.LineItems = make([]LineItem, len(l.LineItems))
	for i, item := range l.LineItems {
		ids := make([]string, len(item.ParticipantIDs))
		copy(ids, item.ParticipantIDs)
		item.ParticipantIDs = ids
		out.LineItems[i] = item
	}
	if l.ComputedShares != nil {
		out.ComputedShares = make(map[string]money.Money, len(l.ComputedShares))
		for k, v := range l.ComputedShares {
			out.ComputedShares[k] = v
		}
	}
	return out
}
