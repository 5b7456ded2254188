// Package ledger implements the split engine: the participant and line item
// registries, and the ledger that recomputes shares and the summary after
// every mutation.
//
// A Ledger is owned by a single caller and is not safe for concurrent use.
// Every mutating method leaves the ledger fully recomputed before it returns.
// Rejected mutations return a *ValidationError and change nothing; mutations
// that reference an unknown key are ignored.
package ledger

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/money"
)

// Ledger is one event session: participants, line items, tax, and the
// derived shares and summary.
type Ledger struct {
	id        string
	createdAt int64
	updatedAt int64

	eventName    string
	totalTax     money.Money
	participants *ParticipantRegistry
	items        *LineItemRegistry

	shares     map[string]money.Money
	totalPrice money.Money
	summary    string

	newID  func() string
	logger *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for diagnostics. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithIDGenerator sets the key generator for new participants and items.
// Defaults to random UUIDs.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// New creates an empty ledger for the named event.
func New(eventName string, opts ...Option) *Ledger {
	l := &Ledger{
		eventName: strings.TrimSpace(eventName),
		newID:     func() string { return uuid.New().String() },
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.participants = newParticipantRegistry(l.logger)
	l.items = newLineItemRegistry(l.participants.Has, l.logger)
	l.Recompute()
	return l
}

// FromRecord rebuilds a ledger from its persisted form.
//
// Names, prices, tax and key uniqueness are validated. Dangling participant
// references are dropped and only the first payer is kept. Derived fields in
// the record are ignored and recomputed.
func FromRecord(rec models.Ledger, opts ...Option) (*Ledger, error) {
	l := New(rec.EventName, opts...)
	l.id = rec.ID
	l.createdAt = rec.CreatedAt
	l.updatedAt = rec.UpdatedAt

	if rec.TotalTax.IsNegative() {
		return nil, invalid("FromRecord", "total_tax", ErrNegativeAmount)
	}
	l.totalTax = rec.TotalTax.Round()

	payerSeen := false
	for _, p := range rec.Participants {
		name := strings.TrimSpace(p.Name)
		switch {
		case name == "":
			return nil, invalid("FromRecord", "participant name", ErrEmptyName)
		case p.ID == "" || l.participants.Has(p.ID):
			return nil, invalid("FromRecord", "participant id", fmt.Errorf("%w: %q", ErrDuplicateKey, p.ID))
		}
		p.Name = name
		if p.IsPayer {
			if payerSeen {
				l.logger.Warn("dropping extra payer from record", "participant_id", p.ID)
				p.IsPayer = false
			}
			payerSeen = true
		}
		l.participants.add(p)
	}

	for _, item := range rec.LineItems {
		name := strings.TrimSpace(item.Name)
		switch {
		case name == "":
			return nil, invalid("FromRecord", "line item name", ErrEmptyName)
		case item.Price.IsNegative():
			return nil, invalid("FromRecord", "line item price", ErrNegativeAmount)
		case item.ID == "" || l.items.Has(item.ID):
			return nil, invalid("FromRecord", "line item id", fmt.Errorf("%w: %q", ErrDuplicateKey, item.ID))
		}
		item.Name = name
		item.Price = item.Price.Round()
		l.items.add(item)
	}

	l.Recompute()
	return l, nil
}

// ID returns the storage key, empty until the ledger has been stored.
func (l *Ledger) ID() string { return l.id }

// SetStorageMeta records the key and timestamps assigned by storage.
// It does not affect shares or the summary.
func (l *Ledger) SetStorageMeta(id string, createdAt, updatedAt int64) {
	l.id = id
	l.createdAt = createdAt
	l.updatedAt = updatedAt
}

// Participants exposes the participant registry for read access.
func (l *Ledger) Participants() *ParticipantRegistry { return l.participants }

// LineItems exposes the line item registry for read access.
func (l *Ledger) LineItems() *LineItemRegistry { return l.items }

// EventName returns the event name.
func (l *Ledger) EventName() string { return l.eventName }

// TotalTax returns the tax to distribute.
func (l *Ledger) TotalTax() money.Money { return l.totalTax }

// TotalPrice returns the sum of all computed shares.
func (l *Ledger) TotalPrice() money.Money { return l.totalPrice }

// Summary returns the receipt text.
func (l *Ledger) Summary() string { return l.summary }

// Shares returns a copy of the computed shares.
func (l *Ledger) Shares() map[string]money.Money {
	out := make(map[string]money.Money, len(l.shares))
	for id, share := range l.shares {
		out[id] = share
	}
	return out
}

// Share returns one participant's computed share.
func (l *Ledger) Share(participantID string) (money.Money, bool) {
	share, ok := l.shares[participantID]
	return share, ok
}

// Snapshot returns a deep copy of the current state.
func (l *Ledger) Snapshot() models.Ledger {
	return models.Ledger{
		ID:             l.id,
		EventName:      l.eventName,
		TotalTax:       l.totalTax,
		TotalPrice:     l.totalPrice,
		Participants:   l.participants.List(),
		LineItems:      l.items.List(),
		ComputedShares: l.Shares(),
		SummaryText:    l.summary,
		CreatedAt:      l.createdAt,
		UpdatedAt:      l.updatedAt,
	}
}

// Recompute replaces the computed shares, total price and summary wholesale.
func (l *Ledger) Recompute() {
	participants := l.participants.List()
	items := l.items.List()

	shares := calculator.ComputeShares(participants, items, l.totalTax)
	total := calculator.TotalPrice(participants, shares)

	l.shares = shares
	l.totalPrice = total
	l.summary = calculator.FormatSummary(models.Ledger{
		EventName:      l.eventName,
		TotalTax:       l.totalTax,
		TotalPrice:     total,
		Participants:   participants,
		LineItems:      items,
		ComputedShares: shares,
	})
}

// SetEventName renames the event.
func (l *Ledger) SetEventName(name string) {
	l.eventName = strings.TrimSpace(name)
	l.Recompute()
}

// SetTotalTax sets the tax to distribute, rounded to cents.
func (l *Ledger) SetTotalTax(tax money.Money) error {
	if tax.IsNegative() {
		return invalid("SetTotalTax", "tax", ErrNegativeAmount)
	}
	l.totalTax = tax.Round()
	l.Recompute()
	return nil
}

// AddParticipant registers a new participant and returns its key.
func (l *Ledger) AddParticipant(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("AddParticipant", "name", ErrEmptyName)
	}
	id := l.freshID(l.participants.Has)
	l.participants.add(models.Participant{ID: id, Name: name})
	l.Recompute()
	return id, nil
}

// RemoveParticipant deletes a participant and removes it from every line item.
func (l *Ledger) RemoveParticipant(id string) {
	if l.participants.remove(id) {
		l.items.dropParticipant(id)
	}
	l.Recompute()
}

// RenameParticipant changes a participant's display name.
func (l *Ledger) RenameParticipant(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("RenameParticipant", "name", ErrEmptyName)
	}
	l.participants.rename(id, name)
	l.Recompute()
	return nil
}

// TogglePayer makes the participant the only payer, or unsets it if it
// already was the payer.
func (l *Ledger) TogglePayer(id string) {
	l.participants.togglePayer(id)
	l.Recompute()
}

// ToggleSettled flips the participant's settled flag.
func (l *Ledger) ToggleSettled(id string) {
	l.participants.toggleSettled(id)
	l.Recompute()
}

// SetSettled sets the participant's settled flag. Requesting the current
// state is a no-op that only logs a diagnostic.
func (l *Ledger) SetSettled(id string, settled bool) {
	l.participants.setSettled(id, settled)
	l.Recompute()
}

// AddLineItem registers a new item with no participants and returns its key.
func (l *Ledger) AddLineItem(name string, price money.Money) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("AddLineItem", "name", ErrEmptyName)
	}
	if price.IsNegative() {
		return "", invalid("AddLineItem", "price", ErrNegativeAmount)
	}
	id := l.freshID(l.items.Has)
	l.items.add(models.LineItem{ID: id, Name: name, Price: price.Round()})
	l.Recompute()
	return id, nil
}

// RemoveLineItem discards an item.
func (l *Ledger) RemoveLineItem(id string) {
	l.items.remove(id)
	l.Recompute()
}

// RenameLineItem changes an item's name.
func (l *Ledger) RenameLineItem(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("RenameLineItem", "name", ErrEmptyName)
	}
	l.items.rename(id, name)
	l.Recompute()
	return nil
}

// SetLineItemPrice changes an item's price, rounded half-up to cents.
func (l *Ledger) SetLineItemPrice(id string, price money.Money) error {
	if price.IsNegative() {
		return invalid("SetLineItemPrice", "price", ErrNegativeAmount)
	}
	l.items.setPrice(id, price)
	l.Recompute()
	return nil
}

// SetLineItemParticipants replaces an item's participants. Unknown keys are dropped.
func (l *Ledger) SetLineItemParticipants(id string, participantIDs []string) {
	l.items.setParticipants(id, participantIDs)
	l.Recompute()
}

// AddLineItemParticipant adds one participant to an item.
func (l *Ledger) AddLineItemParticipant(id, participantID string) {
	l.items.addParticipant(id, participantID)
	l.Recompute()
}

// RemoveLineItemParticipant removes one participant from an item.
func (l *Ledger) RemoveLineItemParticipant(id, participantID string) {
	l.items.removeParticipant(id, participantID)
	l.Recompute()
}

// freshID draws keys until one is unused.
func (l *Ledger) freshID(taken func(string) bool) string {
	for {
		id := l.newID()
		if id != "" && !taken(id) {
			return id
		}
		l.logger.Warn("generated key collided, retrying", "id", id)
	}
}
