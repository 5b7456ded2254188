package ledger

import (
	"log/slog"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/money"
)

// LineItemRegistry owns the priced items of a ledger, keyed by ID, in
// insertion order. Participant subsets only ever hold keys accepted by
// the known predicate.
type LineItemRegistry struct {
	order  []string
	byID   map[string]*models.LineItem
	known  func(participantID string) bool
	logger *slog.Logger
}

func newLineItemRegistry(known func(string) bool, logger *slog.Logger) *LineItemRegistry {
	return &LineItemRegistry{
		byID:   make(map[string]*models.LineItem),
		known:  known,
		logger: logger,
	}
}

func (r *LineItemRegistry) add(item models.LineItem) {
	stored := item
	stored.ParticipantIDs = r.filter("AddLineItem", item.ParticipantIDs)
	r.byID[item.ID] = &stored
	r.order = append(r.order, item.ID)
}

// Has reports whether an item with the key exists.
func (r *LineItemRegistry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Len returns the number of items.
func (r *LineItemRegistry) Len() int { return len(r.order) }

// Get returns a copy of the item.
func (r *LineItemRegistry) Get(id string) (models.LineItem, bool) {
	item, ok := r.byID[id]
	if !ok {
		return models.LineItem{}, false
	}
	return copyItem(*item), true
}

// List returns copies of all items in insertion order.
func (r *LineItemRegistry) List() []models.LineItem {
	out := make([]models.LineItem, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, copyItem(*r.byID[id]))
	}
	return out
}

func (r *LineItemRegistry) lookup(op, id string) (*models.LineItem, bool) {
	item, ok := r.byID[id]
	if !ok {
		r.logger.Debug("line item not found, ignoring", "op", op, "item_id", id)
	}
	return item, ok
}

func (r *LineItemRegistry) remove(id string) bool {
	if _, ok := r.lookup("RemoveLineItem", id); !ok {
		return false
	}
	delete(r.byID, id)
	for i, candidate := range r.order {
		if candidate == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *LineItemRegistry) rename(id, name string) bool {
	item, ok := r.lookup("RenameLineItem", id)
	if !ok {
		return false
	}
	item.Name = name
	return true
}

func (r *LineItemRegistry) setPrice(id string, price money.Money) bool {
	item, ok := r.lookup("SetLineItemPrice", id)
	if !ok {
		return false
	}
	item.Price = price.Round()
	return true
}

// setParticipants clears the subset, then adds each known key once.
func (r *LineItemRegistry) setParticipants(id string, participantIDs []string) bool {
	item, ok := r.lookup("SetLineItemParticipants", id)
	if !ok {
		return false
	}
	item.ParticipantIDs = r.filter("SetLineItemParticipants", participantIDs)
	return true
}

func (r *LineItemRegistry) addParticipant(id, participantID string) bool {
	item, ok := r.lookup("AddLineItemParticipant", id)
	if !ok {
		return false
	}
	if !r.known(participantID) {
		r.logger.Debug("unknown participant dropped from line item",
			"op", "AddLineItemParticipant",
			"item_id", id,
			"participant_id", participantID,
		)
		return false
	}
	for _, existing := range item.ParticipantIDs {
		if existing == participantID {
			return false
		}
	}
	item.ParticipantIDs = append(item.ParticipantIDs, participantID)
	return true
}

func (r *LineItemRegistry) removeParticipant(id, participantID string) bool {
	item, ok := r.lookup("RemoveLineItemParticipant", id)
	if !ok {
		return false
	}
	return removeID(item, participantID)
}

// dropParticipant removes a participant from every item's subset.
func (r *LineItemRegistry) dropParticipant(participantID string) {
	for _, id := range r.order {
		removeID(r.byID[id], participantID)
	}
}

// filter keeps the known keys of ids, deduplicated, in their original order.
func (r *LineItemRegistry) filter(op string, ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if !r.known(id) {
			r.logger.Debug("unknown participant dropped from line item", "op", op, "participant_id", id)
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func removeID(item *models.LineItem, participantID string) bool {
	for i, existing := range item.ParticipantIDs {
		if existing == participantID {
			item.ParticipantIDs = append(item.ParticipantIDs[:i], item.ParticipantIDs[i+1:]...)
			return true
		}
	}
	return false
}

func copyItem(item models.LineItem) models.LineItem {
	ids := make([]string, len(item.ParticipantIDs))
	copy(ids, item.ParticipantIDs)
	item.ParticipantIDs = ids
	return item
}
