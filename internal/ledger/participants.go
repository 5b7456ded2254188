package ledger

import (
	"log/slog"

	"github.com/mmynk/billsplit/internal/models"
)

// ParticipantRegistry owns the participants of a ledger, keyed by ID,
// in insertion order. It enforces the single-payer invariant.
type ParticipantRegistry struct {
	order  []string
	byID   map[string]*models.Participant
	logger *slog.Logger
}

func newParticipantRegistry(logger *slog.Logger) *ParticipantRegistry {
	return &ParticipantRegistry{
		byID:   make(map[string]*models.Participant),
		logger: logger,
	}
}

// add appends a participant under the given key.
// The caller guarantees the key is fresh and the name is valid.
func (r *ParticipantRegistry) add(p models.Participant) {
	stored := p
	r.byID[p.ID] = &stored
	r.order = append(r.order, p.ID)
}

// Has reports whether a participant with the key exists.
func (r *ParticipantRegistry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Len returns the number of participants.
func (r *ParticipantRegistry) Len() int { return len(r.order) }

// Get returns a copy of the participant.
func (r *ParticipantRegistry) Get(id string) (models.Participant, bool) {
	p, ok := r.byID[id]
	if !ok {
		return models.Participant{}, false
	}
	return *p, true
}

// List returns copies of all participants in insertion order.
func (r *ParticipantRegistry) List() []models.Participant {
	out := make([]models.Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out
}

func (r *ParticipantRegistry) lookup(op, id string) (*models.Participant, bool) {
	p, ok := r.byID[id]
	if !ok {
		r.logger.Debug("participant not found, ignoring", "op", op, "participant_id", id)
	}
	return p, ok
}

func (r *ParticipantRegistry) remove(id string) bool {
	if _, ok := r.lookup("RemoveParticipant", id); !ok {
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

func (r *ParticipantRegistry) rename(id, name string) bool {
	p, ok := r.lookup("RenameParticipant", id)
	if !ok {
		return false
	}
	p.Name = name
	return true
}

// togglePayer makes id the sole payer, or clears it when it already was.
func (r *ParticipantRegistry) togglePayer(id string) bool {
	target, ok := r.lookup("TogglePayer", id)
	if !ok {
		return false
	}
	if target.IsPayer {
		target.IsPayer = false
		return true
	}
	for _, p := range r.byID {
		p.IsPayer = false
	}
	target.IsPayer = true
	return true
}

func (r *ParticipantRegistry) toggleSettled(id string) bool {
	p, ok := r.lookup("ToggleSettled", id)
	if !ok {
		return false
	}
	p.Settled = !p.Settled
	return true
}

func (r *ParticipantRegistry) setSettled(id string, settled bool) bool {
	p, ok := r.lookup("SetSettled", id)
	if !ok {
		return false
	}
	if p.Settled == settled {
		r.logger.Debug("participant already in requested settled state",
			"participant_id", id,
			"name", p.Name,
			"settled", settled,
		)
		return false
	}
	p.Settled = settled
	return true
}
