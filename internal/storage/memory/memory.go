// Package memory provides an in-memory implementation of the storage.Store
// interface, for tests and ephemeral sessions.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps deep copies of ledgers in a map.
type Store struct {
	mu      sync.RWMutex
	ledgers map[string]models.Ledger
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{ledgers: make(map[string]models.Ledger)}
}

// CreateLedger stores a copy of the ledger, assigning ID and timestamps.
func (s *Store) CreateLedger(_ context.Context, ledger *models.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ledger.ID == "" {
		ledger.ID = uuid.New().String()
	}
	if _, exists := s.ledgers[ledger.ID]; exists {
		return fmt.Errorf("ledger already exists: %s", ledger.ID)
	}
	now := time.Now().Unix()
	if ledger.CreatedAt == 0 {
		ledger.CreatedAt = now
	}
	ledger.UpdatedAt = now

	s.ledgers[ledger.ID] = ledger.Clone()
	return nil
}

// GetLedger returns a copy of the stored ledger.
func (s *Store) GetLedger(_ context.Context, ledgerID string) (*models.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.ledgers[ledgerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, ledgerID)
	}
	out := stored.Clone()
	return &out, nil
}

// UpdateLedger replaces the stored copy.
func (s *Store) UpdateLedger(_ context.Context, ledger *models.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.ledgers[ledger.ID]
	if !ok {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, ledger.ID)
	}
	ledger.CreatedAt = stored.CreatedAt
	ledger.UpdatedAt = time.Now().Unix()
	s.ledgers[ledger.ID] = ledger.Clone()
	return nil
}

// ListLedgers returns all ledgers, most recently updated first.
func (s *Store) ListLedgers(_ context.Context) ([]models.LedgerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]models.LedgerInfo, 0, len(s.ledgers))
	for _, l := range s.ledgers {
		infos = append(infos, models.LedgerInfo{
			ID:         l.ID,
			EventName:  l.EventName,
			TotalPrice: l.TotalPrice,
			CreatedAt:  l.CreatedAt,
			UpdatedAt:  l.UpdatedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].UpdatedAt != infos[j].UpdatedAt {
			return infos[i].UpdatedAt > infos[j].UpdatedAt
		}
		return infos[i].ID < infos[j].ID
	})
	return infos, nil
}

// DeleteLedger removes a ledger.
func (s *Store) DeleteLedger(_ context.Context, ledgerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ledgers[ledgerID]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, ledgerID)
	}
	delete(s.ledgers, ledgerID)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
