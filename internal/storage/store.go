// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/billsplit/internal/models"
)

// ErrNotFound is returned when a ledger does not exist.
var ErrNotFound = errors.New("storage: ledger not found")

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, in-memory, etc.)
// without changing the service layer. Stores persist records as given; they
// never recompute shares.
type Store interface {
	// CreateLedger persists a new ledger.
	// The ledger.ID, CreatedAt and UpdatedAt fields will be populated by the store.
	CreateLedger(ctx context.Context, ledger *models.Ledger) error

	// GetLedger retrieves a ledger by its ID.
	// Returns an error wrapping ErrNotFound if the ledger does not exist.
	GetLedger(ctx context.Context, ledgerID string) (*models.Ledger, error)

	// UpdateLedger replaces an existing ledger and refreshes UpdatedAt.
	// Returns an error wrapping ErrNotFound if the ledger does not exist.
	UpdateLedger(ctx context.Context, ledger *models.Ledger) error

	// ListLedgers returns all stored ledgers, most recently updated first.
	ListLedgers(ctx context.Context) ([]models.LedgerInfo, error)

	// DeleteLedger removes a ledger and everything it owns.
	DeleteLedger(ctx context.Context, ledgerID string) error

	// Close releases any resources held by the store.
	Close() error
}
