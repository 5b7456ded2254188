// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/money"
	"github.com/mmynk/billsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// PRAGMAs are per connection; a single connection keeps them in effect.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateLedger persists a new ledger to the database.
func (s *SQLiteStore) CreateLedger(ctx context.Context, ledger *models.Ledger) error {
	// Generate ID and timestamps if not set
	if ledger.ID == "" {
		ledger.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if ledger.CreatedAt == 0 {
		ledger.CreatedAt = now
	}
	ledger.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledgers (id, event_name, total_tax, total_price, summary_text, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ledger.ID, ledger.EventName, ledger.TotalTax.String(), ledger.TotalPrice.String(),
		ledger.SummaryText, ledger.CreatedAt, ledger.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger: %w", err)
	}

	if err := insertChildren(ctx, tx, ledger); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateLedger replaces the stored ledger, its participants, items and shares.
func (s *SQLiteStore) UpdateLedger(ctx context.Context, ledger *models.Ledger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	updatedAt := time.Now().Unix()
	res, err := tx.ExecContext(ctx,
		`UPDATE ledgers SET event_name = ?, total_tax = ?, total_price = ?, summary_text = ?, updated_at = ?
		 WHERE id = ?`,
		ledger.EventName, ledger.TotalTax.String(), ledger.TotalPrice.String(),
		ledger.SummaryText, updatedAt, ledger.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ledger: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, ledger.ID)
	}

	for _, table := range []string{"line_item_participants", "computed_shares", "line_items", "participants"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE ledger_id = ?", ledger.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertChildren(ctx, tx, ledger); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	ledger.UpdatedAt = updatedAt
	return nil
}

// insertChildren writes participants, items, item assignments and shares in registry order.
func insertChildren(ctx context.Context, tx *sql.Tx, ledger *models.Ledger) error {
	for i, p := range ledger.Participants {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO participants (ledger_id, id, position, name, is_payer, settled) VALUES (?, ?, ?, ?, ?, ?)",
			ledger.ID, p.ID, i, p.Name, p.IsPayer, p.Settled,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for i, item := range ledger.LineItems {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO line_items (ledger_id, id, position, name, price) VALUES (?, ?, ?, ?, ?)",
			ledger.ID, item.ID, i, item.Name, item.Price.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert line item: %w", err)
		}

		for j, participantID := range item.ParticipantIDs {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO line_item_participants (ledger_id, item_id, participant_id, position) VALUES (?, ?, ?, ?)",
				ledger.ID, item.ID, participantID, j,
			)
			if err != nil {
				return fmt.Errorf("failed to insert line item participant: %w", err)
			}
		}
	}

	for participantID, amount := range ledger.ComputedShares {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO computed_shares (ledger_id, participant_id, amount) VALUES (?, ?, ?)",
			ledger.ID, participantID, amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert computed share: %w", err)
		}
	}

	return nil
}

// GetLedger retrieves a ledger by ID, including participants, items and shares.
func (s *SQLiteStore) GetLedger(ctx context.Context, ledgerID string) (*models.Ledger, error) {
	ledger := &models.Ledger{
		Participants:   []models.Participant{},
		LineItems:      []models.LineItem{},
		ComputedShares: map[string]money.Money{},
	}
	var totalTax, totalPrice string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, event_name, total_tax, total_price, summary_text, created_at, updated_at FROM ledgers WHERE id = ?",
		ledgerID,
	).Scan(&ledger.ID, &ledger.EventName, &totalTax, &totalPrice, &ledger.SummaryText, &ledger.CreatedAt, &ledger.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, ledgerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}
	if ledger.TotalTax, err = money.Parse(totalTax); err != nil {
		return nil, fmt.Errorf("failed to parse total tax: %w", err)
	}
	if ledger.TotalPrice, err = money.Parse(totalPrice); err != nil {
		return nil, fmt.Errorf("failed to parse total price: %w", err)
	}

	if err := s.loadParticipants(ctx, ledger); err != nil {
		return nil, err
	}
	if err := s.loadLineItems(ctx, ledger); err != nil {
		return nil, err
	}
	if err := s.loadShares(ctx, ledger); err != nil {
		return nil, err
	}

	return ledger, nil
}

func (s *SQLiteStore) loadParticipants(ctx context.Context, ledger *models.Ledger) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, is_payer, settled FROM participants WHERE ledger_id = ? ORDER BY position",
		ledger.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.IsPayer, &p.Settled); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		ledger.Participants = append(ledger.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadLineItems(ctx context.Context, ledger *models.Ledger) error {
	// Assignments are read in one pass first; nested queries would need a
	// second connection.
	assignments, err := s.loadAssignments(ctx, ledger.ID)
	if err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, price FROM line_items WHERE ledger_id = ? ORDER BY position",
		ledger.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get line items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.LineItem
		var price string
		if err := rows.Scan(&item.ID, &item.Name, &price); err != nil {
			return fmt.Errorf("failed to scan line item: %w", err)
		}
		if item.Price, err = money.Parse(price); err != nil {
			return fmt.Errorf("failed to parse price of item %s: %w", item.ID, err)
		}
		item.ParticipantIDs = assignments[item.ID]
		if item.ParticipantIDs == nil {
			item.ParticipantIDs = []string{}
		}
		ledger.LineItems = append(ledger.LineItems, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate line items: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadAssignments(ctx context.Context, ledgerID string) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT item_id, participant_id FROM line_item_participants WHERE ledger_id = ? ORDER BY item_id, position",
		ledgerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get line item participants: %w", err)
	}
	defer rows.Close()

	assignments := make(map[string][]string)
	for rows.Next() {
		var itemID, participantID string
		if err := rows.Scan(&itemID, &participantID); err != nil {
			return nil, fmt.Errorf("failed to scan line item participant: %w", err)
		}
		assignments[itemID] = append(assignments[itemID], participantID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate line item participants: %w", err)
	}
	return assignments, nil
}

func (s *SQLiteStore) loadShares(ctx context.Context, ledger *models.Ledger) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT participant_id, amount FROM computed_shares WHERE ledger_id = ?",
		ledger.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get computed shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var participantID, amount string
		if err := rows.Scan(&participantID, &amount); err != nil {
			return fmt.Errorf("failed to scan computed share: %w", err)
		}
		share, err := money.Parse(amount)
		if err != nil {
			return fmt.Errorf("failed to parse share of %s: %w", participantID, err)
		}
		ledger.ComputedShares[participantID] = share
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate computed shares: %w", err)
	}
	return nil
}

// ListLedgers returns all ledgers, most recently updated first.
func (s *SQLiteStore) ListLedgers(ctx context.Context) ([]models.LedgerInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, event_name, total_price, created_at, updated_at FROM ledgers ORDER BY updated_at DESC, created_at DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}
	defer rows.Close()

	var infos []models.LedgerInfo
	for rows.Next() {
		var info models.LedgerInfo
		var totalPrice string
		if err := rows.Scan(&info.ID, &info.EventName, &totalPrice, &info.CreatedAt, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger: %w", err)
		}
		if info.TotalPrice, err = money.Parse(totalPrice); err != nil {
			return nil, fmt.Errorf("failed to parse total price of %s: %w", info.ID, err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledgers: %w", err)
	}
	return infos, nil
}

// DeleteLedger removes a ledger. Child rows go with it via ON DELETE CASCADE.
func (s *SQLiteStore) DeleteLedger(ctx context.Context, ledgerID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM ledgers WHERE id = ?", ledgerID)
	if err != nil {
		return fmt.Errorf("failed to delete ledger: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, ledgerID)
	}
	return nil
}
