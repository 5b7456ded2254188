package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Money columns hold canonical two-decimal strings ("12.50") so amounts
// survive without floating point drift. Position columns keep registry order.
const schema = `
CREATE TABLE IF NOT EXISTS ledgers (
    id TEXT PRIMARY KEY,
    event_name TEXT NOT NULL,
    total_tax TEXT NOT NULL,
    total_price TEXT NOT NULL,
    summary_text TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS participants (
    ledger_id TEXT NOT NULL,
    id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    is_payer INTEGER NOT NULL DEFAULT 0,
    settled INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (ledger_id, id),
    FOREIGN KEY (ledger_id) REFERENCES ledgers(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS line_items (
    ledger_id TEXT NOT NULL,
    id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    price TEXT NOT NULL,
    PRIMARY KEY (ledger_id, id),
    FOREIGN KEY (ledger_id) REFERENCES ledgers(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS line_item_participants (
    ledger_id TEXT NOT NULL,
    item_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (ledger_id, item_id, participant_id),
    FOREIGN KEY (ledger_id, item_id) REFERENCES line_items(ledger_id, id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS computed_shares (
    ledger_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    PRIMARY KEY (ledger_id, participant_id),
    FOREIGN KEY (ledger_id) REFERENCES ledgers(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_participants_ledger_id ON participants(ledger_id);
CREATE INDEX IF NOT EXISTS idx_line_items_ledger_id ON line_items(ledger_id);
CREATE INDEX IF NOT EXISTS idx_line_item_participants_item ON line_item_participants(ledger_id, item_id);
CREATE INDEX IF NOT EXISTS idx_computed_shares_ledger_id ON computed_shares(ledger_id);
CREATE INDEX IF NOT EXISTS idx_ledgers_updated_at ON ledgers(updated_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
