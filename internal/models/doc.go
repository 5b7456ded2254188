// Package models defines the serializable records for Billsplit.
//
// # Records
//
//   - Participant: a person sharing the bill
//   - LineItem: a priced purchase consumed by a subset of participants
//   - Ledger: one event session, including its derived shares and summary
//   - LedgerInfo: a lightweight listing row for stored ledgers
//
// These are plain records with stable field names. They cross the boundary
// between the split engine (internal/ledger) and its collaborators: storage,
// import/export and the CLI. The engine never hands out its internal state;
// it produces a fresh Ledger record on every snapshot.
//
// # Design Principles
//
// 1. **Keys are strings**: participant and item keys are opaque strings (UUID format by default)
// 2. **Derived state is recomputed**: ComputedShares, TotalPrice and SummaryText are outputs;
//    a loaded record's derived fields are ignored and rebuilt
// 3. **Avoid circular references**: items reference participants by key, never by pointer
package models
