// Package store provides a SQLite-backed host document and the audit run
// history.
//
// A store file holds one or more documents. The first imported document is
// the host; the documents its links point to are imported alongside it and
// served through host.Link.
//
// # Transactions
//
// Document.Begin opens a real SQLite transaction. Every write of a
// correction pass goes through it and commits or rolls back as a unit.
// Only one transaction may be open per store.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// All queries order by (doc_id, position) so enumeration is stable.
package store
