// Package host defines the contract between the audit engine and the
// building-model document it inspects and corrects.
//
// Reads return value snapshots (ScheduleView, ElementType, Material). All
// mutation goes through a Transaction obtained from Document.Begin; a
// document allows one open transaction at a time.
//
// Two implementations exist: internal/store (SQLite) and
// internal/testutil (in-memory, with fault injection).
package host
