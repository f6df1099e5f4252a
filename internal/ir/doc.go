// Package ir provides the data model shared by every stage of the schedule
// audit: assembly codes, audit items and their typed corrections, element
// records, renaming jobs, write results and the compiled rule profile.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - A correction payload is present if and only if the item is correctable
//     (AuditItem.Correctable derives from the Correction field)
//   - Every Correction variant reports the AuditKind it belongs to
//   - All JSON tags use snake_case
package ir
