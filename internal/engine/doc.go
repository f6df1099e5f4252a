// Package engine implements the schedule audit and correction engine.
//
// An audit pass runs in three stages over one host document:
//
//  1. Classifier decides, per schedule view, whether to skip it, move it to
//     another bucket, or audit it field by field.
//  2. The field auditors compare each processed view against the single
//     expected configuration derived from its assembly code.
//  3. DuplicateDetector and MissingAuditor add cross-view findings.
//
// Writer then applies the correctable items inside one transaction, and
// Dispatcher serializes write passes onto a single goroutine that owns the
// document.
//
// Reads never mutate the document. All writes go through Writer.
package engine
