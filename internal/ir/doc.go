// Package ir holds the document model shared by every folio package.
//
// This package contains the element types that make up a page snapshot,
// their explicit clone operations, and the canonical serialization used to
// fingerprint a snapshot. ir imports nothing internal, so every other
// package can depend on it without cycles.
//
// Key design constraints:
//   - A Snapshot owns its elements; Clone never shares slices or pointers
//   - Canonical JSON carries no floats; geometry is rounded to whole pixels
//     and style numbers are encoded as decimal strings before hashing
//   - JSON and YAML field names are camelCase, matching the host application
package ir
