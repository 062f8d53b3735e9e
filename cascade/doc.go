// Package cascade implements atomic cascading deletion. Every deletion
// follows the same shape: authorize the caller against the root, remove the
// root's relation rows, recompute which children are now orphaned, delete
// the orphans (recursing into their own dependent relations), then delete
// the root row. All steps share one store transaction, so concurrent readers
// never observe a half-finished cascade.
//
// Orphan checks run after the root's relation rows are gone; a child is
// never deleted solely because one relation row pointed at it.
package cascade
