// Package core defines the domain contracts shared by every other package:
// the entity and relation types stored by the entity store, the
// vendor-neutral Transcript passed to provider adapters, and the error
// taxonomy (not found, forbidden, validation, vendor, integrity) that the
// public operations surface to callers.
//
// Higher layers (access, cascade, transcript, runner) depend only on this
// package and the store, so provider SDK quirks and SQL never leak upward.
package core
