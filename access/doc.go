// Package access is the single place ownership is decided. Every valid
// ownership chain (entity kind to owning user) is encoded in one table-driven
// lookup, so "every access path is checked" is enforced here instead of per
// call site.
//
// Existence is resolved before ownership: a missing entity is always
// *core.NotFoundError, never a forbidden, so callers cannot probe whether an
// id they do not own exists. Admin users bypass ownership but not existence.
package access
