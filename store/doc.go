// Package store is the SQLite-backed entity store. It owns the schema, all
// SQL, and the transaction facility the cascade engine builds on.
//
// Every entity id is a SQLite rowid, so insert order and id order coincide
// and message transcripts can rely on id ordering. Reads that miss return
// *core.NotFoundError so the access resolver can distinguish existence from
// ownership. WAL mode is enabled so concurrent readers never observe a
// cascade mid-flight.
package store
