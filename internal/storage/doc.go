// Package storage provides the client-local key/value stores that back visitor
// identity and reading progress.
//
// SQLiteStore persists to a single database file, MemoryStore lives for one
// session, and Fallback wraps a durable store so that a storage failure
// degrades to session-only state instead of surfacing to the caller.
package storage
