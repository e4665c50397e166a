// Package kv implements the durable key-value storage backend.
//
// Store is the boundary the alarm records are persisted against. File keeps
// every key in a single JSON document on disk, SQLite and Postgres keep them
// in a two-column table, and Memory serves tests and ephemeral daemons.
package kv
