// Package queue persists processing jobs in SQLite and exposes helpers for
// driving their lifecycle.
//
// The Store manages the database connection, migrations, enqueue and claim
// operations, progress snapshots, and stuck-item recovery. Items capture the
// probe result and the latest progress sample so the status command can show
// what a worker is doing without extra coordination.
//
// The database is transient storage for in-flight jobs rather than a
// long-term archive; clearing it is always safe.
package queue
