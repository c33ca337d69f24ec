// Package daemon coordinates the long-running hushcut process.
//
// It wires configuration, queue storage, the inbox watcher, and the pipeline
// worker into a single lifecycle with flock-based locking to prevent multiple
// instances. Files landing in the inbox are given a settle delay before they
// are enqueued; the worker drains the queue one video at a time and persists
// progress so the status command can report on in-flight work.
//
// Keep orchestration logic here: probing, encoding, and cutting live in their
// respective packages while the daemon focuses on startup, shutdown, and
// coordination.
package daemon
