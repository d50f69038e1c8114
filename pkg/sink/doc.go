// Package sink provides destinations for successful contact form submissions:
// Discard (no transmission), Log (structured log line), Memory, SQLite and
// Multi for fan-out. Every implementation satisfies controller.Sink.
package sink
