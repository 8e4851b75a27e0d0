// Package journal persists a local log of every message the node
// receives or publishes.
//
// The journal is an append-only SQLite table keyed by insertion order,
// with direction, topic, payload, and a UTC timestamp per row. It is a
// diagnostic aid: when a node misbehaves in the field, the journal shows
// exactly what crossed the wire without needing broker-side capture.
//
// # Storage
//
// SQLite runs with WAL mode and a busy timeout, and the pool is pinned
// to a single connection because SQLite allows only one writer. The
// schema is created on open; there are no in-place migrations.
//
// # Usage
//
//	j, err := journal.Open(cfg.Journal)
//	if err != nil {
//	    return err
//	}
//	defer j.Close()
//
//	j.Record(ctx, journal.Inbound, topic, payload)
package journal
