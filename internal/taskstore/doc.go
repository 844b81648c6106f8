// Package taskstore persists provisioning progress notes.
//
// A Factory opens a DBClient for a (server, port, database) triple. Two
// embedded drivers are available: sqlite stores notes in a task_status table
// of <server>/<database>.db, badger stores them as JSON values in the
// <server>/<database> directory. Embedded drivers have no network listener,
// so the port is validated but otherwise unused.
//
// Notes are append-only and listed per service in the order they were
// recorded.
package taskstore
