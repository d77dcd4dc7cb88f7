// Package index persists scan runs in SQLite.
//
// Each saved run carries a UUID, the scanned roots, timing, aggregate counts,
// and the sequences, plain files, and diagnostics found in every directory.
// Stored sequences keep their notation so they can be decoded back into
// frameseq.Sequence accessors long after the scan.
//
// Writers take the advisory lock from AcquireLock before saving or pruning;
// readers do not need it. Schema changes bump schemaVersion in schema.go and
// require removing the database.
package index
