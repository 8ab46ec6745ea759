// Package container implements the self-describing artifact format that
// serialized data points are written to: a hierarchy of named groups and
// typed datasets, both carrying key-value attributes.
//
// The in-memory model ([Group], [Dataset]) is independent of storage. The
// on-disk codec ([WriteFile], [ReadFile]) packs a tree into a single SQLite
// file with three tables (nodes, datasets, attrs); array payloads are stored
// as little-endian blobs so round-trips are bit-exact. Writes go to a
// temporary file and are renamed into place only on full success, so a
// failed write never leaves a partial artifact behind.
package container
