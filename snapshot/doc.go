// Package snapshot defines the immutable model for captured filesystem
// state and the visitor protocol for traversing it.
//
// A snapshot records one location as it was at capture time: missing, a
// regular file with its content digest, or a directory owning its children
// in name order. Snapshots for a build are captured once, cached in the
// process-wide mirror (snapshot/mirror) by the snapshotter
// (snapshot/snapshotter), and compared or projected by consumers through the
// visitor protocol without re-touching disk.
package snapshot
