// Package submission defines the sink a finished submission is handed to.
//
// Sink is the opaque submit(course, assignment, files) capability. Outbox is
// the local implementation: it packs the files into a deterministic zip,
// keeps a staging copy next to the sources (removed by the caller) and files
// an archive plus a protobuf JSON receipt in the outbox directory.
package submission
