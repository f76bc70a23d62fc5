// Package inspect implements the diagnostic commands: a table of what the
// checksum manifest would contain and why files were skipped, and the
// verification of a written manifest against the files on disk.
package inspect
