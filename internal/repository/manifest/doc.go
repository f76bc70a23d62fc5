// Package manifest stores the checksum manifest on disk.
//
// The FileRepository writes the fixed-width record format produced by the
// domain package to a single well-known file, reads it back for
// verification and removes it once a submission is done.
package manifest
