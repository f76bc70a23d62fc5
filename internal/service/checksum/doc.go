// Package checksum builds the checksum manifest submitted next to the
// student's files.
//
// Every candidate is stat'ed, filtered (directories, special files, files
// over 1 MiB and anything unreadable are dropped) and hashed with SHA-256 in
// fixed-size chunks. Failures never escalate: the manifest is a diagnostic
// aid, so a bad file only makes it shorter.
package checksum
