// Package workspace resolves every file operation against an explicit base
// directory instead of changing the process working directory.
//
// It enumerates checksum candidates with doublestar globs, guards the
// directory with an advisory flock so two runs never write the same manifest,
// and removes temporary artifacts after a submission.
package workspace
