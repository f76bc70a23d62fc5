// Package submit runs a quiz submission end to end.
//
// It resolves the quiz from the catalog, locks the quiz directory, writes a
// best-effort checksum manifest, adds it to the submitted files when it was
// produced, calls the submission sink and cleans up the manifest and the
// staging archive.
package submit
