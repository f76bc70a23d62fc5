// Package manifest contains the checksum manifest domain types.
//
// A Manifest is an ordered path -> SHA-256 mapping. Outcome is the tagged
// per-file result produced while building one, so skipped files stay visible
// to diagnostics even though only included files reach the manifest. The
// record codec renders each entry as a right-justified 64 column path, two
// spaces and the hex digest.
package manifest
