// Package clamsweep prepares untrusted file trees for malware scanning and
// orchestrates the scan itself.
//
// A run takes one or more input paths. For each input, every archive found
// (to any nesting depth) is unpacked into a shared output root, then the
// unpacked content and the original tree are scanned with the ClamAV engine
// and the per-file outcomes are merged into a single aggregate. Extraction
// and scanning share one exclusion ruleset per input, combining a built-in
// directory denylist with patterns from ignore files at the scan root.
//
// Failures are soft by design: a corrupt archive, an unscannable file, or a
// missing input skips that item and the run always completes with a full
// (possibly partial) aggregate.
package clamsweep
