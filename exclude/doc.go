// Package exclude implements the exclusion ruleset shared by the extraction
// and scan walkers.
//
// A Ruleset combines a fixed denylist of directory names (version-control
// metadata, dependency caches, test directories) with patterns loaded from
// ignore files found at the scan root. Both walkers consult the same Ruleset
// instance so a path skipped during extraction is also skipped during
// scanning.
//
// Pattern matching is intentionally simple: a pattern matches when it is a
// substring of the path relative to the base, a prefix of it, or equal to any
// single path component. Glob and negation semantics from real gitignore
// files are not implemented; a literal pattern "log" will match "catalog/".
// This approximation is part of the contract, not an oversight.
package exclude
