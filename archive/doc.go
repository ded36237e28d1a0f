// Package archive classifies, extracts, and recursively unpacks archive
// files in preparation for malware scanning.
//
// Classification is a pure function from a path's suffix to a closed Kind
// enumeration; one handler exists per kind. The Extractor unpacks a single
// archive into a destination directory, and the Walker drives the recursive
// traversal: every archive found under an input path is extracted into a
// uniquely named subdirectory of a shared output root, and freshly extracted
// content is walked again so nested archives are unpacked to their full
// depth. Paths already inside the output root are never accepted as
// extraction input, which bounds recursion by the real nesting depth of the
// data rather than by any accidental self-reference.
//
// Extraction enforces entry-path containment (entries cannot escape the
// destination directory) but deliberately applies no size or file-count
// limits, matching the behavior of the scanning pipeline it feeds. Callers
// needing defense against decompression bombs should bound the run with a
// context deadline.
package archive
