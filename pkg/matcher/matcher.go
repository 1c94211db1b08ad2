/*
Package matcher defines the pattern-matching capability used by the scanning
engine and provides a regex-based implementation.

The engine never interprets signatures itself. It asks a Matcher for a fresh
Context per file, streams the file's bytes through the context chunk by
chunk, and collects the final mapping of matched signature ids when the
stream ends. Matching is deterministic: the mapping for a given byte stream
does not depend on how the stream was chunked (for matches up to the overlap
window) or on how many files are scanned concurrently.
*/
package matcher

// Match describes a single signature hit within one file.
type Match struct {
	// SignatureID identifies the matched signature
	SignatureID int

	// Offset is the byte offset of the first occurrence in the file
	Offset int64
}

// Context consumes one file's content incrementally and accumulates matches.
// A context is used by a single worker for a single file; it is not safe for
// concurrent use.
type Context interface {
	// ProcessChunk feeds the next sequential chunk of file content.
	ProcessChunk(chunk []byte)

	// Matches returns the mapping of signature id to match state for all
	// content processed so far. Called once, after the stream ends.
	Matches() map[int]Match
}

// Matcher produces per-file matching contexts for a fixed signature set.
// Implementations must be safe for use by multiple workers concurrently.
type Matcher interface {
	CreateContext() Context
}
