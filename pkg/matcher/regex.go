package matcher

import (
	"fmt"

	regexp "github.com/wasilibs/go-re2"

	"github.com/pesc/wordfence-cli/pkg/signatures"
)

// DefaultOverlap is the number of trailing bytes carried between chunks so
// a match crossing a chunk boundary is still found. Matches longer than the
// overlap can be missed when they straddle a boundary.
const DefaultOverlap = 4096

// RegexMatcher matches signatures compiled as regular expressions. Patterns
// are compiled once; contexts share the compiled set read-only, so a single
// RegexMatcher serves any number of concurrent workers.
type RegexMatcher struct {
	compiled []compiledSignature
	overlap  int
}

type compiledSignature struct {
	id int
	re *regexp.Regexp
}

// RegexOption configures a RegexMatcher.
type RegexOption func(*RegexMatcher)

// WithOverlap overrides the chunk-boundary overlap window.
func WithOverlap(n int) RegexOption {
	return func(m *RegexMatcher) {
		if n > 0 {
			m.overlap = n
		}
	}
}

// NewRegexMatcher compiles every signature in the set. A signature that
// fails to compile makes the whole set unusable; this is a configuration
// error, not a scan-time one.
func NewRegexMatcher(set *signatures.Set, opts ...RegexOption) (*RegexMatcher, error) {
	m := &RegexMatcher{
		compiled: make([]compiledSignature, 0, set.Len()),
		overlap:  DefaultOverlap,
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, sig := range set.Signatures {
		re, err := regexp.Compile(sig.Pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile signature %d (%s): %w", sig.ID, sig.Name, err)
		}
		m.compiled = append(m.compiled, compiledSignature{id: sig.ID, re: re})
	}

	return m, nil
}

// CreateContext returns a fresh per-file matching context.
func (m *RegexMatcher) CreateContext() Context {
	return &regexContext{
		matcher: m,
		matches: make(map[int]Match),
	}
}

type regexContext struct {
	matcher *RegexMatcher

	// carry holds the tail of previously processed content so boundary
	// matches are seen; offset is the absolute position of carry[0].
	carry  []byte
	offset int64

	matches map[int]Match
}

func (c *regexContext) ProcessChunk(chunk []byte) {
	if len(chunk) == 0 {
		return
	}

	data := append(c.carry, chunk...)

	for _, sig := range c.matcher.compiled {
		if _, seen := c.matches[sig.id]; seen {
			continue
		}
		if loc := sig.re.FindIndex(data); loc != nil {
			c.matches[sig.id] = Match{
				SignatureID: sig.id,
				Offset:      c.offset + int64(loc[0]),
			}
		}
	}

	keep := c.matcher.overlap
	if keep > len(data) {
		keep = len(data)
	}
	c.offset += int64(len(data) - keep)

	// Copy the tail instead of re-slicing so the next append cannot grow
	// the full concatenated buffer forever.
	c.carry = append(make([]byte, 0, keep), data[len(data)-keep:]...)
}

func (c *regexContext) Matches() map[int]Match {
	return c.matches
}
