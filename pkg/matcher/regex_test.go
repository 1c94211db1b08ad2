package matcher

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesc/wordfence-cli/pkg/signatures"
)

func testSet(t *testing.T) *signatures.Set {
	t.Helper()
	set, err := signatures.NewSet([]signatures.Signature{
		{ID: 1, Name: "eval-base64", Pattern: `eval\(base64_decode`},
		{ID: 2, Name: "magic-marker", Pattern: `MAGICMARKER[0-9]+`},
		{ID: 3, Name: "never", Pattern: `ZZZ_NOT_PRESENT_ZZZ`},
	})
	require.NoError(t, err)
	return set
}

// feed streams content through a fresh context in fixed-size chunks.
func feed(m Matcher, content []byte, chunkSize int) map[int]Match {
	ctx := m.CreateContext()
	for i := 0; i < len(content); i += chunkSize {
		end := i + chunkSize
		if end > len(content) {
			end = len(content)
		}
		ctx.ProcessChunk(content[i:end])
	}
	return ctx.Matches()
}

func TestRegexMatcherBasic(t *testing.T) {
	m, err := NewRegexMatcher(testSet(t))
	require.NoError(t, err)

	content := []byte("<?php eval(base64_decode('payload')); ?>")
	matches := feed(m, content, len(content))

	require.Len(t, matches, 1)
	match, ok := matches[1]
	require.True(t, ok)
	assert.Equal(t, 1, match.SignatureID)
	assert.Equal(t, int64(6), match.Offset)
}

func TestRegexMatcherNoMatches(t *testing.T) {
	m, err := NewRegexMatcher(testSet(t))
	require.NoError(t, err)

	matches := feed(m, []byte("completely benign content"), 8)
	assert.Empty(t, matches)
}

func TestRegexMatcherChunkingInvariant(t *testing.T) {
	m, err := NewRegexMatcher(testSet(t))
	require.NoError(t, err)

	content := bytes.Repeat([]byte("x"), 1000)
	content = append(content, []byte("eval(base64_decode MAGICMARKER42")...)
	content = append(content, bytes.Repeat([]byte("y"), 1000)...)

	whole := feed(m, content, len(content))

	for _, chunkSize := range []int{1, 7, 64, 1024} {
		chunked := feed(m, content, chunkSize)
		assert.Equal(t, whole, chunked, "chunk size %d changed the match mapping", chunkSize)
	}
}

func TestRegexMatcherBoundarySpanningMatch(t *testing.T) {
	m, err := NewRegexMatcher(testSet(t))
	require.NoError(t, err)

	// Place the pattern exactly across a chunk boundary.
	content := append(bytes.Repeat([]byte("a"), 60), []byte("eval(base64_decode")...)
	matches := feed(m, content, 64)

	require.Contains(t, matches, 1)
	assert.Equal(t, int64(60), matches[1].Offset)
}

func TestRegexMatcherFirstOccurrenceWins(t *testing.T) {
	m, err := NewRegexMatcher(testSet(t))
	require.NoError(t, err)

	content := []byte("MAGICMARKER1 ... MAGICMARKER2")
	matches := feed(m, content, 5)

	require.Contains(t, matches, 2)
	assert.Equal(t, int64(0), matches[2].Offset)
}

func TestRegexMatcherContextsAreIndependent(t *testing.T) {
	m, err := NewRegexMatcher(testSet(t))
	require.NoError(t, err)

	first := feed(m, []byte("MAGICMARKER7"), 4)
	second := feed(m, []byte("nothing here"), 4)

	assert.Contains(t, first, 2)
	assert.Empty(t, second)
}

func TestNewRegexMatcherInvalidPattern(t *testing.T) {
	set := &signatures.Set{Signatures: []signatures.Signature{
		{ID: 1, Name: "broken", Pattern: `([unclosed`},
	}}
	require.NoError(t, set.Validate())

	_, err := NewRegexMatcher(set)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile signature 1")
}
