package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return words
}

func TestSplitEmpty(t *testing.T) {
	c := New()
	assert.Empty(t, c.Split(""))
	assert.Empty(t, c.Split("   \n\t  "))
}

func TestSplitShortInputSingleChunk(t *testing.T) {
	c := New(WithSize(500), WithOverlap(50))
	text := strings.Join(sampleWords(120), " ")

	chunks := c.Split(text)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

// 3000 words at size 500 / overlap 50: windows advance by 450, every
// chunk clears the minimum floor and the last chunk is non-empty.
func TestSplitLongDocument(t *testing.T) {
	c := New(WithSize(500), WithOverlap(50))
	words := sampleWords(3000)

	chunks := c.Split(strings.Join(words, " "))
	require.NotEmpty(t, chunks)

	for i, chunk := range chunks {
		n := len(strings.Fields(chunk))
		assert.GreaterOrEqual(t, n, DefaultMinWords, "chunk %d too short", i)
		assert.LessOrEqual(t, n, 500, "chunk %d too long", i)
	}
	last := chunks[len(chunks)-1]
	assert.NotEmpty(t, strings.TrimSpace(last))
	assert.Contains(t, last, "w2999")
}

// Dropping each chunk's leading overlap and re-joining reconstructs the
// original token stream.
func TestSplitRoundTrip(t *testing.T) {
	c := New(WithSize(100), WithOverlap(20))
	words := sampleWords(430)

	chunks := c.Split(strings.Join(words, " "))
	require.NotEmpty(t, chunks)

	var rebuilt []string
	for i, chunk := range chunks {
		fields := strings.Fields(chunk)
		if i > 0 {
			fields = fields[20:]
		}
		rebuilt = append(rebuilt, fields...)
	}
	assert.Equal(t, words, rebuilt)
}

func TestSplitDeterministic(t *testing.T) {
	c := New(WithSize(80), WithOverlap(10))
	text := strings.Join(sampleWords(500), " ")
	assert.Equal(t, c.Split(text), c.Split(text))
}

func TestOverlapClamped(t *testing.T) {
	c := New(WithSize(100), WithOverlap(150))
	// must terminate and still cover all words
	chunks := c.Split(strings.Join(sampleWords(300), " "))
	require.NotEmpty(t, chunks)
	assert.Contains(t, chunks[len(chunks)-1], "w299")
}
