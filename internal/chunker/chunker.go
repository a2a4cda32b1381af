// Package chunker splits normalized document text into overlapping,
// word-bounded segments for embedding and retrieval.
package chunker

import "strings"

// DefaultSizeWords is the default chunk size in words.
const DefaultSizeWords = 1500

// DefaultOverlapWords is the default trailing overlap carried into the
// next chunk.
const DefaultOverlapWords = 200

// DefaultMinWords is the floor below which a trailing segment is treated
// as separator noise and discarded.
const DefaultMinWords = 5

// Chunker produces deterministic, ordered chunk sequences: the same text
// always yields the same chunks, and a chunk's ordinal is its index in
// the returned slice.
type Chunker struct {
	size     int
	overlap  int
	minWords int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithSize sets the chunk size in words.
func WithSize(words int) Option {
	return func(c *Chunker) {
		if words > 0 {
			c.size = words
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in words.
func WithOverlap(words int) Option {
	return func(c *Chunker) {
		if words >= 0 {
			c.overlap = words
		}
	}
}

// WithMinWords sets the minimum word count for a trailing segment.
func WithMinWords(words int) Option {
	return func(c *Chunker) {
		if words > 0 {
			c.minWords = words
		}
	}
}

// New creates a Chunker, clamping the overlap when it would prevent the
// window from advancing.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		size:     DefaultSizeWords,
		overlap:  DefaultOverlapWords,
		minWords: DefaultMinWords,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.overlap >= c.size {
		c.overlap = c.size / 4
	}
	return c
}

// Split breaks text into overlapping word windows. Empty input yields an
// empty sequence; input no longer than the chunk size yields exactly one
// chunk. Trailing segments shorter than the minimum floor are dropped,
// except when they are the whole input.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + c.size
		if end > len(words) {
			end = len(words)
		}
		if end-start >= c.minWords || start == 0 {
			chunks = append(chunks, strings.Join(words[start:end], " "))
		}
		if end == len(words) {
			break
		}
	}
	return chunks
}
