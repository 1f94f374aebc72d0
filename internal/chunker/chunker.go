package chunker

import (
	"fmt"
	"iter"
)

// Chunker splits text into fixed-size overlapping chunks. Splitting is purely
// positional; the overlap preserves context across chunk boundaries at the
// cost of duplicate phrasing in adjacent chunks.
type Chunker struct {
	size    int
	overlap int
}

func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("overlap must be in [0, size), got size=%d overlap=%d", size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split returns a lazy, restartable sequence of chunks. Chunk i starts at
// i*(size-overlap); iteration stops once a chunk reaches the end of the text.
// Empty input yields an empty sequence.
func (c *Chunker) Split(text string) iter.Seq[string] {
	runes := []rune(text)
	return func(yield func(string) bool) {
		n := len(runes)
		if n == 0 {
			return
		}
		step := c.size - c.overlap
		for start := 0; ; start += step {
			end := start + c.size
			if end > n {
				end = n
			}
			if !yield(string(runes[start:end])) {
				return
			}
			if end == n {
				return
			}
		}
	}
}

// SplitAll materializes the whole sequence.
func (c *Chunker) SplitAll(text string) []string {
	var chunks []string
	for chunk := range c.Split(text) {
		chunks = append(chunks, chunk)
	}
	return chunks
}
