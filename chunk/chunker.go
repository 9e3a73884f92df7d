package chunk

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/scholar/core"
)

const (
	// DefaultChunkSize is the character budget for one chunk.
	DefaultChunkSize = 500

	// DefaultChunkOverlap is the number of trailing characters carried
	// from a closed chunk into the next one.
	DefaultChunkOverlap = 50

	// minSentenceLength filters out fragments left behind by the
	// sentence splitter (stray headers, page numbers, bullets).
	minSentenceLength = 10
)

// Chunker splits document text into overlapping retrieval units along
// sentence boundaries. Sentence integrity outranks the size bound: a
// single sentence longer than the chunk size becomes its own chunk
// rather than being cut mid-word.
type Chunker struct {
	size    int
	overlap int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk character budget.
// Default is DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithOverlap sets the overlap carried between consecutive chunks.
// Zero disables overlap. Default is DefaultChunkOverlap.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// NewChunker creates a Chunker.
func NewChunker(opts ...Option) *Chunker {
	c := &Chunker{
		size:    DefaultChunkSize,
		overlap: DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chunk splits text into an ordered sequence of DocumentChunks for
// docID. Each chunk receives a sequential zero-padded id (chunk_0000,
// chunk_0001, ...) and a copy of metadata. Empty or whitespace-only
// text yields an empty sequence; rejecting that as an ingestion error
// is the caller's concern.
func (c *Chunker) Chunk(text, docID string, metadata map[string]string) []core.DocumentChunk {
	var chunks []core.DocumentChunk

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return chunks
	}

	var (
		current    string
		currentLen int
		index      int
	)

	for _, sentence := range sentences {
		sentenceLen := utf8.RuneCountInString(sentence)

		if currentLen+sentenceLen > c.size && current != "" {
			chunks = append(chunks, c.newChunk(docID, index, current, metadata))

			if c.overlap > 0 {
				current = overlapTail(current, c.overlap) + " " + sentence
				currentLen = utf8.RuneCountInString(current)
			} else {
				current = sentence
				currentLen = sentenceLen
			}
			index++
			continue
		}

		if current != "" {
			current += " " + sentence
		} else {
			current = sentence
		}
		currentLen += sentenceLen
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, c.newChunk(docID, index, current, metadata))
	}

	return chunks
}

func (c *Chunker) newChunk(docID string, index int, content string, metadata map[string]string) core.DocumentChunk {
	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	return core.DocumentChunk{
		DocID:      docID,
		ChunkID:    fmt.Sprintf("chunk_%04d", index),
		Content:    strings.TrimSpace(content),
		Metadata:   meta,
		ChunkIndex: index,
	}
}

// splitSentences cuts text after terminal punctuation (. ! ?) followed
// by whitespace, then drops fragments of minSentenceLength characters
// or fewer.
func splitSentences(text string) []string {
	var (
		sentences []string
		start     int
	)

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		// Consume any further terminal punctuation ("..." splits once,
		// after the last mark) before checking for whitespace.
		j := i
		for j+1 < len(runes) && isTerminal(runes[j+1]) {
			j++
		}
		if j+1 >= len(runes) || !unicode.IsSpace(runes[j+1]) {
			i = j
			continue
		}

		appendSentence(&sentences, string(runes[start:j+1]))

		// Skip the whitespace run; it belongs to no sentence.
		k := j + 1
		for k < len(runes) && unicode.IsSpace(runes[k]) {
			k++
		}
		start = k
		i = k - 1
	}

	if start < len(runes) {
		appendSentence(&sentences, string(runes[start:]))
	}

	return sentences
}

func appendSentence(sentences *[]string, s string) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > minSentenceLength {
		*sentences = append(*sentences, s)
	}
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// overlapTail returns the last overlap characters of text, advanced
// past the first space so the seed never starts mid-word.
func overlapTail(text string, overlap int) string {
	runes := []rune(text)
	if len(runes) <= overlap {
		return text
	}

	tail := string(runes[len(runes)-overlap:])
	if space := strings.IndexByte(tail, ' '); space > 0 {
		tail = tail[space+1:]
	}
	return tail
}
