package ai

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// TranscriptChunk is one token-bounded slice of a transcript, positioned by
// its index in the original chunk sequence.
type TranscriptChunk struct {
	Index int
	Text  string
}

// ChunkTranscript splits a transcript into chunks of at most maxTokens
// tokens, breaking on whitespace so words are never cut. The encoder name
// follows tiktoken ("o200k_base" for current models).
func ChunkTranscript(text, encoder string, maxTokens int) ([]TranscriptChunk, error) {
	enc, err := tiktoken.GetEncoding(encoder)
	if err != nil {
		return nil, err
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	var chunks []TranscriptChunk
	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, TranscriptChunk{
			Index: len(chunks),
			Text:  strings.Join(current, " "),
		})
		current = nil
		currentTokens = 0
	}

	for _, word := range words {
		wordTokens := len(enc.Encode(word+" ", nil, nil))
		if currentTokens+wordTokens > maxTokens && len(current) > 0 {
			flush()
		}
		current = append(current, word)
		currentTokens += wordTokens
	}
	flush()

	return chunks, nil
}
