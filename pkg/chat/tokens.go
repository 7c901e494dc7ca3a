package chat

import (
	"github.com/rs/zerolog/log"
	"github.com/tiktoken-go/tokenizer"
)

// TokenCounter estimates prompt sizes for logging and analytics. When the
// tokenizer cannot be initialized it degrades to a chars/4 heuristic.
type TokenCounter struct {
	codec tokenizer.Codec
}

// NewTokenCounter builds a counter on the cl100k_base vocabulary.
func NewTokenCounter() *TokenCounter {
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		log.Warn().Err(err).Msg("tokenizer unavailable, falling back to length heuristic")
		return &TokenCounter{}
	}
	return &TokenCounter{codec: codec}
}

// Count returns the token count of text.
func (t *TokenCounter) Count(text string) int {
	if t == nil || t.codec == nil {
		return len(text) / 4
	}
	ids, _, err := t.codec.Encode(text)
	if err != nil {
		return len(text) / 4
	}
	return len(ids)
}
