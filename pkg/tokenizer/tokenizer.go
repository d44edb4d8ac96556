// Package tokenizer counts and trims text by model tokens using tiktoken.
package tokenizer

import (
	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is used by GPT-4o family models.
const DefaultEncoding = "o200k_base"

// Tokenizer wraps a tiktoken encoding.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// New resolves name as a model first and as an encoding second.
func New(name string) (*Tokenizer, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := tiktoken.EncodingForModel(name)
	if err != nil {
		enc, err = tiktoken.GetEncoding(name)
		if err != nil {
			return nil, err
		}
	}
	return &Tokenizer{enc: enc}, nil
}

// Encode returns the token ids of text.
func (t *Tokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Count returns the number of tokens in text.
func (t *Tokenizer) Count(text string) int {
	return len(t.Encode(text))
}

// Truncate keeps at most limit tokens of text.
func (t *Tokenizer) Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	ids := t.Encode(text)
	if len(ids) <= limit {
		return text
	}
	return t.enc.Decode(ids[:limit])
}
