package relevance

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minTokenRunes is exclusive: tokens must be longer than two characters.
const minTokenRunes = 2

// TokenOverlapProvider scores the fraction of a text's distinct tokens that
// also appear in the reference. It needs no model and never fails.
type TokenOverlapProvider struct{}

// NewTokenOverlapProvider returns the deterministic fallback provider.
func NewTokenOverlapProvider() *TokenOverlapProvider {
	return &TokenOverlapProvider{}
}

// Variant returns VariantTokenOverlap.
func (p *TokenOverlapProvider) Variant() Variant {
	return VariantTokenOverlap
}

// Against tokenizes the reference.
func (p *TokenOverlapProvider) Against(_ context.Context, reference string) (Comparer, error) {
	return tokenComparer{reference: Tokenize(reference)}, nil
}

type tokenComparer struct {
	reference map[string]struct{}
}

// Compare returns |text ∩ reference| / |text|, or 0 when text has no tokens.
func (c tokenComparer) Compare(_ context.Context, text string) (float64, error) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return 0, nil
	}
	matches := 0
	for tok := range tokens {
		if _, ok := c.reference[tok]; ok {
			matches++
		}
	}
	return clamp01(float64(matches) / float64(len(tokens))), nil
}

// Tokenize splits text on whitespace, lowercases each word, trims
// surrounding punctuation and keeps the distinct words longer than two
// characters.
func Tokenize(text string) map[string]struct{} {
	lower := cases.Lower(language.Und)
	tokens := make(map[string]struct{})
	for _, field := range strings.Fields(text) {
		word := strings.TrimFunc(lower.String(field), unicode.IsPunct)
		if len([]rune(word)) > minTokenRunes {
			tokens[word] = struct{}{}
		}
	}
	return tokens
}

var _ SimilarityProvider = (*TokenOverlapProvider)(nil)
