package services

import (
	"context"
	"fmt"
	"math"

	"github/itish2003/hrfaq/models"
)

// MatchKind is the outcome of matching a query against the FAQ.
type MatchKind int

const (
	NoMatch MatchKind = iota
	EmptyAnswer
	Found
)

func (k MatchKind) String() string {
	switch k {
	case Found:
		return "found"
	case EmptyAnswer:
		return "empty_answer"
	default:
		return "no_match"
	}
}

// MatchResult describes the best FAQ candidate for a query. Position is -1
// when there was no candidate to score.
type MatchResult struct {
	Kind     MatchKind
	Answer   string
	Question string
	Score    float64
	Position int
}

// Matcher scores queries against a FAQ index.
type Matcher struct {
	embedder  Embedder
	threshold float64
}

// NewMatcher uses threshold as given; 0 accepts any best match with a
// non-negative score.
func NewMatcher(embedder Embedder, threshold float64) *Matcher {
	return &Matcher{embedder: embedder, threshold: threshold}
}

func (m *Matcher) Threshold() float64 { return m.threshold }

// Match normalizes and embeds query, then returns the most similar entry.
// Ties go to the entry that comes first in the index.
func (m *Matcher) Match(ctx context.Context, query string, index *FAQIndex) (MatchResult, error) {
	if index == nil || index.Len() == 0 {
		return MatchResult{Kind: NoMatch, Position: -1}, nil
	}
	if m.embedder.Name() != index.Model() {
		return MatchResult{}, fmt.Errorf("%w: query model %s, index model %s", ErrModelMismatch, m.embedder.Name(), index.Model())
	}

	normalized := Normalize(query)
	if normalized == "" {
		// Nothing left to compare, e.g. a query of only punctuation.
		return MatchResult{Kind: NoMatch, Position: -1}, nil
	}
	vec, err := index.QueryEmbedder(m.embedder).Embed(ctx, normalized)
	if err != nil {
		return MatchResult{}, fmt.Errorf("embedding query: %w", err)
	}
	if len(vec) != index.Dimension() {
		return MatchResult{}, fmt.Errorf("query embedding has dimension %d, index has %d", len(vec), index.Dimension())
	}

	// NaN scores never win; if every score is NaN there is no match.
	best, bestScore := -1, math.Inf(-1)
	for i := 0; i < index.Len(); i++ {
		s := CosineSimilarity(vec, index.Embedding(i))
		if math.IsNaN(s) {
			continue
		}
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 {
		return MatchResult{Kind: NoMatch, Position: -1}, nil
	}
	return classify(index.Entry(best), best, bestScore, m.threshold), nil
}

func classify(entry models.FAQEntry, pos int, score, threshold float64) MatchResult {
	res := MatchResult{Kind: NoMatch, Score: score, Position: pos, Question: entry.Question}
	if score < threshold {
		return res
	}
	if !entry.HasAnswer() {
		res.Kind = EmptyAnswer
		return res
	}
	res.Kind = Found
	res.Answer = entry.AnswerText()
	return res
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0
// when either vector has zero length or norm.
func CosineSimilarity(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
