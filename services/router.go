package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github/itish2003/hrfaq/models"
)

// UnansweredNotice is returned when the question is in the FAQ but HR has
// not filled in its answer.
const UnansweredNotice = "the question exists in the FAQ but HR has not yet supplied an answer."

// RouteResult is the terminal response for one question.
type RouteResult struct {
	Text            string
	Source          models.AnswerSource
	Score           float64
	MatchedQuestion string
	UsedDocument    bool
}

// RouterOptions hardens the fallback call. Zero values mean no timeout and
// no retry.
type RouterOptions struct {
	FallbackTimeout time.Duration
	MaxRetries      int
	// RetryDelay returns the pause before retry number attempt (0-based).
	RetryDelay func(attempt int) time.Duration
}

// Router decides between the FAQ answer, the unanswered notice and the
// generative fallback.
type Router struct {
	indexes  *IndexHolder
	matcher  *Matcher
	fallback FallbackClient
	opts     RouterOptions
	metrics  *Metrics
}

func NewRouter(indexes *IndexHolder, matcher *Matcher, fallback FallbackClient, opts RouterOptions, metrics *Metrics) *Router {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryDelay == nil {
		opts.RetryDelay = retryDelay
	}
	return &Router{indexes: indexes, matcher: matcher, fallback: fallback, opts: opts, metrics: metrics}
}

// Route answers query for a session whose uploaded document text is
// documentContent. Fallback failures come back as *FallbackError.
func (r *Router) Route(ctx context.Context, query, documentContent string) (RouteResult, error) {
	started := time.Now()

	match, err := r.matcher.Match(ctx, query, r.indexes.Load())
	if err != nil {
		return RouteResult{}, fmt.Errorf("matching faq: %w", err)
	}

	switch match.Kind {
	case Found:
		log.Printf("SERVICE: FAQ match (score=%.3f) for %q", match.Score, query)
		r.metrics.observeRoute(models.SourceFAQ, started)
		return RouteResult{Text: match.Answer, Source: models.SourceFAQ, Score: match.Score, MatchedQuestion: match.Question}, nil
	case EmptyAnswer:
		log.Printf("SERVICE: FAQ match without answer (score=%.3f) for %q", match.Score, query)
		r.metrics.observeRoute(models.SourceFAQUnanswered, started)
		return RouteResult{Text: UnansweredNotice, Source: models.SourceFAQUnanswered, Score: match.Score, MatchedQuestion: match.Question}, nil
	}

	prompt, err := BuildFallbackPrompt(query, documentContent)
	if err != nil {
		return RouteResult{}, fmt.Errorf("building fallback prompt: %w", err)
	}
	usedDocument := TruncateTokens(documentContent, 1) != ""
	log.Printf("SERVICE: No FAQ match (best=%.3f), delegating to fallback model (document=%t)", match.Score, usedDocument)

	answer, err := r.complete(ctx, prompt)
	if err != nil {
		r.metrics.observeFallbackError()
		return RouteResult{}, err
	}
	r.metrics.observeRoute(models.SourceFallback, started)
	return RouteResult{Text: answer, Source: models.SourceFallback, Score: match.Score, UsedDocument: usedDocument}, nil
}

func (r *Router) complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= r.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(r.opts.RetryDelay(attempt - 1)):
			case <-ctx.Done():
				return "", &FallbackError{Attempts: attempts, Err: errors.Join(lastErr, ctx.Err())}
			}
		}
		attempts++
		answer, err := r.completeOnce(ctx, prompt)
		if err == nil {
			return answer, nil
		}
		lastErr = err
		log.Printf("SERVICE: fallback attempt %d failed: %v", attempts, err)
		if ctx.Err() != nil {
			break
		}
	}
	return "", &FallbackError{Attempts: attempts, Err: lastErr}
}

func (r *Router) completeOnce(ctx context.Context, prompt string) (string, error) {
	if r.opts.FallbackTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.FallbackTimeout)
		defer cancel()
	}
	return r.fallback.Complete(ctx, prompt)
}

// retryDelay is exponential backoff from 200ms capped at 5s.
func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := 200 * time.Millisecond << attempt
	if d > 5*time.Second || d <= 0 {
		d = 5 * time.Second
	}
	return d
}
