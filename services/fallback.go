package services

import "context"

// FallbackClient is the generative model used when the FAQ has no match.
// It takes one prompt and returns one reply.
type FallbackClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
