package ai

import (
    "context"
    "errors"
)

// Request is a generic text-analysis request: summarize the sampled
// document text into a short insight.
type Request struct {
    Text      string
    Model     string
    MaxTokens int
}

type Response struct {
    Text      string
    TokensIn  int
    TokensOut int
}

// Client interface for providers like OpenAI, Anthropic.
type Client interface {
    Name() string
    Do(ctx context.Context, req Request) (Response, error)
}

var ErrRateLimited = errors.New("rate_limited")

func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }

// systemPrompt steers every provider toward the same short advisory output.
const systemPrompt = "You summarize documents. Given raw text sampled from a PDF, reply with a concise 2-3 sentence summary of what the document is about. Reply with the summary only."
