// Package llm wraps the hosted model endpoint. It only covers the API call
// itself; prompt construction and response-shape validation live with the
// callers.
package llm

import (
	"context"
	"errors"

	"sweettech/internal/media"
)

// ErrEmptyResponse is returned when the model answers with no candidates or
// no content parts.
var ErrEmptyResponse = errors.New("llm: empty response from model")

// Request is one generation call: ordered content parts (text plus optional
// inline media), a sampling temperature, and the search-grounding flag.
type Request struct {
	Prompt      string
	Media       *media.Part
	Temperature float32
	Grounded    bool
}

// Response carries the raw text body and any cited source URLs extracted
// from grounding metadata. Sources are deduplicated and may be empty.
type Response struct {
	Text    string
	Sources []string
}

// Client is the transport interface. Implementations do not retry: the
// endpoint is costly and grounding freshness is not idempotent, so failures
// surface to the caller immediately.
type Client interface {
	Name() string
	Generate(ctx context.Context, req Request) (Response, error)
	Close() error
}
