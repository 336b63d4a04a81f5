package llm

import (
	"context"
	"log"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli   *genai.Client
	model string
	rl    *rpsLimiter
}

// NewGeminiClient builds a client for one model. rps/burst configure an
// optional request limiter; rps <= 0 disables it.
func NewGeminiClient(ctx context.Context, apiKey, model string, rps float64, burst int) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model, rl: newRPSLimiter(rps, burst)}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }

func (g *GeminiClient) Close() error {
	if g.rl != nil {
		g.rl.Stop()
	}
	return nil
}

// Generate issues one GenerateContent call. The prompt goes first, the
// encoded media (if any) rides along as a second inline part.
func (g *GeminiClient) Generate(ctx context.Context, req Request) (Response, error) {
	if err := g.rl.Acquire(ctx); err != nil {
		return Response{}, err
	}

	parts := []*genai.Part{{Text: req.Prompt}}
	if req.Media != nil && !req.Media.IsZero() {
		data, err := req.Media.Bytes()
		if err != nil {
			return Response{}, err
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: req.Media.MIMEType, Data: data},
		})
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.Grounded {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	log.Printf("llm request model=%s prompt=%d bytes grounded=%t", g.model, len(req.Prompt), req.Grounded)

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: parts}}, cfg)
	if err != nil {
		return Response{}, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Response{}, ErrEmptyResponse
	}

	cand := resp.Candidates[0]
	var text string
	for _, p := range cand.Content.Parts {
		text += p.Text
	}
	return Response{Text: text, Sources: groundingSources(cand)}, nil
}

// groundingSources walks the optional grounding-metadata chunk list and
// collects each chunk's web URI. Absent or malformed metadata yields an
// empty set, never an error.
func groundingSources(cand *genai.Candidate) []string {
	if cand == nil || cand.GroundingMetadata == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, chunk := range cand.GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		if _, dup := seen[chunk.Web.URI]; dup {
			continue
		}
		seen[chunk.Web.URI] = struct{}{}
		out = append(out, chunk.Web.URI)
	}
	return out
}
