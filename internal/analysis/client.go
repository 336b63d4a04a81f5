package analysis

import (
	"context"
	"fmt"

	"sweettech/internal/llm"
	"sweettech/internal/media"
	"sweettech/internal/prompt"
	"sweettech/internal/util/jsonutil"
)

// Sampling temperatures per stage. Profile identification favors
// determinism; benchmarking/SWOT/persona content tolerates variability.
const (
	profileTemperature float32 = 0.2
	insightTemperature float32 = 0.7
)

// Client runs the two analysis stages against the model endpoint. The fast
// profile stage and the heavier insight stage may use different models.
type Client struct {
	profileLLM llm.Client
	insightLLM llm.Client
}

// NewClient wires the two transports. Either may be nil when the service
// credential is missing; calls then fail with ErrNotConfigured before any
// network attempt.
func NewClient(profileLLM, insightLLM llm.Client) *Client {
	return &Client{profileLLM: profileLLM, insightLLM: insightLLM}
}

// AnalyzeProfile runs stage 1: identify the product from text and/or a
// label photo. Returns the profile plus any cited source URLs.
func (c *Client) AnalyzeProfile(ctx context.Context, text string, part *media.Part, language string) (ProductProfile, []string, error) {
	if c == nil || c.profileLLM == nil {
		return ProductProfile{}, nil, ErrNotConfigured
	}

	resp, err := c.profileLLM.Generate(ctx, llm.Request{
		Prompt:      prompt.Profile(text, language),
		Media:       part,
		Temperature: profileTemperature,
		Grounded:    true,
	})
	if err != nil {
		return ProductProfile{}, nil, &AnalysisError{Stage: StageProfile, Err: err}
	}

	var envelope struct {
		Profile *ProductProfile `json:"profile"`
	}
	body := jsonutil.StripFences(resp.Text)
	if err := jsonutil.UnmarshalFlex([]byte(body), &envelope); err != nil {
		return ProductProfile{}, nil, &AnalysisError{Stage: StageProfile, Err: err}
	}
	if envelope.Profile == nil {
		return ProductProfile{}, nil, &AnalysisError{Stage: StageProfile, Err: fmt.Errorf("response missing %q key", "profile")}
	}
	return *envelope.Profile, resp.Sources, nil
}

// AnalyzeInsights runs stage 2 with the stage-1 profile embedded as context.
// The result is partial by construction: top-level keys absent from the
// model response stay zero-valued, and completeness is the consumer's
// concern, not this layer's.
func (c *Client) AnalyzeInsights(ctx context.Context, text string, part *media.Part, profile ProductProfile, language string) (AnalysisInsights, []string, error) {
	if c == nil || c.insightLLM == nil {
		return AnalysisInsights{}, nil, ErrNotConfigured
	}

	resp, err := c.insightLLM.Generate(ctx, llm.Request{
		Prompt:      prompt.Insights(text, language, profile),
		Media:       part,
		Temperature: insightTemperature,
		Grounded:    true,
	})
	if err != nil {
		return AnalysisInsights{}, nil, &AnalysisError{Stage: StageInsights, Err: err}
	}

	var insights AnalysisInsights
	body := jsonutil.StripFences(resp.Text)
	if err := jsonutil.UnmarshalFlex([]byte(body), &insights); err != nil {
		return AnalysisInsights{}, nil, &AnalysisError{Stage: StageInsights, Err: err}
	}
	return insights, resp.Sources, nil
}
