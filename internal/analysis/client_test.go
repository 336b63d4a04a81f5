package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sweettech/internal/llm"
	"sweettech/internal/media"
)

func TestAnalyzeProfile_ParsesFencedResponse(t *testing.T) {
	fake := llm.NewFakeClient([]llm.Response{{
		Text:    "```json\n{\"profile\":{\"name\":\"Choco Bar\",\"brand\":\"SweetCo\"}}\n```",
		Sources: []string{"https://a.example", "https://b.example"},
	}}, nil)
	c := NewClient(fake, fake)

	profile, sources, err := c.AnalyzeProfile(context.Background(), "Choco Bar 50g", nil, "English")
	if err != nil {
		t.Fatalf("AnalyzeProfile error: %v", err)
	}
	if profile.Name != "Choco Bar" || profile.Brand != "SweetCo" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %v", sources)
	}

	req := fake.Requests[0]
	if !req.Grounded {
		t.Fatalf("profile call must enable search grounding")
	}
	if req.Temperature != profileTemperature {
		t.Fatalf("profile temperature = %v, want %v", req.Temperature, profileTemperature)
	}
	if !strings.Contains(req.Prompt, "Choco Bar 50g") {
		t.Fatalf("prompt missing user text")
	}
}

func TestAnalyzeProfile_MissingProfileKey(t *testing.T) {
	fake := llm.NewFakeClient([]llm.Response{{Text: `{"something":"else"}`}}, nil)
	c := NewClient(fake, fake)

	_, _, err := c.AnalyzeProfile(context.Background(), "x", nil, "English")
	var analysisErr *AnalysisError
	if !errors.As(err, &analysisErr) || analysisErr.Stage != StageProfile {
		t.Fatalf("expected profile AnalysisError, got %v", err)
	}
}

func TestAnalyzeProfile_InvalidJSON(t *testing.T) {
	fake := llm.NewFakeClient([]llm.Response{{Text: "sorry, I cannot help with that"}}, nil)
	c := NewClient(fake, fake)

	_, _, err := c.AnalyzeProfile(context.Background(), "x", nil, "English")
	var analysisErr *AnalysisError
	if !errors.As(err, &analysisErr) || analysisErr.Stage != StageProfile {
		t.Fatalf("expected profile AnalysisError, got %v", err)
	}
}

func TestAnalyzeProfile_NotConfigured(t *testing.T) {
	c := NewClient(nil, nil)
	_, _, err := c.AnalyzeProfile(context.Background(), "x", nil, "English")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestAnalyzeProfile_AttachesMedia(t *testing.T) {
	fake := llm.NewFakeClient([]llm.Response{{Text: `{"profile":{"name":"x"}}`}}, nil)
	c := NewClient(fake, fake)

	part := media.FromDataURI("aGVsbG8=", "image/png")
	if _, _, err := c.AnalyzeProfile(context.Background(), "", &part, "English"); err != nil {
		t.Fatalf("AnalyzeProfile error: %v", err)
	}
	if fake.Requests[0].Media == nil || fake.Requests[0].Media.MIMEType != "image/png" {
		t.Fatalf("media part not forwarded: %+v", fake.Requests[0].Media)
	}
}

func TestAnalyzeInsights_PartialResult(t *testing.T) {
	fake := llm.NewFakeClient([]llm.Response{{
		// Only competitors and swot present; everything else stays empty.
		Text:    `{"competitors":[{"name":"Rival","price":"$2.00"}],"swot":{"strengths":["cheap"]}}`,
		Sources: []string{"https://b.example", "https://c.example"},
	}}, nil)
	c := NewClient(fake, fake)

	insights, sources, err := c.AnalyzeInsights(context.Background(), "x", nil, ProductProfile{Name: "Choco Bar"}, "English")
	if err != nil {
		t.Fatalf("AnalyzeInsights error: %v", err)
	}
	if len(insights.Competitors) != 1 || insights.Competitors[0].Name != "Rival" {
		t.Fatalf("unexpected competitors: %+v", insights.Competitors)
	}
	if insights.SWOT == nil || len(insights.SWOT.Strengths) != 1 {
		t.Fatalf("swot not parsed: %+v", insights.SWOT)
	}
	if insights.Reviews != nil || insights.Persona != nil || insights.RadarChart != nil {
		t.Fatalf("absent keys must stay zero-valued: %+v", insights)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %v", sources)
	}

	if fake.Requests[0].Temperature != insightTemperature {
		t.Fatalf("insight temperature = %v, want %v", fake.Requests[0].Temperature, insightTemperature)
	}
	if !strings.Contains(fake.Requests[0].Prompt, `"name": "Choco Bar"`) {
		t.Fatalf("profile context missing from insight prompt")
	}
}

func TestAnalyzeInsights_TransportFailure(t *testing.T) {
	fake := llm.NewFakeClient(nil, []error{errors.New("quota exceeded")})
	c := NewClient(fake, fake)

	_, _, err := c.AnalyzeInsights(context.Background(), "x", nil, ProductProfile{}, "English")
	var analysisErr *AnalysisError
	if !errors.As(err, &analysisErr) || analysisErr.Stage != StageInsights {
		t.Fatalf("expected insights AnalysisError, got %v", err)
	}
	if fake.Calls() != 1 {
		t.Fatalf("client must not retry, got %d calls", fake.Calls())
	}
}
