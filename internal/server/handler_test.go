package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sweettech/internal/analysis"
	"sweettech/internal/media"
	"sweettech/internal/store"
)

type scriptedAnalyzer struct {
	profileErr  error
	insightsErr error
}

func (a *scriptedAnalyzer) AnalyzeProfile(context.Context, string, *media.Part, string) (analysis.ProductProfile, []string, error) {
	if a.profileErr != nil {
		return analysis.ProductProfile{}, nil, a.profileErr
	}
	return analysis.ProductProfile{Name: "Choco Bar"}, []string{"https://a.example"}, nil
}

func (a *scriptedAnalyzer) AnalyzeInsights(context.Context, string, *media.Part, analysis.ProductProfile, string) (analysis.AnalysisInsights, []string, error) {
	if a.insightsErr != nil {
		return analysis.AnalysisInsights{}, nil, a.insightsErr
	}
	return analysis.AnalysisInsights{
		Competitors: []analysis.Competitor{{Name: "Rival", Price: "$2.00"}},
	}, []string{"https://b.example"}, nil
}

func newTestServer(t *testing.T, analyzer analysis.Analyzer) (*httptest.Server, *Handler) {
	t.Helper()
	h := NewHandler(analyzer, store.New(filepath.Join(t.TempDir(), "reports.json")), nil)
	ts := httptest.NewServer(NewMux(h, 0, 0))
	t.Cleanup(ts.Close)
	return ts, h
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeSnapshot(t *testing.T, resp *http.Response) analysis.Snapshot {
	t.Helper()
	defer resp.Body.Close()
	var snap analysis.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	return snap
}

func waitForState(t *testing.T, url string, want analysis.State) analysis.Snapshot {
	t.Helper()
	var snap analysis.Snapshot
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		snap = decodeSnapshot(t, resp)
		return snap.State == want
	}, 2*time.Second, 10*time.Millisecond)
	return snap
}

func TestCreate_RunsToComplete(t *testing.T) {
	ts, h := newTestServer(t, &scriptedAnalyzer{})

	resp := postJSON(t, ts.URL+"/v1/analyses", `{"text":"Choco Bar 50g","language":"English"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	created := decodeSnapshot(t, resp)
	require.NotEmpty(t, created.ID)

	snap := waitForState(t, ts.URL+"/v1/analyses/"+created.ID, analysis.StateComplete)
	require.Equal(t, "Choco Bar", snap.Profile.Name)
	require.Len(t, snap.Insights.Competitors, 1)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, snap.Sources)

	// Completed runs are persisted as reports.
	require.Eventually(t, func() bool {
		_, ok := h.reports.Get(created.ID)
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCreate_EmptyInputRejected(t *testing.T) {
	ts, _ := newTestServer(t, &scriptedAnalyzer{})

	resp := postJSON(t, ts.URL+"/v1/analyses", `{"language":"English"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCreate_Unconfigured(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/v1/analyses", `{"text":"x"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "configuration_error", body.Error)
}

func TestConfigEndpointReportsBannerState(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/v1/config")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.False(t, body["configured"])
}

func TestStageFailureSurfacesErroredState(t *testing.T) {
	ts, _ := newTestServer(t, &scriptedAnalyzer{
		insightsErr: &analysis.AnalysisError{Stage: analysis.StageInsights, Err: errors.New("quota")},
	})

	resp := postJSON(t, ts.URL+"/v1/analyses", `{"text":"x"}`)
	created := decodeSnapshot(t, resp)

	snap := waitForState(t, ts.URL+"/v1/analyses/"+created.ID, analysis.StateErrored)
	require.NotNil(t, snap.Error)
	require.Equal(t, "insights", snap.Error.Stage)
	// Stage-1 results survive the stage-2 failure.
	require.NotNil(t, snap.Profile)
	require.Equal(t, []string{"https://a.example"}, snap.Sources)
}

func TestResetReturnsToIdle(t *testing.T) {
	ts, _ := newTestServer(t, &scriptedAnalyzer{})

	resp := postJSON(t, ts.URL+"/v1/analyses", `{"text":"x"}`)
	created := decodeSnapshot(t, resp)
	waitForState(t, ts.URL+"/v1/analyses/"+created.ID, analysis.StateComplete)

	resp = postJSON(t, ts.URL+"/v1/analyses/"+created.ID+"/reset", `{}`)
	snap := decodeSnapshot(t, resp)
	require.Equal(t, analysis.StateIdle, snap.State)
	require.Nil(t, snap.Profile)
}

func TestExportAttachment(t *testing.T) {
	ts, _ := newTestServer(t, &scriptedAnalyzer{})

	resp := postJSON(t, ts.URL+"/v1/analyses", `{"text":"x"}`)
	created := decodeSnapshot(t, resp)
	waitForState(t, ts.URL+"/v1/analyses/"+created.ID, analysis.StateComplete)

	resp, err := http.Get(ts.URL + "/v1/analyses/" + created.ID + "/export")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Contains(t, resp.Header.Get("Content-Disposition"), analysis.DataExportFilename)

	var record analysis.MergedRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&record))
	require.Equal(t, "Choco Bar", record.Profile.Name)
}

func TestUnknownSessionIs404(t *testing.T) {
	ts, _ := newTestServer(t, &scriptedAnalyzer{})

	resp, err := http.Get(ts.URL + "/v1/analyses/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
