package analysis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReportFilename(t *testing.T) {
	ts := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)
	require.Equal(t, "SweetTech_Report_2026-08-29.pdf", ReportFilename(ts))
}

func TestExportJSON_RoundTrip(t *testing.T) {
	snap := Snapshot{
		ID:    "s1",
		State: StateComplete,
		Profile: &ProductProfile{
			Name:        "Choco Bar",
			Brand:       "SweetCo",
			Price:       "12.50 USD",
			Ingredients: []string{"sugar", "cocoa mass"},
			Additives:   []Additive{{Code: "E322", Name: "Lecithin", Function: "emulsifier"}},
		},
		Insights: &AnalysisInsights{
			Competitors: []Competitor{{Name: "Rival", Price: "$2.00", Sensory: map[string]string{"snap": "crisp"}}},
			SWOT:        &SWOT{Strengths: []string{"brand recall"}},
		},
		Sources: []string{"https://a.example", "https://b.example"},
	}

	out, err := ExportJSON(snap)
	require.NoError(t, err)

	var back MergedRecord
	require.NoError(t, json.Unmarshal(out, &back))
	require.Equal(t, Merged(snap), back)
}

func TestExportJSON_DoesNotEscapeHTML(t *testing.T) {
	snap := Snapshot{
		Profile: &ProductProfile{LabelIngredients: "sugar & cocoa <70%>"},
		Sources: []string{"https://a.example/?q=1&r=2"},
	}
	out, err := ExportJSON(snap)
	require.NoError(t, err)
	require.Contains(t, string(out), "sugar & cocoa <70%>")
	require.Contains(t, string(out), "q=1&r=2")
}
