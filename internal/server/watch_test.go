package server

import (
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"sweettech/internal/analysis"
)

func TestWatch_StreamsUntilComplete(t *testing.T) {
	ts, _ := newTestServer(t, &scriptedAnalyzer{})

	resp := postJSON(t, ts.URL+"/v1/analyses", `{"text":"Choco Bar 50g"}`)
	created := decodeSnapshot(t, resp)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/analyses/" + created.ID + "/watch"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	var last analysis.Snapshot
	for time.Now().Before(deadline) {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		var snap analysis.Snapshot
		if err := conn.ReadJSON(&snap); err != nil {
			t.Fatalf("read snapshot: %v", err)
		}
		last = snap
		if snap.State == analysis.StateComplete {
			break
		}
	}
	require.Equal(t, analysis.StateComplete, last.State)
	require.Equal(t, "Choco Bar", last.Profile.Name)
}
