package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned before any network attempt when the
	// model-service credential is missing.
	ErrNotConfigured = errors.New("analysis: model API key is not configured")

	// ErrEmptyInput is returned when a session is started with neither
	// text nor media.
	ErrEmptyInput = errors.New("analysis: input requires text or media")

	// ErrBusy is returned when a start is attempted while a pipeline is
	// already in flight for the session.
	ErrBusy = errors.New("analysis: a run is already in progress")
)

// Stage identifies which pipeline stage an AnalysisError belongs to.
type Stage string

const (
	StageProfile  Stage = "profile"
	StageInsights Stage = "insights"
)

// AnalysisError wraps a network, parse, or schema-shape failure during one
// stage. There is no automatic retry: the external call is costly and its
// grounding results are not idempotent, so failures surface immediately and
// the user re-invokes manually.
type AnalysisError struct {
	Stage Stage
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis: %s stage failed: %v", e.Stage, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
