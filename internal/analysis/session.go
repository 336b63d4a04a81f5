package analysis

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"sweettech/internal/media"
)

// State is the session lifecycle position. Stage 2 starts automatically on
// stage-1 success; there is no separate user action between the two.
type State string

const (
	StateIdle            State = "idle"
	StateProfileLoading  State = "profile_loading"
	StateInsightsLoading State = "insights_loading"
	StateComplete        State = "complete"
	StateErrored         State = "errored"
)

// Input is one user-initiated analysis request.
type Input struct {
	Text     string      `json:"text"`
	Media    *media.Part `json:"media,omitempty"`
	Language string      `json:"language"`
}

// IsEmpty reports whether the input carries neither text nor media.
func (in Input) IsEmpty() bool {
	return in.Text == "" && (in.Media == nil || in.Media.IsZero())
}

// SessionError is the surfaced form of a pipeline failure.
type SessionError struct {
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message"`
}

// Snapshot is a read-only copy of session state for the presentation layer.
type Snapshot struct {
	ID        string            `json:"id"`
	State     State             `json:"state"`
	Language  string            `json:"language,omitempty"`
	Profile   *ProductProfile   `json:"profile,omitempty"`
	Insights  *AnalysisInsights `json:"insights,omitempty"`
	Sources   []string          `json:"sources"`
	Error     *SessionError     `json:"error,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Analyzer is the slice of the analysis client the session drives.
// *Client satisfies it; tests substitute fakes.
type Analyzer interface {
	AnalyzeProfile(ctx context.Context, text string, part *media.Part, language string) (ProductProfile, []string, error)
	AnalyzeInsights(ctx context.Context, text string, part *media.Part, profile ProductProfile, language string) (AnalysisInsights, []string, error)
}

// Session owns the state of one analysis attempt. All mutation goes through
// its methods; presentation code only ever sees snapshots.
type Session struct {
	id string

	mu        sync.Mutex
	state     State
	input     Input
	profile   *ProductProfile
	insights  *AnalysisInsights
	err       *SessionError
	sources   map[string]struct{}
	updatedAt time.Time

	subs    map[int]chan Snapshot
	nextSub int
}

func NewSession(id string) *Session {
	return &Session{
		id:      id,
		state:   StateIdle,
		sources: make(map[string]struct{}),
		subs:    make(map[int]chan Snapshot),
	}
}

func (s *Session) ID() string { return s.id }

// Snapshot returns a copy of the current state with sources sorted for
// stable output.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	sources := make([]string, 0, len(s.sources))
	for u := range s.sources {
		sources = append(sources, u)
	}
	sort.Strings(sources)
	return Snapshot{
		ID:        s.id,
		State:     s.state,
		Language:  s.input.Language,
		Profile:   s.profile,
		Insights:  s.insights,
		Sources:   sources,
		Error:     s.err,
		UpdatedAt: s.updatedAt,
	}
}

// Reset is valid from any state and returns the session to idle with all
// fields cleared.
func (s *Session) Reset() {
	s.mu.Lock()
	s.state = StateIdle
	s.input = Input{}
	s.profile = nil
	s.insights = nil
	s.err = nil
	s.sources = make(map[string]struct{})
	s.updatedAt = time.Now().UTC()
	s.notifyLocked()
	s.mu.Unlock()
}

// Subscribe registers a snapshot listener. The current snapshot is delivered
// first; slow consumers miss intermediate updates rather than blocking the
// pipeline. The returned cancel must be called when done.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Snapshot, 16)
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.snapshotLocked()
	return ch, func() {
		s.mu.Lock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
		s.mu.Unlock()
	}
}

func (s *Session) notifyLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Start runs the full two-stage pipeline. Valid only from idle, complete, or
// errored (the latter two are an implicit reset). Empty input is rejected
// before any state change or network call. A stage-1 failure stops the
// sequence before stage 2 is ever attempted; a stage-2 failure keeps the
// already-obtained profile and sources visible.
func (s *Session) Start(ctx context.Context, an Analyzer, in Input) error {
	if in.IsEmpty() {
		return ErrEmptyInput
	}

	s.mu.Lock()
	switch s.state {
	case StateProfileLoading, StateInsightsLoading:
		s.mu.Unlock()
		return ErrBusy
	}
	s.input = in
	s.profile = nil
	s.insights = nil
	s.err = nil
	s.sources = make(map[string]struct{})
	s.state = StateProfileLoading
	s.updatedAt = time.Now().UTC()
	s.notifyLocked()
	s.mu.Unlock()

	profile, sources, err := an.AnalyzeProfile(ctx, in.Text, in.Media, in.Language)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.profile = &profile
	s.mergeSourcesLocked(sources)
	s.state = StateInsightsLoading
	s.updatedAt = time.Now().UTC()
	s.notifyLocked()
	s.mu.Unlock()

	insights, sources, err := an.AnalyzeInsights(ctx, in.Text, in.Media, profile, in.Language)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.insights = &insights
	s.mergeSourcesLocked(sources)
	s.state = StateComplete
	s.updatedAt = time.Now().UTC()
	s.notifyLocked()
	s.mu.Unlock()
	return nil
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	s.state = StateErrored
	s.err = toSessionError(err)
	s.updatedAt = time.Now().UTC()
	s.notifyLocked()
	s.mu.Unlock()
}

func (s *Session) mergeSourcesLocked(urls []string) {
	for _, u := range urls {
		if u != "" {
			s.sources[u] = struct{}{}
		}
	}
}

func toSessionError(err error) *SessionError {
	var analysisErr *AnalysisError
	if errors.As(err, &analysisErr) {
		return &SessionError{Stage: string(analysisErr.Stage), Message: analysisErr.Err.Error()}
	}
	return &SessionError{Message: err.Error()}
}
