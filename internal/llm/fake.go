package llm

import (
	"context"
	"sync"
)

// FakeClient returns scripted responses in order, for offline use and tests.
type FakeClient struct {
	mu        sync.Mutex
	responses []Response
	errs      []error
	Requests  []Request
}

// NewFakeClient scripts one entry per expected call. A nil error slice means
// every call succeeds.
func NewFakeClient(responses []Response, errs []error) *FakeClient {
	return &FakeClient{responses: responses, errs: errs}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Generate(_ context.Context, req Request) (Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.Requests)
	f.Requests = append(f.Requests, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return Response{}, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return Response{}, ErrEmptyResponse
}

// Calls reports how many Generate calls were made.
func (f *FakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}
