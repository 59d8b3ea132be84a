package compute

import (
	"context"
	"sync"

	"github.com/oracle/oci-go-sdk/v65/core"
)

// MockClient is a scriptable Client for tests. Responses are consumed in
// order; once exhausted the last one repeats.
type MockClient struct {
	mu        sync.Mutex
	responses []MockResponse
	requests  []core.LaunchInstanceRequest
}

// MockResponse is one scripted answer.
type MockResponse struct {
	Response core.LaunchInstanceResponse
	Err      error
}

// NewMockClient returns a client replaying the given responses.
func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{responses: responses}
}

// LaunchInstance records the request and replays the next scripted response.
func (m *MockClient) LaunchInstance(_ context.Context, request core.LaunchInstanceRequest) (core.LaunchInstanceResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, request)
	if len(m.responses) == 0 {
		return core.LaunchInstanceResponse{}, nil
	}
	idx := len(m.requests) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	r := m.responses[idx]
	return r.Response, r.Err
}

// Requests returns a copy of every request seen so far.
func (m *MockClient) Requests() []core.LaunchInstanceRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.LaunchInstanceRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
