package llm

import "context"

// MockClient doubles as the "mock" provider for offline runs and as a test
// double: set CompleteFunc to control responses per call.
type MockClient struct {
	ProviderName string
	CompleteFunc func(ctx context.Context, req Request) (*Response, error)
}

func (m *MockClient) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

func (m *MockClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return &Response{Content: "Ok sir, I am trying. Please tell me again what I should do.", Model: "mock"}, nil
}
