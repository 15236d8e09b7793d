package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/inbox-ai/internal/ai"
)

// MockAIService implements ai.Service for testing.
//
// Each method delegates to its ...Fn field when set, otherwise it returns the
// matching default value together with Err.
type MockAIService struct {
	SummarizeFn             func(ctx context.Context, content string, maxLength int) (string, error)
	SuggestRepliesFn        func(ctx context.Context, content, userContext string) ([]string, error)
	CategorizeFn            func(ctx context.Context, content string) (ai.Category, error)
	ParseSchedulingIntentFn func(ctx context.Context, text string) (*ai.SchedulingIntent, error)
	CompleteTextFn          func(ctx context.Context, prompt string, opts *ai.CompletionContext) (string, error)

	// Default response values
	Summary  string
	Replies  []string
	Category ai.Category
	Intent   *ai.SchedulingIntent
	Text     string
	Err      error

	// mu protects Calls
	mu sync.Mutex

	// Calls records the method names in call order
	Calls []string
}

var _ ai.Service = (*MockAIService)(nil)

func (m *MockAIService) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, method)
}

// CallCount returns how many times method was called.
func (m *MockAIService) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == method {
			n++
		}
	}
	return n
}

// Summarize implements ai.Service
func (m *MockAIService) Summarize(ctx context.Context, content string, maxLength int) (string, error) {
	m.record("Summarize")
	if m.SummarizeFn != nil {
		return m.SummarizeFn(ctx, content, maxLength)
	}
	return m.Summary, m.Err
}

// SuggestReplies implements ai.Service
func (m *MockAIService) SuggestReplies(ctx context.Context, content, userContext string) ([]string, error) {
	m.record("SuggestReplies")
	if m.SuggestRepliesFn != nil {
		return m.SuggestRepliesFn(ctx, content, userContext)
	}
	return m.Replies, m.Err
}

// Categorize implements ai.Service
func (m *MockAIService) Categorize(ctx context.Context, content string) (ai.Category, error) {
	m.record("Categorize")
	if m.CategorizeFn != nil {
		return m.CategorizeFn(ctx, content)
	}
	return m.Category, m.Err
}

// ParseSchedulingIntent implements ai.Service
func (m *MockAIService) ParseSchedulingIntent(ctx context.Context, text string) (*ai.SchedulingIntent, error) {
	m.record("ParseSchedulingIntent")
	if m.ParseSchedulingIntentFn != nil {
		return m.ParseSchedulingIntentFn(ctx, text)
	}
	return m.Intent, m.Err
}

// CompleteText implements ai.Service
func (m *MockAIService) CompleteText(ctx context.Context, prompt string, opts *ai.CompletionContext) (string, error) {
	m.record("CompleteText")
	if m.CompleteTextFn != nil {
		return m.CompleteTextFn(ctx, prompt, opts)
	}
	return m.Text, m.Err
}

// NewMockAIServiceWithError creates a MockAIService whose every call fails with err
func NewMockAIServiceWithError(err error) *MockAIService {
	return &MockAIService{Err: err}
}

// NewBlockingMockAIService creates a MockAIService whose calls block until ctx
// is done, simulating a provider that never answers.
func NewBlockingMockAIService() *MockAIService {
	block := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	return &MockAIService{
		SummarizeFn: func(ctx context.Context, _ string, _ int) (string, error) {
			return "", block(ctx)
		},
		SuggestRepliesFn: func(ctx context.Context, _, _ string) ([]string, error) {
			return nil, block(ctx)
		},
		CategorizeFn: func(ctx context.Context, _ string) (ai.Category, error) {
			return "", block(ctx)
		},
		ParseSchedulingIntentFn: func(ctx context.Context, _ string) (*ai.SchedulingIntent, error) {
			return nil, block(ctx)
		},
		CompleteTextFn: func(ctx context.Context, _ string, _ *ai.CompletionContext) (string, error) {
			return "", block(ctx)
		},
	}
}
