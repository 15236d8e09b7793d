// Package mocks provides hand-written mock implementations of the
// application's interfaces for use in tests.
//
// Every mock follows the same shape: a ...Fn field per method that, when set,
// takes over the call, and default return values used otherwise.
//
//	svc := &mocks.MockAIService{
//	    SummarizeFn: func(ctx context.Context, content string, maxLength int) (string, error) {
//	        return "short", nil
//	    },
//	}
//
// To add a mock, create a file named after the interface and assert the mock
// satisfies it with a blank-identifier var declaration.
package mocks
