// Package task schedules AI operations in the background.
//
// A Processor accepts operations into a bounded queue ordered by priority and
// runs them through an ai.Service with a global cap on concurrency. Every
// operation that leaves the queue produces exactly one Result on the result
// stream; intermediate progress is published on a separate stream. Operations
// that exceed the configured timeout end in StateTimedOut, which consumers can
// tell apart from StateFailed.
package task
