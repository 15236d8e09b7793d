// Package service holds the application services that sit between the HTTP
// control plane and the operation processor.
//
// OperationService is the facade handlers call: it admits operations, answers
// status queries from the live processor or the result history, and reports
// statistics including the AI cache hit rate. ResultRecorder listens for
// terminal results on the event bus and writes them to a store.ResultStore.
package service
